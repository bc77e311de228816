package usecase

import (
	"TripGenie-App/internal/domain/gate"
	"TripGenie-App/internal/domain/model"
	"log"
	"sync"
	"time"
)

// Phase は旅行計画セッションの画面フェーズ
type Phase string

const (
	PhaseLanding   Phase = "landing"
	PhaseLoading   Phase = "loading"
	PhaseDashboard Phase = "dashboard"
)

// TripSession は1つの旅行計画セッション（条件入力 → 生成待ち → ダッシュボード）
type TripSession struct {
	mu sync.Mutex

	id        string
	prefs     *model.UserPreferences
	createdAt time.Time
	events    *EventBus

	phase        Phase
	initial      *model.TripPlan
	genErr       error
	controller   *PlanSessionController
	continuation *gate.Gate
	gates        map[string]*gate.Gate

	flightBackupUnlocked bool
	baseline             *model.TripPlan
	baselineErr          error

	closed bool
}

// SessionStatus はセッションの状態
type SessionStatus struct {
	SessionID        string                 `json:"session_id"`
	Phase            Phase                  `json:"phase"`
	PlanReady        bool                   `json:"plan_ready"`
	Error            string                 `json:"error,omitempty"`
	ComparisonError  string                 `json:"comparison_error,omitempty"`
	ContinuationGate *gate.Snapshot         `json:"continuation_gate,omitempty"`
	Mutation         *ControllerSnapshot    `json:"mutation,omitempty"`
	Preferences      *model.UserPreferences `json:"preferences"`
	CreatedAt        time.Time              `json:"created_at"`
}

// NewTripSession は生成待ちフェーズのセッションを作成する
func NewTripSession(id string, prefs *model.UserPreferences, continuation *gate.Gate, now time.Time) *TripSession {
	return &TripSession{
		id:           id,
		prefs:        prefs.Clone(),
		createdAt:    now,
		events:       NewEventBus(),
		phase:        PhaseLoading,
		continuation: continuation,
		gates:        map[string]*gate.Gate{continuation.ID(): continuation},
	}
}

func (s *TripSession) ID() string {
	return s.id
}

// Preferences は送信済みの旅行条件のコピー
func (s *TripSession) Preferences() *model.UserPreferences {
	return s.prefs.Clone()
}

// Events はセッションのイベント配信
func (s *TripSession) Events() *EventBus {
	return s.events
}

// Status は現在の状態を返す
func (s *TripSession) Status() *SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := &SessionStatus{
		SessionID:   s.id,
		Phase:       s.phase,
		PlanReady:   s.initial != nil || s.controller != nil,
		Preferences: s.prefs.Clone(),
		CreatedAt:   s.createdAt,
	}
	if s.genErr != nil {
		status.Error = s.genErr.Error()
	}
	// 比較用ツアーの直近の生成失敗。次の生成が成功するまで残る
	if s.baselineErr != nil {
		status.ComparisonError = s.baselineErr.Error()
	}
	if s.phase == PhaseLoading && s.continuation != nil {
		snap := s.continuation.Snapshot()
		status.ContinuationGate = &snap
	}
	if s.controller != nil {
		snap := s.controller.Snapshot()
		status.Mutation = &snap
	}
	return status
}

// pruneFinishedGatesLocked は受け取り済みのゲートを破棄する。s.muを保持して呼ぶ
func (s *TripSession) pruneFinishedGatesLocked() {
	for id, g := range s.gates {
		if g.Finished() {
			g.Close()
			delete(s.gates, id)
		}
	}
}

// finishGeneration は初回生成の結果を反映する。セッション終了後の結果は破棄する
func (s *TripSession) finishGeneration(plan *model.TripPlan, err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		log.Printf("⚠️ セッション終了後の生成結果を破棄 (session: %s)", s.id)
		return
	}

	if err != nil {
		s.phase = PhaseLanding
		s.genErr = err
		if s.continuation != nil {
			s.continuation.Close()
			delete(s.gates, s.continuation.ID())
			s.continuation = nil
		}
		s.mu.Unlock()
		log.Printf("❌ 初回生成に失敗、入力画面に戻ります (session: %s): %v", s.id, err)
		s.events.Publish(PlanEvent{Type: EventGenerationFailed, SessionID: s.id, Error: err.Error()})
		return
	}

	s.initial = plan
	s.mu.Unlock()
	log.Printf("✅ 初回生成完了 (session: %s, %d日間)", s.id, len(plan.Days))
	s.events.Publish(PlanEvent{Type: EventGenerationCompleted, SessionID: s.id, Revision: 1})
}

// Close はセッションを破棄し、コントローラーとゲートのタイマーを解放する
func (s *TripSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.controller != nil {
		s.controller.Close()
	}
	for _, g := range s.gates {
		g.Close()
	}
	s.mu.Unlock()

	log.Printf("🗑️ セッションを破棄 (session: %s)", s.id)
	s.events.Close(PlanEvent{Type: EventSessionClosed, SessionID: s.id})
}

// Closed は破棄済みかどうか
func (s *TripSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
