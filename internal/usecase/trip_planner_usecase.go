package usecase

import (
	"TripGenie-App/internal/domain/gate"
	"TripGenie-App/internal/domain/helper"
	"TripGenie-App/internal/domain/model"
	"TripGenie-App/internal/domain/projection"
	"TripGenie-App/internal/domain/repository"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// SessionRepository はセッションの保存先
type SessionRepository interface {
	Save(session *TripSession)
	Get(id string) (*TripSession, bool)
	Delete(id string)
	Len() int
}

// GateDurations は機能ごとのゲート待ち時間
type GateDurations struct {
	Continuation time.Duration
	Export       time.Duration
	DetailUnlock time.Duration
}

func (d GateDurations) durationFor(feature gate.Feature) time.Duration {
	switch feature {
	case gate.FeatureContinuation:
		return d.Continuation
	case gate.FeatureExport:
		return d.Export
	case gate.FeatureDetailUnlock:
		return d.DetailUnlock
	}
	return 0
}

// PlanSnapshot は現在のドキュメントとリビジョン
type PlanSnapshot struct {
	SessionID string             `json:"session_id"`
	Revision  int64              `json:"revision"`
	Mutation  ControllerSnapshot `json:"mutation"`
	Plan      *model.TripPlan    `json:"plan"`
}

// GateReward はゲート解除後に受け取れる内容
type GateReward struct {
	Gate              gate.Snapshot   `json:"gate"`
	Plan              *model.TripPlan `json:"-"`
	FlightDelayBackup string          `json:"flight_delay_backup,omitempty"`
	Status            *SessionStatus  `json:"status,omitempty"`
}

// FlightLink はフライト検索リンク
type FlightLink struct {
	URL         string `json:"url"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	HasDates    bool   `json:"has_dates"`
}

// ItineraryQuery は一覧画面のUI状態（フライト遅延の解除状態はセッションから導出する）
type ItineraryQuery struct {
	SelectedDay     *int
	HeaderCollapsed bool
}

type TripPlannerUseCase interface {
	// StartTrip は旅行条件を受け取り、生成待ちフェーズのセッションを作成してバックグラウンドで初回生成を開始する
	StartTrip(ctx context.Context, prefs *model.UserPreferences) (*SessionStatus, error)
	// GetStatus はセッションの状態を取得する
	GetStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
	// Continue は生成待ち画面からダッシュボードへ進む
	Continue(ctx context.Context, sessionID string) (*SessionStatus, error)
	// EndTrip はセッションを破棄する（新しい旅行を始める）
	EndTrip(ctx context.Context, sessionID string) error

	// CurrentPlan は現在のドキュメントを取得する
	CurrentPlan(ctx context.Context, sessionID string) (*PlanSnapshot, error)
	// Mutate は変更指示を送信する
	Mutate(ctx context.Context, sessionID, instruction string) (*PlanSnapshot, error)

	Itinerary(ctx context.Context, sessionID string, query ItineraryQuery) (projection.ItineraryView, error)
	Map(ctx context.Context, sessionID string, state projection.MapState) (projection.MapView, error)
	Detail(ctx context.Context, sessionID string, dayNumber, number int) (projection.DetailView, error)
	// Compare は比較用ツアーを取得（未生成なら生成）して比較画面を返す
	Compare(ctx context.Context, sessionID string) (projection.ComparisonView, error)

	OpenGate(ctx context.Context, sessionID string, feature gate.Feature) (gate.Snapshot, error)
	GateStatus(ctx context.Context, sessionID, gateID string) (gate.Snapshot, error)
	CompleteGate(ctx context.Context, sessionID, gateID string) (gate.Snapshot, error)
	ClaimGate(ctx context.Context, sessionID, gateID string) (*GateReward, error)

	FlightLink(ctx context.Context, sessionID string) (*FlightLink, error)
	Subscribe(ctx context.Context, sessionID string) (<-chan PlanEvent, func(), error)
}

// tripPlannerUseCaseImpl はTripPlannerUseCaseの実装
type tripPlannerUseCaseImpl struct {
	planRepo    repository.PlanGenerationRepository
	sessionRepo SessionRepository
	clock       gate.Clock
	durations   GateDurations
}

// NewTripPlannerUseCase は新しいTripPlannerUseCaseインスタンスを作成
func NewTripPlannerUseCase(
	planRepo repository.PlanGenerationRepository,
	sessionRepo SessionRepository,
	clock gate.Clock,
	durations GateDurations,
) TripPlannerUseCase {
	if clock == nil {
		clock = gate.SystemClock()
	}
	return &tripPlannerUseCaseImpl{
		planRepo:    planRepo,
		sessionRepo: sessionRepo,
		clock:       clock,
		durations:   durations,
	}
}

// StartTrip は旅行条件を受け取り、生成待ちフェーズのセッションを作成する
func (u *tripPlannerUseCaseImpl) StartTrip(ctx context.Context, prefs *model.UserPreferences) (*SessionStatus, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	log.Printf("🚀 旅行計画開始 (目的地: %s, 期間: %s, 言語: %s)", prefs.Destination, prefs.Duration, prefs.Language)

	id := uuid.New().String()
	continuation := u.newGate(id, gate.FeatureContinuation, nil)
	session := NewTripSession(id, prefs, continuation, u.clock.Now())
	continuation.OnUnlock(u.gateUnlockedNotifier(session, continuation.ID()))
	if err := continuation.Start(); err != nil {
		return nil, fmt.Errorf("ゲートの開始に失敗: %w", err)
	}
	u.sessionRepo.Save(session)

	// リクエストの終了とは無関係に生成を続ける
	genCtx := context.WithoutCancel(ctx)
	frozen := session.Preferences()
	go func() {
		plan, err := u.planRepo.GeneratePlan(genCtx, frozen)
		session.finishGeneration(plan, err)
	}()

	return session.Status(), nil
}

// GetStatus はセッションの状態を取得する
func (u *tripPlannerUseCaseImpl) GetStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	session, err := u.session(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Status(), nil
}

// Continue は生成待ち画面からダッシュボードへ進む
// 継続ゲートが解除済みで、かつ初回生成が完了している場合のみ成功する
func (u *tripPlannerUseCaseImpl) Continue(ctx context.Context, sessionID string) (*SessionStatus, error) {
	session, err := u.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := u.continueSession(session); err != nil {
		return nil, err
	}
	return session.Status(), nil
}

func (u *tripPlannerUseCaseImpl) continueSession(session *TripSession) error {
	session.mu.Lock()
	defer session.mu.Unlock()

	switch {
	case session.closed:
		return model.ErrSessionClosed
	case session.phase == PhaseDashboard:
		return nil
	case session.phase == PhaseLanding:
		return fmt.Errorf("%w: %v", model.ErrPlanNotReady, session.genErr)
	case session.initial == nil:
		return model.ErrPlanNotReady
	}

	// 計画が揃ってからゲートを消費する（Claimは一度しか成功しない）
	if session.continuation.State() != gate.StateUnlocked {
		return gate.ErrLocked
	}
	if err := session.continuation.Claim(); err != nil {
		return err
	}

	session.controller = NewPlanSessionController(session.id, u.planRepo, session.initial, session.events)
	session.initial = nil
	session.phase = PhaseDashboard
	log.Printf("✅ ダッシュボードへ移動 (session: %s)", session.id)
	return nil
}

// EndTrip はセッションを破棄する
func (u *tripPlannerUseCaseImpl) EndTrip(ctx context.Context, sessionID string) error {
	session, err := u.session(sessionID)
	if err != nil {
		return err
	}
	u.sessionRepo.Delete(sessionID)
	session.Close()
	return nil
}

// CurrentPlan は現在のドキュメントを取得する
func (u *tripPlannerUseCaseImpl) CurrentPlan(ctx context.Context, sessionID string) (*PlanSnapshot, error) {
	_, controller, err := u.dashboard(sessionID)
	if err != nil {
		return nil, err
	}
	plan, revision := controller.Current()
	return &PlanSnapshot{
		SessionID: sessionID,
		Revision:  revision,
		Mutation:  controller.Snapshot(),
		Plan:      plan,
	}, nil
}

// Mutate は変更指示を送信し、更新後のドキュメントを返す
func (u *tripPlannerUseCaseImpl) Mutate(ctx context.Context, sessionID, instruction string) (*PlanSnapshot, error) {
	_, controller, err := u.dashboard(sessionID)
	if err != nil {
		return nil, err
	}
	plan, revision, err := controller.Submit(ctx, instruction)
	if err != nil {
		return nil, err
	}
	return &PlanSnapshot{
		SessionID: sessionID,
		Revision:  revision,
		Mutation:  controller.Snapshot(),
		Plan:      plan,
	}, nil
}

// Itinerary は一覧画面を返す
func (u *tripPlannerUseCaseImpl) Itinerary(ctx context.Context, sessionID string, query ItineraryQuery) (projection.ItineraryView, error) {
	session, controller, err := u.dashboard(sessionID)
	if err != nil {
		return projection.ItineraryView{}, err
	}
	session.mu.Lock()
	unlocked := session.flightBackupUnlocked
	session.mu.Unlock()

	plan, _ := controller.Current()
	return projection.ProjectItinerary(plan, projection.ListState{
		SelectedDay:          query.SelectedDay,
		HeaderCollapsed:      query.HeaderCollapsed,
		FlightBackupUnlocked: unlocked,
	}), nil
}

// Map は地図画面を返す
func (u *tripPlannerUseCaseImpl) Map(ctx context.Context, sessionID string, state projection.MapState) (projection.MapView, error) {
	_, controller, err := u.dashboard(sessionID)
	if err != nil {
		return projection.MapView{}, err
	}
	plan, _ := controller.Current()
	return projection.ProjectMap(plan, state), nil
}

// Detail はアクティビティの詳細を返す
func (u *tripPlannerUseCaseImpl) Detail(ctx context.Context, sessionID string, dayNumber, number int) (projection.DetailView, error) {
	_, controller, err := u.dashboard(sessionID)
	if err != nil {
		return projection.DetailView{}, err
	}
	plan, _ := controller.Current()
	return projection.ProjectDetail(plan, dayNumber, number)
}

// Compare は比較用ツアーを取得して比較画面を返す
// 比較用ツアーの生成失敗は比較列のエラーとして返し、現在のプランには影響しない
func (u *tripPlannerUseCaseImpl) Compare(ctx context.Context, sessionID string) (projection.ComparisonView, error) {
	session, controller, err := u.dashboard(sessionID)
	if err != nil {
		return projection.ComparisonView{}, err
	}

	session.mu.Lock()
	baseline := session.baseline
	session.mu.Unlock()

	if baseline == nil {
		log.Printf("🤖 比較用ツアーを生成中 (session: %s)", sessionID)
		generated, genErr := u.planRepo.GenerateStandardTour(ctx, session.Preferences())

		session.mu.Lock()
		switch {
		case session.closed:
			session.mu.Unlock()
			return projection.ComparisonView{}, model.ErrSessionClosed
		case genErr != nil:
			session.baselineErr = genErr
			session.mu.Unlock()
			log.Printf("❌ 比較用ツアーの生成に失敗 (session: %s): %v", sessionID, genErr)
			current, _ := controller.Current()
			return projection.ProjectComparison(current, nil, genErr), nil
		}
		if session.baseline == nil {
			session.baseline = generated
		}
		session.baselineErr = nil
		baseline = session.baseline
		session.mu.Unlock()
		log.Printf("✅ 比較用ツアーの生成完了 (session: %s)", sessionID)
	}

	current, _ := controller.Current()
	return projection.ProjectComparison(current, baseline, nil), nil
}

// OpenGate は機能ごとの新しいゲートを作成してカウントダウンを開始する
func (u *tripPlannerUseCaseImpl) OpenGate(ctx context.Context, sessionID string, feature gate.Feature) (gate.Snapshot, error) {
	if feature != gate.FeatureExport && feature != gate.FeatureDetailUnlock {
		return gate.Snapshot{}, fmt.Errorf("%w: %q", ErrUnsupportedFeature, feature)
	}
	session, _, err := u.dashboard(sessionID)
	if err != nil {
		return gate.Snapshot{}, err
	}

	g := u.newGate(sessionID, feature, session)
	session.mu.Lock()
	if session.closed {
		session.mu.Unlock()
		g.Close()
		return gate.Snapshot{}, model.ErrSessionClosed
	}
	if len(session.gates) >= MaxSessionGates {
		session.pruneFinishedGatesLocked()
	}
	if len(session.gates) >= MaxSessionGates {
		session.mu.Unlock()
		g.Close()
		log.Printf("⚠️ ゲート数が上限に達しました (session: %s, max: %d)", sessionID, MaxSessionGates)
		return gate.Snapshot{}, ErrTooManyGates
	}
	session.gates[g.ID()] = g
	session.mu.Unlock()

	if err := g.Start(); err != nil {
		return gate.Snapshot{}, err
	}
	log.Printf("⏳ ゲート開始 (session: %s, feature: %s, gate: %s)", sessionID, feature, g.ID())
	return g.Snapshot(), nil
}

// GateStatus はゲートの状態を返す
func (u *tripPlannerUseCaseImpl) GateStatus(ctx context.Context, sessionID, gateID string) (gate.Snapshot, error) {
	_, g, err := u.gate(sessionID, gateID)
	if err != nil {
		return gate.Snapshot{}, err
	}
	return g.Snapshot(), nil
}

// CompleteGate は動画再生終了などの完了シグナルを受け取る
func (u *tripPlannerUseCaseImpl) CompleteGate(ctx context.Context, sessionID, gateID string) (gate.Snapshot, error) {
	_, g, err := u.gate(sessionID, gateID)
	if err != nil {
		return gate.Snapshot{}, err
	}
	if err := g.Complete(); err != nil {
		return gate.Snapshot{}, err
	}
	return g.Snapshot(), nil
}

// ClaimGate は解除済みゲートの報酬を受け取る
func (u *tripPlannerUseCaseImpl) ClaimGate(ctx context.Context, sessionID, gateID string) (*GateReward, error) {
	session, g, err := u.gate(sessionID, gateID)
	if err != nil {
		return nil, err
	}

	if g.Feature() == gate.FeatureContinuation {
		if err := u.continueSession(session); err != nil {
			return nil, err
		}
		return &GateReward{Gate: g.Snapshot(), Status: session.Status()}, nil
	}

	// 報酬の元になるプランを先に確認し、ゲートを無駄に消費しない
	_, controller, err := u.dashboard(sessionID)
	if err != nil {
		return nil, err
	}
	if err := g.Claim(); err != nil {
		return nil, err
	}
	plan, _ := controller.Current()
	reward := &GateReward{Gate: g.Snapshot()}

	switch g.Feature() {
	case gate.FeatureExport:
		reward.Plan = plan
	case gate.FeatureDetailUnlock:
		session.mu.Lock()
		session.flightBackupUnlocked = true
		session.mu.Unlock()
		reward.FlightDelayBackup = plan.FlightDelayBackup
		if reward.FlightDelayBackup == "" {
			reward.FlightDelayBackup = model.DefaultFlightDelayBackup
		}
	}
	log.Printf("🎁 ゲート報酬を付与 (session: %s, feature: %s)", sessionID, g.Feature())
	return reward, nil
}

// FlightLink は出発地・目的地・期間からフライト検索リンクを作成する
func (u *tripPlannerUseCaseImpl) FlightLink(ctx context.Context, sessionID string) (*FlightLink, error) {
	session, err := u.session(sessionID)
	if err != nil {
		return nil, err
	}
	prefs := session.Preferences()
	now := u.clock.Now()
	_, hasDates := helper.ParseTravelDates(prefs.Duration, now)
	return &FlightLink{
		URL:         helper.FlightSearchURL(prefs, now),
		Origin:      helper.SanitizeCity(prefs.DepartFrom),
		Destination: helper.SanitizeCity(prefs.Destination),
		HasDates:    hasDates,
	}, nil
}

// Subscribe はセッションのイベント購読を開始する
func (u *tripPlannerUseCaseImpl) Subscribe(ctx context.Context, sessionID string) (<-chan PlanEvent, func(), error) {
	session, err := u.session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.Events().Subscribe()
	return ch, cancel, nil
}

func (u *tripPlannerUseCaseImpl) session(sessionID string) (*TripSession, error) {
	session, ok := u.sessionRepo.Get(sessionID)
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	if session.Closed() {
		return nil, model.ErrSessionClosed
	}
	return session, nil
}

// dashboard はダッシュボードフェーズのセッションとコントローラーを取得する
func (u *tripPlannerUseCaseImpl) dashboard(sessionID string) (*TripSession, *PlanSessionController, error) {
	session, err := u.session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.phase != PhaseDashboard || session.controller == nil {
		return nil, nil, model.ErrPlanNotReady
	}
	return session, session.controller, nil
}

func (u *tripPlannerUseCaseImpl) gate(sessionID, gateID string) (*TripSession, *gate.Gate, error) {
	session, err := u.session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	session.mu.Lock()
	g, ok := session.gates[gateID]
	session.mu.Unlock()
	if !ok {
		return nil, nil, ErrGateNotFound
	}
	return session, g, nil
}

func (u *tripPlannerUseCaseImpl) newGate(sessionID string, feature gate.Feature, session *TripSession) *gate.Gate {
	g := gate.New(feature, u.durations.durationFor(feature), u.clock)
	if session != nil {
		g.OnUnlock(u.gateUnlockedNotifier(session, g.ID()))
	}
	return g
}

func (u *tripPlannerUseCaseImpl) gateUnlockedNotifier(session *TripSession, gateID string) func() {
	return func() {
		session.Events().Publish(PlanEvent{Type: EventGateUnlocked, SessionID: session.ID(), GateID: gateID})
	}
}

// MaxSessionGates はセッションが同時に保持するゲート数の上限
const MaxSessionGates = 8

var (
	// ErrGateNotFound は指定されたゲートが存在しない
	ErrGateNotFound = errors.New("ゲートが見つかりません")
	// ErrTooManyGates は受け取り前のゲートが上限まで溜まっている
	ErrTooManyGates = errors.New("開始済みのゲートが多すぎます")
	// ErrUnsupportedFeature は利用者が開始できないゲート機能
	ErrUnsupportedFeature = errors.New("指定できない機能です")
)
