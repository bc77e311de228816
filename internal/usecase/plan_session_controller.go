package usecase

import (
	"TripGenie-App/internal/domain/model"
	"TripGenie-App/internal/domain/repository"
	"context"
	"log"
	"strings"
	"sync"
)

// MutationState はコントローラーの状態
type MutationState string

const (
	StateIdle     MutationState = "idle"
	StateMutating MutationState = "mutating"
)

// ControllerSnapshot はコントローラーの状態の読み取り専用ビュー
type ControllerSnapshot struct {
	State              MutationState `json:"state"`
	PendingInstruction string        `json:"pending_instruction,omitempty"`
	Revision           int64         `json:"revision"`
}

// PlanSessionController はセッション中の旅程ドキュメントを所有する唯一の書き込み窓口
//
// 更新は常に1件ずつで、処理中に届いた指示はキューに積まずに拒否する。
// ドキュメントの差し替えはロック内でポインタを入れ替えるだけなので、読み手が更新途中の状態を見ることはない。
type PlanSessionController struct {
	mu        sync.Mutex
	sessionID string
	repo      repository.PlanGenerationRepository
	events    *EventBus

	plan     *model.TripPlan
	revision int64
	state    MutationState
	pending  string
	closed   bool
}

// NewPlanSessionController は初回生成済みのドキュメントからコントローラーを作成する
func NewPlanSessionController(sessionID string, repo repository.PlanGenerationRepository, initial *model.TripPlan, events *EventBus) *PlanSessionController {
	if events == nil {
		events = NewEventBus()
	}
	return &PlanSessionController{
		sessionID: sessionID,
		repo:      repo,
		events:    events,
		plan:      initial.Clone(),
		revision:  1,
		state:     StateIdle,
	}
}

// Submit は変更指示を送信し、成功すれば新しいドキュメントに丸ごと差し替える
// 失敗時は直前のドキュメントをそのまま保持する。どちらの場合もIdleに戻る
func (c *PlanSessionController) Submit(ctx context.Context, instruction string) (*model.TripPlan, int64, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, 0, model.ErrEmptyInstruction
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, 0, model.ErrSessionClosed
	}
	if c.state == StateMutating {
		c.mu.Unlock()
		log.Printf("⚠️ 更新処理中のため指示を拒否 (session: %s)", c.sessionID)
		return nil, 0, model.ErrMutationInFlight
	}
	c.state = StateMutating
	c.pending = instruction
	base := c.plan
	revision := c.revision
	c.mu.Unlock()

	c.events.Publish(PlanEvent{Type: EventMutationStarted, SessionID: c.sessionID, Revision: revision, Instruction: instruction})
	log.Printf("🚀 プラン更新開始 (session: %s, revision: %d)", c.sessionID, revision)

	// 呼び出し元が切断しても処理は最後まで行い、結果を確定させる（タイムアウトはクライアント側で適用）
	updated, err := c.repo.ModifyPlan(context.WithoutCancel(ctx), base, instruction)

	c.mu.Lock()
	c.state = StateIdle
	c.pending = ""
	if c.closed {
		c.mu.Unlock()
		log.Printf("⚠️ セッション終了後の応答を破棄 (session: %s)", c.sessionID)
		return nil, 0, model.ErrSessionClosed
	}
	if err != nil {
		current := c.revision
		c.mu.Unlock()
		log.Printf("❌ プラン更新に失敗、直前のプランを保持 (session: %s): %v", c.sessionID, err)
		c.events.Publish(PlanEvent{Type: EventMutationFailed, SessionID: c.sessionID, Revision: current, Instruction: instruction, Error: err.Error()})
		return nil, current, err
	}
	c.plan = updated
	c.revision++
	newRevision := c.revision
	result := c.plan.Clone()
	c.mu.Unlock()

	log.Printf("✅ プラン更新完了 (session: %s, revision: %d)", c.sessionID, newRevision)
	c.events.Publish(PlanEvent{Type: EventPlanReplaced, SessionID: c.sessionID, Revision: newRevision, Instruction: instruction})
	return result, newRevision, nil
}

// Current は現在のドキュメントのコピーとリビジョンを返す
func (c *PlanSessionController) Current() (*model.TripPlan, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan.Clone(), c.revision
}

// Snapshot は現在の状態を返す
func (c *PlanSessionController) Snapshot() ControllerSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ControllerSnapshot{
		State:              c.state,
		PendingInstruction: c.pending,
		Revision:           c.revision,
	}
}

// Close はコントローラーを破棄する。以降に届いた応答は破棄される
func (c *PlanSessionController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
