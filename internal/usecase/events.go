package usecase

import (
	"sync"
	"time"
)

// PlanEventType はセッションから配信されるイベントの種類
type PlanEventType string

const (
	EventGenerationCompleted PlanEventType = "generation_completed"
	EventGenerationFailed    PlanEventType = "generation_failed"
	EventGateUnlocked        PlanEventType = "gate_unlocked"
	EventMutationStarted     PlanEventType = "mutation_started"
	EventPlanReplaced        PlanEventType = "plan_replaced"
	EventMutationFailed      PlanEventType = "mutation_failed"
	EventSessionClosed       PlanEventType = "session_closed"
)

// PlanEvent はビュー同期のための通知。ドキュメント本体は含まず、受信側が再取得する
type PlanEvent struct {
	Type        PlanEventType `json:"type"`
	SessionID   string        `json:"session_id"`
	Revision    int64         `json:"revision"`
	Instruction string        `json:"instruction,omitempty"`
	GateID      string        `json:"gate_id,omitempty"`
	Error       string        `json:"error,omitempty"`
	At          time.Time     `json:"at"`
}

const eventBufferSize = 16

// EventBus はセッション内のイベントを購読者に配信する
// 受信が追いつかない購読者へのイベントは捨てる（送信側はブロックしない）
type EventBus struct {
	mu     sync.Mutex
	subs   map[int]chan PlanEvent
	nextID int
	closed bool
}

func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[int]chan PlanEvent)}
}

// Subscribe は購読を開始する。返された関数で購読を解除する
func (b *EventBus) Subscribe() (<-chan PlanEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan PlanEvent, eventBufferSize)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Publish はイベントを全購読者に配信する
func (b *EventBus) Publish(ev PlanEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close は全購読を終了する。session_closed を最後に配信してからチャネルを閉じる
func (b *EventBus) Close(final PlanEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if final.At.IsZero() {
		final.At = time.Now()
	}
	for id, ch := range b.subs {
		select {
		case ch <- final:
		default:
		}
		close(ch)
		delete(b.subs, id)
	}
}
