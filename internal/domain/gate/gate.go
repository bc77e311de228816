package gate

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State はゲートの状態。Unlockedは終端
type State int

const (
	StateLocked State = iota
	StateUnlocking
	StateUnlocked
)

func (s State) String() string {
	switch s {
	case StateLocked:
		return "locked"
	case StateUnlocking:
		return "unlocking"
	case StateUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// Feature はゲートで保護される機能
type Feature string

const (
	FeatureContinuation Feature = "continuation"  // 生成待ち画面からダッシュボードへ
	FeatureExport       Feature = "export"        // CSV/PDFのダウンロード
	FeatureDetailUnlock Feature = "detail_unlock" // フライト遅延時の代替案
)

// Valid は既知の機能かどうか
func (f Feature) Valid() bool {
	switch f {
	case FeatureContinuation, FeatureExport, FeatureDetailUnlock:
		return true
	default:
		return false
	}
}

const (
	DefaultDuration             = 5 * time.Second
	DefaultContinuationDuration = 10 * time.Second
	DefaultExportDuration       = 15 * time.Second
	DefaultDetailUnlockDuration = 2 * time.Second
)

// DefaultDurationFor は機能ごとの既定の待ち時間
func DefaultDurationFor(feature Feature) time.Duration {
	switch feature {
	case FeatureContinuation:
		return DefaultContinuationDuration
	case FeatureExport:
		return DefaultExportDuration
	case FeatureDetailUnlock:
		return DefaultDetailUnlockDuration
	default:
		return DefaultDuration
	}
}

var (
	ErrAlreadyStarted = errors.New("ゲートは既に開始されています")
	ErrNotUnlocking   = errors.New("ゲートはカウントダウン中ではありません")
	ErrLocked         = errors.New("ゲートはまだ解除されていません")
	ErrAlreadyClaimed = errors.New("報酬は既に受け取り済みです")
	ErrClosed         = errors.New("ゲートは破棄されています")
)

// Gate は Locked → Unlocking(deadline) → Unlocked の時限解除ステートマシン
// 状態を外から設定する手段は無く、解除可否の唯一の情報源となる
type Gate struct {
	mu       sync.Mutex
	id       string
	feature  Feature
	duration time.Duration
	clock    Clock

	state    State
	deadline time.Time
	timer    Timer
	claimed  bool
	closed   bool
	onUnlock func()
}

// Snapshot はゲートの読み取り専用ビュー
type Snapshot struct {
	ID        string        `json:"gate_id"`
	Feature   Feature       `json:"feature"`
	State     string        `json:"state"`
	Duration  time.Duration `json:"-"`
	Deadline  *time.Time    `json:"deadline,omitempty"`
	Remaining float64       `json:"remaining_seconds"`
	Claimed   bool          `json:"claimed"`
}

// New は新しいLockedゲートを作成する。機能を呼び出すたびに新しいゲートを作ること
func New(feature Feature, duration time.Duration, clock Clock) *Gate {
	if duration <= 0 {
		duration = DefaultDurationFor(feature)
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Gate{
		id:       uuid.New().String(),
		feature:  feature,
		duration: duration,
		clock:    clock,
		state:    StateLocked,
	}
}

func (g *Gate) ID() string {
	return g.id
}

func (g *Gate) Feature() Feature {
	return g.feature
}

// OnUnlock はUnlockedへ遷移したときに一度だけ呼ばれるコールバックを設定する
func (g *Gate) OnUnlock(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onUnlock = fn
}

// Start はカウントダウンを開始する
func (g *Gate) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrClosed
	}
	if g.state != StateLocked {
		return ErrAlreadyStarted
	}
	g.state = StateUnlocking
	g.deadline = g.clock.Now().Add(g.duration)
	g.timer = g.clock.AfterFunc(g.duration, g.expire)
	return nil
}

// Complete は外部からの完了シグナル（動画再生終了など）を受け取る
func (g *Gate) Complete() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	g.refreshLocked()
	switch g.state {
	case StateLocked:
		g.mu.Unlock()
		return ErrNotUnlocking
	case StateUnlocked:
		g.mu.Unlock()
		return nil
	}
	cb := g.unlockLocked()
	g.mu.Unlock()

	if cb != nil {
		cb()
	}
	return nil
}

// State は現在の状態を返す。期限を過ぎていればUnlockedに確定させる
func (g *Gate) State() State {
	g.mu.Lock()
	cb := g.refreshLocked()
	state := g.state
	g.mu.Unlock()

	if cb != nil {
		cb()
	}
	return state
}

// Remaining は解除までの残り時間
func (g *Gate) Remaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.state {
	case StateLocked:
		return g.duration
	case StateUnlocking:
		if rem := g.deadline.Sub(g.clock.Now()); rem > 0 {
			return rem
		}
	}
	return 0
}

// Claim は「続ける」「報酬を受け取る」操作。Unlockedのときに一度だけ成功する
func (g *Gate) Claim() error {
	g.mu.Lock()
	cb := g.refreshLocked()
	err := func() error {
		if g.closed {
			return ErrClosed
		}
		if g.state != StateUnlocked {
			return ErrLocked
		}
		if g.claimed {
			return ErrAlreadyClaimed
		}
		g.claimed = true
		return nil
	}()
	g.mu.Unlock()

	if cb != nil {
		cb()
	}
	return err
}

// Finished は報酬の受け取り済み、または破棄済みかどうか
func (g *Gate) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.claimed || g.closed
}

// Close はタイマーハンドルを解放する。以降の発火は無視される
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.onUnlock = nil
}

// Snapshot は現在の状態を読み取り専用で返す
func (g *Gate) Snapshot() Snapshot {
	state := g.State()
	remaining := g.Remaining()

	g.mu.Lock()
	defer g.mu.Unlock()
	snap := Snapshot{
		ID:        g.id,
		Feature:   g.feature,
		State:     state.String(),
		Duration:  g.duration,
		Remaining: remaining.Seconds(),
		Claimed:   g.claimed,
	}
	if !g.deadline.IsZero() {
		deadline := g.deadline
		snap.Deadline = &deadline
	}
	return snap
}

// expire はタイマー発火時に呼ばれる
func (g *Gate) expire() {
	g.mu.Lock()
	if g.closed || g.state != StateUnlocking {
		g.mu.Unlock()
		return
	}
	cb := g.unlockLocked()
	g.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// refreshLocked は期限切れならUnlockedへ遷移させる。呼び出し側でロックを保持すること
func (g *Gate) refreshLocked() func() {
	if g.state == StateUnlocking && !g.clock.Now().Before(g.deadline) {
		return g.unlockLocked()
	}
	return nil
}

// unlockLocked はUnlockedへ遷移し、実行すべきコールバックを返す
func (g *Gate) unlockLocked() func() {
	g.state = StateUnlocked
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	cb := g.onUnlock
	g.onUnlock = nil
	if g.closed {
		return nil
	}
	return cb
}
