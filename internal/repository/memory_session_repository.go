package repository

import (
	"log"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"TripGenie-App/internal/usecase"
)

const (
	DefaultMaxSessions = 1000
	DefaultSessionTTL  = 2 * time.Hour
)

// MemorySessionRepository はプロセス内メモリにセッションを保持する
// 上限数・有効期限を超えたセッションは追い出され、そのタイミングで破棄される
// 有効期限は最後に参照された時刻から数える
type MemorySessionRepository struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *usecase.TripSession]
}

// NewMemorySessionRepository は新しいMemorySessionRepositoryインスタンスを作成
func NewMemorySessionRepository(maxSessions int, ttl time.Duration) usecase.SessionRepository {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	onEvict := func(id string, session *usecase.TripSession) {
		log.Printf("🧹 セッションを追い出し (session: %s)", id)
		session.Close()
	}

	return &MemorySessionRepository{
		cache: expirable.NewLRU[string, *usecase.TripSession](maxSessions, onEvict, ttl),
	}
}

func (r *MemorySessionRepository) Save(session *usecase.TripSession) {
	r.cache.Add(session.ID(), session)
}

// Get はセッションを取得し、見つかった場合は有効期限を延長する
func (r *MemorySessionRepository) Get(id string) (*usecase.TripSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	// 既存キーへのAddは追い出しを伴わず期限だけ更新される
	r.cache.Add(id, session)
	return session, true
}

func (r *MemorySessionRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Remove(id)
}

func (r *MemorySessionRepository) Len() int {
	return r.cache.Len()
}
