package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitorTTL を過ぎて使われていないクライアントの制限は破棄する
const visitorTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter は生成を伴うリクエストのクライアント(IP)ごとの回数制限
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter は1分あたりperMinute回までのRateLimiterを作成する
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		now:      time.Now,
	}
}

// getLimiter はIPごとのLimiterを取得または作成する
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, key)
		}
	}

	if v, exists := rl.visitors[ip]; exists {
		v.lastSeen = now
		return v.limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.visitors[ip] = &visitor{limiter: limiter, lastSeen: now}
	return limiter
}

// Limit は回数制限を超えたリクエストを429で拒否するミドルウェア
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getLimiter(c.ClientIP())
		if !limiter.AllowN(rl.now(), 1) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "リクエストが多すぎます",
				"details": "しばらく待ってから再度お試しください",
			})
			return
		}
		c.Next()
	}
}
