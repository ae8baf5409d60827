// Package ratelimiter はキー単位のトークンバケットによるレート制限を提供します。
package ratelimiter

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"findmyplugin_backend/internal/api"
)

// KeyedLimiter はキーごとに独立したレートリミッタを管理します。
type KeyedLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewKeyedLimiter は新しいKeyedLimiterのインスタンスを生成します。
// rpsは1秒あたりの許可リクエスト数、burstは瞬間的に許容する上限です。
func NewKeyedLimiter(rps float64, burst int) *KeyedLimiter {
	return &KeyedLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Allow は指定キーのリクエストを許可するかを即時判定します。
func (kl *KeyedLimiter) Allow(key string) bool {
	return kl.getLimiter(key).Allow()
}

// getLimiter はキーに対応するリミッタを返します。未登録なら生成します。
func (kl *KeyedLimiter) getLimiter(key string) *rate.Limiter {
	kl.mu.RLock()
	limiter, ok := kl.limiters[key]
	kl.mu.RUnlock()
	if ok {
		return limiter
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()
	// 書き込みロック獲得後に再確認
	if limiter, ok = kl.limiters[key]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(kl.limit, kl.burst)
	kl.limiters[key] = limiter
	return limiter
}

// Middleware はクライアントIP単位でレート制限するGinミドルウェアを返します。
// 上限を超えたリクエストには429を返します。
func Middleware(limiter *KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.Error("Too many requests"))
			return
		}
		c.Next()
	}
}
