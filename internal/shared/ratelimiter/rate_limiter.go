package ratelimiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	// Wait は次の呼び出しが許可されるまで待機します。ctxが終了した場合はエラーを返します。
	Wait(ctx context.Context) error
}

// RateLimiterは、1分あたりの呼び出し回数を制限するトークンバケットです。
// 複数のゴルーチンから同時に利用できます。
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiterは1分あたりlimit回まで許可するRateLimiterを生成します。
// limitが0以下の場合は制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	every := interval / time.Duration(limit)
	return &RateLimiter{limiter: rate.NewLimiter(rate.Every(every), limit)}
}

// Waitはレートリミットの上限に達している場合、トークンが補充されるまで待機します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}

// KeyedLimiter はキー（クライアントIPなど）ごとに独立したトークンバケットを保持します。
type KeyedLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedLimiter creates a limiter allowing rps events per second per key with the given burst.
// Keys unused for idleTTL are dropped on the next Allow call.
func NewKeyedLimiter(rps float64, burst int, idleTTL time.Duration) *KeyedLimiter {
	if idleTTL <= 0 {
		idleTTL = 3 * time.Minute
	}
	return &KeyedLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Allow reports whether an event for key may happen now.
func (kl *KeyedLimiter) Allow(key string) bool {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	now := kl.now()
	for k, v := range kl.visitors {
		if now.Sub(v.lastSeen) > kl.idleTTL {
			delete(kl.visitors, k)
		}
	}

	v, ok := kl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(kl.limit, kl.burst)}
		kl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (kl *KeyedLimiter) Len() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.visitors)
}
