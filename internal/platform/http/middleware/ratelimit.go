package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/guilletomac/CS50-finance/internal/shared/apperror"
)

var errTooManyRequests = apperror.New(apperror.TooManyRequests, "too many requests, try again later")

// KeyedLimiter はキーごとの許可判定です。
type KeyedLimiter interface {
	Allow(key string) bool
}

// RateLimitByIP はクライアントIPごとにリクエストを制限します。
// 超過時は TooManyRequests エラーを積んで中断し、描画は謝罪ミドルウェアに任せます。
func RateLimitByIP(limiter KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			_ = c.Error(errTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
