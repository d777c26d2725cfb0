package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver はHTTPリクエストのメトリクスを記録します。
type RequestObserver interface {
	ObserveRequest(route, method, status string, d time.Duration)
}

// Metrics はルート単位でリクエスト数とレイテンシを記録します。
func Metrics(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		obs.ObserveRequest(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
