package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/guilletomac/CS50-finance/internal/platform/logger"
	"github.com/guilletomac/CS50-finance/internal/shared/identity"
)

// RequestIDHeader は受信・返却するリクエストIDのヘッダー名です。
const RequestIDHeader = "X-Request-ID"

// RequestLogger はリクエストIDを採番し、リクエスト単位のロガーをコンテキストに載せ、
// 完了時にアクセスログを1行出力します。
func RequestLogger(base *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		entry := base.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"client_ip":  c.ClientIP(),
		})
		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), entry))

		c.Next()

		fields := logrus.Fields{
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}
		if userID, ok := identity.UserID(c.Request.Context()); ok {
			fields["user_id"] = userID
		}
		entry.WithFields(fields).Info("request completed")
	}
}
