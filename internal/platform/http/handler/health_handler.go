// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guilletomac/CS50-finance/internal/platform/logger"
)

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// プロセスが応答できるかだけを返し、依存先には触れません。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Pinger は疎通確認できる依存先です（DB、Redisなど）。
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc は関数をPingerとして扱うためのアダプターです。
type PingFunc func(ctx context.Context) error

// Ping calls f(ctx).
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// ReadinessHandler は /readyz で依存先すべての疎通を確認します。
type ReadinessHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewReadinessHandler は名前付きの依存先一覧からReadinessHandlerを生成します。
// nilのPingerは登録されません（Redis未使用時など）。
func NewReadinessHandler(timeout time.Duration, checks map[string]Pinger) *ReadinessHandler {
	filtered := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			filtered[name] = p
		}
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ReadinessHandler{checks: filtered, timeout: timeout}
}

// Ready は全依存先が応答すれば200、いずれかが失敗すれば503を返します。
func (h *ReadinessHandler) Ready(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			logger.FromContext(ctx).WithError(err).WithField("dependency", name).Warn("readiness check failed")
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "unavailable"
	}
	c.JSON(status, gin.H{"status": state, "checks": results})
}
