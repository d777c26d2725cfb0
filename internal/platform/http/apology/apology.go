// Package apology はエラーをステータスコード付きの謝罪ページとして描画します。
// ハンドラーは c.Error(err) を呼んで中断するだけで、描画はこのパッケージが一手に担います。
package apology

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/guilletomac/CS50-finance/internal/platform/http/view"
	"github.com/guilletomac/CS50-finance/internal/platform/logger"
	"github.com/guilletomac/CS50-finance/internal/shared/apperror"
)

var errNotFound = apperror.New(apperror.NotFound, "Not Found")

// Middleware はハンドラー実行後に最後のエラーを謝罪ページとして描画します。
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		Render(c, c.Errors.Last().Err)
	}
}

// Recovery はパニックを500の謝罪ページに変換します。
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Render(c, fmt.Errorf("panic: %v", recovered))
		c.Abort()
	})
}

// NotFound は未定義ルート用のハンドラーです。
func NotFound(c *gin.Context) {
	Render(c, errNotFound)
}

// Render はerrの種別からステータスを決め、謝罪ページを描画します。
// 分類されていないエラーのメッセージは利用者に表示しません。
func Render(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	status := kind.Status()

	entry := logger.FromContext(c.Request.Context()).WithError(err).WithFields(logrus.Fields{
		"kind":   kind.String(),
		"status": status,
		"path":   c.Request.URL.Path,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	view.Render(c, status, "apology.html", gin.H{
		"Title":   "Apology",
		"Status":  status,
		"Message": apperror.MessageOf(err),
	})
}
