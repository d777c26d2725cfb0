package jwtmw

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guilletomac/CS50-finance/internal/platform/logger"
	"github.com/guilletomac/CS50-finance/internal/shared/identity"
)

// ContextUserID はgin.Contextに保存する認証済みユーザーIDのキーです。
const ContextUserID = "userID"

// LoginPath は未認証リクエストのリダイレクト先です。
const LoginPath = "/login"

// SessionResolver はセッショントークンからユーザーIDを解決します。
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (uint, error)
}

// LoadSession はCookieのセッションを解決し、有効ならリクエストコンテキストにユーザーIDを載せます。
// 無効なセッションでもリクエストは止めず、Cookieを削除して匿名として続行します。
func LoadSession(resolver SessionResolver, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		userID, err := resolver.ResolveSession(ctx, token)
		if err != nil {
			logger.FromContext(ctx).WithError(err).Debug("session rejected")
			ClearSessionCookie(c, secureCookie)
			c.Next()
			return
		}

		c.Set(ContextUserID, userID)
		c.Request = c.Request.WithContext(identity.WithUserID(ctx, userID))
		c.Next()
	}
}

// SessionRequired は未ログインのリクエストを /login へリダイレクトします。
func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identity.UserID(c.Request.Context()); !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
