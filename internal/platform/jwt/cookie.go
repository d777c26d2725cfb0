package jwtmw

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName はセッショントークンを保持するCookie名です。
const CookieName = "session"

// SetSessionCookie はトークンをHttpOnlyのCookieとして書き込みます。
func SetSessionCookie(c *gin.Context, token string, expiresAt time.Time, secure bool) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", secure, true)
}

// ClearSessionCookie はセッションCookieを削除します。
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}

// SessionToken はリクエストのセッショントークンを返します。無い場合は空文字です。
func SessionToken(c *gin.Context) string {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}
