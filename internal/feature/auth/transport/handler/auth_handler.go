// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guilletomac/CS50-finance/internal/feature/auth/transport/http/dto"
	"github.com/guilletomac/CS50-finance/internal/feature/auth/usecase"
	jwtmw "github.com/guilletomac/CS50-finance/internal/platform/jwt"
	"github.com/guilletomac/CS50-finance/internal/platform/logger"
	"github.com/guilletomac/CS50-finance/internal/platform/http/view"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Register(ctx context.Context, username, password, confirmation string, client usecase.ClientInfo) (string, error)
	Login(ctx context.Context, username, password string, client usecase.ClientInfo) (string, error)
	Logout(ctx context.Context, token string) error
}

// CookieOptions はセッションCookieの属性です。
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

// AuthHandler は /login, /logout, /register を処理します。
type AuthHandler struct {
	auth   AuthUsecase
	cookie CookieOptions
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

// LoginForm はログインフォームを表示します。
func (h *AuthHandler) LoginForm(c *gin.Context) {
	view.Render(c, http.StatusOK, "login.html", gin.H{"Title": "Log In"})
}

// RegisterForm は登録フォームを表示します。
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	view.Render(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

// Login は既存のセッションを破棄してから認証し、成功時はトップページへリダイレクトします。
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	ctx := c.Request.Context()
	h.forget(c)

	token, err := h.auth.Login(ctx, form.Username, form.Password, clientInfo(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	logger.FromContext(ctx).WithField("remote_addr", c.ClientIP()).Info("user login successful")
	jwtmw.SetSessionCookie(c, token, time.Now().Add(h.cookie.TTL), h.cookie.Secure)
	c.Redirect(http.StatusSeeOther, "/")
}

// Register はユーザーを作成してそのままログインさせます。
func (h *AuthHandler) Register(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	h.forget(c)

	token, err := h.auth.Register(c.Request.Context(), form.Username, form.Password, form.Confirmation, clientInfo(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	jwtmw.SetSessionCookie(c, token, time.Now().Add(h.cookie.TTL), h.cookie.Secure)
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout はセッションを失効させてトップページへリダイレクトします。
func (h *AuthHandler) Logout(c *gin.Context) {
	h.forget(c)
	c.Redirect(http.StatusFound, "/")
}

// forget は現在のセッションを失効させ、Cookieを削除します。失効の失敗はログに残すだけです。
func (h *AuthHandler) forget(c *gin.Context) {
	token := jwtmw.SessionToken(c)
	if token == "" {
		return
	}
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		logger.FromContext(c.Request.Context()).WithError(err).Warn("failed to revoke session")
	}
	jwtmw.ClearSessionCookie(c, h.cookie.Secure)
}

func clientInfo(c *gin.Context) usecase.ClientInfo {
	return usecase.ClientInfo{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
}
