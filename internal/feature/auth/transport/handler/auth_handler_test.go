package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/guilletomac/CS50-finance/internal/feature/auth/transport/handler"
	"github.com/guilletomac/CS50-finance/internal/feature/auth/usecase"
	jwtmw "github.com/guilletomac/CS50-finance/internal/platform/jwt"
	"github.com/guilletomac/CS50-finance/internal/platform/http/apology"
	"github.com/guilletomac/CS50-finance/internal/platform/http/view"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockAuthUsecase はAuthUsecaseのモック実装です。
type mockAuthUsecase struct {
	RegisterFunc func(ctx context.Context, username, password, confirmation string, client usecase.ClientInfo) (string, error)
	LoginFunc    func(ctx context.Context, username, password string, client usecase.ClientInfo) (string, error)
	LogoutFunc   func(ctx context.Context, token string) error
	loggedOut    []string
}

func (m *mockAuthUsecase) Register(ctx context.Context, username, password, confirmation string, client usecase.ClientInfo) (string, error) {
	return m.RegisterFunc(ctx, username, password, confirmation, client)
}

func (m *mockAuthUsecase) Login(ctx context.Context, username, password string, client usecase.ClientInfo) (string, error) {
	return m.LoginFunc(ctx, username, password, client)
}

func (m *mockAuthUsecase) Logout(ctx context.Context, token string) error {
	m.loggedOut = append(m.loggedOut, token)
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

func newRouter(uc handler.AuthUsecase) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(view.Templates())
	r.Use(apology.Middleware())
	h := handler.NewAuthHandler(uc, handler.CookieOptions{TTL: time.Hour})
	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/register", h.RegisterForm)
	r.POST("/register", h.Register)
	r.GET("/logout", h.Logout)
	return r
}

func postForm(r http.Handler, path string, form url.Values, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: jwtmw.CookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Forms(t *testing.T) {
	t.Parallel()

	r := newRouter(&mockAuthUsecase{})
	for path, field := range map[string]string{"/login": `name="password"`, "/register": `name="confirmation"`} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), field, path)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		form           url.Values
		loginFunc      func(ctx context.Context, username, password string, client usecase.ClientInfo) (string, error)
		expectedStatus int
		expectedBody   string
		expectCookie   bool
	}{
		{
			name: "success: sets cookie and redirects home",
			form: url.Values{"username": {"alice"}, "password": {"secret123"}},
			loginFunc: func(ctx context.Context, username, password string, client usecase.ClientInfo) (string, error) {
				assert.Equal(t, "alice", username)
				assert.Equal(t, "secret123", password)
				return "signed-token", nil
			},
			expectedStatus: http.StatusSeeOther,
			expectCookie:   true,
		},
		{
			name: "failure: bad credentials render a 403 apology",
			form: url.Values{"username": {"alice"}, "password": {"wrong"}},
			loginFunc: func(ctx context.Context, username, password string, client usecase.ClientInfo) (string, error) {
				return "", usecase.ErrInvalidCredentials
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   "invalid username and/or password",
		},
		{
			name: "failure: missing username",
			form: url.Values{"password": {"x"}},
			loginFunc: func(ctx context.Context, username, password string, client usecase.ClientInfo) (string, error) {
				return "", usecase.ErrLoginMissingUser
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   "must provide username",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := postForm(newRouter(&mockAuthUsecase{LoginFunc: tt.loginFunc}), "/login", tt.form, "")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
			}
			if tt.expectCookie {
				assert.Equal(t, "/", rec.Header().Get("Location"))
				assert.Contains(t, rec.Header().Get("Set-Cookie"), jwtmw.CookieName+"=signed-token")
			}
		})
	}
}

func TestAuthHandler_Login_ForgetsPreviousSession(t *testing.T) {
	t.Parallel()

	uc := &mockAuthUsecase{LoginFunc: func(ctx context.Context, username, password string, client usecase.ClientInfo) (string, error) {
		return "", usecase.ErrInvalidCredentials
	}}
	rec := postForm(newRouter(uc), "/login", url.Values{"username": {"bob"}, "password": {"x"}}, "old-token")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, []string{"old-token"}, uc.loggedOut)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), jwtmw.CookieName+"=;")
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		registerFunc   func(ctx context.Context, username, password, confirmation string, client usecase.ClientInfo) (string, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: logs the new user in",
			registerFunc: func(ctx context.Context, username, password, confirmation string, client usecase.ClientInfo) (string, error) {
				assert.Equal(t, "carol", username)
				assert.Equal(t, "password1", confirmation)
				return "new-token", nil
			},
			expectedStatus: http.StatusSeeOther,
		},
		{
			name: "failure: duplicate username",
			registerFunc: func(ctx context.Context, username, password, confirmation string, client usecase.ClientInfo) (string, error) {
				return "", usecase.ErrUsernameTaken
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "username already exists",
		},
		{
			name: "failure: passwords do not match",
			registerFunc: func(ctx context.Context, username, password, confirmation string, client usecase.ClientInfo) (string, error) {
				return "", usecase.ErrPasswordMismatch
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Passwords do not match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			form := url.Values{"username": {"carol"}, "password": {"password1"}, "confirmation": {"password1"}}
			rec := postForm(newRouter(&mockAuthUsecase{RegisterFunc: tt.registerFunc}), "/register", form, "")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
			} else {
				assert.Contains(t, rec.Header().Get("Set-Cookie"), jwtmw.CookieName+"=new-token")
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Parallel()

	uc := &mockAuthUsecase{}
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: jwtmw.CookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, []string{"tok"}, uc.loggedOut)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), jwtmw.CookieName+"=;")
}
