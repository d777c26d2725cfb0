package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	authhandler "github.com/guilletomac/CS50-finance/internal/feature/auth/transport/handler"
	portfoliohandler "github.com/guilletomac/CS50-finance/internal/feature/portfolio/transport/handler"
	quotehandler "github.com/guilletomac/CS50-finance/internal/feature/quote/transport/handler"
	jwtmw "github.com/guilletomac/CS50-finance/internal/platform/jwt"
	"github.com/guilletomac/CS50-finance/internal/platform/http/handler"
	"github.com/guilletomac/CS50-finance/internal/platform/metrics"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type mockResolver struct{}

func (mockResolver) ResolveSession(ctx context.Context, token string) (uint, error) {
	if token == "valid" {
		return 1, nil
	}
	return 0, errors.New("unknown session")
}

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

type allowAll struct{}

func (allowAll) Allow(string) bool { return true }

func newTestRouter(limiterAllows bool) *gin.Engine {
	log := logrus.New()
	log.SetOutput(io.Discard)

	opts := Options{
		Logger:       log,
		Metrics:      metrics.New(),
		Sessions:     mockResolver{},
		LoginLimiter: allowAll{},
	}
	if !limiterAllows {
		opts.LoginLimiter = denyAll{}
	}

	h := Handlers{
		Auth:      authhandler.NewAuthHandler(nil, authhandler.CookieOptions{TTL: time.Hour}),
		Quote:     quotehandler.NewQuoteHandler(nil),
		Portfolio: portfoliohandler.NewPortfolioHandler(nil),
		Readiness: handler.NewReadinessHandler(time.Second, map[string]handler.Pinger{
			"db": handler.PingFunc(func(ctx context.Context) error { return nil }),
		}),
	}
	return NewRouter(h, opts)
}

func get(r http.Handler, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: jwtmw.CookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_Routes(t *testing.T) {
	t.Parallel()

	r := newTestRouter(true)

	tests := []struct {
		name             string
		path             string
		cookie           string
		expectedStatus   int
		expectedLocation string
		expectedBody     string
	}{
		{"liveness", "/healthz", "", http.StatusOK, "", `"status":"ok"`},
		{"readiness", "/readyz", "", http.StatusOK, "", `"db":"ok"`},
		{"login form is public", "/login", "", http.StatusOK, "", `name="username"`},
		{"portfolio requires login", "/", "", http.StatusFound, "/login", ""},
		{"quote requires login", "/quote", "", http.StatusFound, "/login", ""},
		{"stale cookie requires login", "/buy", "expired", http.StatusFound, "/login", ""},
		{"quote form with session", "/quote", "valid", http.StatusOK, "", `action="/quote"`},
		{"unknown route", "/nope", "", http.StatusNotFound, "", "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(r, tt.path, tt.cookie)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			if tt.expectedLocation != "" {
				assert.Equal(t, tt.expectedLocation, rec.Header().Get("Location"))
			}
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}

func TestNewRouter_LoginThrottle(t *testing.T) {
	t.Parallel()

	r := newTestRouter(false)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("username=a&password=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "too many requests")
}

func TestNewRouter_Metrics(t *testing.T) {
	t.Parallel()

	r := newTestRouter(true)
	get(r, "/healthz", "")

	rec := get(r, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `finance_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}
