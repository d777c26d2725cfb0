package view

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/guilletomac/CS50-finance/internal/shared/identity"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(Templates())
	return r
}

func TestTemplates_AllPagesParse(t *testing.T) {
	t.Parallel()

	tmpl := Templates()
	for _, name := range []string{
		"apology.html", "index.html", "buy.html", "sell.html", "history.html",
		"login.html", "register.html", "quote.html", "quoted.html", "cash.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestRender_NavigationDependsOnLogin(t *testing.T) {
	t.Parallel()

	r := newEngine()
	r.GET("/anon", func(c *gin.Context) {
		Render(c, http.StatusOK, "quote.html", nil)
	})
	r.GET("/auth", func(c *gin.Context) {
		c.Request = c.Request.WithContext(identity.WithUserID(c.Request.Context(), 7))
		Render(c, http.StatusOK, "quote.html", gin.H{"Title": "Quote"})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anon", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/login"`)
	assert.NotContains(t, rec.Body.String(), `href="/logout"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth", nil))
	assert.Contains(t, rec.Body.String(), `href="/logout"`)
	assert.Contains(t, rec.Body.String(), "C$50 Finance: Quote")
}

func TestRender_QuotedUsesUSD(t *testing.T) {
	t.Parallel()

	r := newEngine()
	r.GET("/quoted", func(c *gin.Context) {
		Render(c, http.StatusOK, "quoted.html", gin.H{
			"Quote": struct {
				Name   string
				Symbol string
				Price  decimal.Decimal
			}{"Apple Inc", "AAPL", decimal.RequireFromString("1234.5")},
		})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quoted", nil))
	assert.Contains(t, rec.Body.String(), "A share of Apple Inc (AAPL) costs $1,234.50.")
}
