package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	authhandler "github.com/guilletomac/CS50-finance/internal/feature/auth/transport/handler"
	portfoliohandler "github.com/guilletomac/CS50-finance/internal/feature/portfolio/transport/handler"
	quotehandler "github.com/guilletomac/CS50-finance/internal/feature/quote/transport/handler"
	jwtmw "github.com/guilletomac/CS50-finance/internal/platform/jwt"
	"github.com/guilletomac/CS50-finance/internal/platform/http/apology"
	"github.com/guilletomac/CS50-finance/internal/platform/http/handler"
	"github.com/guilletomac/CS50-finance/internal/platform/http/middleware"
	"github.com/guilletomac/CS50-finance/internal/platform/http/view"
	"github.com/guilletomac/CS50-finance/internal/platform/metrics"
)

// Handlers はルーターに登録するハンドラー一式です。
type Handlers struct {
	Auth      *authhandler.AuthHandler
	Quote     *quotehandler.QuoteHandler
	Portfolio *portfoliohandler.PortfolioHandler
	Readiness *handler.ReadinessHandler
}

// Options はミドルウェアの依存です。
type Options struct {
	Logger       *logrus.Logger
	Metrics      *metrics.Metrics
	Sessions     jwtmw.SessionResolver
	SecureCookie bool
	LoginLimiter middleware.KeyedLimiter
}

func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(view.Templates())

	r.Use(
		middleware.RequestLogger(opts.Logger),
		middleware.Metrics(opts.Metrics),
		apology.Recovery(),
		middleware.NoCache(),
		jwtmw.LoadSession(opts.Sessions, opts.SecureCookie),
		apology.Middleware(),
	)

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.GET("/readyz", h.Readiness.Ready)
	r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	throttle := middleware.RateLimitByIP(opts.LoginLimiter)
	r.GET("/login", h.Auth.LoginForm)
	r.POST("/login", throttle, h.Auth.Login)
	r.GET("/register", h.Auth.RegisterForm)
	r.POST("/register", throttle, h.Auth.Register)
	r.GET("/logout", h.Auth.Logout)

	// ログイン必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.SessionRequired())
	{
		auth.GET("/", h.Portfolio.Index)
		auth.GET("/buy", h.Portfolio.BuyForm)
		auth.POST("/buy", h.Portfolio.Buy)
		auth.GET("/sell", h.Portfolio.SellForm)
		auth.POST("/sell", h.Portfolio.Sell)
		auth.GET("/history", h.Portfolio.History)
		auth.GET("/cash", h.Portfolio.CashForm)
		auth.POST("/cash", h.Portfolio.Deposit)
		auth.GET("/quote", h.Quote.Form)
		auth.POST("/quote", h.Quote.Lookup)
	}

	r.NoRoute(apology.NotFound)
	return r
}
