package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/guilletomac/CS50-finance/internal/app/di"
	"github.com/guilletomac/CS50-finance/internal/app/router"
	authadapters "github.com/guilletomac/CS50-finance/internal/feature/auth/adapters"
	authhandler "github.com/guilletomac/CS50-finance/internal/feature/auth/transport/handler"
	authusecase "github.com/guilletomac/CS50-finance/internal/feature/auth/usecase"
	portfolioadapters "github.com/guilletomac/CS50-finance/internal/feature/portfolio/adapters"
	portfoliohandler "github.com/guilletomac/CS50-finance/internal/feature/portfolio/transport/handler"
	portfoliousecase "github.com/guilletomac/CS50-finance/internal/feature/portfolio/usecase"
	quotehandler "github.com/guilletomac/CS50-finance/internal/feature/quote/transport/handler"
	quoteusecase "github.com/guilletomac/CS50-finance/internal/feature/quote/usecase"
	"github.com/guilletomac/CS50-finance/internal/platform/config"
	platformdb "github.com/guilletomac/CS50-finance/internal/platform/db"
	"github.com/guilletomac/CS50-finance/internal/platform/http/handler"
	jwtmw "github.com/guilletomac/CS50-finance/internal/platform/jwt"
	"github.com/guilletomac/CS50-finance/internal/platform/logger"
	"github.com/guilletomac/CS50-finance/internal/platform/metrics"
	infraredis "github.com/guilletomac/CS50-finance/internal/platform/redis"
	"github.com/guilletomac/CS50-finance/internal/shared/ratelimiter"
)

const (
	shutdownTimeout  = 10 * time.Second
	janitorInterval  = time.Hour
	readinessTimeout = 2 * time.Second
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	log := logger.New(cfg.Log)
	// db/migrateパッケージは標準ロガーに書くので設定を揃える
	logrus.SetLevel(log.GetLevel())
	logrus.SetFormatter(log.Formatter)
	logrus.SetOutput(log.Out)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := platformdb.OpenDB(cfg.DB)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("failed to get sql.DB")
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.WithError(err).Error("failed to close database")
		}
	}()

	// Redis（任意）
	var rdb *redisv9.Client
	if cfg.Redis.RedisEnabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			log.Warn("Redis unavailable. Storing sessions in the database.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.WithError(err).Error("failed to close Redis client")
				}
			}()
		}
	}

	secret, generated, err := di.SessionSecret(cfg.Auth)
	if err != nil {
		log.WithError(err).Fatal("failed to prepare session secret")
	}
	if generated {
		log.Warn("AUTH_SESSION_SECRET is not set. Sessions will not survive a restart.")
	}
	initialCash, _ := cfg.Auth.InitialCashDecimal()

	m := metrics.New()

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	sessionRepo := di.NewSessionRepository(rdb, db)
	store := portfolioadapters.NewStoreGorm(db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, jwtmw.NewSigner(secret), authusecase.Options{
		InitialCash: initialCash,
		SessionTTL:  cfg.Auth.SessionTTL,
		MaxSessions: cfg.Auth.MaxSessions,
	})
	quoteUC := quoteusecase.NewQuoteUsecase(di.NewQuoteProvider(cfg.Quote), cfg.Quote.Timeout, m)
	portfolioUC := portfoliousecase.NewPortfolioUsecase(store, quoteUC, m)

	// Handler
	checks := map[string]handler.Pinger{"db": handler.PingFunc(sqlDB.PingContext)}
	if rdb != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	handlers := router.Handlers{
		Auth:      authhandler.NewAuthHandler(authUC, authhandler.CookieOptions{TTL: cfg.Auth.SessionTTL, Secure: cfg.Server.SecureCookie}),
		Quote:     quotehandler.NewQuoteHandler(quoteUC),
		Portfolio: portfoliohandler.NewPortfolioHandler(portfolioUC),
		Readiness: handler.NewReadinessHandler(readinessTimeout, checks),
	}

	// ルータ生成
	r := router.NewRouter(handlers, router.Options{
		Logger:       log,
		Metrics:      m,
		Sessions:     authUC,
		SecureCookie: cfg.Server.SecureCookie,
		LoginLimiter: ratelimiter.NewKeyedLimiter(cfg.Auth.LoginRPS, cfg.Auth.LoginBurst, 0),
	})

	go authusecase.RunSessionJanitor(ctx, sessionRepo, janitorInterval, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
