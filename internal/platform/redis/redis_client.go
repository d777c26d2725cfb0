// Package redis はRedisクライアントの生成を提供します。
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/guilletomac/CS50-finance/internal/platform/config"
)

// NewRedisClient は設定からクライアントを生成し、疎通を確認します。
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logrus.WithError(err).WithField("address", cfg.Addr()).Error("Redis connection failed")
		_ = rdb.Close()
		return nil, err
	}

	logrus.WithField("address", cfg.Addr()).Info("Redis connection successful")
	return rdb, nil
}
