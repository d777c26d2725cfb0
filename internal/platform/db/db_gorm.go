// Package db はGORMのデータベース接続とスキーママイグレーションを提供します。
package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/guilletomac/CS50-finance/internal/platform/config"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	connectTimeout = 60 * time.Second
	slowQuery      = 200 * time.Millisecond
)

// retryInterval は接続リトライの間隔です。
var retryInterval = 3 * time.Second

// Opener はDSNからGORM接続を開く関数です。テストで差し替えられます。
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN はPostgreSQL用のDSN文字列を生成します。
func BuildDSN(cfg config.DBConfig) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, sslmode)
}

// ConnectWithRetry はtimeoutまでretryInterval間隔で接続を試みます。
// コンテナ起動直後などDBがまだ受け付けていない場合に備えます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		logrus.WithError(err).Warn("db connect failed, retrying")
		time.Sleep(retryInterval)
	}
}

// gormLogger はGORMのログをlogrusに流します。
// ErrRecordNotFound は初回購入やセッション照会で普通に起きるので記録しません。
func gormLogger(l logrus.FieldLogger) gormlogger.Interface {
	return gormlogger.New(l.WithField("component", "gorm"), gormlogger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         gormLogger(logrus.StandardLogger()),
		TranslateError: true,
	}
}

func openPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), gormConfig())
}

// OpenSQLite はSQLiteを単一コネクションで開きます。
// 書き込みはこの1本に直列化され、":memory:" でも全クエリが同じDBを参照します。
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// OpenDB は設定に応じてSQLiteまたはPostgreSQLに接続し、必要ならマイグレーションを適用します。
func OpenDB(cfg config.DBConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverSQLite:
		db, err = OpenSQLite(cfg.Path)
	case DriverPostgres:
		db, err = ConnectWithRetry(BuildDSN(cfg), connectTimeout, openPostgres)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := Migrate(db, cfg.Driver); err != nil {
			return nil, err
		}
	}
	return db, nil
}
