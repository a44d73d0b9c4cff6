package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/school-reports-api/pkg/config"
)

// NewMySQL returns a configured MySQL client.
func NewMySQL(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// ConnectWithRetry keeps reattempting the initial connection on a fixed
// delay until it succeeds. Requests must not be routed before it returns.
func ConnectWithRetry(cfg config.DatabaseConfig, logger *zap.Logger) *sqlx.DB {
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	for {
		db, err := NewMySQL(cfg)
		if err == nil {
			logger.Info("database connected",
				zap.String("host", cfg.Host),
				zap.Int("port", cfg.Port),
				zap.String("database", cfg.Name),
			)
			return db
		}

		logger.Warn("database connection failed, retrying",
			zap.Duration("retry_in", interval),
			zap.Error(err),
		)
		time.Sleep(interval)
	}
}
