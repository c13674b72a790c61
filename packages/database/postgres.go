package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresConfig PostgreSQL 连接参数, 零值字段使用默认值
type PostgresConfig struct {
	ServiceName     string
	Username        string
	Password        string
	Host            string
	Port            int
	Database        string
	SSLMode         bool
	LogLevel        string // silent, error, warn, info
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

func (c PostgresConfig) withDefaults() PostgresConfig {
	if c.ServiceName == "" {
		c.ServiceName = "unknown-service"
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 100
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = time.Hour
	}
	return c
}

// DSN 会话时区固定为 UTC
func (c PostgresConfig) DSN() string {
	sslmode := "disable"
	if c.SSLMode {
		sslmode = "require"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		c.Host, c.Username, c.Password, c.Database, c.Port, sslmode)
}

// InitPostgres opens the pool, applies pool limits and verifies the connection.
func InitPostgres(ctx context.Context, cfg PostgresConfig) (*gorm.DB, error) {
	cfg = cfg.withDefaults()

	db, err := Open(postgres.Open(cfg.DSN()), cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	zap.L().Info("database connected",
		zap.String("service", cfg.ServiceName),
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
	)
	return db, nil
}

// Open wraps gorm.Open with the settings every connection in this repo shares.
// Driver errors are translated so callers can match gorm.ErrDuplicatedKey
// and gorm.ErrForeignKeyViolated.
func Open(dialector gorm.Dialector, logLevel string) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

var gormLogLevels = map[string]logger.LogLevel{
	"silent": logger.Silent,
	"error":  logger.Error,
	"warn":   logger.Warn,
	"info":   logger.Info,
}

func gormLogger(level string) logger.Interface {
	l, ok := gormLogLevels[level]
	if !ok {
		l = logger.Warn
	}
	return logger.Default.LogMode(l)
}
