package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"terminal-terrace/library/config"
	"terminal-terrace/library/internal/model"
	"terminal-terrace/library/packages/database"
)

const serviceName = "library-api"

var (
	PostgresDB *gorm.DB
	RedisDB    *database.RedisClient
)

func InitDatabase() {
	initPostgres()
	initRedis()
}

func initPostgres() {
	databaseConf := config.Conf.Database

	var err error
	PostgresDB, err = database.InitPostgres(context.Background(),
		database.PostgresConfig{
			ServiceName:     serviceName,
			Username:        databaseConf.Username,
			Password:        databaseConf.Password,
			Host:            databaseConf.Host,
			Port:            databaseConf.Port,
			Database:        databaseConf.Database,
			SSLMode:         databaseConf.SSLMode,
			LogLevel:        databaseConf.LogLevel,
			MaxIdleConns:    databaseConf.MaxIdleConns,
			MaxOpenConns:    databaseConf.MaxOpenConns,
			ConnMaxLifetime: time.Duration(databaseConf.MaxLifetime) * time.Second,
		},
	)
	if err != nil {
		panic(err)
	}

	// 初始化数据库表
	if err = model.InitTable(PostgresDB); err != nil {
		panic(err)
	}
}

func initRedis() {
	redisConf := config.Conf.Redis

	var err error
	RedisDB, err = database.InitRedis(context.Background(), database.RedisConfig{
		ServiceName: serviceName,
		Host:        redisConf.Host,
		Port:        redisConf.Port,
		Password:    redisConf.Password,
		DB:          redisConf.DB,
		PoolSize:    redisConf.PoolSize,
	})
	if err != nil {
		panic(err)
	}
}

// Close 释放连接
func Close() {
	if PostgresDB != nil {
		if sqlDB, err := PostgresDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if RedisDB != nil {
		_ = RedisDB.Close()
	}
}
