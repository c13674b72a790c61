package main

import (
	"context"
	"errors"
	"log"
	"time"

	"go.uber.org/zap"

	"terminal-terrace/library/config"
	"terminal-terrace/library/internal/database"
	"terminal-terrace/library/internal/logger"
	"terminal-terrace/library/internal/seed"
)

func main() {
	config.MustLoad("config.yaml")

	syncLogger, err := logger.Init(config.Conf.Log)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer syncLogger()

	database.InitDatabase()
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := seed.Run(ctx, database.PostgresDB, nil, time.Now()); err != nil {
		if errors.Is(err, seed.ErrAlreadySeeded) {
			zap.L().Info("seed skipped, admin user already exists")
			return
		}
		zap.L().Fatal("seed failed", zap.Error(err))
	}
}
