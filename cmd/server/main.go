package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"terminal-terrace/library/config"
	"terminal-terrace/library/internal/database"
	"terminal-terrace/library/internal/logger"
	"terminal-terrace/library/internal/route"
)

const shutdownTimeout = 10 * time.Second

// @title Library API
// @version 1.0
// @description 图书馆借阅管理接口
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 加载配置
	config.MustLoad("config.yaml")

	// 2. 初始化日志
	syncLogger, err := logger.Init(config.Conf.Log)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer syncLogger()

	// 3. 初始化数据库
	database.InitDatabase()
	defer database.Close()

	// 4. 设置路由
	r := route.SetupRouter()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Conf.Server.Host, config.Conf.Server.Port),
		Handler:      r,
		ReadTimeout:  config.Conf.Server.ReadTimeout,
		WriteTimeout: config.Conf.Server.WriteTimeout,
	}

	// 5. 启动服务
	go func() {
		zap.L().Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("graceful shutdown", zap.Error(err))
	}
}
