package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mieluoxxx/aiconfig-hub/internal/api"
	"github.com/Mieluoxxx/aiconfig-hub/internal/config"
	"github.com/Mieluoxxx/aiconfig-hub/internal/db"
	"github.com/Mieluoxxx/aiconfig-hub/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	// Version 项目版本
	Version = "0.1.0"
	// AppName 应用名称
	AppName = "aiconfig-hub"
)

func main() {
	configPath := flag.String("config", os.Getenv("AICONFIG_CONFIG"), "配置文件路径，为空时只使用默认值和环境变量")
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	appLogger := logger.New(cfg.Log.Level, cfg.Log.Format)
	appLogger.Infof("=== %s v%s ===", AppName, Version)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	// 初始化数据库
	database, err := db.InitDatabase(&cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatalf("初始化数据库失败: %v", err)
	}
	defer db.CloseDatabase(database)

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(database, appLogger); err != nil {
			appLogger.Fatalf("数据库迁移失败: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 设置路由
	router, err := api.SetupRouter(ctx, database, cfg, appLogger)
	if err != nil {
		appLogger.Fatalf("初始化路由失败: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Infof("服务器启动在 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalf("启动服务器失败: %v", err)
		}
	}()

	// 等待退出信号
	<-ctx.Done()
	appLogger.Info("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("关闭服务器失败: %v", err)
	}
}
