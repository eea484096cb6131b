package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Mieluoxxx/aiconfig-hub/internal/aiconfig"
	"github.com/Mieluoxxx/aiconfig-hub/internal/api/handlers"
	"github.com/Mieluoxxx/aiconfig-hub/internal/api/middleware"
	"github.com/Mieluoxxx/aiconfig-hub/internal/auth"
	"github.com/Mieluoxxx/aiconfig-hub/internal/config"
	"github.com/Mieluoxxx/aiconfig-hub/internal/crypto"
	"github.com/Mieluoxxx/aiconfig-hub/internal/events"
	"github.com/Mieluoxxx/aiconfig-hub/internal/stats"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ServiceName 服务名称
const ServiceName = "aiconfig-hub"

// SetupRouter 配置路由
// ctx 结束时停止后台统计
func SetupRouter(ctx context.Context, db *gorm.DB, cfg *config.Config, log *logrus.Logger) (*gin.Engine, error) {
	handlers.RegisterValidators()
	counter := stats.NewRequestCounter(ctx, time.Minute)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestCounterMiddleware(counter))
	router.Use(cors.New(corsConfig(cfg.CORS.Origins)))

	// 健康检查端点，附带请求统计
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"service":  ServiceName,
			"requests": counter.Snapshot(),
		})
	})

	if err := setupAiConfigRoutes(router, db, cfg, log); err != nil {
		return nil, err
	}

	return router, nil
}

// setupAiConfigRoutes 配置 AI 配置路由
func setupAiConfigRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, log *logrus.Logger) error {
	opts := []aiconfig.Option{
		aiconfig.WithEvents(events.NewService(db)),
		aiconfig.WithLogger(log),
	}

	// 配置了加密密钥时加密保存 API Key
	if cfg.Security.EncryptionKey != "" {
		c, err := crypto.NewCipherFromBase64(cfg.Security.EncryptionKey)
		if err != nil {
			return fmt.Errorf("初始化加密失败: %w", err)
		}
		opts = append(opts, aiconfig.WithCipher(c))
	} else {
		log.Warn("未配置 security.encryption_key，API Key 将以明文保存")
	}

	// 未配置 JWT 密钥时关闭鉴权
	var manager *auth.Manager
	if cfg.Security.JWTSecret != "" {
		manager = auth.NewManager(cfg.Security.JWTSecret, 0)
	} else {
		log.Warn("未配置 security.jwt_secret，接口鉴权已关闭")
	}

	service := aiconfig.NewService(
		aiconfig.NewRepository(db),
		aiconfig.NewConnectionTester(cfg.Tester.Timeout),
		opts...,
	)
	handler := handlers.NewAiConfigHandler(service)

	adminOnly := middleware.RoleAuthMiddleware(manager, auth.RoleTenantAdmin)
	anyRole := middleware.RoleAuthMiddleware(manager, auth.RoleTenantAdmin, auth.RoleTenantMember)

	group := router.Group("/ai-config")
	{
		group.POST("/pageAiConfig", anyRole, handler.PageAiConfig)
		group.POST("/addAiConfig", adminOnly, handler.AddAiConfig)
		group.POST("/updateAiConfig", adminOnly, handler.UpdateAiConfig)
		group.POST("/deleteAiConfig", adminOnly, handler.DeleteAiConfig)
		group.POST("/enableAiConfig", adminOnly, handler.EnableAiConfig)
		group.POST("/disableAiConfig", adminOnly, handler.DisableAiConfig)
		group.POST("/testAiConfig", adminOnly, handler.TestAiConfig)
	}

	return nil
}

// corsConfig 构建跨域配置，包含 "*" 或为空时允许所有来源
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}

	c.AllowOrigins = origins
	return c
}
