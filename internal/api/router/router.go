package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NecoOcean/we-chat-check-in/config"
	"github.com/NecoOcean/we-chat-check-in/internal/api/handler"
	"github.com/NecoOcean/we-chat-check-in/internal/api/middleware"
	"github.com/NecoOcean/we-chat-check-in/internal/model"
	"github.com/NecoOcean/we-chat-check-in/pkg/jwt"
	"github.com/NecoOcean/we-chat-check-in/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
//
// 参与端接口（验证、打卡、评价）不经过认证中间件：
// 持有有效二维码令牌即是参与凭证
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		v1.POST("/auth/login", h.Auth.Login)

		// 参与端（无需认证）
		v1.POST("/qrcodes/verify", h.QrCode.Verify)
		v1.POST("/checkins", h.Checkin.Submit)
		v1.POST("/evaluations", h.Evaluation.Submit)

		// 管理端（需要认证）
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 管理员账号模块（仅市级）
			admins := authorized.Group("/admins", middleware.RoleAuth(model.RoleCity))
			{
				admins.POST("", h.Admin.Create)
				admins.GET("", h.Admin.List)
				admins.GET("/:id", h.Admin.Get)
				admins.PUT("/:id", h.Admin.Update)
				admins.DELETE("/:id", h.Admin.Delete)
			}

			// 区县模块
			counties := authorized.Group("/counties")
			{
				counties.GET("", h.County.List)
				counties.POST("", middleware.RoleAuth(model.RoleCity), h.County.Create)
				counties.PUT("/:code", middleware.RoleAuth(model.RoleCity), h.County.Update)
			}

			// 教学点模块（县域可见性由 Service 层裁定）
			points := authorized.Group("/teaching-points")
			{
				points.GET("", h.TeachingPoint.List)
				points.GET("/:id", h.TeachingPoint.Get)
				points.POST("", h.TeachingPoint.Create)
				points.PUT("/:id", h.TeachingPoint.Update)
			}

			// 活动模块
			activities := authorized.Group("/activities")
			{
				activities.POST("", h.Activity.Create)
				activities.GET("", h.Activity.List)
				activities.GET("/:id", h.Activity.Get)
				activities.POST("/:id/finish", h.Activity.Finish)
				activities.POST("/:id/qrcodes", h.QrCode.Generate)
				activities.GET("/:id/checkin-statistics", h.Checkin.Statistics)
				activities.GET("/:id/evaluation-statistics", h.Evaluation.Statistics)
				activities.GET("/:id/checkins/export", h.Export.ExportCheckins)
			}

			// 二维码模块（管理端）
			qrcodes := authorized.Group("/qrcodes")
			{
				qrcodes.GET("", h.QrCode.List)
				qrcodes.POST("/:id/disable", h.QrCode.Disable)
			}

			// 记录查询模块
			authorized.GET("/checkins", h.Checkin.List)
			authorized.GET("/evaluations", h.Evaluation.List)
		}
	}

	return r
}
