package app

import (
	"roadmap_backend/docs"
	"roadmap_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 全部接口无需登录
	a.registerPublicRoutes(router, c)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/search", c.roadmap.Search)

		// 一次性验证码登录（无账号、无会话）
		auth := public.Group("/auth")
		auth.POST("/otp", c.auth.RequestCode)
		auth.POST("/otp/verify", c.auth.VerifyCode)
	}
}
