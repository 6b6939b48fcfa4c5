package controller

import (
	"net/http"

	"roadmap_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type HealthController struct {
	Redis       *redis.Client // 仅 redis 验证码模式下非空
	AIKeyLoaded func() bool
}

func NewHealthController(rdb *redis.Client, aiKeyLoaded func() bool) *HealthController {
	return &HealthController{Redis: rdb, AIKeyLoaded: aiKeyLoaded}
}

// @Summary 健康检查
// @Description 检查服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	components := gin.H{}

	if c.Redis != nil {
		if err := c.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Redis unavailable")
			return
		}
		components["redis"] = "up"
	}

	// 未配置密钥时服务仍可用，仅搜索请求失败
	ai := "unconfigured"
	if c.AIKeyLoaded != nil && c.AIKeyLoaded() {
		ai = "configured"
	}
	components["ai"] = ai

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
