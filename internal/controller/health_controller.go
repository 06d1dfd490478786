package controller

import (
	"net/http"
	"sql_practice_backend/internal/service"
	"sql_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	QueryService    *service.QueryService
	ProgressService *service.ProgressService
	AIEnabled       func() bool
}

func NewHealthController(queryService *service.QueryService, progressService *service.ProgressService, aiEnabled func() bool) *HealthController {
	return &HealthController{QueryService: queryService, ProgressService: progressService, AIEnabled: aiEnabled}
}

// @Summary 健康检查
// @Description 检查练习库、进度库与内容服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	components := gin.H{
		"practice_db":      "up",
		"progress_db":      "up",
		"content_provider": "fallback",
	}
	healthy := true

	if err := c.QueryService.Ping(ctx.Request.Context()); err != nil {
		components["practice_db"] = "down"
		healthy = false
	}
	if err := c.ProgressService.Ping(); err != nil {
		components["progress_db"] = "down"
		healthy = false
	}
	if c.AIEnabled != nil && c.AIEnabled() {
		components["content_provider"] = "configured"
	}

	if !healthy {
		util.ErrorWithData(ctx, http.StatusServiceUnavailable, "Database unavailable", gin.H{
			"status":     "degraded",
			"components": components,
		})
		return
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
