package controller

import (
	"sql_practice_backend/internal/service"
	"sql_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 学习统计
// @Description 经验、等级、连续天数、各难度正确率与卡片复习汇总
// @Tags 进度
// @Produce json
// @Success 200 {object} util.Response{data=model.StatsOverview}
// @Router /api/progress/stats [get]
func (c *ProgressController) Stats(ctx *gin.Context) {
	stats, err := c.ProgressService.GetStats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
