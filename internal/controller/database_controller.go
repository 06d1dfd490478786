package controller

import (
	"sql_practice_backend/internal/service"
	"sql_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DatabaseController struct {
	QueryService *service.QueryService
}

func NewDatabaseController(queryService *service.QueryService) *DatabaseController {
	return &DatabaseController{QueryService: queryService}
}

// @Summary 练习库结构
// @Tags 练习库
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/database/schema [get]
func (c *DatabaseController) Schema(ctx *gin.Context) {
	schema, err := c.QueryService.Schema(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, schema)
}

// @Summary 表样例数据
// @Tags 练习库
// @Produce json
// @Param table query string true "表名"
// @Param limit query int false "行数" default(5)
// @Success 200 {object} util.Response{data=model.SampleData}
// @Failure 404 {object} util.Response
// @Router /api/database/sample-data [get]
func (c *DatabaseController) SampleData(ctx *gin.Context) {
	limit := util.ParseLimit(ctx.Query("limit"), util.DefaultSampleLimit, 0)

	data, err := c.QueryService.SampleData(ctx.Request.Context(), ctx.Query("table"), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, data)
}

// @Summary 各表行数
// @Tags 练习库
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/database/stats [get]
func (c *DatabaseController) Stats(ctx *gin.Context) {
	stats, err := c.QueryService.TableStats(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
