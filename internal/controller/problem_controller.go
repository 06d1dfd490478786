package controller

import (
	"sql_practice_backend/internal/service"
	"sql_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const maxSavedLimit = 500

type ProblemController struct {
	ProblemService *service.ProblemService
	QueryService   *service.QueryService
}

func NewProblemController(problemService *service.ProblemService, queryService *service.QueryService) *ProblemController {
	return &ProblemController{ProblemService: problemService, QueryService: queryService}
}

type GenerateProblemRequest struct {
	Difficulty string `json:"difficulty" example:"basic"`
	Topic      string `json:"topic" example:"JOINs"`
	Save       *bool  `json:"save"`
}

type ExecuteQueryRequest struct {
	Query string `json:"query" binding:"required" example:"SELECT * FROM customers LIMIT 5"`
}

type CheckAnswerRequest struct {
	Query              string      `json:"query" binding:"required"`
	ProblemID          string      `json:"problem_id"`
	ProblemDescription string      `json:"problem_description"`
	ExpectedResult     interface{} `json:"expected_result"`
	Result             interface{} `json:"result"`
	Difficulty         string      `json:"difficulty"`
	Topic              string      `json:"topic"`
}

type HintRequest struct {
	ProblemDescription string `json:"problem_description" binding:"required"`
	Query              string `json:"query"`
	HintLevel          int    `json:"hint_level" example:"1"`
}

// @Summary 生成练习题
// @Description 按难度和主题生成 SQL 练习题，默认保存
// @Tags 练习题
// @Accept json
// @Produce json
// @Param request body GenerateProblemRequest true "生成参数"
// @Success 200 {object} util.Response{data=model.Problem}
// @Failure 502 {object} util.Response
// @Router /api/problem/generate [post]
func (c *ProblemController) Generate(ctx *gin.Context) {
	var req GenerateProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	save := true
	if req.Save != nil {
		save = *req.Save
	}

	problem, err := c.ProblemService.Generate(ctx.Request.Context(), service.GenerateInput{
		Difficulty: req.Difficulty,
		Topic:      req.Topic,
		Save:       save,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, problem)
}

// @Summary 执行查询
// @Description 执行只读查询并返回结果，不做评判
// @Tags 练习题
// @Accept json
// @Produce json
// @Param request body ExecuteQueryRequest true "查询"
// @Success 200 {object} util.Response{data=model.QueryResult}
// @Failure 400 {object} util.Response
// @Router /api/problem/execute [post]
func (c *ProblemController) Execute(ctx *gin.Context) {
	var req ExecuteQueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Query is required")
		return
	}

	result, err := c.QueryService.Execute(ctx.Request.Context(), req.Query)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 评判答案
// @Description 执行查询（或使用提交的结果）并评判，带 problem_id 时记录答题历史
// @Tags 练习题
// @Accept json
// @Produce json
// @Param request body CheckAnswerRequest true "答案"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /api/problem/check [post]
func (c *ProblemController) Check(ctx *gin.Context) {
	var req CheckAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Query is required")
		return
	}

	feedback, err := c.ProblemService.Check(ctx.Request.Context(), service.CheckInput{
		Query:              req.Query,
		ProblemID:          req.ProblemID,
		ProblemDescription: req.ProblemDescription,
		ExpectedResult:     req.ExpectedResult,
		Result:             req.Result,
		Difficulty:         req.Difficulty,
		Topic:              req.Topic,
	})
	if err != nil {
		if feedback != nil {
			respondErrorWithData(ctx, err, gin.H{"feedback": feedback})
			return
		}
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"feedback": feedback})
}

// @Summary 获取提示
// @Tags 练习题
// @Accept json
// @Produce json
// @Param request body HintRequest true "题目与当前查询"
// @Success 200 {object} util.Response
// @Router /api/problem/hint [post]
func (c *ProblemController) Hint(ctx *gin.Context) {
	var req HintRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Problem description is required")
		return
	}
	if req.HintLevel == 0 {
		req.HintLevel = 1
	}

	hint, err := c.ProblemService.Hint(ctx.Request.Context(), req.ProblemDescription, req.Query, req.HintLevel)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"hint": hint})
}

// @Summary 已保存题目列表
// @Tags 练习题
// @Produce json
// @Param limit query int false "数量" default(50)
// @Success 200 {object} util.Response
// @Router /api/problem/saved [get]
func (c *ProblemController) ListSaved(ctx *gin.Context) {
	limit := util.ParseLimit(ctx.Query("limit"), util.DefaultSavedLimit, maxSavedLimit)

	problems, err := c.ProblemService.ListSaved(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"problems": problems})
}

// @Summary 获取已保存题目
// @Tags 练习题
// @Produce json
// @Param id path string true "题目ID"
// @Success 200 {object} util.Response{data=model.Problem}
// @Failure 404 {object} util.Response
// @Router /api/problem/saved/{id} [get]
func (c *ProblemController) GetSaved(ctx *gin.Context) {
	problem, err := c.ProblemService.GetSaved(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, problem)
}

// @Summary 删除已保存题目
// @Tags 练习题
// @Produce json
// @Param id path string true "题目ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/problem/saved/{id} [delete]
func (c *ProblemController) DeleteSaved(ctx *gin.Context) {
	if err := c.ProblemService.DeleteSaved(ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"status": "success"})
}
