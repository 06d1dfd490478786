package controller

import (
	"sql_practice_backend/internal/model"
	"sql_practice_backend/internal/service"
	"sql_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FlashcardController struct {
	FlashcardService *service.FlashcardService
}

func NewFlashcardController(flashcardService *service.FlashcardService) *FlashcardController {
	return &FlashcardController{FlashcardService: flashcardService}
}

type FlashcardOptionsRequest struct {
	Card *model.Flashcard `json:"card" binding:"required"`
}

type FlashcardProgressRequest struct {
	CardID  string `json:"card_id" binding:"required"`
	Correct bool   `json:"correct"`
	Topic   string `json:"topic"`
	Level   string `json:"level"`
}

type FlashcardExplainRequest struct {
	CardID string `json:"card_id" binding:"required"`
	Answer string `json:"answer"`
}

// @Summary 全部卡片
// @Description 按等级分组返回卡片，不含选项
// @Tags 卡片
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/flashcards/all [get]
func (c *FlashcardController) All(ctx *gin.Context) {
	util.Success(ctx, c.FlashcardService.ListFlashcards())
}

// @Summary 卡片选项
// @Description 返回一个正确答案和三个干扰项，命中缓存时不调用模型
// @Tags 卡片
// @Accept json
// @Produce json
// @Param request body FlashcardOptionsRequest true "卡片"
// @Success 200 {object} util.Response
// @Router /api/flashcards/options [post]
func (c *FlashcardController) Options(ctx *gin.Context) {
	var req FlashcardOptionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Card data required")
		return
	}

	options, err := c.FlashcardService.GetOptions(ctx.Request.Context(), *req.Card)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"options": options})
}

// @Summary 记录复习
// @Tags 卡片
// @Accept json
// @Produce json
// @Param request body FlashcardProgressRequest true "复习结果"
// @Success 200 {object} util.Response
// @Router /api/flashcards/progress [post]
func (c *FlashcardController) Progress(ctx *gin.Context) {
	var req FlashcardProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.FlashcardService.RecordReview(req.CardID, req.Correct, req.Topic, req.Level); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"status": "success"})
}

// @Summary 卡片讲解
// @Tags 卡片
// @Accept json
// @Produce json
// @Param request body FlashcardExplainRequest true "卡片与作答"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/flashcards/explain [post]
func (c *FlashcardController) Explain(ctx *gin.Context) {
	var req FlashcardExplainRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	explanation, kind, err := c.FlashcardService.Explain(ctx.Request.Context(), req.CardID, req.Answer)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"explanation": explanation, "source": kind})
}
