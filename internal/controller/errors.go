package controller

import (
	"errors"
	"net/http"
	"sql_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError 按错误类型映射 HTTP 状态码
func respondError(ctx *gin.Context, err error) {
	respondErrorWithData(ctx, err, nil)
}

func respondErrorWithData(ctx *gin.Context, err error, data interface{}) {
	var ve *util.ValidationError
	var qe *util.QueryExecutionError

	switch {
	case errors.As(err, &ve):
		util.ErrorWithData(ctx, http.StatusBadRequest, ve.Reason, data)
	case errors.As(err, &qe):
		util.ErrorWithData(ctx, http.StatusBadRequest, qe.Error(), data)
	case errors.Is(err, util.ErrTableNotFound),
		errors.Is(err, util.ErrProblemNotFound),
		errors.Is(err, util.ErrFlashcardNotFound):
		util.ErrorWithData(ctx, http.StatusNotFound, err.Error(), data)
	case errors.Is(err, util.ErrContentProvider):
		util.ErrorWithData(ctx, http.StatusBadGateway, err.Error(), data)
	default:
		util.LogInternalError(ctx, err)
	}
}
