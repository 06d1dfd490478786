package middleware

import (
	"sql_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID 透传或生成请求 ID，写入上下文和响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(util.RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(util.RequestIDKey, id)
		c.Writer.Header().Set(util.RequestIDHeader, id)
		c.Next()
	}
}
