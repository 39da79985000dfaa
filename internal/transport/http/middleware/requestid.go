package middleware

import (
	"github.com/gin-gonic/gin"

	"go-vending-machine/pkg/utils"
)

const KeyRequestID = "X-Request-ID"

// RequestID 透传或补发请求 ID，访问日志用同一个 key 取
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if rid == "" {
			rid = utils.NewID()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}
