package middleware

import (
	"github.com/Mieluoxxx/aiconfig-hub/internal/stats"
	"github.com/gin-gonic/gin"
)

// RequestCounterMiddleware 请求统计中间件，按路由模板计数
func RequestCounterMiddleware(counter *stats.RequestCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		counter.Record(route, c.Writer.Status())
	}
}
