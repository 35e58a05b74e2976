package common

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AbortWithError 將錯誤轉為統一的 JSON 錯誤響應並中止請求
func AbortWithError(c *gin.Context, err error) {
	ce := AsCustomError(err)
	_ = c.Error(err)

	// 5xx 的細節只在 debug 模式回傳
	withDetails := ce.Status < 500 || gin.IsDebugging()
	if ce.Status >= 500 {
		LogError("Request failed",
			zap.String("code", ce.Code),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(ce.Status, ce.Response(withDetails))
}
