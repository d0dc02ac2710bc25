package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"audience-sync-service/conf"
	"audience-sync-service/controller/respond"
	"audience-sync-service/tool"
)

// ApiKeyMiddleware API Key 鉴权中间件
// 校验请求头 X-API-KEY；未配置 api_key 时跳过校验
func ApiKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if conf.APIKey == "" {
			c.Next()
			return
		}

		t := tool.MakeTimestamp()
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey == "" || apiKey != conf.APIKey {
			c.JSONP(http.StatusUnauthorized, respond.RespErr(
				respond.NewAuthError("无效的 API Key"),
				tool.MakeTimestamp()-t,
				respond.HttpsCodeError,
			))
			c.Abort()
			return
		}

		c.Next()
	}
}
