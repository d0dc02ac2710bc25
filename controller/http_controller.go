package controller

import (
	"fmt"
	"net/http"

	"audience-sync-service/conf"
	"audience-sync-service/controller/auth"

	_ "audience-sync-service/docs" // 导入生成的 swagger 文档

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func Run() {
	router := gin.Default()
	router.Use(Cors())
	router.Use(Logger())

	// Swagger 文档路由
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	{
		// 应用 API Key 鉴权中间件到所有 Sync API 路由
		syncGroup := v1.Group("/sync", auth.ApiKeyMiddleware())
		{
			syncGroup.GET("/status", GetStatus)

			syncGroup.GET("/notifications", GetNotifications)
			syncGroup.POST("/notifications/clear_one", ClearOneNotification)
			syncGroup.POST("/notifications/clear_all", ClearAllNotifications)

			syncGroup.GET("/presence", GetPresence)

			syncGroup.GET("/threads/unread", GetUnreadThreads)
			syncGroup.POST("/threads/mark_seen", MarkThreadSeen)

			syncGroup.POST("/conversations/open", OpenConversation)
			syncGroup.POST("/conversations/close", CloseConversation)
			syncGroup.GET("/conversations/messages", GetConversationMessages)
			syncGroup.POST("/conversations/send_message", SendConversationMessage)
			syncGroup.POST("/conversations/typing", ComposerTyping)
			syncGroup.GET("/conversations/typing_state", GetTypingState)
		}
	}

	_ = router.Run(fmt.Sprintf("0.0.0.0:%s", conf.Port))
}

func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Header("Access-Control-Allow-Headers", "Content-Type,AccessToken,X-CSRF-Token, Authorization,X-API-KEY")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Set("content-type", "application/json")
		if method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
		}
		c.Next()
	}
}

func Logger() gin.HandlerFunc {
	return func(context *gin.Context) {
		context.Next()
	}
}
