package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"audience-sync-service/controller/request"
	"audience-sync-service/controller/respond"
	"audience-sync-service/service/sync_center"
	"audience-sync-service/tool"
)

// GetStatus godoc
// @Summary 获取同步中心状态
// @Description 返回同步中心运行状态、全局连接状态与通知流统计
// @Tags Sync API
// @Produce json
// @Success 200 {object} respond.Response "成功响应"
// @Failure 500 {object} respond.Response "服务器内部错误"
// @Router /v1/sync/status [get]
func GetStatus(c *gin.Context) {
	var t int64 = tool.MakeTimestamp()

	center := synccenter.GetGlobalCenter()
	if center == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("同步中心未初始化"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	responseData := map[string]interface{}{
		"running":     center.IsRunning(),
		"connected":   center.IsConnected(),
		"startedDate": tool.MakeDate(center.StartedAt()),
		"feed":        center.Feed().Stats(),
		"online":      center.Presence().Count(),
	}

	c.JSONP(http.StatusOK, respond.RespSuccess(responseData, tool.MakeTimestamp()-t))
}

// GetNotifications godoc
// @Summary 获取通知列表
// @Description 返回合并后的通知列表，时间倒序
// @Tags Sync API
// @Produce json
// @Success 200 {object} respond.Response{data=[]models.Notification} "成功响应"
// @Failure 500 {object} respond.Response "服务器内部错误"
// @Router /v1/sync/notifications [get]
func GetNotifications(c *gin.Context) {
	var t int64 = tool.MakeTimestamp()

	center := synccenter.GetGlobalCenter()
	if center == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("同步中心未初始化"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	c.JSONP(http.StatusOK, respond.RespSuccess(center.Feed().Items(), tool.MakeTimestamp()-t))
}

// ClearOneNotification godoc
// @Summary 删除单条通知
// @Description 按当前展示列表中的位置删除一条通知
// @Tags Sync API
// @Accept json
// @Produce json
// @Param request body request.ClearOneReq true "请求参数"
// @Success 200 {object} respond.Response "成功响应"
// @Failure 400 {object} respond.Response "参数错误"
// @Failure 500 {object} respond.Response "服务器内部错误"
// @Router /v1/sync/notifications/clear_one [post]
func ClearOneNotification(c *gin.Context) {
	var (
		t            int64 = tool.MakeTimestamp()
		requestModel *request.ClearOneReq
	)

	center := synccenter.GetGlobalCenter()
	if center == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("同步中心未初始化"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	if c.ShouldBindJSON(&requestModel) == nil {
		if !center.Feed().ClearOne(requestModel.Index) {
			c.JSONP(http.StatusOK, respond.RespErr(errors.New("通知位置越界"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
			return
		}

		responseData := map[string]interface{}{
			"success": true,
			"message": "通知删除成功",
		}

		c.JSONP(http.StatusOK, respond.RespSuccess(responseData, tool.MakeTimestamp()-t))
		return
	}

	c.JSONP(http.StatusInternalServerError, respond.RespErr(errors.New("参数错误"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
}

// ClearAllNotifications godoc
// @Summary 清空通知列表
// @Description 清空当前的全部通知
// @Tags Sync API
// @Produce json
// @Success 200 {object} respond.Response "成功响应"
// @Failure 500 {object} respond.Response "服务器内部错误"
// @Router /v1/sync/notifications/clear_all [post]
func ClearAllNotifications(c *gin.Context) {
	var t int64 = tool.MakeTimestamp()

	center := synccenter.GetGlobalCenter()
	if center == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("同步中心未初始化"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	center.Feed().ClearAll()

	responseData := map[string]interface{}{
		"success": true,
		"message": "通知已清空",
	}

	c.JSONP(http.StatusOK, respond.RespSuccess(responseData, tool.MakeTimestamp()-t))
}

// GetPresence godoc
// @Summary 获取在线用户列表
// @Description 返回当前在线用户ID列表
// @Tags Sync API
// @Produce json
// @Success 200 {object} respond.Response "成功响应"
// @Failure 500 {object} respond.Response "服务器内部错误"
// @Router /v1/sync/presence [get]
func GetPresence(c *gin.Context) {
	var t int64 = tool.MakeTimestamp()

	center := synccenter.GetGlobalCenter()
	if center == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("同步中心未初始化"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	responseData := map[string]interface{}{
		"userIds": center.Presence().List(),
		"count":   center.Presence().Count(),
	}

	c.JSONP(http.StatusOK, respond.RespSuccess(responseData, tool.MakeTimestamp()-t))
}

// GetUnreadThreads godoc
// @Summary 获取未读线程列表
// @Description 拉取线程列表并按已读水位过滤出未读线程
// @Tags Sync API
// @Produce json
// @Success 200 {object} respond.Response{data=[]models.Thread} "成功响应"
// @Failure 500 {object} respond.Response "服务器内部错误"
// @Router /v1/sync/threads/unread [get]
func GetUnreadThreads(c *gin.Context) {
	var t int64 = tool.MakeTimestamp()

	center := synccenter.GetGlobalCenter()
	if center == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("同步中心未初始化"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	unread, err := center.UnreadThreads(c.Request.Context())
	if err != nil {
		c.JSONP(http.StatusOK, respond.RespErr(err, tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	c.JSONP(http.StatusOK, respond.RespSuccess(unread, tool.MakeTimestamp()-t))
}

// MarkThreadSeen godoc
// @Summary 标记线程已读
// @Description 将线程已读水位写到指定时间
// @Tags Sync API
// @Accept json
// @Produce json
// @Param request body request.MarkThreadSeenReq true "请求参数"
// @Success 200 {object} respond.Response "成功响应"
// @Failure 400 {object} respond.Response "参数错误"
// @Failure 500 {object} respond.Response "服务器内部错误"
// @Router /v1/sync/threads/mark_seen [post]
func MarkThreadSeen(c *gin.Context) {
	var (
		t            int64 = tool.MakeTimestamp()
		requestModel *request.MarkThreadSeenReq
	)

	center := synccenter.GetGlobalCenter()
	if center == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("同步中心未初始化"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	if c.ShouldBindJSON(&requestModel) == nil {
		err := center.MarkThreadSeen(requestModel.ThreadID, requestModel.LastSeenAt)
		if err != nil {
			c.JSONP(http.StatusOK, respond.RespErr(err, tool.MakeTimestamp()-t, respond.HttpsCodeError))
			return
		}

		responseData := map[string]interface{}{
			"success": true,
			"message": "线程已标记已读",
		}

		c.JSONP(http.StatusOK, respond.RespSuccess(responseData, tool.MakeTimestamp()-t))
		return
	}

	c.JSONP(http.StatusInternalServerError, respond.RespErr(errors.New("参数错误"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
}

// OpenConversation godoc
// @Summary 打开会话
// @Description 打开一个会话：建立会话作用域连接并拉取历史消息，重复打开幂等
// @Tags Sync API
// @Accept json
// @Produce json
// @Param request body request.OpenConversationReq true "请求参数"
// @Success 200 {object} respond.Response "成功响应"
// @Failure 400 {object} respond.Response "参数错误"
// @Failure 500 {object} respond.Response "服务器内部错误"
// @Router /v1/sync/conversations/open [post]
func OpenConversation(c *gin.Context) {
	var (
		t            int64 = tool.MakeTimestamp()
		requestModel *request.OpenConversationReq
	)

	center := synccenter.GetGlobalCenter()
	if center == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("同步中心未初始化"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	if c.ShouldBindJSON(&requestModel) == nil {
		_, err := center.OpenConversation(c.Request.Context(), requestModel.ConversationID)
		if err != nil {
			c.JSONP(http.StatusOK, respond.RespErr(err, tool.MakeTimestamp()-t, respond.HttpsCodeError))
			return
		}

		responseData := map[string]interface{}{
			"success":        true,
			"conversationId": requestModel.ConversationID,
		}

		c.JSONP(http.StatusOK, respond.RespSuccess(responseData, tool.MakeTimestamp()-t))
		return
	}

	c.JSONP(http.StatusInternalServerError, respond.RespErr(errors.New("参数错误"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
}

// CloseConversation godoc
// @Summary 关闭会话
// @Description 关闭会话：断开会话作用域连接并结束输入状态
// @Tags Sync API
// @Accept json
// @Produce json
// @Param request body request.CloseConversationReq true "请求参数"
// @Success 200 {object} respond.Response "成功响应"
// @Failure 400 {object} respond.Response "参数错误"
// @Failure 500 {object} respond.Response "服务器内部错误"
// @Router /v1/sync/conversations/close [post]
func CloseConversation(c *gin.Context) {
	var (
		t            int64 = tool.MakeTimestamp()
		requestModel *request.CloseConversationReq
	)

	center := synccenter.GetGlobalCenter()
	if center == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("同步中心未初始化"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	if c.ShouldBindJSON(&requestModel) == nil {
		center.CloseConversation(requestModel.ConversationID)

		responseData := map[string]interface{}{
			"success":        true,
			"conversationId": requestModel.ConversationID,
		}

		c.JSONP(http.StatusOK, respond.RespSuccess(responseData, tool.MakeTimestamp()-t))
		return
	}

	c.JSONP(http.StatusInternalServerError, respond.RespErr(errors.New("参数错误"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
}

// GetConversationMessages godoc
// @Summary 获取会话消息列表
// @Description 返回已打开会话的消息列表，历史在前、实时消息在后
// @Tags Sync API
// @Produce json
// @Param conversationId query string true "会话唯一标识"
// @Param limit query int false "最多返回的消息条数，取最近的若干条"
// @Success 200 {object} respond.Response{data=[]models.ChatMessage} "成功响应"
// @Failure 400 {object} respond.Response "参数错误"
// @Failure 500 {object} respond.Response "服务器内部错误"
// @Router /v1/sync/conversations/messages [get]
func GetConversationMessages(c *gin.Context) {
	var t int64 = tool.MakeTimestamp()

	center := synccenter.GetGlobalCenter()
	if center == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("同步中心未初始化"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	conversationId := c.Query("conversationId")
	if conversationId == "" {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("conversationId 参数不能为空"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	conversation := center.Conversation(conversationId)
	if conversation == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("会话未打开"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	messages := conversation.Messages()

	// limit 截取最近的若干条，消息列表历史在前、实时在后
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit := tool.StrToInt(limitStr); limit > 0 && limit < len(messages) {
			messages = messages[len(messages)-limit:]
		}
	}

	c.JSONP(http.StatusOK, respond.RespSuccess(messages, tool.MakeTimestamp()-t))
}

// SendConversationMessage godoc
// @Summary 发送会话消息
// @Description 发送一条消息：连接存活走 Socket.IO，断开时走 REST 兜底；两条路都失败时消息不入列
// @Tags Sync API
// @Accept json
// @Produce json
// @Param request body request.SendMessageReq true "请求参数"
// @Success 200 {object} respond.Response "成功响应"
// @Failure 400 {object} respond.Response "参数错误"
// @Failure 500 {object} respond.Response "服务器内部错误"
// @Router /v1/sync/conversations/send_message [post]
func SendConversationMessage(c *gin.Context) {
	var (
		t            int64 = tool.MakeTimestamp()
		requestModel *request.SendMessageReq
	)

	center := synccenter.GetGlobalCenter()
	if center == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("同步中心未初始化"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	if c.ShouldBindJSON(&requestModel) == nil {
		conversation := center.Conversation(requestModel.ConversationID)
		if conversation == nil {
			c.JSONP(http.StatusOK, respond.RespErr(errors.New("会话未打开"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		message, err := conversation.Send(ctx, requestModel.Content, requestModel.ImageData)
		if err != nil {
			c.JSONP(http.StatusOK, respond.RespErr(err, tool.MakeTimestamp()-t, respond.HttpsCodeError))
			return
		}

		responseData := map[string]interface{}{
			"success": true,
			"message": message,
		}

		c.JSONP(http.StatusOK, respond.RespSuccess(responseData, tool.MakeTimestamp()-t))
		return
	}

	c.JSONP(http.StatusInternalServerError, respond.RespErr(errors.New("参数错误"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
}

// ComposerTyping godoc
// @Summary 输入框击键
// @Description 记录一次输入框击键，去抖后向会话广播输入状态
// @Tags Sync API
// @Accept json
// @Produce json
// @Param request body request.TypingReq true "请求参数"
// @Success 200 {object} respond.Response "成功响应"
// @Failure 400 {object} respond.Response "参数错误"
// @Failure 500 {object} respond.Response "服务器内部错误"
// @Router /v1/sync/conversations/typing [post]
func ComposerTyping(c *gin.Context) {
	var (
		t            int64 = tool.MakeTimestamp()
		requestModel *request.TypingReq
	)

	center := synccenter.GetGlobalCenter()
	if center == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("同步中心未初始化"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	if c.ShouldBindJSON(&requestModel) == nil {
		if err := center.ComposerKeystroke(requestModel.ConversationID); err != nil {
			c.JSONP(http.StatusOK, respond.RespErr(err, tool.MakeTimestamp()-t, respond.HttpsCodeError))
			return
		}

		responseData := map[string]interface{}{
			"success": true,
		}

		c.JSONP(http.StatusOK, respond.RespSuccess(responseData, tool.MakeTimestamp()-t))
		return
	}

	c.JSONP(http.StatusInternalServerError, respond.RespErr(errors.New("参数错误"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
}

// GetTypingState godoc
// @Summary 获取对方输入状态
// @Description 返回已打开会话中正在输入的用户ID列表
// @Tags Sync API
// @Produce json
// @Param conversationId query string true "会话唯一标识"
// @Success 200 {object} respond.Response "成功响应"
// @Failure 400 {object} respond.Response "参数错误"
// @Failure 500 {object} respond.Response "服务器内部错误"
// @Router /v1/sync/conversations/typing_state [get]
func GetTypingState(c *gin.Context) {
	var t int64 = tool.MakeTimestamp()

	center := synccenter.GetGlobalCenter()
	if center == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("同步中心未初始化"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	conversationId := c.Query("conversationId")
	if conversationId == "" {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("conversationId 参数不能为空"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	conversation := center.Conversation(conversationId)
	if conversation == nil {
		c.JSONP(http.StatusOK, respond.RespErr(errors.New("会话未打开"), tool.MakeTimestamp()-t, respond.HttpsCodeError))
		return
	}

	responseData := map[string]interface{}{
		"userIds": conversation.Typing().Snapshot(),
	}

	c.JSONP(http.StatusOK, respond.RespSuccess(responseData, tool.MakeTimestamp()-t))
}
