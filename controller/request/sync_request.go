package request

// OpenConversationReq 打开会话请求参数
type OpenConversationReq struct {
	ConversationID string `json:"conversationId" binding:"required"` // 会话唯一标识
}

// CloseConversationReq 关闭会话请求参数
type CloseConversationReq struct {
	ConversationID string `json:"conversationId" binding:"required"` // 会话唯一标识
}

// SendMessageReq 发送消息请求参数
type SendMessageReq struct {
	ConversationID string `json:"conversationId" binding:"required"` // 会话唯一标识
	Content        string `json:"content" binding:"required"`        // 消息内容
	ImageData      string `json:"imageData"`                         // 图片数据（可选）
}

// TypingReq 输入框击键请求参数
type TypingReq struct {
	ConversationID string `json:"conversationId" binding:"required"` // 会话唯一标识
}

// MarkThreadSeenReq 标记线程已读请求参数
type MarkThreadSeenReq struct {
	ThreadID   string `json:"threadId" binding:"required"` // 线程唯一标识
	LastSeenAt int64  `json:"lastSeenAt"`                  // 已读水位（毫秒），缺省用最后消息时间
}

// ClearOneReq 删除单条通知请求参数
type ClearOneReq struct {
	Index int `json:"index"` // 通知在当前展示列表中的位置
}
