package socket_client_service

import "encoding/json"

// 推送事件名（接收）
const (
	EventConnect         = "connect"
	EventDisconnect      = "disconnect"
	EventConnectError    = "connect_error"
	EventError           = "error"
	EventNotificationNew = "notification:new"
	EventOnlineUsers     = "online:users"
	EventUserOnline      = "user:online"
	EventUserOffline     = "user:offline"
	EventNewMessage      = "new:message"
	EventTyping          = "typing"
)

// 推送事件名（发送）
const (
	EventConversationJoin = "conversation:join"
	EventSendMessage      = "send:message"
)

// PresencePayload 上线/下线事件负载
type PresencePayload struct {
	UserID string `json:"userId"` // 用户唯一标识
}

// OnlineUsersPayload 在线名单快照负载
type OnlineUsersPayload struct {
	UserIDs []string `json:"userIds"`
}

// TypingPayload 输入状态事件负载
type TypingPayload struct {
	ConversationID string `json:"conversationId,omitempty"` // 所属会话ID
	UserID         string `json:"userId"`                   // 正在输入的用户ID
	IsTyping       bool   `json:"isTyping"`                 // 是否正在输入
}

// JoinPayload 加入会话作用域请求负载
type JoinPayload struct {
	ConversationID string `json:"conversationId"`
}

// SendMessagePayload 发送消息请求负载
type SendMessagePayload struct {
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
	ImageData      string `json:"imageData,omitempty"`
}

// DecodePayload 解析事件负载为指定结构
// 服务端推送可能是 JSON 字符串也可能是 map，这里统一走一次序列化转换
func DecodePayload(data []interface{}, out interface{}) error {
	if len(data) == 0 {
		return ErrEmptyPayload
	}
	if raw, ok := data[0].(string); ok {
		return json.Unmarshal([]byte(raw), out)
	}
	buf, err := json.Marshal(data[0])
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, out)
}
