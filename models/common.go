package models

// 推送连接作用域：全局作用域整个登录期一个，会话作用域按 conversation:<id> 区分
const (
	ScopeGlobal             = "global"
	ScopeConversationPrefix = "conversation:"
)

// ConversationScope 生成会话作用域标识
func ConversationScope(conversationID string) string {
	return ScopeConversationPrefix + conversationID
}
