package chat_service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"audience-sync-service/models"
	"audience-sync-service/service/api_service"
	"audience-sync-service/service/presence_service"
	"audience-sync-service/service/socket_client_service"
)

// Emitter 消息发送通道，连接存活时走 Socket.IO
type Emitter interface {
	Emit(event string, data interface{}) error
	IsConnected() bool
}

// Conversation 单个会话的消息视图
// 历史由 REST 按服务端顺序灌入，实时消息按 ID 去重后追加
type Conversation struct {
	id string

	mu       sync.RWMutex
	messages []models.ChatMessage
	seen     map[string]struct{}
	loaded   bool
	lastErr  error

	api       *api_service.Client
	transport Emitter
	typing    *presence_service.TypingTracker
}

// NewConversation 创建会话视图
func NewConversation(id string, api *api_service.Client, typingExpire time.Duration) *Conversation {
	return &Conversation{
		id:     id,
		seen:   make(map[string]struct{}),
		api:    api,
		typing: presence_service.NewTypingTracker(typingExpire),
	}
}

// ID 返回会话ID
func (c *Conversation) ID() string {
	return c.id
}

// AttachTransport 绑定消息发送通道
func (c *Conversation) AttachTransport(transport Emitter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transport = transport
}

// Typing 返回本会话的对方输入状态跟踪器
func (c *Conversation) Typing() *presence_service.TypingTracker {
	return c.typing
}

// LoadHistory 拉取会话历史并按服务端顺序灌入
// 历史到达前已收到的实时消息重新追加在历史之后，按 ID 去重
func (c *Conversation) LoadHistory(ctx context.Context) error {
	history, err := c.api.GetConversationMessages(ctx, c.id)
	if err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		return fmt.Errorf("load history for %s: %w", c.id, err)
	}

	// 切换会话时旧请求已被取消，迟到的结果不能覆盖新会话
	if ctx.Err() != nil {
		return ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	early := c.messages
	c.messages = make([]models.ChatMessage, 0, len(history)+len(early))
	c.seen = make(map[string]struct{}, len(history)+len(early))

	for _, m := range history {
		if _, dup := c.seen[m.ID]; dup && m.ID != "" {
			continue
		}
		c.seen[m.ID] = struct{}{}
		c.messages = append(c.messages, m)
	}
	for _, m := range early {
		if _, dup := c.seen[m.ID]; dup && m.ID != "" {
			continue
		}
		c.seen[m.ID] = struct{}{}
		c.messages = append(c.messages, m)
	}

	c.loaded = true
	c.lastErr = nil

	log.Printf("✅ Conversation history loaded: id=%s, total=%d", c.id, len(c.messages))
	return nil
}

// ApplyLive 追加一条实时消息，按 ID 去重
// 返回是否真正追加
func (c *Conversation) ApplyLive(m *models.ChatMessage) bool {
	if m == nil || m.ID == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, dup := c.seen[m.ID]; dup {
		return false
	}
	c.seen[m.ID] = struct{}{}
	c.messages = append(c.messages, *m)
	return true
}

// Messages 返回当前消息列表副本
func (c *Conversation) Messages() []models.ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()

	messages := make([]models.ChatMessage, len(c.messages))
	copy(messages, c.messages)
	return messages
}

// Loaded 历史是否已灌入
func (c *Conversation) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// LastError 最近一次历史拉取错误
func (c *Conversation) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Send 发送一条消息
// 连接存活走 Socket.IO，回显由 ApplyLive 处理，返回 (nil, nil)；
// 断开时走 REST 兜底，成功后立即入列并返回持久化副本，
// 后到的 Socket 回显按相同 ID 去重。
// 两条路都失败时返回错误，消息不入列，由调用方恢复输入框内容
func (c *Conversation) Send(ctx context.Context, content, imageData string) (*models.ChatMessage, error) {
	c.mu.RLock()
	transport := c.transport
	c.mu.RUnlock()

	if transport != nil && transport.IsConnected() {
		err := transport.Emit(socket_client_service.EventSendMessage, socket_client_service.SendMessagePayload{
			ConversationID: c.id,
			Content:        content,
			ImageData:      imageData,
		})
		if err == nil {
			return nil, nil
		}
		log.Printf("⚠️ Socket send failed, falling back to REST: %v", err)
	}

	message, err := c.api.SendMessage(ctx, &api_service.SendMessageReq{
		ConversationID: c.id,
		Content:        content,
		ImageData:      imageData,
	})
	if err != nil {
		return nil, fmt.Errorf("send message to %s: %w", c.id, err)
	}

	c.ApplyLive(message)
	return message, nil
}
