package socket_client_service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/zishang520/socket.io/clients/engine/v3/transports"
	socketio "github.com/zishang520/socket.io/clients/socket/v3"
	"github.com/zishang520/socket.io/v3/pkg/types"
)

// ErrEmptyPayload 事件负载为空
var ErrEmptyPayload = errors.New("empty event payload")

// ErrNotConnected 连接未建立
var ErrNotConnected = errors.New("client not connected")

// TokenProvider 异步获取当前登录态的 Bearer Token
// 返回空 Token 表示当前没有登录态
type TokenProvider func(ctx context.Context) (string, error)

// Config Socket.IO 客户端配置
type Config struct {
	ServerURL string `yaml:"server_url" json:"server_url"` // 服务器地址
	Path      string `yaml:"path" json:"path"`             // Socket.IO路径，默认 "/socket.io/"
	Timeout   int    `yaml:"timeout" json:"timeout"`       // 连接超时秒数，默认10秒
	Scope     string `yaml:"scope" json:"scope"`           // 连接作用域：global 或 conversation:<id>
}

// Client Socket.IO 客户端，一个作用域对应一个连接
type Client struct {
	config    *Config
	getToken  TokenProvider
	socket    *socketio.Socket
	connected bool
	mu        sync.RWMutex

	// 事件订阅表：事件名 -> 处理器列表
	handlers map[string][]func(data ...interface{})

	// 连接生命周期回调
	OnConnect    func()
	OnDisconnect func()
	OnError      func(error)
}

// NewClient 创建新的客户端
func NewClient(config *Config, getToken TokenProvider) *Client {
	if config.Path == "" {
		config.Path = "/socket.io/"
	}
	if config.Timeout == 0 {
		config.Timeout = 10
	}

	return &Client{
		config:   config,
		getToken: getToken,
		handlers: make(map[string][]func(data ...interface{})),
	}
}

// Scope 返回连接作用域
func (c *Client) Scope() string {
	return c.config.Scope
}

// On 注册事件处理器，可在连接建立前后任意时刻调用
func (c *Client) On(event string, handler func(data ...interface{})) {
	c.mu.Lock()
	c.handlers[event] = append(c.handlers[event], handler)
	socket := c.socket
	alreadyBound := len(c.handlers[event]) > 1
	c.mu.Unlock()

	// 同一事件只向底层 socket 绑定一次，由 dispatch 分发给全部订阅者
	if socket != nil && !alreadyBound {
		c.bindSocketEvent(socket.EventEmitter, event)
	}
}

// Start 启动客户端连接
// 没有登录态时静默跳过（不尝试连接、不报错），未登录页面加载不产生错误
// 连接失败只记录日志并通过 OnError 通知，不向调用方抛出
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.socket != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	token, err := c.getToken(ctx)
	if err != nil || token == "" {
		log.Printf("📴 无登录态，跳过 Socket.IO 连接: scope=%s", c.config.Scope)
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.socket != nil {
		return nil
	}

	// 创建Socket.IO连接选项：WebSocket优先，长轮询兜底
	options := socketio.DefaultOptions()
	options.SetTransports(types.NewSet(
		transports.Polling,
		transports.WebSocket,
	))
	options.SetPath(c.config.Path)
	options.SetQuery(
		url.Values{
			"token": {token},
		},
	)
	options.SetTimeout(time.Duration(c.config.Timeout) * time.Second)

	socket, err := socketio.Connect(c.config.ServerURL, options)
	if err != nil {
		log.Printf("❌ Failed to connect to Socket.IO server: %v", err)
		if c.OnError != nil {
			go c.OnError(err)
		}
		return nil
	}

	c.socket = socket

	c.setupEventHandlers()

	log.Printf("🚀 Socket.IO client connecting to %s, scope=%s", c.config.ServerURL, c.config.Scope)

	return nil
}

// Stop 停止客户端
func (c *Client) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.socket != nil {
		c.socket.Disconnect()
		c.socket = nil
	}

	wasConnected := c.connected
	c.connected = false

	if wasConnected && c.OnDisconnect != nil {
		go c.OnDisconnect()
	}

	log.Printf("📴 Socket.IO client stopped: scope=%s", c.config.Scope)
}

// IsConnected 检查是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected || c.socket == nil {
		return false
	}

	// 安全地检查连接状态，防止 panic
	connected := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("⚠️ Panic recovered when checking socket.Connected(): %v", r)
				connected = false
			}
		}()
		connected = c.socket.Connected()
	}()

	return connected
}

// Emit 发送事件
// 只有连接级错误会返回；连接建立后的发送是 fire-and-forget
func (c *Client) Emit(event string, data interface{}) error {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ Panic recovered in Emit: %v", r)
		}
	}()

	c.mu.RLock()
	socket := c.socket
	c.mu.RUnlock()

	if socket == nil || !c.IsConnected() {
		log.Printf("❌ Client not connected: scope=%s, event=%s", c.config.Scope, event)
		return ErrNotConnected
	}

	socket.Emit(event, data)
	log.Printf("📤 Sent event: %s, scope=%s", event, c.config.Scope)

	return nil
}

// setupEventHandlers 设置事件处理器
func (c *Client) setupEventHandlers() {
	if c.socket == nil {
		return
	}

	c.socket.On("connect", func(data ...interface{}) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("⚠️ Panic recovered in connect handler: %v", r)
			}
		}()

		c.mu.Lock()
		c.connected = true
		c.mu.Unlock()

		log.Printf("✅ Socket.IO connected successfully: scope=%s", c.config.Scope)

		if c.OnConnect != nil {
			go c.OnConnect()
		}
	})

	c.socket.On("disconnect", func(data ...interface{}) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("⚠️ Panic recovered in disconnect handler: %v", r)
			}
		}()

		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()

		log.Printf("❌ Socket.IO disconnected: scope=%s", c.config.Scope)

		if c.OnDisconnect != nil {
			go c.OnDisconnect()
		}
	})

	c.socket.On("connect_error", func(data ...interface{}) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("⚠️ Panic recovered in connect_error handler: %v", r)
				if c.OnError != nil {
					go c.OnError(fmt.Errorf("connect error panic recovered: %v", r))
				}
			}
		}()

		err := eventError(data, "connection error")
		log.Printf("🔥 Socket.IO connect error: %v", err)

		if c.OnError != nil {
			go c.OnError(err)
		}
	})

	c.socket.On("error", func(data ...interface{}) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("⚠️ Panic recovered in error handler: %v", r)
				if c.OnError != nil {
					go c.OnError(fmt.Errorf("error handler panic recovered: %v", r))
				}
			}
		}()

		err := eventError(data, "socket error")
		log.Printf("🔥 Socket.IO error: %v", err)

		if c.OnError != nil {
			go c.OnError(err)
		}
	})

	// 绑定订阅表中已注册的业务事件
	c.mu.RLock()
	events := make([]string, 0, len(c.handlers))
	for event := range c.handlers {
		events = append(events, event)
	}
	socket := c.socket
	c.mu.RUnlock()

	for _, event := range events {
		c.bindSocketEvent(socket.EventEmitter, event)
	}
}

// bindSocketEvent 向底层 socket 绑定一个业务事件并交给 dispatch 分发
func (c *Client) bindSocketEvent(emitter types.EventEmitter, event string) {
	name := event
	emitter.On(types.EventName(name), func(data ...interface{}) {
		c.dispatch(name, data...)
	})
}

// dispatch 将事件分发给订阅表中的全部处理器
// 任何处理器 panic 都不能打断合并管线
func (c *Client) dispatch(event string, data ...interface{}) {
	c.mu.RLock()
	handlers := make([]func(data ...interface{}), len(c.handlers[event]))
	copy(handlers, c.handlers[event])
	c.mu.RUnlock()

	for _, handler := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("⚠️ Panic recovered in %s handler: %v", event, r)
				}
			}()
			handler(data...)
		}()
	}
}

// eventError 从事件数据中提取错误
func eventError(data []interface{}, kind string) error {
	if len(data) > 0 && data[0] != nil {
		if e, ok := data[0].(error); ok {
			return e
		}
		return fmt.Errorf("%s: %v", kind, data[0])
	}
	return fmt.Errorf("%s: unknown error", kind)
}
