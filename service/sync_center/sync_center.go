package synccenter

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"audience-sync-service/models"
	"audience-sync-service/service/api_service"
	"audience-sync-service/service/chat_service"
	"audience-sync-service/service/notify_service"
	"audience-sync-service/service/pebble_service"
	"audience-sync-service/service/presence_service"
	"audience-sync-service/service/socket_client_service"
	"audience-sync-service/service/thread_service"
	"audience-sync-service/tool"
)

// SyncCenter 同步中心管理器
// 持有全局作用域连接与当前会话作用域连接，聚合通知流、
// 在线状态、聊天消息与线程已读状态
type SyncCenter struct {
	socketManager *socket_client_service.Manager
	apiClient     *api_service.Client
	feed          *notify_service.Feed
	presence      *presence_service.Tracker
	threads       *thread_service.Tracker
	getToken      socket_client_service.TokenProvider

	// 当前打开的会话，同一时刻至多一个
	session *conversationSession

	config    *Config
	running   bool
	startedAt int64
	mu        sync.RWMutex
}

// Config 同步中心配置
type Config struct {
	SocketConfig   *socket_client_service.Config `yaml:"socket" json:"socket"`
	ApiConfig      *api_service.Config           `yaml:"api" json:"api"`
	PebbleConfig   *pebble_service.Config        `yaml:"pebble" json:"pebble"` // Pebble 数据库配置
	FeedConfig     *notify_service.FeedConfig    `yaml:"feed" json:"feed"`     // 通知流配置
	MyUserID       string                        `yaml:"my_user_id" json:"my_user_id"`
	TypingExpire   time.Duration                 `yaml:"typing_expire" json:"typing_expire"`
	TypingDebounce time.Duration                 `yaml:"typing_debounce" json:"typing_debounce"`
}

// conversationSession 一个打开的会话：消息视图 + 会话作用域连接 + 输入发送器
type conversationSession struct {
	conversation *chat_service.Conversation
	client       *socket_client_service.Client
	composer     *presence_service.Composer
	cancelFetch  context.CancelFunc
}

// NewSyncCenter 创建同步中心实例
func NewSyncCenter(config *Config, getToken socket_client_service.TokenProvider) *SyncCenter {
	return &SyncCenter{
		socketManager: socket_client_service.NewManager(config.SocketConfig, getToken),
		apiClient:     api_service.NewClient(config.ApiConfig, api_service.TokenProvider(getToken)),
		feed:          notify_service.NewFeed(config.FeedConfig),
		presence:      presence_service.NewTracker(),
		getToken:      getToken,
		config:        config,
		running:       false,
	}
}

// Initialize 初始化同步中心
func (sc *SyncCenter) Initialize() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	log.Printf("🚀 正在初始化同步中心...")

	// 初始化 Pebble 数据库服务，水位存储落地到本地
	var store thread_service.WatermarkStore
	if sc.config.PebbleConfig != nil {
		if err := pebble_service.InitializeGlobalService(sc.config.PebbleConfig); err != nil {
			log.Printf("❌ 初始化 Pebble 服务失败: %v", err)
			return fmt.Errorf("初始化 Pebble 服务失败: %w", err)
		}
		log.Printf("✅ Pebble 数据库服务已初始化")

		pebbleStore := pebble_service.NewGlobalPebbleWatermarkStore()
		if pebbleStore == nil {
			return fmt.Errorf("无法创建 Pebble 水位存储，全局服务未正确初始化")
		}
		store = pebbleStore
	} else {
		// 无持久化配置时水位只在进程内有效
		store = thread_service.NewMemoryWatermarkStore()
		log.Printf("⚠️ 未配置 Pebble，线程水位使用内存存储")
	}
	sc.threads = thread_service.NewTracker(store, sc.config.MyUserID)

	sc.setupGlobalHandlers()

	log.Printf("✅ 同步中心初始化完成")
	return nil
}

// setupGlobalHandlers 设置全局作用域连接的事件处理器
func (sc *SyncCenter) setupGlobalHandlers() {
	client := sc.socketManager.Client(models.ScopeGlobal)

	client.OnConnect = func() {
		log.Printf("✅ 全局连接已建立")
		// 首个连接拉一次通知历史，静默合并，重连时这里是无操作
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sc.feed.Bootstrap(ctx, sc.apiClient)
	}

	client.OnDisconnect = func() {
		log.Printf("❌ 全局连接已断开")
		// 陈旧的在线与输入状态不可信；通知流保留，重连不重拉历史
		sc.presence.Reset()

		sc.mu.RLock()
		session := sc.session
		sc.mu.RUnlock()
		if session != nil {
			session.conversation.Typing().Reset()
		}
	}

	client.OnError = func(err error) {
		log.Printf("🔥 全局连接错误: %v", err)
	}

	client.On(socket_client_service.EventNotificationNew, func(data ...interface{}) {
		var payload models.Notification
		if err := socket_client_service.DecodePayload(data, &payload); err != nil {
			log.Printf("⚠️ 解析实时通知失败: %v", err)
			return
		}
		sc.feed.ApplyLive(&payload)
	})

	client.On(socket_client_service.EventOnlineUsers, func(data ...interface{}) {
		var payload socket_client_service.OnlineUsersPayload
		if err := socket_client_service.DecodePayload(data, &payload); err != nil {
			log.Printf("⚠️ 解析在线名单失败: %v", err)
			return
		}
		sc.presence.Snapshot(payload.UserIDs)
	})

	client.On(socket_client_service.EventUserOnline, func(data ...interface{}) {
		var payload socket_client_service.PresencePayload
		if err := socket_client_service.DecodePayload(data, &payload); err != nil {
			log.Printf("⚠️ 解析上线事件失败: %v", err)
			return
		}
		sc.presence.Join(payload.UserID)
	})

	client.On(socket_client_service.EventUserOffline, func(data ...interface{}) {
		var payload socket_client_service.PresencePayload
		if err := socket_client_service.DecodePayload(data, &payload); err != nil {
			log.Printf("⚠️ 解析下线事件失败: %v", err)
			return
		}
		sc.presence.Leave(payload.UserID)
	})
}

// Run 运行同步中心
// 无登录态时连接静默跳过，同步中心照常进入运行态
func (sc *SyncCenter) Run(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.running {
		return fmt.Errorf("同步中心已经在运行中")
	}

	log.Printf("🚀 启动同步中心...")

	if err := sc.socketManager.Start(ctx, models.ScopeGlobal); err != nil {
		log.Printf("❌ 启动全局连接失败: %v", err)
		return fmt.Errorf("启动全局连接失败: %w", err)
	}

	sc.running = true
	sc.startedAt = tool.MakeTimestamp()
	log.Printf("✅ 同步中心已启动，正在监听事件...")

	return nil
}

// Stop 停止同步中心
func (sc *SyncCenter) Stop() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if !sc.running {
		return nil
	}

	log.Printf("🛑 正在停止同步中心...")

	if sc.session != nil {
		sc.closeSessionLocked()
	}
	sc.socketManager.StopAll()

	if err := pebble_service.CloseGlobalService(); err != nil {
		log.Printf("⚠️ 关闭 Pebble 服务时出现错误: %v", err)
	} else {
		log.Printf("✅ Pebble 数据库服务已关闭")
	}

	sc.running = false
	log.Printf("✅ 同步中心已停止")

	return nil
}

// IsRunning 检查同步中心是否正在运行
func (sc *SyncCenter) IsRunning() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.running
}

// StartedAt 返回启动时间（毫秒），未启动过返回 0
func (sc *SyncCenter) StartedAt() int64 {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.startedAt
}

// IsConnected 检查全局连接是否存活
func (sc *SyncCenter) IsConnected() bool {
	return sc.socketManager.IsConnected(models.ScopeGlobal)
}

// Feed 返回通知流
func (sc *SyncCenter) Feed() *notify_service.Feed {
	return sc.feed
}

// Presence 返回在线状态跟踪器
func (sc *SyncCenter) Presence() *presence_service.Tracker {
	return sc.presence
}

// Threads 返回线程已读状态跟踪器
func (sc *SyncCenter) Threads() *thread_service.Tracker {
	return sc.threads
}

// OpenConversation 打开一个会话
// 重复打开同一会话幂等；切换会话时取消上一个会话还在途的历史拉取
func (sc *SyncCenter) OpenConversation(ctx context.Context, conversationID string) (*chat_service.Conversation, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("会话ID不能为空")
	}

	sc.mu.Lock()

	if sc.session != nil && sc.session.conversation.ID() == conversationID {
		conversation := sc.session.conversation
		sc.mu.Unlock()
		return conversation, nil
	}

	if sc.session != nil {
		sc.closeSessionLocked()
	}

	scope := models.ConversationScope(conversationID)
	client := sc.socketManager.Client(scope)

	conversation := chat_service.NewConversation(conversationID, sc.apiClient, sc.config.TypingExpire)
	conversation.AttachTransport(client)

	composer := presence_service.NewComposer(sc.config.TypingDebounce, func(isTyping bool) {
		if err := client.Emit(socket_client_service.EventTyping, socket_client_service.TypingPayload{
			ConversationID: conversationID,
			UserID:         sc.config.MyUserID,
			IsTyping:       isTyping,
		}); err != nil {
			log.Printf("⚠️ 发送输入状态失败: %v", err)
		}
	})

	fetchCtx, cancelFetch := context.WithCancel(context.Background())
	session := &conversationSession{
		conversation: conversation,
		client:       client,
		composer:     composer,
		cancelFetch:  cancelFetch,
	}
	sc.session = session
	sc.mu.Unlock()

	sc.setupConversationHandlers(session, conversationID)

	if err := client.Start(ctx); err != nil {
		log.Printf("⚠️ 启动会话连接失败: %v", err)
	}

	// 历史拉取挂在独立上下文上，切换会话时取消
	go func() {
		if err := conversation.LoadHistory(fetchCtx); err != nil {
			log.Printf("⚠️ 拉取会话历史失败: id=%s, err=%v", conversationID, err)
		}
	}()

	log.Printf("✅ 会话已打开: id=%s", conversationID)
	return conversation, nil
}

// setupConversationHandlers 设置会话作用域连接的事件处理器
func (sc *SyncCenter) setupConversationHandlers(session *conversationSession, conversationID string) {
	client := session.client
	conversation := session.conversation

	client.OnConnect = func() {
		log.Printf("✅ 会话连接已建立: id=%s", conversationID)
		if err := client.Emit(socket_client_service.EventConversationJoin, socket_client_service.JoinPayload{
			ConversationID: conversationID,
		}); err != nil {
			log.Printf("⚠️ 加入会话失败: %v", err)
		}
	}

	client.OnDisconnect = func() {
		log.Printf("❌ 会话连接已断开: id=%s", conversationID)
		conversation.Typing().Reset()
	}

	client.OnError = func(err error) {
		log.Printf("🔥 会话连接错误: id=%s, err=%v", conversationID, err)
	}

	client.On(socket_client_service.EventNewMessage, func(data ...interface{}) {
		var payload models.ChatMessage
		if err := socket_client_service.DecodePayload(data, &payload); err != nil {
			log.Printf("⚠️ 解析实时消息失败: %v", err)
			return
		}
		conversation.ApplyLive(&payload)
	})

	client.On(socket_client_service.EventTyping, func(data ...interface{}) {
		var payload socket_client_service.TypingPayload
		if err := socket_client_service.DecodePayload(data, &payload); err != nil {
			log.Printf("⚠️ 解析输入状态失败: %v", err)
			return
		}
		// 自己的回显不参与对方输入状态
		if payload.UserID == sc.config.MyUserID {
			return
		}
		conversation.Typing().Apply(payload.UserID, payload.IsTyping)
	})
}

// CloseConversation 关闭当前会话
func (sc *SyncCenter) CloseConversation(conversationID string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.session == nil || sc.session.conversation.ID() != conversationID {
		return
	}
	sc.closeSessionLocked()
	log.Printf("📴 会话已关闭: id=%s", conversationID)
}

// closeSessionLocked 关闭当前会话，调用方必须持有写锁
func (sc *SyncCenter) closeSessionLocked() {
	session := sc.session
	sc.session = nil

	session.cancelFetch()
	session.composer.Stop()
	sc.socketManager.Stop(session.client.Scope())
}

// Conversation 返回指定会话的消息视图，未打开返回 nil
func (sc *SyncCenter) Conversation(conversationID string) *chat_service.Conversation {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	if sc.session == nil || sc.session.conversation.ID() != conversationID {
		return nil
	}
	return sc.session.conversation
}

// ComposerKeystroke 当前会话输入框击键
func (sc *SyncCenter) ComposerKeystroke(conversationID string) error {
	sc.mu.RLock()
	session := sc.session
	sc.mu.RUnlock()

	if session == nil || session.conversation.ID() != conversationID {
		return fmt.Errorf("会话未打开: %s", conversationID)
	}
	session.composer.Keystroke()
	return nil
}

// MarkThreadSeen 记录线程已读水位
func (sc *SyncCenter) MarkThreadSeen(threadID string, lastSeenAt int64) error {
	if sc.threads == nil {
		return fmt.Errorf("同步中心未初始化")
	}
	return sc.threads.MarkSeenAt(threadID, lastSeenAt)
}

// UnreadThreads 拉取线程列表并过滤出未读线程
func (sc *SyncCenter) UnreadThreads(ctx context.Context) ([]models.Thread, error) {
	if sc.threads == nil {
		return nil, fmt.Errorf("同步中心未初始化")
	}

	threads, err := sc.apiClient.GetThreads(ctx)
	if err != nil {
		return nil, fmt.Errorf("拉取线程列表失败: %w", err)
	}
	return sc.threads.UnreadThreads(threads), nil
}

// 全局同步中心实例
var (
	globalCenter *SyncCenter
	globalMu     sync.RWMutex
)

// SetGlobalCenter 设置全局同步中心实例
func SetGlobalCenter(center *SyncCenter) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCenter = center
}

// GetGlobalCenter 获取全局同步中心实例
func GetGlobalCenter() *SyncCenter {
	globalMu.RLock()
	defer globalMu.RUnlock()

	if globalCenter == nil {
		log.Printf("❌ 全局同步中心未初始化，请先调用 SetGlobalCenter")
	}
	return globalCenter
}
