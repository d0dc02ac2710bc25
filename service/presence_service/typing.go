package presence_service

import (
	"sort"
	"sync"
	"time"
)

const (
	// DefaultTypingExpire 对方输入状态自动过期时间
	DefaultTypingExpire = 3 * time.Second
	// DefaultTypingDebounce 本端输入状态去抖窗口
	DefaultTypingDebounce = 2 * time.Second
)

// TypingTracker 对方输入状态跟踪器
// 每个正在输入的用户持有一个定时器，新事件到达时取消重建，
// 服务端没发 stop 事件也会在过期窗口后自动归位
type TypingTracker struct {
	mu     sync.Mutex
	states map[string]bool
	timers map[string]*time.Timer
	expire time.Duration
}

// NewTypingTracker 创建输入状态跟踪器
func NewTypingTracker(expire time.Duration) *TypingTracker {
	if expire <= 0 {
		expire = DefaultTypingExpire
	}
	return &TypingTracker{
		states: make(map[string]bool),
		timers: make(map[string]*time.Timer),
		expire: expire,
	}
}

// Apply 应用一条输入状态事件
// isTyping=true 重置过期窗口；isTyping=false 立即归位
func (t *TypingTracker) Apply(userID string, isTyping bool) {
	if userID == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[userID]; ok {
		timer.Stop()
		delete(t.timers, userID)
	}

	if !isTyping {
		delete(t.states, userID)
		return
	}

	t.states[userID] = true
	var timer *time.Timer
	timer = time.AfterFunc(t.expire, func() {
		t.expireUser(userID, timer)
	})
	t.timers[userID] = timer
}

// expireUser 过期窗口到期后归位
// 旧定时器可能赶在 Stop 之前触发，只认仍然在册的那一个
func (t *TypingTracker) expireUser(userID string, timer *time.Timer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timers[userID] != timer {
		return
	}
	delete(t.states, userID)
	delete(t.timers, userID)
}

// IsTyping 查询用户是否正在输入
func (t *TypingTracker) IsTyping(userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[userID]
}

// Snapshot 返回正在输入的用户ID列表，按字典序排序
func (t *TypingTracker) Snapshot() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := make([]string, 0, len(t.states))
	for id := range t.states {
		list = append(list, id)
	}
	sort.Strings(list)
	return list
}

// Reset 连接断开时清空状态并停掉全部定时器
func (t *TypingTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
	t.states = make(map[string]bool)
}

// Composer 本端输入状态发送器
// 连续击键只发一次 start，停止击键满去抖窗口后发一次 stop
type Composer struct {
	mu       sync.Mutex
	emit     func(isTyping bool)
	debounce time.Duration
	active   bool
	timer    *time.Timer
}

// NewComposer 创建输入状态发送器
func NewComposer(debounce time.Duration, emit func(isTyping bool)) *Composer {
	if debounce <= 0 {
		debounce = DefaultTypingDebounce
	}
	return &Composer{
		emit:     emit,
		debounce: debounce,
	}
}

// Keystroke 每次击键调用
// 空闲后首次击键发送 start，之后只顺延 stop 定时器
func (c *Composer) Keystroke() {
	c.mu.Lock()

	if c.timer != nil {
		c.timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(c.debounce, func() {
		c.expire(timer)
	})
	c.timer = timer

	emitStart := !c.active
	c.active = true
	c.mu.Unlock()

	// 回调放在锁外，避免 emit 内部再进入 Composer 时死锁
	if emitStart && c.emit != nil {
		c.emit(true)
	}
}

// Stop 立即结束输入状态，关闭会话时调用
func (c *Composer) Stop() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	emitStop := c.active
	c.active = false
	c.mu.Unlock()

	if emitStop && c.emit != nil {
		c.emit(false)
	}
}

// expire 去抖窗口到期后结束输入状态，只认仍然在册的定时器
func (c *Composer) expire(timer *time.Timer) {
	c.mu.Lock()
	if c.timer != timer {
		c.mu.Unlock()
		return
	}
	emitStop := c.active
	c.active = false
	c.timer = nil
	c.mu.Unlock()

	if emitStop && c.emit != nil {
		c.emit(false)
	}
}

// IsActive 查询当前是否处于输入状态
func (c *Composer) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
