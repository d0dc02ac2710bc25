package thread_service

import (
	"sync"

	"audience-sync-service/models"
	"audience-sync-service/tool"
)

// WatermarkStore 线程已读水位存储
type WatermarkStore interface {
	// Get 返回线程的已读水位毫秒时间，不存在返回 0
	Get(threadID string) (int64, error)
	// Set 写入线程的已读水位
	Set(threadID string, lastSeenAt int64) error
}

// MemoryWatermarkStore 内存水位存储，测试与无持久化场景使用
type MemoryWatermarkStore struct {
	mu    sync.RWMutex
	marks map[string]int64
}

// NewMemoryWatermarkStore 创建内存水位存储
func NewMemoryWatermarkStore() *MemoryWatermarkStore {
	return &MemoryWatermarkStore{marks: make(map[string]int64)}
}

func (s *MemoryWatermarkStore) Get(threadID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.marks[threadID], nil
}

func (s *MemoryWatermarkStore) Set(threadID string, lastSeenAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[threadID] = lastSeenAt
	return nil
}

// Tracker 线程已读状态跟踪器
// 未读是派生状态：最后一条消息时间严格大于水位才算未读，
// 等于水位视为已读，自己发的消息永远不算未读
type Tracker struct {
	store    WatermarkStore
	myUserID string
}

// NewTracker 创建已读状态跟踪器
func NewTracker(store WatermarkStore, myUserID string) *Tracker {
	return &Tracker{
		store:    store,
		myUserID: myUserID,
	}
}

// IsUnread 判断线程是否未读
func (t *Tracker) IsUnread(thread *models.Thread) bool {
	if thread == nil || thread.LastMessage == nil {
		return false
	}
	last := thread.LastMessage
	if last.SenderID == "" || int64(last.CreatedAt) == 0 {
		return false
	}
	if last.SenderID == t.myUserID {
		return false
	}

	watermark, err := t.store.Get(thread.ID)
	if err != nil {
		// 读水位失败按未读处理，宁可多提示也不漏消息
		return true
	}
	return int64(last.CreatedAt) > watermark
}

// MarkSeen 记录线程已读到最新已知消息时间
// 没有可用时间时不写，避免把水位清零
func (t *Tracker) MarkSeen(thread *models.Thread) error {
	if thread == nil || thread.ID == "" {
		return nil
	}

	seenAt := int64(thread.LastMessageAt)
	if thread.LastMessage != nil && int64(thread.LastMessage.CreatedAt) > 0 {
		seenAt = int64(thread.LastMessage.CreatedAt)
	}
	if seenAt == 0 {
		return nil
	}
	return t.store.Set(thread.ID, seenAt)
}

// MarkSeenAt 直接写入指定水位，控制层按线程ID调用
func (t *Tracker) MarkSeenAt(threadID string, lastSeenAt int64) error {
	if threadID == "" || lastSeenAt == 0 {
		return nil
	}
	return t.store.Set(threadID, lastSeenAt)
}

// UnreadCount 统计未读线程数
func (t *Tracker) UnreadCount(threads []models.Thread) int {
	count := 0
	for i := range threads {
		if t.IsUnread(&threads[i]) {
			count++
		}
	}
	return count
}

// UnreadThreads 过滤出未读线程
func (t *Tracker) UnreadThreads(threads []models.Thread) []models.Thread {
	unread := make([]models.Thread, 0)
	for i := range threads {
		if t.IsUnread(&threads[i]) {
			unread = append(unread, threads[i])
		}
	}
	return unread
}

// Watermark 返回线程当前水位记录
func (t *Tracker) Watermark(threadID string) (*models.ThreadWatermark, error) {
	lastSeenAt, err := t.store.Get(threadID)
	if err != nil {
		return nil, err
	}
	return &models.ThreadWatermark{
		ThreadID:   threadID,
		LastSeenAt: lastSeenAt,
		UpdatedAt:  tool.MakeTimestamp(),
	}, nil
}
