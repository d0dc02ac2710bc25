package notify_service

import (
	"context"
	"log"
	"sync"

	"audience-sync-service/models"
	"audience-sync-service/service/api_service"
)

// DefaultFeedCap 通知流默认容量
const DefaultFeedCap = 200

// FeedConfig 通知流配置
type FeedConfig struct {
	Cap int `yaml:"cap" json:"cap"` // 通知条数上限，默认200
}

// FeedStats 通知流运行状态
type FeedStats struct {
	Count        int  `json:"count"`
	Cap          int  `json:"cap"`
	Bootstrapped bool `json:"bootstrapped"`
	HasError     bool `json:"hasError"`
}

// Feed 通知流
// 历史合并静默进行，只有实时事件触发 OnAlert 提醒
type Feed struct {
	mu    sync.RWMutex
	items []models.Notification
	cap   int

	// 无 ID 通知的位置兜底序号，入库时单调递增
	seq int

	// 历史只拉一次，重连不重拉，失败也不自动重试
	bootstrapped bool
	lastError    error

	// OnAlert 实时通知回调（历史合并不触发）
	OnAlert func(models.Notification)
}

// NewFeed 创建通知流
func NewFeed(config *FeedConfig) *Feed {
	capacity := DefaultFeedCap
	if config != nil && config.Cap > 0 {
		capacity = config.Cap
	}
	return &Feed{cap: capacity}
}

// Bootstrap 拉取历史通知并静默合并
// 标记先于拉取：无论成败整个生命周期只尝试一次，断线重连不重拉
func (f *Feed) Bootstrap(ctx context.Context, api *api_service.Client) {
	f.mu.Lock()
	if f.bootstrapped {
		f.mu.Unlock()
		return
	}
	f.bootstrapped = true
	f.mu.Unlock()

	records, err := api.GetActivityHistory(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to fetch activity history: %v", err)
		f.mu.Lock()
		f.lastError = err
		f.mu.Unlock()
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	incoming := make([]models.Notification, 0, len(records))
	for i := range records {
		if n := FromActivity(&records[i], f.seq); n != nil {
			f.seq++
			incoming = append(incoming, *n)
		}
	}
	f.items = Merge(f.items, incoming, f.cap)
	f.lastError = nil

	log.Printf("✅ Notification history merged: fetched=%d, total=%d", len(incoming), len(f.items))
}

// ApplyLive 合并一条实时通知，有效时触发 OnAlert
// 返回该通知是否有效入库
func (f *Feed) ApplyLive(raw *models.Notification) bool {
	f.mu.Lock()
	n := Normalize(raw, f.seq)
	if n == nil {
		f.mu.Unlock()
		return false
	}
	f.seq++
	f.items = Merge(f.items, []models.Notification{*n}, f.cap)
	alert := f.OnAlert
	f.mu.Unlock()

	log.Printf("📨 Live notification merged: type=%s, title=%s", n.Type, n.Title)

	if alert != nil {
		alert(*n)
	}
	return true
}

// Items 返回当前通知列表副本，时间倒序
func (f *Feed) Items() []models.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	items := make([]models.Notification, len(f.items))
	copy(items, f.items)
	return items
}

// ClearOne 按当前展示位置删除一条通知
func (f *Feed) ClearOne(index int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if index < 0 || index >= len(f.items) {
		return false
	}
	f.items = append(f.items[:index], f.items[index+1:]...)
	return true
}

// ClearAll 清空通知列表
func (f *Feed) ClearAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = nil
}

// LastError 返回最近一次历史拉取错误
func (f *Feed) LastError() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastError
}

// Stats 返回通知流运行状态
func (f *Feed) Stats() FeedStats {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return FeedStats{
		Count:        len(f.items),
		Cap:          f.cap,
		Bootstrapped: f.bootstrapped,
		HasError:     f.lastError != nil,
	}
}
