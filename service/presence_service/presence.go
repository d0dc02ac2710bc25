package presence_service

import (
	"sort"
	"sync"
)

// Tracker 在线状态跟踪器
// 数据完全来自服务端推送：快照整体替换，上下线事件增量修改
// 注意：同一用户多端登录时任一端下线即视为离线，以服务端事件为准
type Tracker struct {
	mu     sync.RWMutex
	online map[string]struct{}
}

// NewTracker 创建在线状态跟踪器
func NewTracker() *Tracker {
	return &Tracker{
		online: make(map[string]struct{}),
	}
}

// Snapshot 用服务端快照整体替换在线名单
func (t *Tracker) Snapshot(userIDs []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.online = make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if id != "" {
			t.online[id] = struct{}{}
		}
	}
}

// Join 标记用户上线
func (t *Tracker) Join(userID string) {
	if userID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.online[userID] = struct{}{}
}

// Leave 标记用户下线
func (t *Tracker) Leave(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.online, userID)
}

// Reset 连接断开时清空名单，陈旧的在线状态不可信
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.online = make(map[string]struct{})
}

// IsOnline 查询用户是否在线
func (t *Tracker) IsOnline(userID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.online[userID]
	return ok
}

// List 返回在线用户ID列表，按字典序排序
func (t *Tracker) List() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	list := make([]string, 0, len(t.online))
	for id := range t.online {
		list = append(list, id)
	}
	sort.Strings(list)
	return list
}

// Count 返回在线用户数
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.online)
}
