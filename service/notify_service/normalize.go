package notify_service

import (
	"sort"
	"strconv"
	"strings"

	"audience-sync-service/models"
	"audience-sync-service/tool"
)

// DefaultNotificationType 缺省通知类型
const DefaultNotificationType = "general"

// Normalize 归一化一条原始通知
// 标题与正文同时为空的记录视为无效，返回 nil
// 身份键在此处分配一次并存储在记录上，后续合并只认存储的键
func Normalize(raw *models.Notification, fallbackIndex int) *models.Notification {
	if raw == nil {
		return nil
	}

	n := *raw
	n.ID = strings.TrimSpace(n.ID)
	n.Type = strings.TrimSpace(n.Type)
	n.Title = strings.TrimSpace(n.Title)
	n.Message = strings.TrimSpace(n.Message)
	n.Link = strings.TrimSpace(n.Link)

	if n.Title == "" && n.Message == "" {
		return nil
	}
	if n.Type == "" {
		n.Type = DefaultNotificationType
	}

	n.Key = IdentityKey(&n, fallbackIndex)

	return &n
}

// FromActivity 把 REST 历史活动记录转换为通知
func FromActivity(record *models.ActivityRecord, fallbackIndex int) *models.Notification {
	if record == nil {
		return nil
	}
	return Normalize(&models.Notification{
		ID:        record.ID,
		Type:      record.Type,
		Title:     record.Title,
		Message:   record.Message,
		Link:      record.Link,
		CreatedAt: record.CreatedAt,
	}, fallbackIndex)
}

// IdentityKey 计算通知的去重标识
// 有服务端 ID 直接用 ID；否则对内容做哈希，并带上位置序号兜底，
// 避免同一批次里两条字段完全相同的记录互相吞掉
func IdentityKey(n *models.Notification, fallbackIndex int) string {
	if n.ID != "" {
		return "id:" + n.ID
	}
	return "h:" + tool.ContentKey(
		n.Type,
		n.Title,
		n.Message,
		strconv.FormatInt(int64(n.CreatedAt), 10),
		strconv.Itoa(fallbackIndex),
	)
}

// Merge 按身份键合并两组通知
// 键冲突时保留较新的一条（时间相同保留 incoming），结果按时间倒序稳定排序，
// 超出 limit 截断。合并满足幂等与顺序无关
func Merge(existing, incoming []models.Notification, limit int) []models.Notification {
	merged := make([]models.Notification, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing)+len(incoming))

	for _, n := range existing {
		if pos, ok := index[n.Key]; ok {
			if n.CreatedAt >= merged[pos].CreatedAt {
				merged[pos] = n
			}
			continue
		}
		index[n.Key] = len(merged)
		merged = append(merged, n)
	}
	for _, n := range incoming {
		if pos, ok := index[n.Key]; ok {
			if n.CreatedAt >= merged[pos].CreatedAt {
				merged[pos] = n
			}
			continue
		}
		index[n.Key] = len(merged)
		merged = append(merged, n)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt > merged[j].CreatedAt
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}

	return merged
}
