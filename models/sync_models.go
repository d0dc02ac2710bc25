package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"audience-sync-service/tool"
)

// Timestamp Unix 毫秒时间戳
// 市场 REST API 混用数字毫秒与 RFC3339 字符串，这里两种格式都接受
type Timestamp int64

// UnmarshalJSON 兼容数字毫秒与 RFC3339 字符串两种格式
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*t = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		// RFC3339 或字符串形式的数字毫秒，解析不出的当缺失处理
		*t = Timestamp(tool.ParseTimestamp(str))
		return nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*t = Timestamp(ms)
	return nil
}

// Time 转换为 time.Time
func (t Timestamp) Time() time.Time {
	return time.UnixMilli(int64(t))
}

// Notification 通知记录
// Title 与 Message 同时为空视为无效通知，归一化时丢弃
type Notification struct {
	ID        string    `json:"id,omitempty"`        // 服务端通知ID（可能缺失）
	Type      string    `json:"type"`                // 通知类型
	Title     string    `json:"title"`               // 通知标题
	Message   string    `json:"message"`             // 通知内容
	Link      string    `json:"link,omitempty"`      // 跳转链接
	CreatedAt Timestamp `json:"createdAt,omitempty"` // 创建时间（可能缺失）
	Key       string    `json:"-"`                   // 去重标识，归一化入库时分配一次
}

// ActivityRecord 历史活动记录（REST 拉取，映射为 Notification）
type ActivityRecord struct {
	ID        string    `json:"id,omitempty"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	CreatedAt Timestamp `json:"createdAt,omitempty"`
}

// ChatMessage 聊天消息，会话内按 ID 唯一
type ChatMessage struct {
	ID        string    `json:"id"`                  // 消息唯一标识
	Content   string    `json:"content"`             // 消息内容
	SenderID  string    `json:"senderId"`            // 发送者用户ID
	CreatedAt Timestamp `json:"createdAt"`           // 创建时间
	ImageData string    `json:"imageData,omitempty"` // 图片数据（可选）
}

// Thread 会话线程，未读状态是派生的，不落库
type Thread struct {
	ID            string       `json:"id"`                    // 线程唯一标识
	LastMessage   *ChatMessage `json:"lastMessage,omitempty"` // 最后一条消息
	LastMessageAt Timestamp    `json:"lastMessageAt"`         // 最后消息时间
}

// ThreadWatermark 线程已读水位，每个线程一条，仅客户端持有
type ThreadWatermark struct {
	ThreadID   string `json:"threadId" binding:"required"` // 线程唯一标识
	LastSeenAt int64  `json:"lastSeenAt"`                  // 最后查看时间（毫秒）
	UpdatedAt  int64  `json:"updatedAt"`                   // 记录更新时间
}
