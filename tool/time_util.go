package tool

import (
	"strconv"
	"time"
)

var l, _ = time.LoadLocation("UTC")

func MakeTimestamp() int64 {
	//time.Now().UnixMilli()
	return time.Now().UnixNano() / int64(time.Millisecond)
}

func MakeDate(timestamp int64) string {
	timeFormat := "2006-01-02 15:04:05(UTC)"
	return time.Unix(timestamp/1000, 0).In(l).Format(timeFormat)
}

// ParseTimestamp 解析时间戳字符串，兼容 RFC3339 与数字毫秒，解析失败返回 0
func ParseTimestamp(value string) int64 {
	if value == "" {
		return 0
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UnixMilli()
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return ms
	}
	return 0
}
