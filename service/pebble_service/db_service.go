package pebble_service

import (
	"fmt"

	"audience-sync-service/models"
)

// SetThreadSeen 写入线程已读水位
func SetThreadSeen(threadID string, lastSeenAt int64) error {
	if threadID == "" {
		return fmt.Errorf("ThreadID 不能为空")
	}

	service := GetGlobalService()
	if service == nil {
		return fmt.Errorf("全局 Pebble 服务未初始化，请先初始化同步中心")
	}

	if !service.IsInitialized() {
		return fmt.Errorf("Pebble 服务未正确初始化")
	}

	return service.SaveThreadWatermark(&models.ThreadWatermark{
		ThreadID:   threadID,
		LastSeenAt: lastSeenAt,
	})
}

// GetThreadSeen 读取线程已读水位，不存在返回零水位
func GetThreadSeen(threadID string) (*models.ThreadWatermark, error) {
	if threadID == "" {
		return nil, fmt.Errorf("ThreadID 不能为空")
	}

	service := GetGlobalService()
	if service == nil {
		return nil, fmt.Errorf("全局 Pebble 服务未初始化，请先初始化同步中心")
	}

	if !service.IsInitialized() {
		return nil, fmt.Errorf("Pebble 服务未正确初始化")
	}

	return service.GetThreadWatermark(threadID)
}

// RemoveThreadSeen 删除线程已读水位
func RemoveThreadSeen(threadID string) error {
	if threadID == "" {
		return fmt.Errorf("ThreadID 不能为空")
	}

	service := GetGlobalService()
	if service == nil {
		return fmt.Errorf("全局 Pebble 服务未初始化，请先初始化同步中心")
	}

	if !service.IsInitialized() {
		return fmt.Errorf("Pebble 服务未正确初始化")
	}

	return service.DeleteThreadWatermark(threadID)
}

// ListThreadSeen 列出全部线程已读水位
func ListThreadSeen() ([]*models.ThreadWatermark, error) {
	service := GetGlobalService()
	if service == nil {
		return nil, fmt.Errorf("全局 Pebble 服务未初始化，请先初始化同步中心")
	}

	if !service.IsInitialized() {
		return nil, fmt.Errorf("Pebble 服务未正确初始化")
	}

	return service.ListThreadWatermarks()
}
