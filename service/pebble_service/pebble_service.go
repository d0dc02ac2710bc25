package pebble_service

import (
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"

	"audience-sync-service/models"
)

const (
	CollectionThreadWatermarks = "thread_watermarks" // 线程已读水位集合 key: threadId, value: ThreadWatermark
)

// PebbleService Pebble 数据库服务
type PebbleService struct {
	collectionMgr *CollectionManager // 集合管理器
	mu            sync.RWMutex
	path          string
}

// Config Pebble 配置
type Config struct {
	DBPath string `yaml:"db_path" json:"db_path"` // 数据库文件路径
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		DBPath: "./data/pebble", // 默认数据库路径
	}
}

// CollectionManager 集合管理器
type CollectionManager struct {
	mu          sync.RWMutex
	collections map[string]*pebble.DB
	basePath    string
}

// NewCollectionManager 创建集合管理器
func NewCollectionManager(basePath string) *CollectionManager {
	return &CollectionManager{
		collections: make(map[string]*pebble.DB),
		basePath:    basePath,
	}
}

// GetCollection 获取指定集合的数据库实例
func (cm *CollectionManager) GetCollection(collectionName string) (*pebble.DB, error) {
	cm.mu.RLock()
	if db, exists := cm.collections[collectionName]; exists {
		cm.mu.RUnlock()
		return db, nil
	}
	cm.mu.RUnlock()

	// 需要创建新的数据库实例
	cm.mu.Lock()
	defer cm.mu.Unlock()

	// 双重检查，防止并发创建
	if db, exists := cm.collections[collectionName]; exists {
		return db, nil
	}

	// 创建集合专用的数据库路径
	dbPath := filepath.Join(cm.basePath, collectionName)

	// 配置 Pebble 选项
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(16 << 20), // 16MB 缓存
		DisableWAL:                  false,                     // 启用 WAL
		FormatMajorVersion:          pebble.FormatNewest,       // 使用最新格式
		L0CompactionThreshold:       2,                         // L0 压缩阈值
		L0StopWritesThreshold:       1000,                      // L0 停止写入阈值
		LBaseMaxBytes:               16 << 20,                  // 16MB
		MaxOpenFiles:                4096,                      // 最大打开文件数
		MemTableSize:                16 << 20,                  // 16MB 内存表
		MemTableStopWritesThreshold: 4,                         // 内存表停止写入阈值
	}

	// 打开数据库
	db, err := pebble.Open(dbPath, opts)
	if err != nil {
		return nil, fmt.Errorf("打开集合 %s 的数据库失败: %w", collectionName, err)
	}

	cm.collections[collectionName] = db
	log.Printf("✅ 集合 %s 数据库初始化成功: %s", collectionName, dbPath)

	return db, nil
}

// CloseAll 关闭所有集合的数据库
func (cm *CollectionManager) CloseAll() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	var errors []string
	for collectionName, db := range cm.collections {
		if err := db.Close(); err != nil {
			errors = append(errors, fmt.Sprintf("关闭集合 %s 失败: %v", collectionName, err))
		} else {
			log.Printf("✅ 集合 %s 数据库已关闭", collectionName)
		}
	}

	cm.collections = make(map[string]*pebble.DB)

	if len(errors) > 0 {
		return fmt.Errorf("关闭数据库时发生错误: %s", strings.Join(errors, "; "))
	}
	return nil
}

// ListCollections 列出所有已初始化的集合
func (cm *CollectionManager) ListCollections() []string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	var collections []string
	for name := range cm.collections {
		collections = append(collections, name)
	}
	return collections
}

// NewPebbleService 创建新的 Pebble 服务实例
func NewPebbleService(config *Config) *PebbleService {
	if config == nil {
		config = DefaultConfig()
	}

	return &PebbleService{
		path:          config.DBPath,
		collectionMgr: NewCollectionManager(config.DBPath),
	}
}

// Initialize 初始化 Pebble 数据库
func (ps *PebbleService) Initialize() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	log.Printf("🚀 正在初始化 Pebble 数据库: %s", ps.path)

	dbPath, err := filepath.Abs(ps.path)
	if err != nil {
		return fmt.Errorf("获取数据库路径失败: %w", err)
	}

	log.Printf("✅ Pebble 数据库初始化成功: %s", dbPath)

	return nil
}

// Close 关闭数据库
func (ps *PebbleService) Close() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	log.Printf("🛑 正在关闭 Pebble 数据库")

	if ps.collectionMgr != nil {
		if err := ps.collectionMgr.CloseAll(); err != nil {
			log.Printf("❌ 关闭集合数据库失败: %v", err)
			return fmt.Errorf("关闭集合数据库失败: %w", err)
		}
	}

	log.Printf("✅ Pebble 数据库已关闭")
	return nil
}

// IsInitialized 检查数据库是否已初始化
func (ps *PebbleService) IsInitialized() bool {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.collectionMgr != nil
}

// getCollectionDB 获取指定集合的数据库实例
func (ps *PebbleService) getCollectionDB(collectionName string) (*pebble.DB, error) {
	if ps.collectionMgr == nil {
		return nil, fmt.Errorf("集合管理器未初始化")
	}
	return ps.collectionMgr.GetCollection(collectionName)
}

// getWatermarkKey 生成线程水位的键
func getWatermarkKey(threadID string) []byte {
	return []byte(threadID)
}

// SaveThreadWatermark 保存线程已读水位
func (ps *PebbleService) SaveThreadWatermark(watermark *models.ThreadWatermark) error {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if watermark.ThreadID == "" {
		return fmt.Errorf("ThreadID 不能为空")
	}

	db, err := ps.getCollectionDB(CollectionThreadWatermarks)
	if err != nil {
		return fmt.Errorf("获取线程水位集合数据库失败: %w", err)
	}

	// 设置更新时间
	watermark.UpdatedAt = time.Now().UnixMilli()

	data, err := json.Marshal(watermark)
	if err != nil {
		return fmt.Errorf("序列化线程水位失败: %w", err)
	}

	key := getWatermarkKey(watermark.ThreadID)
	if err := db.Set(key, data, pebble.Sync); err != nil {
		return fmt.Errorf("保存线程水位失败: %w", err)
	}

	log.Printf("✅ 已保存线程水位: ThreadID=%s, LastSeenAt=%d", watermark.ThreadID, watermark.LastSeenAt)
	return nil
}

// GetThreadWatermark 获取线程已读水位
// 不存在时返回零水位，线程从未查看过
func (ps *PebbleService) GetThreadWatermark(threadID string) (*models.ThreadWatermark, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if threadID == "" {
		return nil, fmt.Errorf("ThreadID 不能为空")
	}

	db, err := ps.getCollectionDB(CollectionThreadWatermarks)
	if err != nil {
		return nil, fmt.Errorf("获取线程水位集合数据库失败: %w", err)
	}

	key := getWatermarkKey(threadID)
	value, closer, err := db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return &models.ThreadWatermark{
				ThreadID:   threadID,
				LastSeenAt: 0,
			}, nil
		}
		return nil, fmt.Errorf("获取线程水位失败: %w", err)
	}
	defer closer.Close()

	var watermark models.ThreadWatermark
	if err := json.Unmarshal(value, &watermark); err != nil {
		return nil, fmt.Errorf("反序列化线程水位失败: %w", err)
	}

	return &watermark, nil
}

// DeleteThreadWatermark 删除线程已读水位
func (ps *PebbleService) DeleteThreadWatermark(threadID string) error {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if threadID == "" {
		return fmt.Errorf("ThreadID 不能为空")
	}

	db, err := ps.getCollectionDB(CollectionThreadWatermarks)
	if err != nil {
		return fmt.Errorf("获取线程水位集合数据库失败: %w", err)
	}

	key := getWatermarkKey(threadID)
	if err := db.Delete(key, pebble.Sync); err != nil {
		return fmt.Errorf("删除线程水位失败: %w", err)
	}

	log.Printf("🗑️ 已删除线程水位: ThreadID=%s", threadID)
	return nil
}

// ListThreadWatermarks 列出全部线程水位
func (ps *PebbleService) ListThreadWatermarks() ([]*models.ThreadWatermark, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	db, err := ps.getCollectionDB(CollectionThreadWatermarks)
	if err != nil {
		return nil, fmt.Errorf("获取线程水位集合数据库失败: %w", err)
	}

	iter, err := db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("创建迭代器失败: %w", err)
	}
	defer iter.Close()

	var watermarks []*models.ThreadWatermark
	for iter.First(); iter.Valid(); iter.Next() {
		var watermark models.ThreadWatermark
		if err := json.Unmarshal(iter.Value(), &watermark); err != nil {
			log.Printf("⚠️ 跳过解析失败的记录: %s, 错误: %v", string(iter.Key()), err)
			continue
		}
		watermarks = append(watermarks, &watermark)
	}

	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("迭代器错误: %w", err)
	}

	return watermarks, nil
}

// Stats 获取数据库统计信息
func (ps *PebbleService) Stats() (map[string]interface{}, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if ps.collectionMgr == nil {
		return nil, fmt.Errorf("集合管理器未初始化")
	}

	collections := ps.collectionMgr.ListCollections()

	stats := map[string]interface{}{
		"path":        ps.path,
		"initialized": true,
		"collections": collections,
	}

	return stats, nil
}

// 全局服务实例
var globalService *PebbleService

// GetGlobalService 获取全局 Pebble 服务实例
func GetGlobalService() *PebbleService {
	if globalService != nil {
		return globalService
	}

	log.Printf("❌ 全局 Pebble 服务未初始化，请先调用 InitializeGlobalService")
	return nil
}

// InitializeGlobalService 初始化全局服务
func InitializeGlobalService(config *Config) error {
	if config == nil {
		config = DefaultConfig()
	}

	// 如果全局服务已存在且已初始化，直接返回
	if globalService != nil && globalService.IsInitialized() {
		log.Printf("⚠️ 全局 Pebble 服务已存在，跳过重复初始化")
		return nil
	}

	service := NewPebbleService(config)
	if err := service.Initialize(); err != nil {
		return fmt.Errorf("初始化全局 Pebble 服务失败: %w", err)
	}

	globalService = service
	log.Printf("✅ 全局 Pebble 服务初始化完成: %s", config.DBPath)
	return nil
}

// CloseGlobalService 关闭全局服务
func CloseGlobalService() error {
	if globalService != nil {
		err := globalService.Close()
		globalService = nil
		return err
	}
	return nil
}

// PebbleWatermarkStore 基于 Pebble 的线程水位存储实现
type PebbleWatermarkStore struct {
	service *PebbleService
}

// NewPebbleWatermarkStore 创建基于 Pebble 的水位存储
func NewPebbleWatermarkStore(service *PebbleService) *PebbleWatermarkStore {
	return &PebbleWatermarkStore{
		service: service,
	}
}

// NewGlobalPebbleWatermarkStore 创建基于全局 Pebble 服务的水位存储
func NewGlobalPebbleWatermarkStore() *PebbleWatermarkStore {
	service := GetGlobalService()
	if service == nil {
		log.Printf("❌ 全局 Pebble 服务未初始化，无法创建水位存储")
		return nil
	}
	if !service.IsInitialized() {
		log.Printf("❌ Pebble 服务未正确初始化，无法创建水位存储")
		return nil
	}
	return &PebbleWatermarkStore{
		service: service,
	}
}

// Get 返回线程的已读水位毫秒时间，不存在返回 0 (实现 WatermarkStore 接口)
func (pws *PebbleWatermarkStore) Get(threadID string) (int64, error) {
	watermark, err := pws.service.GetThreadWatermark(threadID)
	if err != nil {
		return 0, err
	}
	return watermark.LastSeenAt, nil
}

// Set 写入线程的已读水位 (实现 WatermarkStore 接口)
func (pws *PebbleWatermarkStore) Set(threadID string, lastSeenAt int64) error {
	return pws.service.SaveThreadWatermark(&models.ThreadWatermark{
		ThreadID:   threadID,
		LastSeenAt: lastSeenAt,
	})
}
