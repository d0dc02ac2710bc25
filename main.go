package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"audience-sync-service/conf"
	"audience-sync-service/controller"
	"audience-sync-service/major"
	"audience-sync-service/service/api_service"
	"audience-sync-service/service/notify_service"
	"audience-sync-service/service/pebble_service"
	"audience-sync-service/service/socket_client_service"
	synccenter "audience-sync-service/service/sync_center"
)

func initSyncCenter() {
	// 检查是否启用同步中心
	if !conf.SyncCenterEnabled {
		log.Printf("📴 同步中心未启用，跳过初始化")
		return
	}

	log.Printf("🚀 开始初始化同步中心...")

	// 1. 创建 Socket 客户端配置
	socketConfig := &socket_client_service.Config{
		ServerURL: conf.SocketServerURL,
		Path:      conf.SocketPath,
		Timeout:   conf.SocketTimeout,
	}

	// 设置默认值
	if socketConfig.Path == "" {
		socketConfig.Path = "/socket.io/"
	}
	if socketConfig.Timeout == 0 {
		socketConfig.Timeout = 10
	}

	// 2. 创建市场 REST API 配置
	apiConfig := &api_service.Config{
		BaseURL: conf.ApiBaseURL,
		Timeout: getIntWithDefault(conf.ApiTimeout, 30),
	}

	// 3. 创建 Pebble 数据库配置
	pebbleConfig := &pebble_service.Config{
		DBPath: conf.SyncCenterDBPath,
	}

	// 设置默认数据库路径
	if pebbleConfig.DBPath == "" {
		pebbleConfig.DBPath = "./data/sync_center_pebble"
	}

	// 4. 创建同步中心配置
	syncCenterConfig := &synccenter.Config{
		SocketConfig: socketConfig,
		ApiConfig:    apiConfig,
		PebbleConfig: pebbleConfig,
		FeedConfig: &notify_service.FeedConfig{
			Cap: getIntWithDefault(conf.FeedCap, notify_service.DefaultFeedCap),
		},
		MyUserID:       conf.MyUserID,
		TypingExpire:   parseDuration(conf.TypingExpire, 3*time.Second),
		TypingDebounce: parseDuration(conf.TypingDebounce, 2*time.Second),
	}

	// 5. 创建同步中心实例
	// 令牌来自配置，空令牌表示未登录，连接静默跳过
	syncCenter := synccenter.NewSyncCenter(syncCenterConfig, func(ctx context.Context) (string, error) {
		return conf.SocketAuthToken, nil
	})

	// 6. 初始化同步中心
	if err := syncCenter.Initialize(); err != nil {
		log.Fatalf("❌ 初始化同步中心失败: %v", err)
	}

	synccenter.SetGlobalCenter(syncCenter)

	// 7. 启动同步中心
	go func() {
		if err := syncCenter.Run(context.Background()); err != nil {
			log.Fatalf("❌ 启动同步中心失败: %v", err)
		}
	}()

	// 8. 等待同步中心启动
	time.Sleep(2 * time.Second)

	if syncCenter.IsRunning() {
		log.Printf("✅ 同步中心已成功启动")
		log.Printf("🔗 Socket 服务器: %s", conf.SocketServerURL)
		log.Printf("🔗 市场 API: %s", conf.ApiBaseURL)
		log.Printf("🗄️ 数据库路径: %s", conf.SyncCenterDBPath)
	} else {
		log.Printf("⚠️ 同步中心启动状态检查失败")
	}

	log.Printf("💡 提示：同步中心将在应用程序退出时自动关闭")
}

// 辅助函数：解析时间间隔字符串
func parseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Printf("⚠️ 解析时间间隔失败 '%s'，使用默认值: %v", durationStr, defaultDuration)
		return defaultDuration
	}
	return duration
}

// 辅助函数：获取整数配置值，提供默认值
func getIntWithDefault(value, defaultValue int) int {
	if value == 0 {
		return defaultValue
	}
	return value
}

// Package main
// @title 受众市场同步服务 API
// @version 1.0
// @description 受众交换市场客户端同步服务，聚合实时通知、在线状态、聊天消息与线程已读状态
// @host api.audience.exchange
// @BasePath /audience-sync
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-KEY
func main() {
	var env string
	flag.StringVar(&env, "env", "mainnet", "env config: testnet, mainnet")
	flag.Parse()

	switch env {
	case "mainnet":
		conf.SystemEnvironmentEnum = conf.MainnetEnvironmentEnum
	case "testnet":
		conf.SystemEnvironmentEnum = conf.TestnetEnvironmentEnum
	default:
		conf.SystemEnvironmentEnum = conf.ExampleEnvironmentEnum
	}

	conf.InitConfig("")

	fmt.Printf("run audience-sync-service service, env: %s\n", env)

	major.InitHttpConfig()

	initSyncCenter()

	controller.Run()
}
