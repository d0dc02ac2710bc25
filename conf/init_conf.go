package conf

import (
	"fmt"

	"github.com/spf13/viper"
)

var (
	Net  string = ""
	Port string = ""

	// API Key for authentication
	APIKey = ""

	// Sync Center Configuration
	SyncCenterEnabled bool   = false
	SyncCenterDBPath  string = ""
	MyUserID          string = ""

	// Socket Client Configuration
	SocketServerURL string = ""
	SocketPath      string = ""
	SocketTimeout   int    = 0
	SocketAuthToken string = ""

	// Marketplace REST API Configuration
	ApiBaseURL string = ""
	ApiTimeout int    = 0

	// Notification Feed Configuration
	FeedCap int = 0

	// Typing Indicator Configuration
	TypingExpire   string = ""
	TypingDebounce string = ""
)

func InitConfig(configPath string) {
	if configPath == "" {
		configPath = GetYaml()
	}
	// Set the file name of the configurations file
	fmt.Printf("configPath:%s\n", configPath)
	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}

	Net = viper.GetString("net")
	Port = viper.GetString("port")

	// 读取 API Key 配置
	APIKey = viper.GetString("api_key")

	// 读取同步中心配置
	SyncCenterEnabled = viper.GetBool("sync_center.enabled")
	SyncCenterDBPath = viper.GetString("sync_center.db_path")
	MyUserID = viper.GetString("sync_center.my_user_id")

	// 读取 Socket 客户端配置
	SocketServerURL = viper.GetString("socket_client.server_url")
	SocketPath = viper.GetString("socket_client.path")
	SocketTimeout = viper.GetInt("socket_client.timeout")
	SocketAuthToken = viper.GetString("socket_client.auth_token")

	// 读取市场 REST API 配置
	ApiBaseURL = viper.GetString("api.base_url")
	ApiTimeout = viper.GetInt("api.timeout")

	// 读取通知流配置
	FeedCap = viper.GetInt("feed.cap")

	// 读取输入状态配置
	TypingExpire = viper.GetString("typing.expire")
	TypingDebounce = viper.GetString("typing.debounce")
}
