package socket_client_service

import (
	"context"
	"log"
	"sync"
)

// Manager 管理多个作用域的客户端连接
// 每个作用域至多持有一条活动连接，重复 Start 是幂等的
type Manager struct {
	clients  map[string]*Client
	mu       sync.RWMutex
	config   *Config
	getToken TokenProvider
}

// NewManager 创建新的连接管理器
// config 作为模板，各作用域的客户端共享地址与超时配置
func NewManager(config *Config, getToken TokenProvider) *Manager {
	return &Manager{
		clients:  make(map[string]*Client),
		config:   config,
		getToken: getToken,
	}
}

// Client 获取指定作用域的客户端，不存在则创建
// 同一作用域始终返回同一个实例
func (m *Manager) Client(scope string) *Client {
	m.mu.RLock()
	client, exists := m.clients[scope]
	m.mu.RUnlock()
	if exists {
		return client
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if client, exists = m.clients[scope]; exists {
		return client
	}

	scopedConfig := &Config{
		ServerURL: m.config.ServerURL,
		Path:      m.config.Path,
		Timeout:   m.config.Timeout,
		Scope:     scope,
	}
	client = NewClient(scopedConfig, m.getToken)
	m.clients[scope] = client

	log.Printf("✅ Socket.IO client created: scope=%s", scope)

	return client
}

// Start 启动指定作用域的连接，重复调用不会建立第二条连接
func (m *Manager) Start(ctx context.Context, scope string) error {
	return m.Client(scope).Start(ctx)
}

// Stop 停止并移除指定作用域的连接
func (m *Manager) Stop(scope string) {
	m.mu.Lock()
	client, exists := m.clients[scope]
	if exists {
		delete(m.clients, scope)
	}
	m.mu.Unlock()

	if exists {
		client.Stop()
	}
}

// StopAll 停止全部连接
func (m *Manager) StopAll() {
	m.mu.Lock()
	clients := make([]*Client, 0, len(m.clients))
	for _, client := range m.clients {
		clients = append(clients, client)
	}
	m.clients = make(map[string]*Client)
	m.mu.Unlock()

	for _, client := range clients {
		client.Stop()
	}

	log.Printf("📴 All Socket.IO clients stopped")
}

// IsConnected 检查指定作用域是否已连接
func (m *Manager) IsConnected(scope string) bool {
	m.mu.RLock()
	client, exists := m.clients[scope]
	m.mu.RUnlock()

	if !exists {
		return false
	}
	return client.IsConnected()
}
