package synccenter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audience-sync-service/service/api_service"
	"audience-sync-service/service/pebble_service"
	"audience-sync-service/service/socket_client_service"
)

func signedOut(ctx context.Context) (string, error) {
	return "", nil
}

func newTestCenter(t *testing.T, apiURL string) *SyncCenter {
	center := NewSyncCenter(&Config{
		SocketConfig: &socket_client_service.Config{
			ServerURL: "http://localhost:9999",
		},
		ApiConfig: &api_service.Config{
			BaseURL: apiURL,
			Timeout: 5,
		},
		PebbleConfig: &pebble_service.Config{
			DBPath: t.TempDir(),
		},
		MyUserID:       "me",
		TypingExpire:   time.Minute,
		TypingDebounce: time.Minute,
	}, signedOut)

	require.NoError(t, center.Initialize())
	t.Cleanup(func() {
		_ = center.Stop()
	})
	return center
}

func newAPIServer(t *testing.T, handler http.HandlerFunc) string {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL
}

func TestRunWithoutTokenStaysOffline(t *testing.T) {
	apiURL := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	center := newTestCenter(t, apiURL)
	require.NoError(t, center.Run(context.Background()))

	assert.True(t, center.IsRunning())
	assert.False(t, center.IsConnected())
	assert.Greater(t, center.StartedAt(), int64(0))

	// 重复启动报错
	assert.Error(t, center.Run(context.Background()))
}

func TestOpenConversationIdempotent(t *testing.T) {
	apiURL := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	center := newTestCenter(t, apiURL)
	require.NoError(t, center.Run(context.Background()))

	first, err := center.OpenConversation(context.Background(), "c1")
	require.NoError(t, err)
	second, err := center.OpenConversation(context.Background(), "c1")
	require.NoError(t, err)
	assert.Same(t, first, second)

	assert.Same(t, first, center.Conversation("c1"))
	assert.Nil(t, center.Conversation("c2"))
}

func TestOpenConversationSwitchesSession(t *testing.T) {
	apiURL := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	center := newTestCenter(t, apiURL)
	require.NoError(t, center.Run(context.Background()))

	_, err := center.OpenConversation(context.Background(), "c1")
	require.NoError(t, err)
	_, err = center.OpenConversation(context.Background(), "c2")
	require.NoError(t, err)

	// 切换后旧会话不再可见
	assert.Nil(t, center.Conversation("c1"))
	assert.NotNil(t, center.Conversation("c2"))

	center.CloseConversation("c2")
	assert.Nil(t, center.Conversation("c2"))
}

func TestComposerKeystrokeRequiresOpenConversation(t *testing.T) {
	apiURL := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	center := newTestCenter(t, apiURL)
	require.NoError(t, center.Run(context.Background()))

	assert.Error(t, center.ComposerKeystroke("c1"))

	_, err := center.OpenConversation(context.Background(), "c1")
	require.NoError(t, err)
	assert.NoError(t, center.ComposerKeystroke("c1"))
}

func TestMarkThreadSeenAndUnreadThreads(t *testing.T) {
	apiURL := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"t1","lastMessageAt":100,"lastMessage":{"id":"m1","content":"hi","senderId":"partner","createdAt":100}},
			{"id":"t2","lastMessageAt":50,"lastMessage":{"id":"m2","content":"yo","senderId":"partner","createdAt":50}}
		]`))
	})

	center := newTestCenter(t, apiURL)
	require.NoError(t, center.Run(context.Background()))

	require.NoError(t, center.MarkThreadSeen("t2", 50))

	unread, err := center.UnreadThreads(context.Background())
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "t1", unread[0].ID)
}
