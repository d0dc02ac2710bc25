package socket_client_service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zishang520/socket.io/v3/pkg/types"
)

func emptyToken(ctx context.Context) (string, error) {
	return "", nil
}

func TestStartWithoutTokenIsSilent(t *testing.T) {
	client := NewClient(&Config{
		ServerURL: "http://localhost:9999",
		Scope:     "global",
	}, emptyToken)

	err := client.Start(context.Background())
	require.NoError(t, err)
	assert.False(t, client.IsConnected())

	// 重复调用同样静默
	err = client.Start(context.Background())
	require.NoError(t, err)
	assert.False(t, client.IsConnected())
}

func TestEmitWhenNotConnected(t *testing.T) {
	client := NewClient(&Config{
		ServerURL: "http://localhost:9999",
		Scope:     "global",
	}, emptyToken)

	err := client.Emit(EventSendMessage, SendMessagePayload{
		ConversationID: "c1",
		Content:        "hello",
	})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestManagerReturnsSameClientPerScope(t *testing.T) {
	manager := NewManager(&Config{
		ServerURL: "http://localhost:9999",
	}, emptyToken)

	a := manager.Client("global")
	b := manager.Client("global")
	c := manager.Client("conversation:c1")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "global", a.Scope())
	assert.Equal(t, "conversation:c1", c.Scope())
}

func TestManagerStopRemovesScope(t *testing.T) {
	manager := NewManager(&Config{
		ServerURL: "http://localhost:9999",
	}, emptyToken)

	a := manager.Client("conversation:c1")
	manager.Stop("conversation:c1")
	b := manager.Client("conversation:c1")

	assert.NotSame(t, a, b)
	assert.False(t, manager.IsConnected("conversation:c1"))
}

func TestDispatchCallsAllHandlers(t *testing.T) {
	client := NewClient(&Config{
		ServerURL: "http://localhost:9999",
		Scope:     "global",
	}, emptyToken)

	var first, second []interface{}
	client.On(EventNewMessage, func(data ...interface{}) {
		first = data
	})
	client.On(EventNewMessage, func(data ...interface{}) {
		second = data
	})
	// 处理器 panic 不影响其他处理器
	client.On(EventNewMessage, func(data ...interface{}) {
		panic("boom")
	})

	client.dispatch(EventNewMessage, "payload")

	require.Len(t, first, 1)
	assert.Equal(t, "payload", first[0])
	require.Len(t, second, 1)
	assert.Equal(t, "payload", second[0])
}

func TestBindSocketEventDispatchesToSubscribers(t *testing.T) {
	client := NewClient(&Config{
		ServerURL: "http://localhost:9999",
		Scope:     "global",
	}, emptyToken)

	var got []string
	client.On(EventNewMessage, func(data ...interface{}) {
		got = append(got, data[0].(string)+"-a")
	})
	client.On(EventNewMessage, func(data ...interface{}) {
		got = append(got, data[0].(string)+"-b")
	})

	// 事件名是 string 变量，绑定时要转成底层事件表的键类型
	emitter := types.NewEventEmitter()
	client.bindSocketEvent(emitter, EventNewMessage)
	emitter.Emit(types.EventName(EventNewMessage), "m1")

	assert.Equal(t, []string{"m1-a", "m1-b"}, got)
}

func TestDecodePayload(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var out TypingPayload
		err := DecodePayload(nil, &out)
		assert.ErrorIs(t, err, ErrEmptyPayload)
	})

	t.Run("json string", func(t *testing.T) {
		var out TypingPayload
		err := DecodePayload([]interface{}{`{"userId":"u1","isTyping":true}`}, &out)
		require.NoError(t, err)
		assert.Equal(t, "u1", out.UserID)
		assert.True(t, out.IsTyping)
	})

	t.Run("map", func(t *testing.T) {
		var out PresencePayload
		err := DecodePayload([]interface{}{map[string]interface{}{"userId": "u2"}}, &out)
		require.NoError(t, err)
		assert.Equal(t, "u2", out.UserID)
	})
}
