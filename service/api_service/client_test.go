package api_service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audience-sync-service/tool"
)

func fixedToken(ctx context.Context) (string, error) {
	return "test-token", nil
}

func newTestClient(baseURL string) *Client {
	return NewClient(&Config{BaseURL: baseURL, Timeout: 5}, fixedToken)
}

func TestGetActivityHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/activity/history", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"a1","type":"exchange","title":"New offer","message":"hello","createdAt":1709287200000}]`))
	}))
	defer server.Close()

	records, err := newTestClient(server.URL).GetActivityHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a1", records[0].ID)
	assert.Equal(t, int64(1709287200000), int64(records[0].CreatedAt))
}

func TestGetActivityHistoryStringTimestamp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"a1","type":"exchange","title":"t","message":"m","createdAt":"2024-03-01T10:00:00Z"}]`))
	}))
	defer server.Close()

	records, err := newTestClient(server.URL).GetActivityHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1709287200000), int64(records[0].CreatedAt))
}

func TestGetConversationMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/messages", r.URL.Path)
		assert.Equal(t, "c1", r.URL.Query().Get("conversationId"))
		w.Write([]byte(`[{"id":"m1","content":"hi","senderId":"u1","createdAt":1},{"id":"m2","content":"yo","senderId":"u2","createdAt":2}]`))
	}))
	defer server.Close()

	messages, err := newTestClient(server.URL).GetConversationMessages(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m2", messages[1].ID)
}

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"id":"m9","content":"hello","senderId":"me","createdAt":100}`))
	}))
	defer server.Close()

	message, err := newTestClient(server.URL).SendMessage(context.Background(), &SendMessageReq{
		ConversationID: "c1",
		Content:        "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "m9", message.ID)
	assert.Equal(t, "hello", message.Content)
}

func TestSendMessageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SendMessage(context.Background(), &SendMessageReq{
		ConversationID: "c1",
		Content:        "hello",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestGzipResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gzip", r.Header.Get("Accept-Encoding"))
		body, err := tool.StrToGzip(`[{"id":"t1","lastMessageAt":5}]`)
		require.NoError(t, err)
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(body)
	}))
	defer server.Close()

	threads, err := newTestClient(server.URL).GetThreads(context.Background())
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, "t1", threads[0].ID)
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).GetThreads(ctx)
	require.Error(t, err)
}
