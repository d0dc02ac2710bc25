package notify_service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audience-sync-service/models"
	"audience-sync-service/service/api_service"
)

func noToken(ctx context.Context) (string, error) {
	return "token", nil
}

func TestBootstrapRunsOnce(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`[{"id":"a1","type":"exchange","title":"offer","message":"m","createdAt":100}]`))
	}))
	defer server.Close()

	api := api_service.NewClient(&api_service.Config{BaseURL: server.URL}, noToken)
	feed := NewFeed(nil)

	feed.Bootstrap(context.Background(), api)
	feed.Bootstrap(context.Background(), api)
	feed.Bootstrap(context.Background(), api)

	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
	assert.Len(t, feed.Items(), 1)
	assert.True(t, feed.Stats().Bootstrapped)
}

func TestBootstrapFailureDoesNotRetry(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	api := api_service.NewClient(&api_service.Config{BaseURL: server.URL}, noToken)
	feed := NewFeed(nil)

	feed.Bootstrap(context.Background(), api)
	feed.Bootstrap(context.Background(), api)

	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
	assert.Error(t, feed.LastError())
	assert.Empty(t, feed.Items())
}

func TestReconnectDoesNotDuplicateHistory(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		// 无 ID 记录走位置兜底序号，重拉会生成新键造成重复
		w.Write([]byte(`[{"type":"exchange","title":"offer","message":"m","createdAt":100}]`))
	}))
	defer server.Close()

	api := api_service.NewClient(&api_service.Config{BaseURL: server.URL}, noToken)
	feed := NewFeed(nil)

	feed.Bootstrap(context.Background(), api)
	require.Len(t, feed.Items(), 1)

	// 断线重连后连接回调再次触发 Bootstrap，历史不重拉也不重复
	feed.Bootstrap(context.Background(), api)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
	assert.Len(t, feed.Items(), 1)
}

func TestApplyLiveTriggersAlert(t *testing.T) {
	feed := NewFeed(&FeedConfig{Cap: 10})

	var alerted []models.Notification
	feed.OnAlert = func(n models.Notification) {
		alerted = append(alerted, n)
	}

	ok := feed.ApplyLive(&models.Notification{Title: "live", Message: "m", CreatedAt: 50})
	assert.True(t, ok)
	require.Len(t, alerted, 1)
	assert.Equal(t, "live", alerted[0].Title)

	// 无效通知不入库也不提醒
	ok = feed.ApplyLive(&models.Notification{ID: "x"})
	assert.False(t, ok)
	assert.Len(t, alerted, 1)
	assert.Len(t, feed.Items(), 1)
}

func TestHistoryMergeIsSilent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"a1","type":"exchange","title":"offer","message":"m","createdAt":100}]`))
	}))
	defer server.Close()

	api := api_service.NewClient(&api_service.Config{BaseURL: server.URL}, noToken)
	feed := NewFeed(nil)

	alerts := 0
	feed.OnAlert = func(models.Notification) { alerts++ }

	feed.Bootstrap(context.Background(), api)
	assert.Equal(t, 0, alerts)
	assert.Len(t, feed.Items(), 1)
}

func TestClearOneAndClearAll(t *testing.T) {
	feed := NewFeed(nil)
	feed.ApplyLive(&models.Notification{ID: "n1", Title: "a", CreatedAt: 10})
	feed.ApplyLive(&models.Notification{ID: "n2", Title: "b", CreatedAt: 20})

	items := feed.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "n2", items[0].ID)

	// 按展示位置删除头部一条
	assert.True(t, feed.ClearOne(0))
	items = feed.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "n1", items[0].ID)

	// 越界位置是无操作
	assert.False(t, feed.ClearOne(5))
	assert.False(t, feed.ClearOne(-1))

	feed.ClearAll()
	assert.Empty(t, feed.Items())
}
