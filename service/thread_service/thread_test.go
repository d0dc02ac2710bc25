package thread_service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audience-sync-service/models"
)

func thread(id, senderID string, createdAt int64) *models.Thread {
	return &models.Thread{
		ID:            id,
		LastMessageAt: models.Timestamp(createdAt),
		LastMessage: &models.ChatMessage{
			ID:        "m-" + id,
			Content:   "hi",
			SenderID:  senderID,
			CreatedAt: models.Timestamp(createdAt),
		},
	}
}

func newTracker() *Tracker {
	return NewTracker(NewMemoryWatermarkStore(), "me")
}

func TestIsUnreadGuards(t *testing.T) {
	tracker := newTracker()

	assert.False(t, tracker.IsUnread(nil))
	assert.False(t, tracker.IsUnread(&models.Thread{ID: "t1"}))
	assert.False(t, tracker.IsUnread(&models.Thread{
		ID:          "t1",
		LastMessage: &models.ChatMessage{Content: "x", CreatedAt: 10},
	}))
	assert.False(t, tracker.IsUnread(&models.Thread{
		ID:          "t1",
		LastMessage: &models.ChatMessage{Content: "x", SenderID: "u1"},
	}))
}

func TestOwnMessageNeverUnread(t *testing.T) {
	tracker := newTracker()
	assert.False(t, tracker.IsUnread(thread("t1", "me", 10)))
}

func TestUnreadAgainstWatermark(t *testing.T) {
	store := NewMemoryWatermarkStore()
	tracker := NewTracker(store, "me")

	// 无水位时任何对方消息都未读
	assert.True(t, tracker.IsUnread(thread("t1", "partner", 10)))

	require.NoError(t, store.Set("t1", 9))
	assert.True(t, tracker.IsUnread(thread("t1", "partner", 10)))

	// 等于水位视为已读
	require.NoError(t, store.Set("t1", 10))
	assert.False(t, tracker.IsUnread(thread("t1", "partner", 10)))

	require.NoError(t, store.Set("t1", 11))
	assert.False(t, tracker.IsUnread(thread("t1", "partner", 10)))
}

func TestMarkSeenWritesLatestMessageTime(t *testing.T) {
	store := NewMemoryWatermarkStore()
	tracker := NewTracker(store, "me")

	th := thread("t1", "partner", 42)
	require.NoError(t, tracker.MarkSeen(th))

	mark, err := store.Get("t1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), mark)
	assert.False(t, tracker.IsUnread(th))
}

func TestMarkSeenFallsBackToLastMessageAt(t *testing.T) {
	store := NewMemoryWatermarkStore()
	tracker := NewTracker(store, "me")

	require.NoError(t, tracker.MarkSeen(&models.Thread{ID: "t1", LastMessageAt: 77}))

	mark, err := store.Get("t1")
	require.NoError(t, err)
	assert.Equal(t, int64(77), mark)
}

func TestMarkSeenWithoutTimeIsNoop(t *testing.T) {
	store := NewMemoryWatermarkStore()
	tracker := NewTracker(store, "me")

	require.NoError(t, store.Set("t1", 50))
	require.NoError(t, tracker.MarkSeen(&models.Thread{ID: "t1"}))

	mark, err := store.Get("t1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), mark)
}

func TestUnreadCount(t *testing.T) {
	store := NewMemoryWatermarkStore()
	tracker := NewTracker(store, "me")
	require.NoError(t, store.Set("t2", 100))

	threads := []models.Thread{
		*thread("t1", "partner", 10), // 未读
		*thread("t2", "partner", 20), // 水位之下
		*thread("t3", "me", 30),      // 自己发的
	}

	assert.Equal(t, 1, tracker.UnreadCount(threads))
	unread := tracker.UnreadThreads(threads)
	require.Len(t, unread, 1)
	assert.Equal(t, "t1", unread[0].ID)
}
