package pebble_service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audience-sync-service/models"
)

func newTestService(t *testing.T) *PebbleService {
	service := NewPebbleService(&Config{DBPath: t.TempDir()})
	require.NoError(t, service.Initialize())
	t.Cleanup(func() {
		_ = service.Close()
	})
	return service
}

func TestSaveAndGetThreadWatermark(t *testing.T) {
	service := newTestService(t)

	require.NoError(t, service.SaveThreadWatermark(&models.ThreadWatermark{
		ThreadID:   "t1",
		LastSeenAt: 1000,
	}))

	watermark, err := service.GetThreadWatermark("t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", watermark.ThreadID)
	assert.Equal(t, int64(1000), watermark.LastSeenAt)
	assert.NotZero(t, watermark.UpdatedAt)
}

func TestGetMissingWatermarkReturnsZero(t *testing.T) {
	service := newTestService(t)

	watermark, err := service.GetThreadWatermark("missing")
	require.NoError(t, err)
	assert.Equal(t, int64(0), watermark.LastSeenAt)
}

func TestSaveWatermarkRequiresThreadID(t *testing.T) {
	service := newTestService(t)

	err := service.SaveThreadWatermark(&models.ThreadWatermark{LastSeenAt: 10})
	assert.Error(t, err)
}

func TestDeleteThreadWatermark(t *testing.T) {
	service := newTestService(t)

	require.NoError(t, service.SaveThreadWatermark(&models.ThreadWatermark{
		ThreadID:   "t1",
		LastSeenAt: 1000,
	}))
	require.NoError(t, service.DeleteThreadWatermark("t1"))

	watermark, err := service.GetThreadWatermark("t1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), watermark.LastSeenAt)
}

func TestListThreadWatermarks(t *testing.T) {
	service := newTestService(t)

	require.NoError(t, service.SaveThreadWatermark(&models.ThreadWatermark{ThreadID: "t1", LastSeenAt: 1}))
	require.NoError(t, service.SaveThreadWatermark(&models.ThreadWatermark{ThreadID: "t2", LastSeenAt: 2}))

	watermarks, err := service.ListThreadWatermarks()
	require.NoError(t, err)
	assert.Len(t, watermarks, 2)
}

func TestPebbleWatermarkStore(t *testing.T) {
	service := newTestService(t)
	store := NewPebbleWatermarkStore(service)

	mark, err := store.Get("t1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), mark)

	require.NoError(t, store.Set("t1", 500))

	mark, err = store.Get("t1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), mark)
}
