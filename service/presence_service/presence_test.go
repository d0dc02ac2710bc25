package presence_service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotReplacesList(t *testing.T) {
	tracker := NewTracker()
	tracker.Join("stale")

	tracker.Snapshot([]string{"a", "b"})

	assert.Equal(t, []string{"a", "b"}, tracker.List())
	assert.False(t, tracker.IsOnline("stale"))
}

func TestLeaveThenRejoin(t *testing.T) {
	tracker := NewTracker()
	tracker.Snapshot([]string{"a", "b"})

	tracker.Leave("a")
	assert.Equal(t, []string{"b"}, tracker.List())

	tracker.Join("a")
	assert.Equal(t, []string{"a", "b"}, tracker.List())
	assert.Equal(t, 2, tracker.Count())
}

func TestLeaveUnknownUserIsNoop(t *testing.T) {
	tracker := NewTracker()
	tracker.Snapshot([]string{"a"})

	tracker.Leave("ghost")
	assert.Equal(t, []string{"a"}, tracker.List())
}

func TestResetClearsAll(t *testing.T) {
	tracker := NewTracker()
	tracker.Snapshot([]string{"a", "b", "c"})

	tracker.Reset()
	assert.Empty(t, tracker.List())
	assert.Equal(t, 0, tracker.Count())
}

func TestJoinIgnoresEmptyID(t *testing.T) {
	tracker := NewTracker()
	tracker.Join("")
	tracker.Snapshot([]string{"a", ""})
	assert.Equal(t, []string{"a"}, tracker.List())
}
