package presence_service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypingAutoExpires(t *testing.T) {
	tracker := NewTypingTracker(50 * time.Millisecond)

	tracker.Apply("u1", true)
	assert.True(t, tracker.IsTyping("u1"))

	time.Sleep(80 * time.Millisecond)
	assert.False(t, tracker.IsTyping("u1"))
	assert.Empty(t, tracker.Snapshot())
}

func TestTypingRestartExtendsWindow(t *testing.T) {
	tracker := NewTypingTracker(60 * time.Millisecond)

	tracker.Apply("u1", true)
	time.Sleep(40 * time.Millisecond)

	// 第二个事件重置窗口，原窗口到期后仍在输入
	tracker.Apply("u1", true)
	time.Sleep(40 * time.Millisecond)
	assert.True(t, tracker.IsTyping("u1"))

	time.Sleep(50 * time.Millisecond)
	assert.False(t, tracker.IsTyping("u1"))
}

func TestTypingStopEventClearsImmediately(t *testing.T) {
	tracker := NewTypingTracker(time.Minute)

	tracker.Apply("u1", true)
	tracker.Apply("u2", true)
	tracker.Apply("u1", false)

	assert.False(t, tracker.IsTyping("u1"))
	assert.True(t, tracker.IsTyping("u2"))
	assert.Equal(t, []string{"u2"}, tracker.Snapshot())
}

func TestTypingStaleTimerDoesNotClearFreshState(t *testing.T) {
	tracker := NewTypingTracker(time.Hour)

	tracker.Apply("u1", true)
	stale := tracker.timers["u1"]

	// 新事件重建定时器后，旧定时器触发是无操作
	tracker.Apply("u1", true)
	tracker.expireUser("u1", stale)
	assert.True(t, tracker.IsTyping("u1"))

	// 在册定时器到期仍然归位
	tracker.expireUser("u1", tracker.timers["u1"])
	assert.False(t, tracker.IsTyping("u1"))
}

func TestTypingReset(t *testing.T) {
	tracker := NewTypingTracker(time.Minute)
	tracker.Apply("u1", true)
	tracker.Apply("u2", true)

	tracker.Reset()
	assert.Empty(t, tracker.Snapshot())
}

type emitRecorder struct {
	mu    sync.Mutex
	calls []bool
}

func (r *emitRecorder) emit(isTyping bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, isTyping)
}

func (r *emitRecorder) snapshot() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bool, len(r.calls))
	copy(out, r.calls)
	return out
}

func TestComposerDebounce(t *testing.T) {
	recorder := &emitRecorder{}
	composer := NewComposer(50*time.Millisecond, recorder.emit)

	// 连续击键只发一次 start
	composer.Keystroke()
	composer.Keystroke()
	composer.Keystroke()
	assert.Equal(t, []bool{true}, recorder.snapshot())
	assert.True(t, composer.IsActive())

	// 停止击键满窗口后发一次 stop
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, []bool{true, false}, recorder.snapshot())
	assert.False(t, composer.IsActive())

	// 再次击键重新发 start
	composer.Keystroke()
	assert.Equal(t, []bool{true, false, true}, recorder.snapshot())
}

func TestComposerKeystrokeExtendsWindow(t *testing.T) {
	recorder := &emitRecorder{}
	composer := NewComposer(60*time.Millisecond, recorder.emit)

	composer.Keystroke()
	time.Sleep(40 * time.Millisecond)
	composer.Keystroke()
	time.Sleep(40 * time.Millisecond)

	// 两次击键间隔都小于窗口，stop 尚未发出
	require.Equal(t, []bool{true}, recorder.snapshot())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []bool{true, false}, recorder.snapshot())
}

func TestComposerStaleTimerDoesNotEndFreshSession(t *testing.T) {
	recorder := &emitRecorder{}
	composer := NewComposer(time.Hour, recorder.emit)

	composer.Keystroke()
	stale := composer.timer

	// 击键顺延窗口后，旧定时器触发是无操作
	composer.Keystroke()
	composer.expire(stale)
	assert.True(t, composer.IsActive())
	assert.Equal(t, []bool{true}, recorder.snapshot())

	// 在册定时器到期才发 stop
	composer.expire(composer.timer)
	assert.False(t, composer.IsActive())
	assert.Equal(t, []bool{true, false}, recorder.snapshot())
}

func TestComposerStop(t *testing.T) {
	recorder := &emitRecorder{}
	composer := NewComposer(time.Minute, recorder.emit)

	composer.Keystroke()
	composer.Stop()
	assert.Equal(t, []bool{true, false}, recorder.snapshot())

	// 未激活时 Stop 是无操作
	composer.Stop()
	assert.Equal(t, []bool{true, false}, recorder.snapshot())
}
