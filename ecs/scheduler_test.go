package ecs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 16 * time.Millisecond

func TestSchedulerEvery(t *testing.T) {
	s := NewScheduler()
	w := NewWorld()

	runs := 0
	s.Every("tick", 30*time.Millisecond, func(*World) time.Duration {
		runs++
		return 0
	})

	s.Advance(w, frame)
	assert.Equal(t, 0, runs)
	s.Advance(w, frame)
	assert.Equal(t, 1, runs)

	// A long frame still runs the task only once.
	s.Advance(w, time.Second)
	assert.Equal(t, 2, runs)
}

func TestSchedulerReplaceKeepsOneTimer(t *testing.T) {
	s := NewScheduler()
	w := NewWorld()

	var order []string
	s.Every("a", 0, func(*World) time.Duration { order = append(order, "a1"); return 0 })
	s.Every("b", 0, func(*World) time.Duration { order = append(order, "b"); return 0 })
	s.Every("a", 0, func(*World) time.Duration { order = append(order, "a2"); return 0 })

	s.Advance(w, frame)
	assert.Equal(t, []string{"a2", "b"}, order)
}

func TestSchedulerReturnedDelayOverridesPeriod(t *testing.T) {
	s := NewScheduler()
	w := NewWorld()

	runs := 0
	s.Every("slow", 0, func(*World) time.Duration {
		runs++
		return 100 * time.Millisecond
	})

	// First run at 16ms, next due at 100ms.
	for i := 0; i < 6; i++ {
		s.Advance(w, frame)
	}
	assert.Equal(t, 1, runs)

	s.Advance(w, frame)
	assert.Equal(t, 2, runs)
	s.Advance(w, frame)
	assert.Equal(t, 2, runs)
}

func TestSchedulerEveryKeepsPhase(t *testing.T) {
	s := NewScheduler()
	w := NewWorld()

	runs := 0
	s.Every("motion", 30*time.Millisecond, func(*World) time.Duration {
		runs++
		return 0
	})

	for i := 0; i < 60; i++ {
		s.Advance(w, time.Second/60)
	}
	assert.InDelta(t, 33, runs, 1)
}

func TestSchedulerStallRebasesOnNow(t *testing.T) {
	s := NewScheduler()
	w := NewWorld()

	runs := 0
	s.Every("tick", 30*time.Millisecond, func(*World) time.Duration {
		runs++
		return 0
	})

	s.Advance(w, 300*time.Millisecond)
	require.Equal(t, 1, runs)

	// Next due is 330ms, not the missed 60ms slot.
	s.Advance(w, frame)
	assert.Equal(t, 1, runs)
	s.Advance(w, frame)
	assert.Equal(t, 2, runs)
}

func TestSchedulerAfterAndCancel(t *testing.T) {
	s := NewScheduler()
	w := NewWorld()

	fired := 0
	s.After("clear", 50*time.Millisecond, func(*World) { fired++ })
	require.True(t, s.Pending("clear"))

	s.Advance(w, 40*time.Millisecond)
	assert.Equal(t, 0, fired)

	// Re-arming pushes the deadline out instead of adding a second timer.
	s.After("clear", 50*time.Millisecond, func(*World) { fired++ })
	s.Advance(w, 40*time.Millisecond)
	assert.Equal(t, 0, fired)
	s.Advance(w, 20*time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.False(t, s.Pending("clear"))

	s.After("never", time.Millisecond, func(*World) { fired++ })
	assert.True(t, s.Cancel("never"))
	assert.False(t, s.Cancel("never"))
	s.Advance(w, time.Second)
	assert.Equal(t, 1, fired)
}

func TestSchedulerPostFromGoroutines(t *testing.T) {
	s := NewScheduler()
	w := NewWorld()

	var wg sync.WaitGroup
	count := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Post(func(*World) { count++ })
		}()
	}
	wg.Wait()

	s.Advance(w, frame)
	assert.Equal(t, 20, count)
}

func TestSchedulerFlushesEvents(t *testing.T) {
	s := NewScheduler()
	w := NewWorld()

	seen := 0
	s.Every("producer", 0, func(w *World) time.Duration {
		w.Events().Push(Event{Type: "ping"})
		return 0
	})
	s.Every("consumer", 0, func(w *World) time.Duration {
		w.Events().Each("ping", func(Event) { seen++ })
		return 0
	})

	s.Advance(w, frame)
	s.Advance(w, frame)
	assert.Equal(t, 2, seen)
	assert.Equal(t, 0, w.Events().Len())
}

func TestSchedulerTaskCancelsItself(t *testing.T) {
	s := NewScheduler()
	w := NewWorld()

	runs := 0
	s.Every("self", 0, func(*World) time.Duration {
		runs++
		s.Cancel("self")
		return 0
	})
	s.Advance(w, frame)
	s.Advance(w, frame)
	assert.Equal(t, 1, runs)
}
