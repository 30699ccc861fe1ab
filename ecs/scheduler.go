package ecs

import (
	"sync"
	"time"
)

// Task runs on the update goroutine. A positive return value overrides the
// delay before the task runs again; zero or negative keeps its period.
type Task func(w *World) time.Duration

type scheduledTask struct {
	name    string
	period  time.Duration
	due     time.Duration
	run     Task
	once    bool
	removed bool
	gen     uint64
}

// Scheduler is the cooperative loop that drives the world. Tasks are named;
// registering a name again replaces the earlier task, so a timer can never be
// armed twice. Every method except Post must be called from the goroutine
// that calls Advance.
type Scheduler struct {
	mu     sync.Mutex
	posted []func(*World)

	tasks []*scheduledTask
	now   time.Duration
	gen   uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Every registers task to run every period, first after one period. A zero
// period runs the task on every Advance.
func (s *Scheduler) Every(name string, period time.Duration, task Task) {
	s.register(name, period, period, task, false)
}

// After runs fn once after delay.
func (s *Scheduler) After(name string, delay time.Duration, fn func(*World)) {
	s.register(name, delay, 0, func(w *World) time.Duration {
		fn(w)
		return 0
	}, true)
}

// AddSystem runs sys every period, in registration order with other tasks.
func (s *Scheduler) AddSystem(name string, period time.Duration, sys System) {
	if sys == nil {
		return
	}
	s.Every(name, period, func(w *World) time.Duration {
		sys.Update(w)
		return 0
	})
}

func (s *Scheduler) register(name string, delay, period time.Duration, task Task, once bool) {
	if task == nil {
		return
	}
	s.gen++
	if t := s.find(name); t != nil {
		t.period = period
		t.due = s.now + delay
		t.run = task
		t.once = once
		t.gen = s.gen
		return
	}
	s.tasks = append(s.tasks, &scheduledTask{
		name:   name,
		period: period,
		due:    s.now + delay,
		run:    task,
		once:   once,
		gen:    s.gen,
	})
}

func (s *Scheduler) find(name string) *scheduledTask {
	for _, t := range s.tasks {
		if !t.removed && t.name == name {
			return t
		}
	}
	return nil
}

// Cancel removes the named task. It reports whether one was pending.
func (s *Scheduler) Cancel(name string) bool {
	t := s.find(name)
	if t == nil {
		return false
	}
	t.removed = true
	return true
}

func (s *Scheduler) Pending(name string) bool {
	return s.find(name) != nil
}

// Now is the scheduler's virtual clock: the sum of every Advance dt.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Post queues fn to run at the start of the next Advance. It is the only
// method safe to call from other goroutines.
func (s *Scheduler) Post(fn func(*World)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.posted = append(s.posted, fn)
	s.mu.Unlock()
}

// Advance moves the clock by dt, runs posted closures, then every due task
// at most once in registration order, and finally clears the world's event
// queue. A periodic task's next deadline counts from its previous one.
func (s *Scheduler) Advance(w *World, dt time.Duration) {
	s.mu.Lock()
	posted := s.posted
	s.posted = nil
	s.mu.Unlock()

	for _, fn := range posted {
		fn(w)
	}

	if dt > 0 {
		s.now += dt
	}

	// Tasks registered during this pass wait for the next one.
	n := len(s.tasks)
	for i := 0; i < n; i++ {
		t := s.tasks[i]
		if t.removed || t.due > s.now {
			continue
		}
		gen := t.gen
		next := t.run(w)
		if t.removed || t.gen != gen {
			// cancelled or replaced from inside its own run
			continue
		}
		if t.once {
			t.removed = true
			continue
		}
		if next <= 0 {
			next = t.period
		}
		// Keep the phase so a period that is not a multiple of the frame
		// time averages out. A task a whole period behind starts over.
		t.due += next
		if t.due <= s.now {
			t.due = s.now + next
		}
	}

	s.compact()
	w.Events().flush()
}

func (s *Scheduler) compact() {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.removed {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = kept
}
