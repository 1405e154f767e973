package loop

import "sort"

// TaskID identifies a scheduled task.
type TaskID uint64

type task struct {
	id  TaskID
	due int64
	fn  func()
}

// Scheduler runs one-shot tasks after a number of simulation ticks. It is
// driven by the frame loop, so tasks never run concurrently with a frame.
type Scheduler struct {
	now     int64
	nextID  TaskID
	tasks   []task
	running []task // due this tick, not yet run
}

// NewScheduler creates an empty scheduler at tick 0.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current tick.
func (s *Scheduler) Now() int64 {
	return s.now
}

// After schedules fn to run once ticks Advance calls from now. A task
// scheduled with ticks <= 0 runs on the next Advance.
func (s *Scheduler) After(ticks int64, fn func()) TaskID {
	s.nextID++
	s.tasks = append(s.tasks, task{id: s.nextID, due: s.now + ticks, fn: fn})
	return s.nextID
}

// Cancel removes a pending task. It reports whether the task was pending.
// A task may cancel another task that is due on the same tick.
func (s *Scheduler) Cancel(id TaskID) bool {
	if i := indexOf(s.tasks, id); i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		return true
	}
	if i := indexOf(s.running, id); i >= 0 {
		s.running = append(s.running[:i], s.running[i+1:]...)
		return true
	}
	return false
}

// CancelAll drops every pending task.
func (s *Scheduler) CancelAll() {
	s.tasks = nil
	s.running = nil
}

// Pending returns the number of tasks waiting to run.
func (s *Scheduler) Pending() int {
	return len(s.tasks) + len(s.running)
}

func indexOf(tasks []task, id TaskID) int {
	for i, t := range tasks {
		if t.id == id {
			return i
		}
	}
	return -1
}

// Advance runs every task that is due at the current tick, in due order and
// then schedule order, and moves the clock forward by one tick. Tasks
// scheduled by a running task wait for a later Advance.
func (s *Scheduler) Advance() {
	var due []task
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.due <= s.now {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	s.tasks = kept

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].id < due[j].id
	})
	s.running = due
	for len(s.running) > 0 {
		t := s.running[0]
		s.running = s.running[1:]
		t.fn()
	}

	s.now++
}
