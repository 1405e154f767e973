package loop

import (
	"reflect"
	"testing"
)

func TestSchedulerRunsInDueOrder(t *testing.T) {
	s := NewScheduler()
	var got []string
	s.After(3, func() { got = append(got, "c") })
	s.After(1, func() { got = append(got, "a") })
	s.After(1, func() { got = append(got, "b") })

	for i := 0; i < 4; i++ {
		s.Advance()
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if s.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", s.Pending())
	}
}

func TestSchedulerDelayIsExact(t *testing.T) {
	s := NewScheduler()
	ran := 0
	s.After(60, func() { ran++ })

	for i := 0; i < 60; i++ {
		s.Advance()
	}
	if ran != 0 {
		t.Fatal("task ran before its 60th tick elapsed")
	}
	s.Advance()
	if ran != 1 {
		t.Fatalf("ran = %d after 61 advances, want 1", ran)
	}
	for i := 0; i < 10; i++ {
		s.Advance()
	}
	if ran != 1 {
		t.Fatalf("task ran %d times, want once", ran)
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	ran := false
	id := s.After(1, func() { ran = true })
	if !s.Cancel(id) {
		t.Fatal("Cancel should report a pending task")
	}
	if s.Cancel(id) {
		t.Fatal("second Cancel should report nothing pending")
	}
	s.Advance()
	s.Advance()
	if ran {
		t.Fatal("cancelled task ran")
	}
}

func TestSchedulerCancelAll(t *testing.T) {
	s := NewScheduler()
	ran := 0
	s.After(0, func() { ran++ })
	s.After(5, func() { ran++ })
	s.CancelAll()
	for i := 0; i < 10; i++ {
		s.Advance()
	}
	if ran != 0 || s.Pending() != 0 {
		t.Fatalf("ran = %d pending = %d, want 0 and 0", ran, s.Pending())
	}
}

func TestSchedulerTaskCancelsSameTickTask(t *testing.T) {
	s := NewScheduler()
	var second TaskID
	ran := false
	s.After(1, func() { s.Cancel(second) })
	second = s.After(1, func() { ran = true })

	s.Advance()
	s.Advance()
	if ran {
		t.Fatal("task cancelled by an earlier task on the same tick still ran")
	}
}

func TestSchedulerTaskScheduledWhileRunningWaits(t *testing.T) {
	s := NewScheduler()
	ran := 0
	s.After(0, func() {
		s.After(0, func() { ran++ })
	})

	s.Advance()
	if ran != 0 {
		t.Fatal("task scheduled during Advance ran in the same Advance")
	}
	s.Advance()
	if ran != 1 {
		t.Fatalf("ran = %d, want 1", ran)
	}
}
