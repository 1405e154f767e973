package main

import (
	"sync"
	"testing"
)

func TestSizeTrackerFollowsUpdates(t *testing.T) {
	st := newSizeTracker(80, 24)
	if w, h, err := st.getSize(); err != nil || w != 80 || h != 24 {
		t.Fatalf("getSize = %d, %d, %v; want 80, 24, nil", w, h, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st.update(100+i, 40)
			st.getSize()
		}(i)
	}
	wg.Wait()

	st.update(120, 50)
	if w, h, _ := st.getSize(); w != 120 || h != 50 {
		t.Fatalf("getSize = %d, %d; want 120, 50", w, h)
	}
}
