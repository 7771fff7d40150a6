package api

import (
	"sync"
	"testing"
)

func TestLockUserReleasesEntries(t *testing.T) {
	s := &Service{locks: make(map[string]*userLock)}

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "a"
			if i%2 == 1 {
				id = "b"
			}
			unlock := s.lockUser(id)
			if id == "a" {
				counter++
			}
			unlock()
		}(i)
	}
	wg.Wait()

	if counter != 25 {
		t.Fatalf("expected 25 serialized increments, got %d", counter)
	}
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	if len(s.locks) != 0 {
		t.Fatalf("expected lock map to be empty, got %d entries", len(s.locks))
	}
}

func TestLockUserBlocksSameLearner(t *testing.T) {
	s := &Service{locks: make(map[string]*userLock)}
	unlock := s.lockUser("a")

	acquired := make(chan struct{})
	go func() {
		release := s.lockUser("a")
		close(acquired)
		release()
	}()

	other := s.lockUser("b")
	other()

	select {
	case <-acquired:
		t.Fatal("second lock on the same learner acquired while held")
	default:
	}
	unlock()
	<-acquired
}
