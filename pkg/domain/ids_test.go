package domain

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestSequence(t *testing.T) {
	seq := NewSequence(6)
	for _, want := range []string{"6", "7", "8"} {
		if got := seq.Next(); got != want {
			t.Errorf("Next() = %q, want %q", got, want)
		}
	}
}

func TestSequence_Concurrent(t *testing.T) {
	seq := NewSequence(1)
	var (
		mu   sync.Mutex
		seen = map[string]bool{}
		wg   sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := seq.Next()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(seen) != 50 {
		t.Errorf("got %d distinct ids, want 50", len(seen))
	}
}

func TestUUIDGenerator(t *testing.T) {
	var gen IDGenerator = UUIDGenerator{}
	a, b := gen.Next(), gen.Next()
	if a == b {
		t.Error("uuids should differ")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("not a uuid: %v", err)
	}
}

func TestIDFunc(t *testing.T) {
	var gen IDGenerator = IDFunc(func() string { return "fixed" })
	if gen.Next() != "fixed" {
		t.Error("IDFunc should delegate")
	}
}
