package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSession struct {
	id      string
	touched time.Time
}

func (f *fakeSession) SessionID() string     { return f.id }
func (f *fakeSession) LastActive() time.Time { return f.touched }

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore[*fakeSession]()
	s := &fakeSession{id: "a", touched: time.Now()}
	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, "a")
	if err != nil || got != s {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if _, err := st.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore[*fakeSession]()
	now := time.Now()
	_ = st.Save(ctx, &fakeSession{id: "old", touched: now.Add(-2 * time.Hour)})
	_ = st.Save(ctx, &fakeSession{id: "new", touched: now})

	if n := st.Prune(ctx, now.Add(-time.Hour)); n != 1 {
		t.Fatalf("expected 1 pruned, got %d", n)
	}
	if _, err := st.Get(ctx, "old"); err == nil {
		t.Fatal("old session should be gone")
	}
	if _, err := st.Get(ctx, "new"); err != nil {
		t.Fatal("new session should remain")
	}
}

func TestJanitorStopsOnCancel(t *testing.T) {
	st := NewMemoryStore[*fakeSession]()
	_ = st.Save(context.Background(), &fakeSession{id: "old", touched: time.Now().Add(-time.Hour)})

	ctx, cancel := context.WithCancel(context.Background())
	pruned := make(chan int, 1)
	done := make(chan struct{})
	go func() {
		Janitor[*fakeSession](ctx, st, time.Millisecond, time.Minute, func(n int) {
			select {
			case pruned <- n:
			default:
			}
		})
		close(done)
	}()

	select {
	case n := <-pruned:
		if n != 1 {
			t.Fatalf("expected 1 pruned, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("janitor never pruned")
	}
	cancel()
	<-done
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore[*fakeSession]()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			_ = st.Save(ctx, &fakeSession{id: id, touched: time.Now()})
			_, _ = st.Get(ctx, id)
			st.Prune(ctx, time.Now().Add(-time.Hour))
		}(i)
	}
	wg.Wait()
}

func TestEachVisitsEverySession(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore[*fakeSession]()
	for _, id := range []string{"a", "b", "c"} {
		_ = st.Save(ctx, &fakeSession{id: id, touched: time.Now()})
	}
	seen := map[string]bool{}
	st.Each(ctx, func(s *fakeSession) {
		seen[s.id] = true
		// callbacks may use the store without deadlocking
		if _, err := st.Get(ctx, s.id); err != nil {
			t.Errorf("Get(%s) inside Each: %v", s.id, err)
		}
	})
	if len(seen) != 3 {
		t.Fatalf("visited %v", seen)
	}
}
