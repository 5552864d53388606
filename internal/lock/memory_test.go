package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockOneIsExclusive(t *testing.T) {
	table := NewTable()
	ctx := context.Background()

	s1 := table.Session()
	require.NoError(t, s1.LockOne(ctx, "Account:1"))

	s2 := table.Session()
	acquired := make(chan struct{})
	go func() {
		if err := s2.LockOne(ctx, "Account:1"); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second session acquired a held lock")
	case <-time.After(50 * time.Millisecond):
	}

	s1.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock was not handed over after release")
	}
	s2.Release()
}

func TestLockOneIsReentrantWithinSession(t *testing.T) {
	table := NewTable()
	ctx := context.Background()

	s := table.Session()
	require.NoError(t, s.LockOne(ctx, "Account:1"))
	require.NoError(t, s.LockOne(ctx, "Account:1"))
	s.Release()

	// A fresh session must be able to acquire immediately.
	s2 := table.Session()
	require.NoError(t, s2.LockOne(ctx, "Account:1"))
	s2.Release()
}

func TestLockOneHonorsContextCancellation(t *testing.T) {
	table := NewTable()

	s1 := table.Session()
	require.NoError(t, s1.LockOne(context.Background(), "Account:1"))
	defer s1.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s2 := table.Session()
	err := s2.LockOne(ctx, "Account:1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	s2.Release()
}

func TestReleaseIsIdempotent(t *testing.T) {
	table := NewTable()

	s := table.Session()
	require.NoError(t, s.LockOne(context.Background(), "Account:1"))
	s.Release()
	s.Release()

	s2 := table.Session()
	require.NoError(t, s2.LockOne(context.Background(), "Account:1"))
	s2.Release()
}

func TestLockManyDeduplicates(t *testing.T) {
	table := NewTable()

	s := table.Session()
	require.NoError(t, s.LockMany(context.Background(), []string{"Account:1", "Account:2", "Account:1"}))
	s.Release()

	s2 := table.Session()
	require.NoError(t, s2.LockMany(context.Background(), []string{"Account:1", "Account:2"}))
	s2.Release()
}

// Sessions that request overlapping key sets in opposite input orders must
// never deadlock, because acquisition always happens in sorted order.
func TestLockManyOppositeOrdersDoNotDeadlock(t *testing.T) {
	table := NewTable()
	ctx := context.Background()

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(2)

	run := func(keys []string) {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			s := table.Session()
			if err := s.LockMany(ctx, keys); err != nil {
				t.Error(err)
				s.Release()
				return
			}
			s.Release()
		}
	}

	go run([]string{"Account:1", "Account:2"})
	go run([]string{"Account:2", "Account:1"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("deadlock between opposite-order lock requests")
	}
}

func TestLocksGuardACriticalSection(t *testing.T) {
	table := NewTable()
	ctx := context.Background()

	const workers = 16
	const perWorker = 50

	var counter int
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				s := table.Session()
				if err := s.LockOne(ctx, "counter"); err != nil {
					t.Error(err)
					return
				}
				counter++
				s.Release()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker, counter)
}
