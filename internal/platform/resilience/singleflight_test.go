package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_DeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var calls atomic.Int32
	var shared atomic.Int32

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, isShared := g.Do("key", func() (any, error) {
				calls.Add(1)
				time.Sleep(20 * time.Millisecond)
				return 42, nil
			})
			if err != nil {
				t.Errorf("do: %v", err)
				return
			}
			if v != 42 {
				t.Errorf("unexpected value: %v", v)
			}
			if isShared {
				shared.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("fn called %d times, want 1", got)
	}
	if got := shared.Load(); got != workers-1 {
		t.Fatalf("shared callers: got=%d want=%d", got, workers-1)
	}
}

func TestSingleFlight_SequentialCallsRunIndependently(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var calls atomic.Int32

	for i := 0; i < 3; i++ {
		_, _, isShared := g.Do("key", func() (any, error) {
			calls.Add(1)
			return nil, nil
		})
		if isShared {
			t.Fatalf("sequential call %d reported shared", i)
		}
	}

	if got := calls.Load(); got != 3 {
		t.Fatalf("fn called %d times, want 3", got)
	}
}

func TestSingleFlight_DifferentKeysDoNotBlock(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var calls atomic.Int32
	var wg sync.WaitGroup

	for _, key := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = g.Do(key, func() (any, error) {
				calls.Add(1)
				return nil, nil
			})
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 3 {
		t.Fatalf("fn called %d times, want 3", got)
	}
}
