package ring

import (
	"sync"
	"testing"
)

func TestNewRoundsCapacity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want int
	}{
		{0, 2},
		{1, 2},
		{2, 2},
		{3, 4},
		{64, 64},
		{65, 128},
	}

	for _, tc := range tests {
		if got := New[int](tc.in).Cap(); got != tc.want {
			t.Errorf("New(%d).Cap() = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestPushPopOrder(t *testing.T) {
	t.Parallel()

	r := New[int](4)
	for i := range 4 {
		if !r.Push(i) {
			t.Fatalf("Push(%d) reported full", i)
		}
	}

	if r.Push(99) {
		t.Fatal("Push on full ring succeeded")
	}

	if r.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", r.Len())
	}

	for i := range 4 {
		v, ok := r.Pop()
		if !ok || v != i {
			t.Fatalf("Pop() = %d,%v want %d,true", v, ok, i)
		}
	}

	if _, ok := r.Pop(); ok {
		t.Fatal("Pop on empty ring succeeded")
	}
}

func TestWrapAround(t *testing.T) {
	t.Parallel()

	r := New[int](2)
	for i := range 1000 {
		if !r.Push(i) {
			t.Fatalf("Push(%d) reported full", i)
		}

		v, ok := r.Pop()
		if !ok || v != i {
			t.Fatalf("iteration %d: Pop() = %d,%v", i, v, ok)
		}
	}
}

func TestPopClearsSlot(t *testing.T) {
	t.Parallel()

	r := New[*int](2)
	x := 7
	r.Push(&x)
	r.Pop()

	for i, p := range r.buf {
		if p != nil {
			t.Fatalf("slot %d still references popped value", i)
		}
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	t.Parallel()

	const n = 100000

	r := New[int](64)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for i := 0; i < n; {
			if r.Push(i) {
				i++
			}
		}
	}()

	next := 0
	for next < n {
		v, ok := r.Pop()
		if !ok {
			continue
		}

		if v != next {
			t.Fatalf("out of order: got %d, want %d", v, next)
		}

		next++
	}

	wg.Wait()
}
