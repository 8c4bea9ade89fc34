package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPoolCapsCheckouts(t *testing.T) {
	next := 0
	p := NewPool(2, func() int { next++; return next })
	if p.Size() != 2 || p.Available() != 2 {
		t.Fatalf("unexpected pool state size=%d available=%d", p.Size(), p.Available())
	}

	a, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded on exhausted pool, got %v", err)
	}

	p.Release(a)
	got, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	if got != a {
		t.Fatalf("expected released handle %d, got %d", a, got)
	}
}

func TestPoolReleaseBlocksUntilAvailable(t *testing.T) {
	p := NewPool(1, func() string { return "client" })
	item, _ := p.Acquire(context.Background())

	done := make(chan string)
	go func() {
		v, _ := p.Acquire(context.Background())
		done <- v
	}()

	select {
	case <-done:
		t.Fatal("acquire should block while the pool is empty")
	case <-time.After(20 * time.Millisecond):
	}
	p.Release(item)
	if v := <-done; v != "client" {
		t.Fatalf("unexpected handle %q", v)
	}
}

func TestPoolDropsExtraRelease(t *testing.T) {
	p := NewPool(1, func() int { return 1 })
	p.Release(2)
	if p.Available() != 1 {
		t.Fatalf("pool must not grow past its size, available=%d", p.Available())
	}
}
