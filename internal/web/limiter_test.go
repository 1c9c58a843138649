package web

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestImportLimiterAcquireRelease(t *testing.T) {
	l := NewImportLimiter(2, time.Second)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if l.Active() != 2 {
		t.Errorf("active = %d, want 2", l.Active())
	}

	l.Release()
	l.Release()
	if l.Active() != 0 {
		t.Errorf("active = %d, want 0 after release", l.Active())
	}
}

func TestImportLimiterRejectsWhenFull(t *testing.T) {
	l := NewImportLimiter(1, 20*time.Millisecond)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer l.Release()

	err := l.Acquire(context.Background())
	if !errors.Is(err, ErrImportsBusy) {
		t.Fatalf("err = %v, want ErrImportsBusy", err)
	}
}

func TestImportLimiterWaitsForSlot(t *testing.T) {
	l := NewImportLimiter(1, time.Second)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- l.Acquire(context.Background())
	}()

	time.Sleep(20 * time.Millisecond)
	l.Release()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("waiting acquire: %v", err)
		}
		l.Release()
	case <-time.After(time.Second):
		t.Fatal("waiting acquire never got the freed slot")
	}
}

func TestImportLimiterHonorsContext(t *testing.T) {
	l := NewImportLimiter(1, time.Minute)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer l.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
