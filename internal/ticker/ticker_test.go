package ticker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew_RequiresFn(t *testing.T) {
	_, err := New(Config{Name: "x", Interval: time.Second})
	if err == nil {
		t.Fatal("expected error for missing cycle func")
	}
}

func TestNew_RequiresCadence(t *testing.T) {
	_, err := New(Config{Name: "x", Fn: func(context.Context) error { return nil }})
	if err == nil {
		t.Fatal("expected error for missing interval and cron")
	}
}

func TestNew_InvalidCron(t *testing.T) {
	_, err := New(Config{
		Name:     "x",
		CronExpr: "not a cron",
		Fn:       func(context.Context) error { return nil },
	})
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestValidateCronExpr(t *testing.T) {
	if err := ValidateCronExpr("* * * * *"); err != nil {
		t.Errorf("every-minute expression should be valid: %v", err)
	}
	if err := ValidateCronExpr("0 * * * *"); err != nil {
		t.Errorf("hourly expression should be valid: %v", err)
	}
	if err := ValidateCronExpr("61 * * * *"); err == nil {
		t.Error("expected error for out-of-range minute")
	}
}

func TestLoop_RunsImmediatelyOnStart(t *testing.T) {
	fired := make(chan struct{}, 1)
	loop, err := New(Config{
		Name:     "test",
		Interval: time.Hour, // дальше первого цикла дело не дойдёт
		Fn: func(context.Context) error {
			select {
			case fired <- struct{}{}:
			default:
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loop.Start(context.Background())
	defer loop.Stop()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("first cycle should fire immediately at startup")
	}
}

func TestLoop_FiresPeriodically(t *testing.T) {
	var count atomic.Int32
	loop, err := New(Config{
		Name:     "test",
		Interval: 10 * time.Millisecond,
		Fn: func(context.Context) error {
			count.Add(1)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loop.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	loop.Stop()

	// immediate run + несколько тиков
	if got := count.Load(); got < 3 {
		t.Errorf("expected at least 3 cycles, got %d", got)
	}
}

func TestLoop_StopPreventsFurtherCycles(t *testing.T) {
	var count atomic.Int32
	loop, err := New(Config{
		Name:     "test",
		Interval: 10 * time.Millisecond,
		Fn: func(context.Context) error {
			count.Add(1)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loop.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	loop.Stop()

	after := count.Load()
	time.Sleep(50 * time.Millisecond)

	if got := count.Load(); got != after {
		t.Errorf("cycles fired after Stop: %d -> %d", after, got)
	}
	if loop.IsRunning() {
		t.Error("loop should not be running after Stop")
	}
}

func TestLoop_StartIsIdempotent(t *testing.T) {
	var count atomic.Int32
	loop, err := New(Config{
		Name:     "test",
		Interval: time.Hour,
		Fn: func(context.Context) error {
			count.Add(1)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loop.Start(context.Background())
	loop.Start(context.Background()) // второй Start — no-op, второго таймера нет
	defer loop.Stop()

	time.Sleep(50 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("expected exactly 1 immediate cycle, got %d", got)
	}
}

func TestLoop_CycleErrorDoesNotStopLoop(t *testing.T) {
	var count atomic.Int32
	loop, err := New(Config{
		Name:     "test",
		Interval: 10 * time.Millisecond,
		Fn: func(context.Context) error {
			count.Add(1)
			return errors.New("boom")
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loop.Start(context.Background())
	time.Sleep(60 * time.Millisecond)
	loop.Stop()

	if got := count.Load(); got < 2 {
		t.Errorf("loop should keep firing after cycle errors, got %d cycles", got)
	}
}

func TestLoop_StopDoesNotCancelInFlightCycle(t *testing.T) {
	started := make(chan struct{})
	var cycleErr error
	loop, err := New(Config{
		Name:     "test",
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			close(started)
			time.Sleep(100 * time.Millisecond)
			cycleErr = ctx.Err()
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loop.Start(context.Background())
	<-started
	loop.Stop() // дожидается завершения текущего цикла

	// Stop отменяет будущие срабатывания, но текущий цикл доводит
	// работу до конца со своим живым контекстом.
	if cycleErr != nil {
		t.Fatalf("in-flight cycle should keep a live context, got %v", cycleErr)
	}
}

func TestLoop_ParentCancelInterruptsCycle(t *testing.T) {
	started := make(chan struct{})
	got := make(chan error, 1)
	loop, err := New(Config{
		Name:     "test",
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			close(started)
			select {
			case <-ctx.Done():
				got <- ctx.Err()
			case <-time.After(time.Second):
				got <- nil
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	loop.Start(ctx)
	<-started
	cancel()

	// process-wide shutdown, в отличие от Stop, обрывает и текущий цикл
	if err := <-got; err == nil {
		t.Fatal("cancelling the start context should cancel the cycle context")
	}
	loop.Stop()
}

func TestLoop_IntervalCadenceUnaffectedByCycleDuration(t *testing.T) {
	var count atomic.Int32
	loop, err := New(Config{
		Name:     "test",
		Interval: 20 * time.Millisecond,
		Fn: func(context.Context) error {
			count.Add(1)
			time.Sleep(15 * time.Millisecond)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loop.Start(context.Background())
	time.Sleep(400 * time.Millisecond)
	loop.Stop()

	// Пересчёт паузы после каждого цикла давал бы период ~35ms
	// (≈12 циклов за 400ms); фиксированный тикер держит период 20ms.
	if got := count.Load(); got < 15 {
		t.Errorf("cadence drifts with cycle duration: %d cycles in 400ms", got)
	}
}

func TestLoop_StopIsSafeTwice(t *testing.T) {
	loop, err := New(Config{
		Name:     "test",
		Interval: time.Hour,
		Fn:       func(context.Context) error { return nil },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loop.Start(context.Background())
	loop.Stop()
	loop.Stop() // не должно паниковать или блокироваться
}
