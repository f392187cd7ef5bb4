package link

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestBackoffLinearCapped(t *testing.T) {
	b := Backoff{Base: time.Second, Max: 5 * time.Second}
	want := []time.Duration{
		1000 * time.Millisecond,
		2000 * time.Millisecond,
		3000 * time.Millisecond,
		4000 * time.Millisecond,
		5000 * time.Millisecond,
	}
	for i, expected := range want {
		if got := b.Next(i + 1); got != expected {
			t.Fatalf("attempt %d: got %v want %v", i+1, got, expected)
		}
	}
	if got := b.Next(100); got != 5*time.Second {
		t.Fatalf("delay beyond cap: got %v want 5s", got)
	}
}

func TestBackoffMonotone(t *testing.T) {
	b := Backoff{Base: 250 * time.Millisecond, Max: 2 * time.Second}
	prev := time.Duration(0)
	for attempt := 1; attempt <= 20; attempt++ {
		d := b.Next(attempt)
		if d < prev {
			t.Fatalf("delay decreased at attempt %d: %v < %v", attempt, d, prev)
		}
		if d > b.Max {
			t.Fatalf("delay exceeds cap at attempt %d: %v", attempt, d)
		}
		prev = d
	}
}

func TestBackoffDefaultsOnZeroValue(t *testing.T) {
	var b Backoff
	if got := b.Next(0); got != time.Second {
		t.Fatalf("zero-value backoff first delay: got %v want 1s", got)
	}
}

func TestRetryTimerCancel(t *testing.T) {
	var fired atomic.Int32
	timer := &retryTimer{}

	timer.Schedule(10*time.Millisecond, func() { fired.Add(1) })
	if !timer.Pending() {
		t.Fatal("timer should be pending after Schedule")
	}
	timer.Cancel()
	if timer.Pending() {
		t.Fatal("timer should not be pending after Cancel")
	}

	time.Sleep(30 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("cancelled task fired %d times", fired.Load())
	}

	// Cancel is idempotent.
	timer.Cancel()
}

func TestRetryTimerScheduleReplacesPending(t *testing.T) {
	var first, second atomic.Int32
	timer := &retryTimer{}

	timer.Schedule(time.Hour, func() { first.Add(1) })
	timer.Schedule(5*time.Millisecond, func() { second.Add(1) })

	deadline := time.Now().Add(time.Second)
	for second.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if second.Load() != 1 {
		t.Fatal("replacement task never fired")
	}
	if first.Load() != 0 {
		t.Fatal("replaced task should never fire")
	}
}
