package ratelimit

import "testing"

func TestBurstThenThrottle(t *testing.T) {
	l := NewSessionLimiter(Config{RequestsPerSecond: 1, BurstSize: 3})

	for i := 0; i < 3; i++ {
		if !l.Allow("s-1") {
			t.Fatalf("request %d within burst was throttled", i+1)
		}
	}
	if l.Allow("s-1") {
		t.Fatalf("request beyond burst was allowed")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	l := NewSessionLimiter(Config{RequestsPerSecond: 1, BurstSize: 1})

	if !l.Allow("s-1") {
		t.Fatalf("first request throttled")
	}
	if l.Allow("s-1") {
		t.Fatalf("s-1 should be exhausted")
	}
	if !l.Allow("s-2") {
		t.Fatalf("s-2 must have its own budget")
	}
}

func TestForgetResetsBudget(t *testing.T) {
	l := NewSessionLimiter(Config{RequestsPerSecond: 1, BurstSize: 1})

	l.Allow("s-1")
	if l.Allow("s-1") {
		t.Fatalf("budget should be spent")
	}
	l.Forget("s-1")
	if !l.Allow("s-1") {
		t.Fatalf("forgotten session must start fresh")
	}
}
