package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(5, time.Second, 5)

	for i := 0; i < 5; i++ {
		if !tb.Allow() {
			t.Errorf("Expected token %d to be available", i+1)
		}
	}

	if tb.Allow() {
		t.Error("Expected no more tokens to be available")
	}

	// one token refills every 200ms
	time.Sleep(250 * time.Millisecond)
	if !tb.Allow() {
		t.Error("Expected a token after refill interval")
	}
}

func TestTokenBucketWait(t *testing.T) {
	tb := NewTokenBucket(10, time.Second, 1)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := tb.Wait(context.Background()); err != nil {
			t.Fatalf("Wait returned error: %v", err)
		}
	}
	elapsed := time.Since(start)

	// first is immediate, the next two wait ~100ms each
	if elapsed < 150*time.Millisecond {
		t.Errorf("Expected Wait to pace requests, took %v", elapsed)
	}
}

func TestTokenBucketWaitCancelled(t *testing.T) {
	tb := NewTokenBucket(1, time.Hour, 1)
	tb.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := tb.Wait(ctx); err == nil {
		t.Error("Expected Wait to fail when the context expires first")
	}
}

func TestNewDisabled(t *testing.T) {
	limiter := New(0, 1)
	if _, ok := limiter.(Unlimited); !ok {
		t.Fatalf("Expected Unlimited, got %T", limiter)
	}

	for i := 0; i < 1000; i++ {
		if !limiter.Allow() {
			t.Fatal("Unlimited limiter refused a request")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limiter.Wait(ctx); err == nil {
		t.Error("Expected Wait on a cancelled context to fail")
	}
}

func TestNewEnabled(t *testing.T) {
	limiter := New(120, 0)
	if _, ok := limiter.(*TokenBucket); !ok {
		t.Fatalf("Expected *TokenBucket, got %T", limiter)
	}
	if !limiter.Allow() {
		t.Error("Expected first request to be allowed")
	}
	if limiter.Allow() {
		t.Error("Expected burst of one")
	}
}
