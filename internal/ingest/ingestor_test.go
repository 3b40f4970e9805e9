// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wayfinder/internal/learner"
)

// recordingTrainer captures Train calls.
type recordingTrainer struct {
	mu    sync.Mutex
	calls []trainCall
	err   error
}

type trainCall struct {
	userID    string
	behaviors []learner.UserBehavior
}

func (r *recordingTrainer) Train(_ context.Context, userID string, behaviors []learner.UserBehavior, _ []learner.CompletedTrip) (*learner.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.calls = append(r.calls, trainCall{userID: userID, behaviors: behaviors})
	return &learner.UserProfile{UserID: userID}, nil
}

func (r *recordingTrainer) snapshot() []trainCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]trainCall(nil), r.calls...)
}

func validEvent(userID string) Event {
	return Event{
		UserID:     userID,
		Action:     learner.ActionView,
		TargetType: learner.TargetDestination,
		TargetID:   "Kyoto",
	}
}

func startIngestor(t *testing.T, cfg Config, trainer Trainer) (*Ingestor, context.CancelFunc, chan error) {
	t.Helper()
	ing := New(cfg, trainer, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	stopped := make(chan struct{})
	go func() {
		done <- ing.Serve(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		// wait on stopped, not done: a test may have drained done already
		select {
		case <-stopped:
		case <-time.After(2 * time.Second):
			t.Error("ingestor did not stop")
		}
		ing.Close() //nolint:errcheck
	})
	return ing, cancel, done
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Event)
		wantErr bool
	}{
		{"valid", func(*Event) {}, false},
		{"missing user", func(e *Event) { e.UserID = "" }, true},
		{"bad action", func(e *Event) { e.Action = "teleport" }, true},
		{"bad target type", func(e *Event) { e.TargetType = "planet" }, true},
		{"missing target id", func(e *Event) { e.TargetID = "" }, true},
		{"bad rating", func(e *Event) { e.Feedback = &learner.BehaviorFeedback{Rating: 9} }, true},
		{"zero rating allowed", func(e *Event) { e.Feedback = &learner.BehaviorFeedback{Tags: []string{"x"}} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent("u1")
			tt.mutate(&e)
			err := e.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBatchSizeTriggersFlush(t *testing.T) {
	trainer := &recordingTrainer{}
	cfg := DefaultConfig()
	cfg.FlushInterval = time.Hour // isolate the size trigger
	ing, _, _ := startIngestor(t, cfg, trainer)

	ctx := context.Background()
	for j := 0; j < cfg.BatchSize; j++ {
		if err := ing.Publish(ctx, validEvent("u1")); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	waitFor(t, 2*time.Second, func() bool { return len(trainer.snapshot()) == 1 })
	call := trainer.snapshot()[0]
	if call.userID != "u1" || len(call.behaviors) != cfg.BatchSize {
		t.Errorf("flush = %q/%d events, want u1/%d", call.userID, len(call.behaviors), cfg.BatchSize)
	}
}

func TestIntervalTriggersFlush(t *testing.T) {
	trainer := &recordingTrainer{}
	cfg := DefaultConfig()
	cfg.FlushInterval = 30 * time.Millisecond
	ing, _, _ := startIngestor(t, cfg, trainer)

	if err := ing.Publish(context.Background(), validEvent("u1")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool { return len(trainer.snapshot()) == 1 })
	if got := trainer.snapshot()[0]; len(got.behaviors) != 1 {
		t.Errorf("interval flush carried %d events, want 1", len(got.behaviors))
	}
}

func TestShutdownFlushesRemainder(t *testing.T) {
	trainer := &recordingTrainer{}
	cfg := DefaultConfig()
	cfg.FlushInterval = time.Hour
	ing, cancel, done := startIngestor(t, cfg, trainer)

	if err := ing.Publish(context.Background(), validEvent("u1")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := ing.Publish(context.Background(), validEvent("u2")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	// let the consumer pick both up before shutting down
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	calls := trainer.snapshot()
	if len(calls) != 2 {
		t.Fatalf("shutdown flushed %d batches, want 2", len(calls))
	}
	users := map[string]bool{}
	for _, c := range calls {
		users[c.userID] = true
	}
	if !users["u1"] || !users["u2"] {
		t.Errorf("flushed users = %v, want u1 and u2", users)
	}
}

func TestPerUserBuffers(t *testing.T) {
	trainer := &recordingTrainer{}
	cfg := DefaultConfig()
	cfg.BatchSize = 2
	cfg.FlushInterval = time.Hour
	ing, _, _ := startIngestor(t, cfg, trainer)
	ctx := context.Background()

	// one event each: neither buffer reaches the batch size
	ing.Publish(ctx, validEvent("u1")) //nolint:errcheck
	ing.Publish(ctx, validEvent("u2")) //nolint:errcheck
	time.Sleep(50 * time.Millisecond)
	if n := len(trainer.snapshot()); n != 0 {
		t.Fatalf("premature flush: %d batches", n)
	}

	// second event for u1 flushes u1 only
	ing.Publish(ctx, validEvent("u1")) //nolint:errcheck
	waitFor(t, 2*time.Second, func() bool { return len(trainer.snapshot()) == 1 })
	if got := trainer.snapshot()[0].userID; got != "u1" {
		t.Errorf("flushed user = %q, want u1", got)
	}
}

func TestPublishRejectsInvalidEvent(t *testing.T) {
	ing := New(DefaultConfig(), &recordingTrainer{}, zerolog.Nop())
	defer ing.Close() //nolint:errcheck

	err := ing.Publish(context.Background(), Event{UserID: "u1"})
	if err == nil {
		t.Fatal("expected validation error")
	}
}
