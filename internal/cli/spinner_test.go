package cli

import (
	"context"
	"io"
	"testing"
	"time"
)

func newTestSpinner(ctx context.Context, message string) *Spinner {
	s := newSpinnerWithContext(ctx, message)
	s.out = io.Discard
	return s
}

func TestSpinner_StartStop(t *testing.T) {
	s := newTestSpinner(context.Background(), "checking packages")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	if s.Cancelled() {
		t.Error("plain Stop should not report cancellation")
	}
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	s := newTestSpinner(context.Background(), "checking packages")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinner_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newTestSpinner(ctx, "checking packages")
	s.Start()

	cancel()
	<-s.done

	if !s.Cancelled() {
		t.Error("expected Cancelled after context cancellation")
	}
}

func TestSpinner_ContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := newTestSpinner(ctx, "checking packages")
	s.Start()
	<-s.done

	if !s.Cancelled() {
		t.Error("expected Cancelled after context timeout")
	}
}

func TestSpinner_StopMessages(t *testing.T) {
	s := newTestSpinner(context.Background(), "checking packages")
	s.Start()
	s.StopWithSuccess("checked %d packages", 2)

	s = newTestSpinner(context.Background(), "checking packages")
	s.Start()
	s.StopWithError("registry unreachable")
}
