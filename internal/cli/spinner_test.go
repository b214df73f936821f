package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestSpinnerStops(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("working")
	s.out = &buf
	s.Start()
	time.Sleep(3 * spinnerTick)
	s.Stop()

	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
	if !strings.Contains(buf.String(), "working") {
		t.Errorf("spinner output %q does not carry its message", buf.String())
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "working")
	s.out = io.Discard
	s.Start()
	cancel()
	time.Sleep(2 * spinnerTick)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent context cancel")
	}
	s.Stop()
}

func TestSpinnerParentTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), spinnerTick/2)
	defer cancel()
	s := newSpinnerWithContext(ctx, "working")
	s.out = io.Discard
	s.Start()
	time.Sleep(2 * spinnerTick)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent context timeout")
	}
	s.Stop()
}

func TestSpinnerStopTwice(t *testing.T) {
	s := newSpinner("working")
	s.out = io.Discard
	s.Start()
	s.Stop()
	s.Stop()
}
