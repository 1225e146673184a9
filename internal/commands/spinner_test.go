package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSpinnerLifecycle_StopWithSuccess(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Connecting")
	s.start()
	// Let it spin briefly
	time.Sleep(200 * time.Millisecond)
	s.stopWithSuccess("done")

	out := buf.String()
	if !strings.Contains(out, "Connecting") {
		t.Errorf("expected spinner message in output, got %q", out)
	}
	if !strings.Contains(out, "done") {
		t.Errorf("expected success message in output, got %q", out)
	}
}

func TestSpinnerLifecycle_StopWithError(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Connecting")
	s.start()
	time.Sleep(30 * time.Millisecond)
	// Should stop cleanly on error (no panic)
	s.stopWithError()
	// A second stop must not close the channel twice
	s.stopOnce()
}

func TestProgress_QuietSkipsSpinner(t *testing.T) {
	var buf bytes.Buffer
	p := &progress{out: &buf, quiet: true}
	p.start("Connecting")
	p.success("Connected")
	p.fail()

	if buf.Len() != 0 {
		t.Errorf("quiet progress wrote %q", buf.String())
	}
}
