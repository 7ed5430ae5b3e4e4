package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/roon-community/rooncore-go/pkg/log"
)

// createTestTrace writes events to a trace file in a temp dir and
// returns its path.
func createTestTrace(t *testing.T, events []log.Event) string {
	t.Helper()
	path := t.TempDir() + "/test.rtrace"

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, ev := range events {
		logger.Log(ev)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}

func sampleTraceEvents() []log.Event {
	ts := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	return []log.Event{
		{Timestamp: ts, AttemptID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
			Category: log.CategoryDatagram, Direction: log.DirectionOut,
			RemoteAddr: "239.255.90.90:9003",
			Datagram:   &log.DatagramEvent{Size: 61, Kind: "probe"}},
		{Timestamp: ts.Add(100 * time.Millisecond), AttemptID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
			Category: log.CategoryDatagram, Direction: log.DirectionIn,
			RemoteAddr: "192.168.1.40:9003", CoreID: "core-a",
			Datagram: &log.DatagramEvent{Size: 120, Kind: "response"}},
		{Timestamp: ts.Add(200 * time.Millisecond), AttemptID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
			Category: log.CategoryDatagram, Direction: log.DirectionIn,
			RemoteAddr: "192.168.1.40:9003", CoreID: "core-a",
			Datagram: &log.DatagramEvent{Size: 120, Kind: "response", Duplicate: true}},
		{Timestamp: ts.Add(time.Second), AttemptID: "cc1b7a2e-0000-0000-0000-000000000000",
			Category: log.CategoryState, CoreID: "core-a",
			StateChange: &log.StateChangeEvent{OldState: "AUTHENTICATING", NewState: "CONNECTED"}},
		{Timestamp: ts.Add(2 * time.Second), AttemptID: "cc1b7a2e-0000-0000-0000-000000000000",
			Category: log.CategoryError,
			Error:    &log.ErrorEventData{Message: "read timeout", Context: "receive loop"}},
	}
}

func TestViewFormatsEvents(t *testing.T) {
	path := createTestTrace(t, sampleTraceEvents())

	var buf bytes.Buffer
	if err := RunView(path, log.Filter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"[attempt:6ba7b810]",
		"OUT Datagram",
		"Size: 61 bytes",
		"Kind: probe",
		"Kind: response (duplicate)",
		"AUTHENTICATING -> CONNECTED",
		"Core: core-a",
		"Message: read timeout",
		"Context: receive loop",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view output missing %q:\n%s", want, out)
		}
	}
}

func TestViewAppliesFilter(t *testing.T) {
	path := createTestTrace(t, sampleTraceEvents())
	catError := log.CategoryError

	var buf bytes.Buffer
	if err := RunView(path, log.Filter{Category: &catError}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "read timeout") {
		t.Errorf("filtered view missing error event:\n%s", out)
	}
	if strings.Contains(out, "Kind: probe") {
		t.Errorf("filtered view leaked datagram events:\n%s", out)
	}
}

func TestParseDirectionFlag(t *testing.T) {
	if d, err := ParseDirectionFlag("IN"); err != nil || d != log.DirectionIn {
		t.Errorf("ParseDirectionFlag(IN) = %v, %v", d, err)
	}
	if d, err := ParseDirectionFlag("out"); err != nil || d != log.DirectionOut {
		t.Errorf("ParseDirectionFlag(out) = %v, %v", d, err)
	}
	if _, err := ParseDirectionFlag("sideways"); err == nil {
		t.Error("ParseDirectionFlag accepted an invalid direction")
	}
}

func TestParseCategoryFlag(t *testing.T) {
	if c, err := ParseCategoryFlag("datagram"); err != nil || c != log.CategoryDatagram {
		t.Errorf("ParseCategoryFlag(datagram) = %v, %v", c, err)
	}
	if c, err := ParseCategoryFlag("State"); err != nil || c != log.CategoryState {
		t.Errorf("ParseCategoryFlag(State) = %v, %v", c, err)
	}
	if _, err := ParseCategoryFlag("message"); err == nil {
		t.Error("ParseCategoryFlag accepted an invalid category")
	}
}
