package log

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func sampleEvent() Event {
	return Event{
		Timestamp:  time.Now().UTC(),
		AttemptID:  "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		Category:   CategoryDatagram,
		Direction:  DirectionIn,
		RemoteAddr: "192.168.1.40:9003",
		CoreID:     "f1e2d3c4",
		Datagram:   &DatagramEvent{Size: 120, Kind: "response"},
	}
}

func TestEventRoundTrip(t *testing.T) {
	want := sampleEvent()

	data, err := EncodeEvent(want)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	got, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if got.AttemptID != want.AttemptID || got.CoreID != want.CoreID {
		t.Errorf("identifiers did not survive round trip: %+v", got)
	}
	if got.Category != CategoryDatagram || got.Direction != DirectionIn {
		t.Errorf("classification did not survive round trip: %+v", got)
	}
	if got.Datagram == nil || got.Datagram.Size != 120 || got.Datagram.Kind != "response" {
		t.Errorf("datagram payload did not survive round trip: %+v", got.Datagram)
	}
}

func TestFileLoggerWritesDecodableStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.rtrace")

	fl, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	fl.Log(sampleEvent())
	fl.Log(Event{
		Timestamp: time.Now(),
		Category:  CategoryState,
		StateChange: &StateChangeEvent{
			OldState: "CONNECTING",
			NewState: "AUTHENTICATING",
		},
	})
	if err := fl.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Log after Close is a silent no-op.
	fl.Log(sampleEvent())

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open trace: %v", err)
	}
	defer f.Close()

	dec := NewDecoder(f)
	var events []Event
	for {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("decode trace: %v", err)
		}
		events = append(events, ev)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[1].StateChange == nil || events[1].StateChange.NewState != "AUTHENTICATING" {
		t.Errorf("unexpected second event: %+v", events[1])
	}
}

func TestMultiLoggerFansOut(t *testing.T) {
	var a, b countingLogger

	ml := NewMultiLogger(&a, &b)
	ml.Log(sampleEvent())
	ml.Log(sampleEvent())

	if a.n != 2 || b.n != 2 {
		t.Errorf("fan-out counts = %d, %d; want 2, 2", a.n, b.n)
	}
}

func TestSlogAdapterEmitsEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	adapter := NewSlogAdapter(logger)
	adapter.Log(sampleEvent())
	adapter.Log(Event{
		Timestamp: time.Now(),
		Category:  CategoryError,
		Error:     &ErrorEventData{Message: "read timeout", Context: "receive loop"},
	})

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("DATAGRAM")) {
		t.Errorf("missing datagram event in slog output: %s", out)
	}
	if !bytes.Contains([]byte(out), []byte("read timeout")) {
		t.Errorf("missing error event in slog output: %s", out)
	}
}

type countingLogger struct{ n int }

func (c *countingLogger) Log(Event) { c.n++ }
