package commands

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestExportJSONL(t *testing.T) {
	path := createTestTrace(t, sampleTraceEvents())
	out := t.TempDir() + "/out.jsonl"

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}

	// Each line is a standalone JSON object.
	for i, line := range lines {
		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}

func TestExportCSV(t *testing.T) {
	path := createTestTrace(t, sampleTraceEvents())
	out := t.TempDir() + "/out.csv"

	if err := RunExport(path, "csv", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}

	if len(rows) != 6 {
		t.Fatalf("got %d rows, want header + 5", len(rows))
	}
	if rows[0][0] != "timestamp" || rows[0][3] != "category" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][6] != "probe" || rows[1][7] != "61" {
		t.Errorf("unexpected probe row: %v", rows[1])
	}
	if rows[4][6] != "CONNECTED" {
		t.Errorf("unexpected state row: %v", rows[4])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestTrace(t, sampleTraceEvents())

	if err := RunExport(path, "xml", ""); err == nil {
		t.Error("RunExport accepted an unknown format")
	}
}
