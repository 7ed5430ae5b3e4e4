// Package commands implements the rooncore-trace CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/roon-community/rooncore-go/pkg/log"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [attempt:id] DIRECTION Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	attempt := shortenAttemptID(event.AttemptID)

	var typeLabel string
	switch {
	case event.Datagram != nil:
		typeLabel = "Datagram"
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [attempt:%s] %-3s %s\n", ts, attempt, event.Direction.String(), typeLabel)

	switch {
	case event.Datagram != nil:
		formatDatagramDetails(w, event)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenAttemptID returns the first 8 characters of the attempt ID.
func shortenAttemptID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatDatagramDetails writes datagram-specific details.
func formatDatagramDetails(w io.Writer, event log.Event) {
	d := event.Datagram
	fmt.Fprintf(w, "  Size: %d bytes\n", d.Size)
	if d.Kind != "" {
		fmt.Fprintf(w, "  Kind: %s", d.Kind)
		if d.Duplicate {
			fmt.Fprintf(w, " (duplicate)")
		}
		fmt.Fprintln(w)
	}
	if event.RemoteAddr != "" {
		fmt.Fprintf(w, "  Remote: %s\n", event.RemoteAddr)
	}
	if event.CoreID != "" {
		fmt.Fprintf(w, "  Core: %s\n", event.CoreID)
	}
}

// formatStateChangeDetails writes state change details.
func formatStateChangeDetails(w io.Writer, event log.Event) {
	sc := event.StateChange
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if event.CoreID != "" {
		fmt.Fprintf(w, "  Core: %s\n", event.CoreID)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseDirectionFlag parses a direction string from a command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from a command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "datagram":
		return log.CategoryDatagram, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be datagram, state, or error)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
