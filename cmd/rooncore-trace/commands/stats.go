package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/roon-community/rooncore-go/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents       int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Attempts          map[string]*AttemptStats
	Duplicates        int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// AttemptStats holds statistics for a single discovery pass or
// connection attempt.
type AttemptStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Responses int
	CoreIDs   map[string]bool
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Attempts:          make(map[string]*AttemptStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++
		if event.Category == log.CategoryDatagram {
			stats.EventsByDirection[event.Direction]++
		}

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		attempt, ok := stats.Attempts[event.AttemptID]
		if !ok {
			attempt = &AttemptStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
				CoreIDs:   make(map[string]bool),
			}
			stats.Attempts[event.AttemptID] = attempt
		}
		attempt.Events++
		if event.Timestamp.After(attempt.LastSeen) {
			attempt.LastSeen = event.Timestamp
		}
		if event.CoreID != "" {
			attempt.CoreIDs[event.CoreID] = true
		}

		if event.Datagram != nil {
			if event.Datagram.Kind == "response" {
				attempt.Responses++
			}
			if event.Datagram.Duplicate {
				stats.Duplicates++
			}
		}
		if event.Error != nil {
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Discovery Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryDatagram, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Datagrams by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Attempts: %d\n", len(stats.Attempts))
	if len(stats.Attempts) > 0 {
		type attemptInfo struct {
			id    string
			stats *AttemptStats
		}
		attempts := make([]attemptInfo, 0, len(stats.Attempts))
		for id, as := range stats.Attempts {
			attempts = append(attempts, attemptInfo{id, as})
		}
		sort.Slice(attempts, func(i, j int) bool {
			return attempts[i].stats.FirstSeen.Before(attempts[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, a := range attempts {
			duration := a.stats.LastSeen.Sub(a.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenAttemptID(a.id), a.stats.Events, duration)
			if a.stats.Responses > 0 {
				fmt.Fprintf(w, "           Responses: %d\n", a.stats.Responses)
			}
			if len(a.stats.CoreIDs) > 0 {
				cores := make([]string, 0, len(a.stats.CoreIDs))
				for id := range a.stats.CoreIDs {
					cores = append(cores, id)
				}
				sort.Strings(cores)
				for _, id := range cores {
					fmt.Fprintf(w, "           Core: %s\n", id)
				}
			}
		}
	}

	if stats.Duplicates > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Duplicate Responses: %d\n", stats.Duplicates)
	}
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
