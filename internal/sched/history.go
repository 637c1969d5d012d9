package sched

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ReadHistory returns the last limit events of the CSV journal at path,
// oldest first. A limit of zero or less returns every event.
func ReadHistory(path string, limit int) ([]StatusEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	if len(records) > 0 && records[0][0] == historyHeader[0] {
		records = records[1:]
	}
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	events := make([]StatusEvent, 0, len(records))
	for i, rec := range records {
		ev, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("parse history line %d: %w", i+1, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseRecord(rec []string) (StatusEvent, error) {
	if len(rec) != len(historyHeader) {
		return StatusEvent{}, fmt.Errorf("expected %d fields, got %d", len(historyHeader), len(rec))
	}
	ts, err := time.Parse(time.RFC3339Nano, rec[0])
	if err != nil {
		return StatusEvent{}, err
	}
	kind, ok := parseStatusKind(rec[1])
	if !ok {
		return StatusEvent{}, fmt.Errorf("unknown event %q", rec[1])
	}
	priority, err := strconv.Atoi(rec[4])
	if err != nil {
		return StatusEvent{}, err
	}
	age, err := strconv.Atoi(rec[5])
	if err != nil {
		return StatusEvent{}, err
	}
	return StatusEvent{
		Time:     ts,
		Kind:     kind,
		TaskID:   TaskID(rec[2]),
		Name:     rec[3],
		Priority: priority,
		Age:      age,
	}, nil
}

func parseStatusKind(s string) (StatusKind, bool) {
	for k := StatusEnqueue; k <= StatusReconcile; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}
