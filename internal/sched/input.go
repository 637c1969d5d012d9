package sched

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout accepted for deadlines typed by the user.
const DateLayout = "2006-01-02"

// ErrPriorityRange is returned for priorities outside [MinPriority, MaxPriority].
var ErrPriorityRange = errors.New("priority out of range")

// ParsePriority reads a user-typed priority. Text that is not a number
// falls back to MinPriority; a number outside the legal range is rejected.
func ParsePriority(value string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return MinPriority, nil
	}
	if p < MinPriority || p > MaxPriority {
		return 0, fmt.Errorf("%w: %d", ErrPriorityRange, p)
	}
	return p, nil
}

// ParseDeadline reads a YYYY-MM-DD date as midnight in loc.
// An empty value means no deadline.
func ParseDeadline(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return nil, fmt.Errorf("parse deadline %q: %w", value, err)
	}
	return &d, nil
}
