package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/geotodo/internal/googlemaps"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a priority name. An empty name is medium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q, must be one of: low, medium, high", s)}
	}
}

// ParseDueDate accepts an RFC3339 timestamp or a plain YYYY-MM-DD date
// (midnight UTC).
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, &ValidationError{Field: "dueDate", Message: fmt.Sprintf("%q is neither RFC3339 nor YYYY-MM-DD", s)}
}

// Location is a resolved address with coordinates. Lat and Lng are zero when
// the place had no geometry.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Task is one entry of the list.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    *Location  `json:"location,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// Status returns "completed" or "pending".
func (t Task) Status() string {
	if t.Completed {
		return "completed"
	}
	return "pending"
}

// Draft is the user input for a new task.
type Draft struct {
	Title       string
	Description string
	Priority    Priority // empty means medium
	DueDate     *time.Time
}

// Locator resolves a free-text location query.
type Locator interface {
	Locate(ctx context.Context, query string) (*Location, error)
}

// Router computes directions between two addresses.
type Router interface {
	GetDirections(ctx context.Context, origin, destination, mode string) (*googlemaps.DirectionResult, error)
}

// normalizeTime converts to UTC with millisecond precision, the resolution
// the slot encoding keeps.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func normalizeTimePtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	n := normalizeTime(*t)
	return &n
}

func cloneTask(t Task) Task {
	if t.Location != nil {
		loc := *t.Location
		t.Location = &loc
	}
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

func cloneTasks(ts []Task) []Task {
	out := make([]Task, len(ts))
	for i, t := range ts {
		out[i] = cloneTask(t)
	}
	return out
}
