package tasks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CodecVersion is the envelope version written by Encode.
const CodecVersion = 1

// TimestampLayout is ISO-8601 with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type envelope struct {
	Version int        `json:"version"`
	Tasks   []wireTask `json:"tasks"`
}

type wireTask struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    *Location `json:"location,omitempty"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority,omitempty"`
	CreatedAt   string    `json:"createdAt"`
	DueDate     string    `json:"dueDate,omitempty"`
}

// Encode serializes tasks into the versioned slot format.
func Encode(tasks []Task) ([]byte, error) {
	env := envelope{
		Version: CodecVersion,
		Tasks:   make([]wireTask, 0, len(tasks)),
	}
	for _, t := range tasks {
		w := wireTask{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Location:    t.Location,
			Completed:   t.Completed,
			Priority:    t.Priority,
			CreatedAt:   t.CreatedAt.UTC().Format(TimestampLayout),
		}
		if t.DueDate != nil {
			w.DueDate = t.DueDate.UTC().Format(TimestampLayout)
		}
		env.Tasks = append(env.Tasks, w)
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}

// Decode parses the versioned slot format or the legacy bare array of tasks.
// Timestamps come back in UTC with millisecond precision.
func Decode(data []byte) ([]Task, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty task data")
	}

	var wire []wireTask
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("failed to decode legacy task list: %w", err)
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("failed to decode task envelope: %w", err)
		}
		if env.Version != CodecVersion {
			return nil, fmt.Errorf("unsupported task data version %d", env.Version)
		}
		wire = env.Tasks
	default:
		return nil, errors.New("task data is neither an envelope nor a list")
	}

	tasks := make([]Task, 0, len(wire))
	seen := make(map[string]bool, len(wire))
	for i, w := range wire {
		t, err := fromWire(w)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("task %d: duplicate id %q", i, t.ID)
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func fromWire(w wireTask) (Task, error) {
	if w.ID == "" {
		return Task{}, errors.New("missing id")
	}
	if strings.TrimSpace(w.Title) == "" {
		return Task{}, errors.New("missing title")
	}

	priority, err := ParsePriority(string(w.Priority))
	if err != nil {
		return Task{}, err
	}

	createdAt, err := parseTimestamp(w.CreatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("createdAt: %w", err)
	}

	t := Task{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Location:    w.Location,
		Completed:   w.Completed,
		Priority:    priority,
		CreatedAt:   createdAt,
	}
	if w.DueDate != "" {
		due, err := parseTimestamp(w.DueDate)
		if err != nil {
			return Task{}, fmt.Errorf("dueDate: %w", err)
		}
		t.DueDate = &due
	}
	return t, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return normalizeTime(t), nil
}
