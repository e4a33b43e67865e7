package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome for one ID.
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Summary aggregates the results of a batch.
type Summary struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseIDs accepts a single ID, an array of IDs, or a JSON-encoded array
// passed as a string. Blank and repeated IDs are rejected.
func ParseIDs(param any, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var raw []any
	switch v := param.(type) {
	case string:
		s := strings.TrimSpace(v)
		if strings.HasPrefix(s, "[") {
			var list []string
			if err := json.Unmarshal([]byte(s), &list); err == nil {
				for _, id := range list {
					raw = append(raw, id)
				}
				break
			}
		}
		raw = []any{v}
	case []string:
		for _, id := range v {
			raw = append(raw, id)
		}
	case []any:
		raw = v
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", paramName)
	}

	ids := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, item := range raw {
		id, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
		}
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
		}
		if seen[id] {
			return nil, fmt.Errorf("%s[%d] repeats %q", paramName, i, id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// Run calls fn for each ID in order. Once ctx is done the remaining IDs are
// reported as failed without calling fn.
func Run(ctx context.Context, ids []string, fn func(ctx context.Context, id string) (string, error)) Summary {
	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			results = append(results, NewErrorResult(id, err))
			continue
		}
		msg, err := fn(ctx, id)
		if err != nil {
			results = append(results, NewErrorResult(id, err))
			continue
		}
		results = append(results, NewSuccessResult(id, msg))
	}
	return Summarize(results)
}

// Summarize counts successes and failures.
func Summarize(results []Result) Summary {
	s := Summary{
		Total:   len(results),
		Results: results,
	}
	for _, r := range results {
		if r.Status == StatusSuccess {
			s.Successful++
		} else {
			s.Failed++
		}
	}
	return s
}

func NewSuccessResult(id, message string) Result {
	return Result{ID: id, Status: StatusSuccess, Result: message}
}

func NewErrorResult(id string, err error) Result {
	return Result{ID: id, Status: StatusError, Error: err.Error()}
}
