package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Result statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of one item of a batch
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	// Note carries informational messages, such as which tab was used
	Note  string `json:"note,omitempty"`
	Error string `json:"error,omitempty"`
}

// OK reports whether the item succeeded
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// BatchResult aggregates the results of a batch
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// Summarize counts successes and failures
func Summarize(results []Result) BatchResult {
	br := BatchResult{Total: len(results), Results: results}
	for _, r := range results {
		if r.OK() {
			br.Successful++
		} else {
			br.Failed++
		}
	}
	return br
}

// ParseStringOrArray reads a tool argument given as one string, an array of
// strings, or an array encoded as a JSON string. No element may be empty.
func ParseStringOrArray(param any, paramName string) ([]string, error) {
	var items []any
	switch v := param.(type) {
	case nil:
		return nil, fmt.Errorf("%s is required", paramName)
	case string:
		// Some clients send arrays as JSON-encoded strings.
		if !strings.HasPrefix(v, "[") || json.Unmarshal([]byte(v), &items) != nil {
			items = []any{v}
			if v == "" {
				items = nil
			}
		}
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	case []any:
		items = v
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", paramName)
	}
	values := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		switch {
		case !ok:
			return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
		case s == "":
			return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
		}
		values[i] = s
	}
	return values, nil
}

// FormatResults renders results and their summary as indented JSON
func FormatResults(results []Result) string {
	data, _ := json.MarshalIndent(Summarize(results), "", "  ")
	return string(data)
}

// ProcessBatch calls fn for every id in order. A failing item is recorded and
// the batch carries on; once ctx is done the remaining items fail with its error.
func ProcessBatch(ctx context.Context, ids []string, fn func(ctx context.Context, id string) (Result, error)) []Result {
	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			results = append(results, NewErrorResult(id, err))
			continue
		}
		res, err := fn(ctx, id)
		if err != nil {
			results = append(results, NewErrorResult(id, err))
			continue
		}
		res.ID = id
		res.Status = StatusSuccess
		results = append(results, res)
	}
	return results
}

// NewSuccessResult creates a success result
func NewSuccessResult(id, message string) Result {
	return Result{ID: id, Status: StatusSuccess, Result: message}
}

// NewErrorResult creates an error result
func NewErrorResult(id string, err error) Result {
	return Result{ID: id, Status: StatusError, Error: err.Error()}
}
