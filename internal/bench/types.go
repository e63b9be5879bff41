// Package bench runs the benchmark: every configured model answers every
// question, under per-provider-group rate policies, with periodic
// checkpointing so a crash loses at most the in-flight question.
package bench

import (
	"fmt"
	"strings"
)

// sentinelPrefix marks a failed call serialized as response text. Failures
// are data, not control flow: the batch records them and moves on.
const sentinelPrefix = "[ERROR]"

// Result is the tagged outcome of one adapter call. Err is nil for a real
// answer; the sentinel string form exists only at the serialization boundary.
type Result struct {
	Text string
	Err  error
}

// Serialize renders the result as response text, converting a failure into
// its sentinel form.
func (r Result) Serialize() string {
	if r.Err == nil {
		return r.Text
	}
	return fmt.Sprintf("%s %v", sentinelPrefix, r.Err)
}

// IsSentinel reports whether a serialized response records a failed call
// rather than model output. Scorers use this to exclude failures from
// content metrics instead of grading them as answers.
func IsSentinel(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), sentinelPrefix)
}

// Sentinel builds the serialized form for an error directly.
func Sentinel(err error) string {
	return Result{Err: err}.Serialize()
}

// Row is one completed question: the reference material plus every model's
// serialized response.
type Row struct {
	QuestionID  int               `json:"question_id"`
	Category    string            `json:"category"`
	Question    string            `json:"question"`
	GroundTruth string            `json:"ground_truth"`
	Citation    string            `json:"citation"`
	Responses   map[string]string `json:"responses"`
}

// Complete reports whether the row has an entry for every listed model.
func (r *Row) Complete(models []string) bool {
	if r == nil {
		return false
	}
	for _, m := range models {
		if _, ok := r.Responses[m]; !ok {
			return false
		}
	}
	return true
}
