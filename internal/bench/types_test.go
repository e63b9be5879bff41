package bench

import (
	"errors"
	"testing"
)

func TestResultSerialize(t *testing.T) {
	t.Parallel()

	{
		r := Result{Text: "The landlord must provide heat."}
		if got := r.Serialize(); got != "The landlord must provide heat." {
			t.Fatalf("got %q", got)
		}
		if IsSentinel(r.Serialize()) {
			t.Fatal("real answer misread as sentinel")
		}
	}
	{
		r := Result{Err: errors.New("permanent: connection refused")}
		got := r.Serialize()
		if got != "[ERROR] permanent: connection refused" {
			t.Fatalf("got %q", got)
		}
		if !IsSentinel(got) {
			t.Fatal("sentinel not detected")
		}
	}
	{
		// An answer that merely mentions errors is not a sentinel.
		if IsSentinel("An [ERROR] code on the boiler means call 311.") {
			t.Fatal("mid-text marker misread as sentinel")
		}
		if !IsSentinel("  [ERROR] timeout") {
			t.Fatal("leading whitespace must not hide a sentinel")
		}
	}
}

func TestSentinel(t *testing.T) {
	t.Parallel()

	if got := Sentinel(errors.New("boom")); got != "[ERROR] boom" {
		t.Fatalf("got %q", got)
	}
}

func TestRowComplete(t *testing.T) {
	t.Parallel()

	models := []string{"llama3", "gemini-2.0-flash"}

	row := &Row{Responses: map[string]string{
		"llama3":           "answer",
		"gemini-2.0-flash": Sentinel(errors.New("429")),
	}}
	if !row.Complete(models) {
		t.Fatal("row with every model present, sentinel included, must be complete")
	}

	partial := &Row{Responses: map[string]string{"llama3": "answer"}}
	if partial.Complete(models) {
		t.Fatal("missing model must mark the row incomplete")
	}

	var nilRow *Row
	if nilRow.Complete(models) {
		t.Fatal("nil row cannot be complete")
	}
}
