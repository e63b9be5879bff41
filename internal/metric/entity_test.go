package metric

import (
	"context"
	"testing"
)

func TestEntityScorerVacuousRecall(t *testing.T) {
	t.Parallel()

	e := EntityScorer{}

	// No extractable entities in the reference: nothing to miss.
	for _, ref := range []string{
		"",
		"The landlord has general repair obligations.",
		"Tenants may complain to the housing authority.",
	} {
		if got := e.Score(context.Background(), ref, "anything at all"); got != 1.0 {
			t.Fatalf("reference %q: got recall %v, want 1.0", ref, got)
		}
	}
}

func TestEntityScorerRecall(t *testing.T) {
	t.Parallel()

	e := EntityScorer{}
	ref := "Heat season runs Oct 1 through May 31. The deposit is capped at $2,500 and must be returned within 14 days."

	{
		cand := "Between Oct 1 and May 31 heat is required; your $2,500 deposit comes back within 14 days."
		if got := e.Score(context.Background(), ref, cand); got != 1.0 {
			t.Fatalf("full recall: got %v, want 1.0", got)
		}
	}
	{
		// Only the money amount carried over: 1 of 4 entities.
		cand := "The deposit is capped at $2,500."
		if got := e.Score(context.Background(), ref, cand); got != 0.25 {
			t.Fatalf("partial recall: got %v, want 0.25", got)
		}
	}
	{
		if got := e.Score(context.Background(), ref, ""); got != 0 {
			t.Fatalf("empty candidate: got %v, want 0", got)
		}
	}
}

func TestExtractEntities(t *testing.T) {
	t.Parallel()

	got := ExtractEntities("Pay $1,250.00 by Oct 1st; you owe 1/60th of the cost and have 30 days, or 24 hours for heat.")

	want := []string{"$1,250.00", "oct 1st", "1/60th", "30 days", "24 hours"}
	for _, e := range want {
		if _, ok := got[e]; !ok {
			t.Fatalf("missing entity %q in %v", e, got)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entities %v, want %d", len(got), got, len(want))
	}
}

func TestEntityScorerCaseInsensitive(t *testing.T) {
	t.Parallel()

	e := EntityScorer{}
	if got := e.Score(context.Background(), "Respond within 10 DAYS.", "you have 10 days to respond"); got != 1.0 {
		t.Fatalf("got %v, want 1.0", got)
	}
}
