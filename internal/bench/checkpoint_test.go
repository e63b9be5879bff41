package bench

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleRows() []Row {
	return []Row{
		{
			QuestionID:  1,
			Category:    "Repairs",
			Question:    "Who fixes the heat?",
			GroundTruth: "The landlord must provide heat.",
			Citation:    "RPL 235-b",
			Responses:   map[string]string{"llama3": "The landlord.", "mistral": "[ERROR] permanent: timeout"},
		},
		{
			QuestionID: 2,
			Category:   "General",
			Question:   "When is rent due?",
			Responses:  map[string]string{"llama3": "On the date in the lease.", "mistral": "The first."},
		},
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "results.json")
	want := sampleRows()

	if err := WriteCheckpoint(path, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadCheckpoint(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}

	// Sentinel responses survive the file intact.
	if !IsSentinel(got[0].Responses["mistral"]) {
		t.Fatal("sentinel lost through checkpoint")
	}
}

func TestCheckpointOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.json")
	if err := WriteCheckpoint(path, sampleRows()); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteCheckpoint(path, sampleRows()[:1]); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := LoadCheckpoint(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("stray files in checkpoint dir: %v", entries)
	}
}

func TestLoadCheckpointMissing(t *testing.T) {
	t.Parallel()

	rows, err := LoadCheckpoint(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if rows != nil {
		t.Fatalf("got %v, want nil", rows)
	}
}

func TestLoadCheckpointCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := LoadCheckpoint(path); err == nil {
		t.Fatal("corrupt checkpoint must surface an error")
	}
}

func TestWriteCheckpointEmptyPath(t *testing.T) {
	t.Parallel()

	if err := WriteCheckpoint("", nil); err == nil {
		t.Fatal("expected error")
	}
}
