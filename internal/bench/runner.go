package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stellarlinkco/legal-bench/internal/dataset"
	"github.com/stellarlinkco/legal-bench/internal/llm"
)

// Runner drives the question set across every configured model. Provider
// groups are dispatched in parallel since they share no quota; models within
// a group run sequentially under the group's pacing.
type Runner struct {
	Registry *llm.Registry
	System   string

	CheckpointPath  string
	CheckpointEvery int

	Out io.Writer // progress output, nil for silent
}

// Run executes the benchmark and returns one row per question. Per-model
// failures become sentinel responses; the only fatal conditions are an
// unusable registry and context cancellation. Rows completed in a prior
// checkpoint are reused, so an interrupted run resumes where it stopped.
func (r *Runner) Run(ctx context.Context, qs []dataset.Question) ([]Row, error) {
	if r == nil {
		return nil, errors.New("bench: nil runner")
	}
	if ctx == nil {
		return nil, errors.New("bench: nil context")
	}
	if r.Registry == nil || r.Registry.Len() == 0 {
		return nil, errors.New("bench: no providers registered")
	}
	if len(qs) == 0 {
		return nil, errors.New("bench: empty question set")
	}

	every := r.CheckpointEvery
	if every <= 0 {
		every = 2
	}

	models := r.Registry.Models()
	done, err := r.loadPrior(models)
	if err != nil {
		return nil, err
	}

	r.printEstimate(len(qs), len(done))

	rows := make([]Row, 0, len(qs))
	var runErr error
	next := len(qs)

	for i, q := range qs {
		if err := ctx.Err(); err != nil {
			runErr = err
			next = i
			break
		}

		if prior, ok := done[q.ID]; ok {
			rows = append(rows, prior)
			continue
		}

		responses := r.dispatch(ctx, q)
		if err := ctx.Err(); err != nil {
			// The in-flight question is dropped rather than recorded
			// with cancellation sentinels.
			runErr = err
			next = i + 1
			break
		}

		rows = append(rows, Row{
			QuestionID:  q.ID,
			Category:    q.Category,
			Question:    q.Text,
			GroundTruth: q.GroundTruth,
			Citation:    q.Citation,
			Responses:   responses,
		})

		r.progressf("[%d/%d] q%d recorded (%d models)\n", i+1, len(qs), q.ID, len(responses))

		if len(rows)%every == 0 && r.CheckpointPath != "" {
			if err := r.checkpoint(rows, qs[i+1:], done); err != nil {
				return rows, err
			}
		}
	}

	if r.CheckpointPath != "" {
		if err := r.checkpoint(rows, qs[next:], done); err != nil {
			return rows, err
		}
	}
	return rows, runErr
}

// checkpoint writes the accumulated rows plus every resumed row the loop has
// not reached yet. An abort between questions must never shrink the
// checkpoint below the completed work it was resumed from.
func (r *Runner) checkpoint(rows []Row, pending []dataset.Question, done map[int]Row) error {
	out := make([]Row, len(rows), len(rows)+len(done))
	copy(out, rows)
	for _, q := range pending {
		if prior, ok := done[q.ID]; ok {
			out = append(out, prior)
		}
	}
	return WriteCheckpoint(r.CheckpointPath, out)
}

// RunOne answers a single ad-hoc question with every configured model,
// without touching any checkpoint. This is the surface the interactive
// dashboard calls.
func (r *Runner) RunOne(ctx context.Context, q dataset.Question) (Row, error) {
	if r == nil {
		return Row{}, errors.New("bench: nil runner")
	}
	if ctx == nil {
		return Row{}, errors.New("bench: nil context")
	}
	if r.Registry == nil || r.Registry.Len() == 0 {
		return Row{}, errors.New("bench: no providers registered")
	}

	return Row{
		QuestionID:  q.ID,
		Category:    q.Category,
		Question:    q.Text,
		GroundTruth: q.GroundTruth,
		Citation:    q.Citation,
		Responses:   r.dispatch(ctx, q),
	}, ctx.Err()
}

// dispatch fans the question out to every provider group in parallel and
// collects one serialized response per model. Groups write disjoint keys;
// the mutex only guards the map structure itself.
func (r *Runner) dispatch(ctx context.Context, q dataset.Question) map[string]string {
	responses := make(map[string]string, r.Registry.Len())
	var mu sync.Mutex

	var eg errgroup.Group
	for _, group := range r.Registry.Groups() {
		providers := r.Registry.GroupProviders(group)
		pacing := r.Registry.GroupPacing(group)

		eg.Go(func() error {
			for _, p := range providers {
				text, err := llm.SendPaced(ctx, p, pacing, q.Text, r.System)
				if err != nil {
					r.progressf("  q%d %s: %v\n", q.ID, p.Name(), err)
				}

				mu.Lock()
				responses[p.Name()] = Result{Text: text, Err: err}.Serialize()
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait() // group workers never return errors; failures are data

	return responses
}

func (r *Runner) loadPrior(models []string) (map[int]Row, error) {
	done := make(map[int]Row)
	if r.CheckpointPath == "" {
		return done, nil
	}

	prior, err := LoadCheckpoint(r.CheckpointPath)
	if err != nil {
		return nil, err
	}
	for _, row := range prior {
		if row.Complete(models) {
			done[row.QuestionID] = row
		} else {
			r.progressf("resume: q%d incomplete in checkpoint, re-running\n", row.QuestionID)
		}
	}
	return done, nil
}

func (r *Runner) printEstimate(total, resumed int) {
	if r.Out == nil {
		return
	}

	var perQuestion time.Duration
	for _, group := range r.Registry.Groups() {
		pacing := r.Registry.GroupPacing(group)
		groupTime := time.Duration(len(r.Registry.GroupProviders(group))) * pacing.Delay
		// Groups run in parallel, so the slowest one bounds the question.
		if groupTime > perQuestion {
			perQuestion = groupTime
		}
	}

	remaining := total - resumed
	if remaining < 0 {
		remaining = 0
	}
	fmt.Fprintf(r.Out, "benchmark: %d questions x %d models (%d resumed), est. %s\n",
		total, r.Registry.Len(), resumed, (time.Duration(remaining) * perQuestion).Round(time.Second))
}

func (r *Runner) progressf(format string, args ...any) {
	if r.Out == nil {
		return
	}
	fmt.Fprintf(r.Out, format, args...)
}
