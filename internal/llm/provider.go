package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider is one benchmarked backend+model combination. Send issues a single
// network call and returns the raw answer text, or an error classified via
// ProviderError. Adapters never return an empty answer without an error.
type Provider interface {
	// Name is the unique model identifier used as the response-map key.
	Name() string
	// Group names the provider family sharing a rate policy.
	Group() string
	Send(ctx context.Context, question, system string) (string, error)
}

// ErrorKind splits provider failures into the two channels the run loop
// distinguishes: rate-limited calls are retried, everything else is final.
type ErrorKind int

const (
	KindPermanent ErrorKind = iota
	KindRateLimited
)

func (k ErrorKind) String() string {
	if k == KindRateLimited {
		return "rate_limited"
	}
	return "permanent"
}

type ProviderError struct {
	Kind ErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RateLimited wraps err as a retryable provider error.
func RateLimited(err error) error {
	return &ProviderError{Kind: KindRateLimited, Err: err}
}

// Permanent wraps err as a non-retryable provider error.
func Permanent(err error) error {
	return &ProviderError{Kind: KindPermanent, Err: err}
}

// IsRateLimited reports whether err is the transient rate-limit channel.
func IsRateLimited(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == KindRateLimited
}

// Pacing is a provider group's rate policy: Delay after every call,
// Cooldown before each bounded retry of a rate-limited call.
type Pacing struct {
	Delay      time.Duration
	Cooldown   time.Duration
	MaxRetries int
}

// SendPaced runs p.Send under the pacing rules. Rate-limited calls sleep the
// cooldown and retry the same request up to MaxRetries times; exhaustion
// converts to a permanent error. The post-call delay applies regardless of
// outcome so the next call to the same group stays inside the quota.
func SendPaced(ctx context.Context, p Provider, pacing Pacing, question, system string) (string, error) {
	if p == nil {
		return "", Permanent(errors.New("llm: nil provider"))
	}

	attempts := pacing.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var text string
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if serr := sleepCtx(ctx, pacing.Cooldown); serr != nil {
				err = Permanent(serr)
				break
			}
		}

		text, err = p.Send(ctx, question, system)

		// The fixed delay follows every call, success or failure, so the
		// next call to the same group stays inside the quota.
		if derr := sleepCtx(ctx, pacing.Delay); derr != nil && err == nil {
			err = Permanent(derr)
		}

		if err == nil || !IsRateLimited(err) {
			break
		}
	}

	if IsRateLimited(err) {
		err = Permanent(fmt.Errorf("rate limit retries exhausted: %w", err))
	}
	return text, err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
