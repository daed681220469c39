package checker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ObserveFunc is called once per completed check, e.g. to drive progress output.
// It may be called from several goroutines when Concurrency > 1.
type ObserveFunc func(name string, result Result, duration time.Duration)

// Runner orchestrates the execution of a check set.
//
// With Concurrency <= 1 checks run one after another. Higher values use a
// worker pool; results are put back into declared order before merging, so
// the merged lists are identical either way.
type Runner struct {
	Concurrency int         // Maximum number of checks running at once
	RateLimit   int         // Check starts per second; 0 disables limiting
	Observer    ObserveFunc // Optional per-check callback
}

// RunSet runs checks sequentially and concatenates their findings in order.
func RunSet(ctx context.Context, checks []Check, verbose bool) Result {
	return (&Runner{Concurrency: 1}).Run(ctx, checks, verbose)
}

// Run executes checks and merges their results in declared order. It never
// fails: a misbehaving check degrades to an informational finding.
func (r *Runner) Run(ctx context.Context, checks []Check, verbose bool) Result {
	results := make([]Result, len(checks))

	if r.Concurrency <= 1 || len(checks) <= 1 {
		for i, chk := range checks {
			results[i] = r.runOne(ctx, chk, verbose)
		}
		return merge(results)
	}

	var limiter *rate.Limiter
	if r.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.RateLimit), r.RateLimit)
	}

	sem := make(chan struct{}, r.Concurrency)
	var wg sync.WaitGroup

	for i, chk := range checks {
		wg.Add(1)
		go func(idx int, c Check) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if limiter != nil {
				_ = limiter.Wait(ctx)
			}

			// Each goroutine owns its slot; no lock needed.
			results[idx] = r.runOne(ctx, c, verbose)
		}(i, chk)
	}

	wg.Wait()
	return merge(results)
}

func (r *Runner) runOne(ctx context.Context, chk Check, verbose bool) Result {
	start := time.Now()
	res := Safe(chk).Run(ctx, verbose)
	if r.Observer != nil {
		r.Observer(chk.Name(), res, time.Since(start))
	}
	return res
}

func merge(results []Result) Result {
	var merged Result
	for _, res := range results {
		merged.Merge(res)
	}
	return merged
}

// Safe wraps a check so a panic inside Run becomes an informational finding
// instead of aborting the whole run.
func Safe(chk Check) Check {
	if s, ok := chk.(safeCheck); ok {
		return s
	}
	return safeCheck{inner: chk}
}

type safeCheck struct {
	inner Check
}

func (s safeCheck) Name() string {
	return s.inner.Name()
}

func (s safeCheck) Run(ctx context.Context, verbose bool) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Info: []string{fmt.Sprintf("%s: check failed unexpectedly; no signal collected.", s.inner.Name())}}
		}
	}()
	return s.inner.Run(ctx, verbose)
}
