package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/TrellixVulnTeam/Market-Learn-B049/internal/book"
)

// BurnInEvents is the number of initial events discarded before shape
// statistics accumulate.
const BurnInEvents = 1000

// Result holds the averaged book shape of one simulation run.
type Result struct {
	// Shape is the running average of Book.Shape(Band), length 2*Band+1.
	Shape []float64
	Band  int
	// Samples is the number of shape observations in the average.
	Samples int
	// Skipped counts events dropped due to a degenerate rate state.
	Skipped int
}

// Symmetrize folds the shape across the mid: index 0 is the unmixed
// level-0 value, index d>0 the mean of the bid and ask values at
// distance d. The result has length Band+1.
func (r *Result) Symmetrize() []float64 {
	out := make([]float64, 0, r.Band+1)
	out = append(out, r.Shape[r.Band])
	for d := 1; d <= r.Band; d++ {
		out = append(out, 0.5*(r.Shape[r.Band-d]+r.Shape[r.Band+d]))
	}
	return out
}

// step generates one event and applies it. A DegenerateRateError from
// the model marks a legitimate one-sided edge state: the event is
// skipped. Every other error means the ladder or the configuration is
// broken and aborts the run.
func step(b *book.Book, m Model, rng *rand.Rand) (skipped bool, err error) {
	ev, err := m.Next(b, rng)
	if err != nil {
		var dr *DegenerateRateError
		if errors.As(err, &dr) {
			slog.Debug("skipping degenerate event", slog.String("model", dr.Model))
			return true, nil
		}
		return false, err
	}
	if err := Apply(b, rng, ev); err != nil {
		return false, fmt.Errorf("apply %s: %w", ev.Kind, err)
	}
	return false, nil
}

// AverageShape burns in BurnInEvents events, then accumulates the book
// shape within the model window over maxEvents observations, returning
// the running average without retaining individual samples.
func AverageShape(b *book.Book, m Model, maxEvents int, rng *rand.Rand) (*Result, error) {
	if maxEvents <= 0 {
		return nil, fmt.Errorf("maxEvents must be positive, got %d", maxEvents)
	}

	res := &Result{Band: m.Window()}

	for i := 0; i < BurnInEvents; i++ {
		skipped, err := step(b, m, rng)
		if err != nil {
			return nil, fmt.Errorf("burn-in event %d: %w", i, err)
		}
		if skipped {
			res.Skipped++
		}
	}

	shape, err := b.Shape(res.Band)
	if err != nil {
		return nil, err
	}
	res.Shape = make([]float64, len(shape))
	for i, q := range shape {
		res.Shape[i] = float64(q) / float64(maxEvents)
	}
	res.Samples = 1

	for n := 1; n < maxEvents; n++ {
		skipped, err := step(b, m, rng)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", n, err)
		}
		if skipped {
			res.Skipped++
		}
		shape, err := b.Shape(res.Band)
		if err != nil {
			return nil, err
		}
		for i, q := range shape {
			res.Shape[i] += float64(q) / float64(maxEvents)
		}
		res.Samples++
	}

	return res, nil
}

// EnsembleConfig controls a set of independent replications of an
// average-shape run.
type EnsembleConfig struct {
	Levels       int
	Depth        int
	MaxEvents    int
	Replications int
	// Workers bounds concurrent replications; defaults to Replications.
	Workers int
	// Seed derives each replication's random stream as Seed+replica.
	Seed int64
}

// Ensemble runs independent replications concurrently, each on its own
// freshly initialized book with a derived deterministic seed, and
// averages the resulting shapes elementwise. Replications share no
// mutable state, so no locking of ladder state is needed.
func Ensemble(cfg EnsembleConfig, m Model) (*Result, error) {
	if cfg.Replications <= 0 {
		return nil, fmt.Errorf("replications must be positive, got %d", cfg.Replications)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = cfg.Replications
	}

	results := make([]*Result, cfg.Replications)
	errs := make([]error, cfg.Replications)
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for r := 0; r < cfg.Replications; r++ {
		wg.Add(1)
		go func(replica int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			b := book.NewWithConfig(cfg.Levels, cfg.Depth)
			rng := rand.New(rand.NewSource(cfg.Seed + int64(replica)))
			res, err := AverageShape(b, m, cfg.MaxEvents, rng)
			if err != nil {
				errs[replica] = fmt.Errorf("replication %d: %w", replica, err)
				return
			}
			results[replica] = res
		}(r)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	// Combine in replica order so float accumulation is reproducible.
	combined := &Result{Band: m.Window()}
	for _, res := range results {
		if combined.Shape == nil {
			combined.Shape = make([]float64, len(res.Shape))
		}
		for i, v := range res.Shape {
			combined.Shape[i] += v
		}
		combined.Samples += res.Samples
		combined.Skipped += res.Skipped
	}
	for i := range combined.Shape {
		combined.Shape[i] /= float64(cfg.Replications)
	}
	return combined, nil
}
