package pagerank

import (
	"context"
	"math"

	"github.com/obaied/corpusrank/corpus"
	"github.com/obaied/corpusrank/sweep"
	"golang.org/x/xerrors"
)

// initialSumTolerance is how far a caller-supplied initial rank table may
// deviate from summing to 1.
const initialSumTolerance = 1e-6

// Calculator estimates PageRank scores by executing the iterative version
// of the algorithm: synchronous relaxation sweeps over the whole corpus
// until no page's score changes by more than the configured threshold.
// Every sweep is computed from the previous sweep's snapshot.
type Calculator struct {
	cfg Config
}

// NewCalculator returns a new Calculator instance using the provided
// config options.
func NewCalculator(cfg Config) (*Calculator, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("PageRank calculator config validation failed: %w", err)
	}
	return &Calculator{cfg: cfg}, nil
}

// Estimate relaxes the PageRank equations over the corpus starting from
// the uniform distribution and returns the converged rank table.
func (calc *Calculator) Estimate(ctx context.Context, c corpus.Corpus) (RankTable, error) {
	return calc.EstimateFrom(ctx, c, nil)
}

// EstimateFrom behaves like Estimate but starts the relaxation from the
// provided rank table instead of the uniform distribution. The initial
// table must cover every corpus page and sum to 1; the relaxation is a
// contraction for damping factors below 1, so any valid starting point
// converges to the same fixed point. A nil initial table means uniform.
func (calc *Calculator) EstimateFrom(ctx context.Context, c corpus.Corpus, initial RankTable) (RankTable, error) {
	if len(c) == 0 {
		return nil, xerrors.Errorf("iterate rank: corpus is empty: %w", ErrInvalidInput)
	}
	if err := checkInitial(c, initial); err != nil {
		return nil, err
	}

	numPages := float64(len(c))
	initScore := func(string) float64 { return 1.0 / numPages }
	if initial != nil {
		initScore = func(id string) float64 { return initial[id] }
	}

	g, err := sweep.NewGraph(sweep.GraphConfig{
		ComputeFn:      makeComputeFunc(calc.cfg.DampingFactor, numPages, initScore),
		ComputeWorkers: calc.cfg.ComputeWorkers,
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = g.Close() }()

	for page := range c {
		g.AddPage(page, 0)
	}
	for page, links := range c {
		for link := range links {
			// A well-formed corpus has no self-references; tolerate them
			// anyway rather than double-count a page's own score.
			if link == page {
				continue
			}
			if err := g.AddLink(page, link); err != nil {
				return nil, err
			}
		}
	}

	g.RegisterAggregator(maxDeltaAggr, new(sweep.MaxAggregator))
	g.RegisterAggregator(residualAggr0, new(sweep.SumAggregator))
	g.RegisterAggregator(residualAggr1, new(sweep.SumAggregator))

	ex := sweep.NewExecutor(g, sweep.ExecutorHooks{
		PreStep: func(_ context.Context, g *sweep.Graph) error {
			// Reset the delta tracker and the residual accumulator this
			// sweep will write into.
			g.Aggregator(maxDeltaAggr).Set(0)
			g.Aggregator(residualOutputAggr(g.Superstep())).Set(0)
			return nil
		},
		PostStepKeepRunning: func(_ context.Context, g *sweep.Graph) (bool, error) {
			// Superstep 0 only assigns the initial scores; the
			// convergence test applies to the relaxation sweeps after it.
			return !converged(g, calc.cfg.MinDeltaForConvergence), nil
		},
	})

	if calc.cfg.MaxIterations > 0 {
		// One initialization superstep plus the capped relaxation sweeps.
		err = ex.RunSteps(ctx, calc.cfg.MaxIterations+1)
	} else {
		err = ex.RunToCompletion(ctx)
	}
	if err != nil {
		return nil, xerrors.Errorf("iterate rank: %w", err)
	}
	if !converged(g, calc.cfg.MinDeltaForConvergence) {
		return nil, xerrors.Errorf("iterate rank: %d iterations exhausted: %w", calc.cfg.MaxIterations, ErrNonConvergence)
	}

	ranks := make(RankTable, len(c))
	for id, p := range g.Pages() {
		ranks[id] = p.Score()
	}
	return ranks, nil
}

func converged(g *sweep.Graph, minDelta float64) bool {
	return g.Superstep() >= 1 && g.Aggregator(maxDeltaAggr).Get() <= minDelta
}

// checkInitial validates a caller-supplied starting rank table: it must
// assign a non-negative score to every corpus page and sum to 1.
func checkInitial(c corpus.Corpus, initial RankTable) error {
	if initial == nil {
		return nil
	}

	var sum float64
	for page := range c {
		score, ok := initial[page]
		if !ok {
			return xerrors.Errorf("iterate rank: initial table is missing page %q: %w", page, ErrInvalidInput)
		}
		if score < 0 {
			return xerrors.Errorf("iterate rank: initial score for page %q is negative: %w", page, ErrInvalidInput)
		}
		sum += score
	}
	if math.Abs(sum-1.0) > initialSumTolerance {
		return xerrors.Errorf("iterate rank: initial table sums to %v, want 1: %w", sum, ErrInvalidInput)
	}
	return nil
}
