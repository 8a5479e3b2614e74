package pagerank_test

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/obaied/corpusrank/corpus"
	"github.com/obaied/corpusrank/pagerank"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(CalculatorTestSuite))

type graphSpec struct {
	descr     string
	corpus    corpus.Corpus
	expScores map[string]float64
}

type CalculatorTestSuite struct{}

func (s *CalculatorTestSuite) TestCycleDistributesEvenly(c *gc.C) {
	spec := graphSpec{
		descr: `
 (A) -> (B) -> (C)
  ^             |
  |             |
  +-------------+

Expect the rank to be distributed evenly across the three pages.
`,
		corpus: corpus.Corpus{
			"A": corpus.NewLinkSet("B"),
			"B": corpus.NewLinkSet("C"),
			"C": corpus.NewLinkSet("A"),
		},
		expScores: map[string]float64{
			"A": 1.0 / 3.0,
			"B": 1.0 / 3.0,
			"C": 1.0 / 3.0,
		},
	}

	s.assertRankScores(c, spec)
}

func (s *CalculatorTestSuite) TestBacklinkBoostsScore(c *gc.C) {
	spec := graphSpec{
		descr: `
  +--(A)<-+
  |       |
  V       |
 (B) <-> (C)

Expect B and C to get a better score than A due to the back-link between
them, with B slightly ahead as two links point to it.
`,
		corpus: corpus.Corpus{
			"A": corpus.NewLinkSet("B"),
			"B": corpus.NewLinkSet("C"),
			"C": corpus.NewLinkSet("A", "B"),
		},
		expScores: map[string]float64{
			"A": 0.2148,
			"B": 0.3974,
			"C": 0.3878,
		},
	}

	s.assertRankScores(c, spec)
}

func (s *CalculatorTestSuite) TestSymmetricPair(c *gc.C) {
	spec := graphSpec{
		descr: `
 (A) <-> (B)

Two pages linking only to each other split the rank exactly in half.
`,
		corpus: corpus.Corpus{
			"A": corpus.NewLinkSet("B"),
			"B": corpus.NewLinkSet("A"),
		},
		expScores: map[string]float64{
			"A": 0.5,
			"B": 0.5,
		},
	}

	s.assertRankScores(c, spec)
}

func (s *CalculatorTestSuite) TestDeadEndRedistributesRank(c *gc.C) {
	spec := graphSpec{
		descr: `
 (A) -> (B)

B is a dead end: its rank is spread uniformly over the whole corpus each
sweep, as if it linked to every page. Both pages keep a positive score.
`,
		corpus: corpus.Corpus{
			"A": corpus.NewLinkSet("B"),
			"B": corpus.NewLinkSet(),
		},
		expScores: map[string]float64{
			"A": 0.3509,
			"B": 0.6491,
		},
	}

	s.assertRankScores(c, spec)
}

func (s *CalculatorTestSuite) TestSinglePageCorpus(c *gc.C) {
	ranks, err := pagerank.IterateRank(context.TODO(), corpus.Corpus{"A": corpus.NewLinkSet()}, 0.85)
	c.Assert(err, gc.IsNil)
	c.Assert(math.Abs(ranks["A"]-1.0) <= 1e-6, gc.Equals, true, gc.Commentf("got %f", ranks["A"]))
}

func (s *CalculatorTestSuite) TestInitialAssignmentInvariance(c *gc.C) {
	cp := corpus.Corpus{
		"A": corpus.NewLinkSet("B"),
		"B": corpus.NewLinkSet("A"),
	}

	calc, err := pagerank.NewCalculator(pagerank.Config{})
	c.Assert(err, gc.IsNil)

	fromUniform, err := calc.Estimate(context.TODO(), cp)
	c.Assert(err, gc.IsNil)

	fromSkewed, err := calc.EstimateFrom(context.TODO(), cp, pagerank.RankTable{"A": 0.9, "B": 0.1})
	c.Assert(err, gc.IsNil)

	for page := range cp {
		absDelta := math.Abs(fromUniform[page] - fromSkewed[page])
		c.Assert(absDelta <= 0.01, gc.Equals, true, gc.Commentf("fixed point for %v depends on the start: %f vs %f", page, fromUniform[page], fromSkewed[page]))
		c.Assert(math.Abs(fromSkewed[page]-0.5) <= 0.01, gc.Equals, true, gc.Commentf("got %f", fromSkewed[page]))
	}
}

func (s *CalculatorTestSuite) TestMalformedInitialTable(c *gc.C) {
	cp := corpus.Corpus{
		"A": corpus.NewLinkSet("B"),
		"B": corpus.NewLinkSet("A"),
	}

	calc, err := pagerank.NewCalculator(pagerank.Config{})
	c.Assert(err, gc.IsNil)

	// Missing page.
	_, err = calc.EstimateFrom(context.TODO(), cp, pagerank.RankTable{"A": 1.0})
	c.Assert(xerrors.Is(err, pagerank.ErrInvalidInput), gc.Equals, true, gc.Commentf("got %v", err))

	// Does not sum to 1.
	_, err = calc.EstimateFrom(context.TODO(), cp, pagerank.RankTable{"A": 0.9, "B": 0.9})
	c.Assert(xerrors.Is(err, pagerank.ErrInvalidInput), gc.Equals, true, gc.Commentf("got %v", err))
}

func (s *CalculatorTestSuite) TestZeroDampingSelectsDefault(c *gc.C) {
	// A damping factor of 0 falls back to the default. The backlink graph
	// tells the two apart: a literal 0 would rank all pages at 1/3.
	cp := corpus.Corpus{
		"A": corpus.NewLinkSet("B"),
		"B": corpus.NewLinkSet("C"),
		"C": corpus.NewLinkSet("A", "B"),
	}

	ranks, err := pagerank.IterateRank(context.TODO(), cp, 0)
	c.Assert(err, gc.IsNil)
	c.Assert(math.Abs(ranks["A"]-0.2148) <= 0.01, gc.Equals, true, gc.Commentf("got %f", ranks["A"]))
	assertSumsToOne(c, ranks, 1e-6)
}

func (s *CalculatorTestSuite) TestContextCancellation(c *gc.C) {
	cp := corpus.Corpus{
		"A": corpus.NewLinkSet("B"),
		"B": corpus.NewLinkSet("A"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pagerank.IterateRank(ctx, cp, 0.85)
	c.Assert(xerrors.Is(err, context.Canceled), gc.Equals, true, gc.Commentf("got %v", err))
	c.Assert(err, gc.ErrorMatches, `iterate rank: context canceled`)
}

func (s *CalculatorTestSuite) TestEmptyCorpus(c *gc.C) {
	_, err := pagerank.IterateRank(context.TODO(), corpus.Corpus{}, 0.85)
	c.Assert(xerrors.Is(err, pagerank.ErrInvalidInput), gc.Equals, true, gc.Commentf("got %v", err))
}

func (s *CalculatorTestSuite) TestIterationCap(c *gc.C) {
	// The backlink graph needs several sweeps to converge; a cap of one
	// sweep must surface the non-convergence instead of a partial result.
	cp := corpus.Corpus{
		"A": corpus.NewLinkSet("B"),
		"B": corpus.NewLinkSet("C"),
		"C": corpus.NewLinkSet("A", "B"),
	}

	calc, err := pagerank.NewCalculator(pagerank.Config{MaxIterations: 1})
	c.Assert(err, gc.IsNil)

	_, err = calc.Estimate(context.TODO(), cp)
	c.Assert(xerrors.Is(err, pagerank.ErrNonConvergence), gc.Equals, true, gc.Commentf("got %v", err))

	// A generous cap leaves the result unaffected.
	calc, err = pagerank.NewCalculator(pagerank.Config{MaxIterations: 1000})
	c.Assert(err, gc.IsNil)

	ranks, err := calc.Estimate(context.TODO(), cp)
	c.Assert(err, gc.IsNil)
	assertSumsToOne(c, ranks, 1e-6)
}

func (s *CalculatorTestSuite) TestConvergenceForLargeCorpora(c *gc.C) {
	s.assertConvergence(c, 10000, 7)
}

func (s *CalculatorTestSuite) assertConvergence(c *gc.C, numPages, maxOutLinks int) {
	calc, err := pagerank.NewCalculator(pagerank.Config{ComputeWorkers: 16})
	c.Assert(err, gc.IsNil)

	// Make the graph generation deterministic for each test run.
	rng := rand.New(rand.NewSource(42))

	names := make([]string, numPages)
	for i := 0; i < numPages; i++ {
		names[i] = fmt.Sprint(i)
	}

	cp := make(corpus.Corpus, numPages)
	for i := 0; i < numPages; i++ {
		links := corpus.NewLinkSet()
		for j := rng.Intn(maxOutLinks); j > 0; j-- {
			if dst := names[rng.Intn(numPages)]; dst != names[i] {
				links.Add(dst)
			}
		}
		cp[names[i]] = links
	}

	start := time.Now()
	ranks, err := calc.Estimate(context.TODO(), cp)
	c.Assert(err, gc.IsNil)
	c.Logf("converged %d pages in %v", numPages, time.Since(start).Truncate(time.Millisecond).String())

	c.Assert(len(ranks), gc.Equals, numPages)
	assertSumsToOne(c, ranks, 1e-6)
}

func (s *CalculatorTestSuite) assertRankScores(c *gc.C, spec graphSpec) {
	c.Log(spec.descr)

	calc, err := pagerank.NewCalculator(pagerank.Config{DampingFactor: 0.85})
	c.Assert(err, gc.IsNil)

	ranks, err := calc.Estimate(context.TODO(), spec.corpus)
	c.Assert(err, gc.IsNil)

	for page, exp := range spec.expScores {
		absDelta := math.Abs(ranks[page] - exp)
		c.Assert(absDelta <= 0.01, gc.Equals, true, gc.Commentf("expected score for %v to be %f ± 0.01; got %f (abs. delta %f)", page, exp, ranks[page], absDelta))
	}
	assertSumsToOne(c, ranks, 1e-6)
}
