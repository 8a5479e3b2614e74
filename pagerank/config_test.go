package pagerank_test

import (
	"math/rand"

	"github.com/obaied/corpusrank/pagerank"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(ConfigTestSuite))

type ConfigTestSuite struct{}

func (s *ConfigTestSuite) TestDefaultsApplied(c *gc.C) {
	// A zero-valued config is valid; every knob falls back to its
	// documented default.
	_, err := pagerank.NewSampler(pagerank.Config{})
	c.Assert(err, gc.IsNil)

	_, err = pagerank.NewCalculator(pagerank.Config{})
	c.Assert(err, gc.IsNil)
}

func (s *ConfigTestSuite) TestDampingFactorOutOfRange(c *gc.C) {
	for _, damping := range []float64{-0.5, 1.5} {
		_, err := pagerank.NewCalculator(pagerank.Config{DampingFactor: damping})
		c.Assert(xerrors.Is(err, pagerank.ErrInvalidInput), gc.Equals, true, gc.Commentf("damping %v: got %v", damping, err))
	}
}

func (s *ConfigTestSuite) TestNegativeSampleCount(c *gc.C) {
	_, err := pagerank.NewSampler(pagerank.Config{SampleCount: -1})
	c.Assert(xerrors.Is(err, pagerank.ErrInvalidInput), gc.Equals, true, gc.Commentf("got %v", err))
}

func (s *ConfigTestSuite) TestConvergenceThresholdOutOfRange(c *gc.C) {
	_, err := pagerank.NewCalculator(pagerank.Config{MinDeltaForConvergence: 1.0})
	c.Assert(xerrors.Is(err, pagerank.ErrInvalidInput), gc.Equals, true, gc.Commentf("got %v", err))
}

func (s *ConfigTestSuite) TestNegativeIterationCap(c *gc.C) {
	_, err := pagerank.NewCalculator(pagerank.Config{MaxIterations: -1})
	c.Assert(xerrors.Is(err, pagerank.ErrInvalidInput), gc.Equals, true, gc.Commentf("got %v", err))
}

func (s *ConfigTestSuite) TestMultipleValidationFailures(c *gc.C) {
	_, err := pagerank.NewCalculator(pagerank.Config{DampingFactor: 2, MaxIterations: -1})
	c.Assert(err, gc.ErrorMatches, `(?s)PageRank calculator config validation failed: .*DampingFactor.*`)
}

func (s *ConfigTestSuite) TestCustomRandSourceAccepted(c *gc.C) {
	_, err := pagerank.NewSampler(pagerank.Config{RandSource: rand.NewSource(7)})
	c.Assert(err, gc.IsNil)
}
