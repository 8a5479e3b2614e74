package pagerank

import (
	"math/rand"

	multierror "github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

// Defaults applied by Config.validate for zero-valued fields.
const (
	// DefaultDampingFactor is the probability that the random surfer
	// follows an outgoing link instead of teleporting.
	DefaultDampingFactor = 0.85

	// DefaultSampleCount is the number of random-walk steps taken by the
	// sampling estimator.
	DefaultSampleCount = 10000

	// DefaultMinDeltaForConvergence is the per-page score change below
	// which the iterative estimator considers itself converged.
	DefaultMinDeltaForConvergence = 0.001
)

// Config encapsulates the parameters shared by the two PageRank
// estimators.
type Config struct {
	// DampingFactor is the probability that the random surfer clicks one
	// of the outgoing links on the page they are currently visiting
	// instead of teleporting to a random corpus page.
	//
	// If not specified, DefaultDampingFactor is used instead.
	DampingFactor float64

	// SampleCount is the number of steps in the sampling estimator's
	// random walk.
	//
	// If not specified, DefaultSampleCount is used instead.
	SampleCount int

	// After each relaxation sweep the iterative estimator compares every
	// page's new score against its previous one; the run converges once
	// no page changed by more than MinDeltaForConvergence.
	//
	// If not specified, DefaultMinDeltaForConvergence is used instead.
	MinDeltaForConvergence float64

	// MaxIterations caps the number of relaxation sweeps the iterative
	// estimator may execute before giving up with ErrNonConvergence. A
	// value of 0 disables the cap and the estimator runs until it
	// converges.
	MaxIterations int

	// ComputeWorkers is the number of workers relaxing page scores
	// during each sweep. If not specified, a single worker is used.
	ComputeWorkers int

	// RandSource seeds the sampling estimator's random walk. Supplying a
	// fixed source makes sampling runs reproducible. If not specified, a
	// time-seeded source is used.
	RandSource rand.Source
}

// validate checks the configuration and applies the documented defaults
// for zero-valued fields.
func (c *Config) validate() error {
	var err error
	if c.DampingFactor < 0 || c.DampingFactor > 1.0 {
		err = multierror.Append(err, xerrors.Errorf("DampingFactor must be in the range [0, 1]: %w", ErrInvalidInput))
	} else if c.DampingFactor == 0 {
		c.DampingFactor = DefaultDampingFactor
	}

	if c.SampleCount < 0 {
		err = multierror.Append(err, xerrors.Errorf("SampleCount must be at least 1: %w", ErrInvalidInput))
	} else if c.SampleCount == 0 {
		c.SampleCount = DefaultSampleCount
	}

	if c.MinDeltaForConvergence < 0 || c.MinDeltaForConvergence >= 1.0 {
		err = multierror.Append(err, xerrors.Errorf("MinDeltaForConvergence must be in the range (0, 1): %w", ErrInvalidInput))
	} else if c.MinDeltaForConvergence == 0 {
		c.MinDeltaForConvergence = DefaultMinDeltaForConvergence
	}

	if c.MaxIterations < 0 {
		err = multierror.Append(err, xerrors.Errorf("MaxIterations must not be negative: %w", ErrInvalidInput))
	}

	if c.ComputeWorkers <= 0 {
		c.ComputeWorkers = 1
	}

	return err
}
