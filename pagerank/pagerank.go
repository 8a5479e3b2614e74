/*
   Package pagerank estimates the relative importance of the pages in a
   closed corpus using the PageRank algorithm
   https://en.wikipedia.org/wiki/PageRank
*/
package pagerank

import (
	"context"

	"github.com/obaied/corpusrank/corpus"
	"golang.org/x/xerrors"
)

/*
   PageRank models a random surfer walking the corpus. At each step the
   surfer either follows one of the current page's outgoing links (with
   probability equal to the damping factor) or teleports to a page chosen
   uniformly at random from the whole corpus. A page's score is the
   probability that the surfer is found on it, so:

       Each score is a value in the [0, 1] range.
       The sum of all scores equals 1.

   Two independent estimators are provided:

       Sampler approximates the scores by simulating a long random walk
       and counting page visits.

       Calculator solves the PageRank fixed-point equations by repeated
       relaxation sweeps until no page's score changes by more than a
       configurable threshold.
*/

var (
	// ErrInvalidInput is returned when an estimator or the transition
	// model is invoked with arguments that violate its contract: an
	// empty corpus, an unknown page, a damping factor outside [0, 1], a
	// non-positive sample count or a malformed initial rank table.
	ErrInvalidInput = xerrors.New("invalid input")

	// ErrNonConvergence is returned by the iterative estimator when an
	// iteration cap is configured and the relaxation did not converge
	// within it. This is an extension beyond the baseline contract: with
	// no cap configured the relaxation is trusted to converge for any
	// damping factor below 1.
	ErrNonConvergence = xerrors.New("failed to converge within the configured iteration cap")
)

// Distribution maps every corpus page to a probability; the values sum
// to 1 within floating-point tolerance.
type Distribution map[string]float64

// RankTable maps every corpus page to its estimated PageRank score; the
// values sum to 1 within floating-point tolerance.
type RankTable map[string]float64

// SampleRank estimates PageRank scores by simulating a random walk of n
// steps with the given damping factor. It is a convenience wrapper around
// Sampler with an unseeded random source; use a Sampler directly for
// reproducible runs. Passing a damping factor of 0 selects
// DefaultDampingFactor; use Transition to evaluate a literal 0.
func SampleRank(c corpus.Corpus, damping float64, n int) (RankTable, error) {
	if n < 1 {
		return nil, xerrors.Errorf("sample rank: sample count must be at least 1: %w", ErrInvalidInput)
	}
	s, err := NewSampler(Config{DampingFactor: damping, SampleCount: n})
	if err != nil {
		return nil, err
	}
	return s.Estimate(c)
}

// IterateRank estimates PageRank scores by relaxing the PageRank
// equations until convergence. It is a convenience wrapper around
// Calculator with the default convergence threshold. Passing a damping
// factor of 0 selects DefaultDampingFactor.
func IterateRank(ctx context.Context, c corpus.Corpus, damping float64) (RankTable, error) {
	calc, err := NewCalculator(Config{DampingFactor: damping})
	if err != nil {
		return nil, err
	}
	return calc.Estimate(ctx, c)
}
