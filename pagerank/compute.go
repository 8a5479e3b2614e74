package pagerank

import (
	"math"

	"github.com/obaied/corpusrank/sweep"
)

// Aggregator names used by the iterative estimator.
const (
	// maxDeltaAggr tracks the largest per-page score change of the
	// current sweep; the run converges once it drops to the threshold.
	maxDeltaAggr = "max_delta"

	residualAggr0 = "residual_0"
	residualAggr1 = "residual_1"
)

// makeComputeFunc returns the sweep.ComputeFunc that relaxes one page of
// the PageRank equations using the provided damping factor. initScore
// supplies each page's score for the initialization superstep.
func makeComputeFunc(damping, numPages float64, initScore func(id string) float64) sweep.ComputeFunc {
	return func(g *sweep.Graph, p *sweep.Page, scores sweep.ScoreIterator) error {
		var newScore float64
		if g.Superstep() == 0 {
			// Initialization sweep: assign the starting scores and let
			// the broadcast below distribute them for the first real
			// relaxation sweep.
			newScore = initScore(p.ID())
		} else {
			// Incoming scores carry rank(q)/|L(q)| for every page q that
			// links to this one, snapshotted from the previous sweep.
			newScore = (1.0 - damping) / numPages
			for scores.Next() {
				newScore += damping * scores.Score()
			}

			// Add the rank that dead-end pages spread uniformly over the
			// corpus during the previous sweep.
			newScore += damping * g.Aggregator(residualInputAggr(g.Superstep())).Get()
		}

		g.Aggregator(maxDeltaAggr).Aggregate(math.Abs(p.Score() - newScore))
		p.SetScore(newScore)

		// A dead end behaves as if it linked to every corpus page. Its
		// score cannot be broadcast to all pages directly, so it is
		// accumulated per sweep and folded into every page's score on
		// the next one.
		numOutLinks := float64(len(p.OutLinks()))
		if numOutLinks == 0 {
			g.Aggregator(residualOutputAggr(g.Superstep())).Aggregate(newScore / numPages)
			return nil
		}

		// Spread this page's score evenly across its outgoing links.
		return g.BroadcastScore(p, newScore/numOutLinks)
	}
}

// residualOutputAggr returns the name of the aggregator that dead-end
// residual scores are written to during the given superstep.
func residualOutputAggr(superstep int) string {
	if superstep%2 == 0 {
		return residualAggr0
	}
	return residualAggr1
}

// residualInputAggr returns the name of the aggregator that dead-end
// residual scores are read from during the given superstep.
func residualInputAggr(superstep int) string {
	if (superstep+1)%2 == 0 {
		return residualAggr0
	}
	return residualAggr1
}
