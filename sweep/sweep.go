/*
   Package sweep implements a bulk-synchronous relaxation engine for
   page-score computations. Pages exchange float64 scores in supersteps:
   a score sent while executing superstep N is only visible to its
   destination at superstep N+1, so every superstep observes a consistent
   snapshot of the previous one.
*/
package sweep

import "golang.org/x/xerrors"

var (
	// ErrUnknownLinkSource is returned when adding a link whose source
	// page is not part of the graph.
	ErrUnknownLinkSource = xerrors.New("link source page is not part of the graph")

	// ErrUnknownScoreDestination is returned when a score is sent to a
	// page that is not part of the graph.
	ErrUnknownScoreDestination = xerrors.New("score destination page is not part of the graph")
)

// Aggregator is a concurrent-safe accumulator for float64 values that
// compute functions share across a superstep.
type Aggregator interface {
	// Set overwrites the aggregator's value.
	Set(val float64)

	// Get returns the aggregator's current value.
	Get() float64

	// Aggregate folds val into the aggregator's current value.
	Aggregate(val float64)
}
