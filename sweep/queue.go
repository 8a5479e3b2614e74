package sweep

import "sync"

// ScoreIterator walks the scores delivered to a page for the current
// superstep. It is not safe for concurrent access.
type ScoreIterator interface {
	// Next advances the iterator; it returns false when no scores remain.
	Next() bool

	// Score returns the score at the iterator's current position.
	Score() float64
}

// scoreQueue buffers the scores sent to a page. Enqueueing is
// concurrency-safe; pages receive scores from many senders within the
// same superstep.
type scoreQueue struct {
	mu      sync.Mutex
	scores  []float64
	latched float64
}

func (q *scoreQueue) enqueue(score float64) {
	q.mu.Lock()
	q.scores = append(q.scores, score)
	q.mu.Unlock()
}

// discard drops any scores that the compute function did not consume.
func (q *scoreQueue) discard() {
	q.mu.Lock()
	q.scores = q.scores[:0]
	q.mu.Unlock()
}

func (q *scoreQueue) Next() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	qLen := len(q.scores)
	if qLen == 0 {
		return false
	}

	// Dequeue from the tail of the queue.
	q.latched = q.scores[qLen-1]
	q.scores = q.scores[:qLen-1]
	return true
}

func (q *scoreQueue) Score() float64 {
	q.mu.Lock()
	score := q.latched
	q.mu.Unlock()
	return score
}
