package pagerank

import (
	"math/rand"
	"sort"
	"time"

	"github.com/obaied/corpusrank/corpus"
	"golang.org/x/xerrors"
)

// Sampler estimates PageRank scores by simulating the random surfer: a
// long Markov-chain walk driven by the transition model, where each
// page's score is its visitation frequency.
//
// A Sampler owns its random number generator and is therefore not safe
// for concurrent use; create one Sampler per goroutine.
type Sampler struct {
	cfg Config
	rng *rand.Rand
}

// NewSampler returns a new Sampler using the provided config options.
func NewSampler(cfg Config) (*Sampler, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("PageRank sampler config validation failed: %w", err)
	}

	src := cfg.RandSource
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Sampler{cfg: cfg, rng: rand.New(src)}, nil
}

// Estimate performs a random walk of SampleCount steps over the corpus
// and returns the visitation frequency of every page. The walk starts on
// a page chosen uniformly at random; each subsequent page is drawn from
// the transition distribution of the current one.
func (s *Sampler) Estimate(c corpus.Corpus) (RankTable, error) {
	if len(c) == 0 {
		return nil, xerrors.Errorf("sample rank: corpus is empty: %w", ErrInvalidInput)
	}

	pages := c.Pages()
	visits := make(map[string]int, len(pages))
	for _, page := range pages {
		visits[page] = 0
	}

	// Cumulative-weight buffer reused across draws.
	cum := make([]float64, len(pages))

	current := pages[s.rng.Intn(len(pages))]
	for i := 0; i < s.cfg.SampleCount; i++ {
		visits[current]++
		dist, err := Transition(c, current, s.cfg.DampingFactor)
		if err != nil {
			return nil, err
		}
		current = s.draw(pages, dist, cum)
	}

	ranks := make(RankTable, len(pages))
	total := float64(s.cfg.SampleCount)
	for _, page := range pages {
		ranks[page] = float64(visits[page]) / total
	}
	return ranks, nil
}

// draw performs a categorical draw from dist: each page's selection
// probability equals its distribution value. It accumulates the weights
// in corpus page order and binary-searches the cumulative sums.
func (s *Sampler) draw(pages []string, dist Distribution, cum []float64) string {
	var sum float64
	for i, page := range pages {
		sum += dist[page]
		cum[i] = sum
	}

	// Scale by the actual total so floating-point drift in the
	// distribution cannot push the draw past the last page.
	r := s.rng.Float64() * sum
	idx := sort.Search(len(cum), func(i int) bool { return cum[i] > r })
	if idx == len(cum) {
		idx = len(cum) - 1
	}
	return pages[idx]
}
