package sweep

import (
	"sync"
	"sync/atomic"

	"golang.org/x/xerrors"
)

// ComputeFunc is the function a graph invokes on each page when executing
// a superstep. The iterator yields the scores sent to the page during the
// previous superstep.
type ComputeFunc func(g *Graph, p *Page, scores ScoreIterator) error

// Page is a vertex in the graph. Each page carries a float64 score and
// the IDs of the pages it links to.
type Page struct {
	id    string
	score float64

	// Two queues are needed: the queue at index superstep%2 holds the
	// scores for the current superstep while the queue at
	// (superstep+1)%2 buffers the scores for the next one.
	queues   [2]scoreQueue
	outLinks []string
}

func (p *Page) ID() string { return p.id }

func (p *Page) Score() float64 { return p.score }

func (p *Page) SetScore(score float64) { p.score = score }

// OutLinks returns the IDs of the pages this page links to.
func (p *Page) OutLinks() []string { return p.outLinks }

// GraphConfig encapsulates the parameters for creating a sweep graph.
type GraphConfig struct {
	// ComputeFn is invoked on every page at each superstep.
	ComputeFn ComputeFunc

	// ComputeWorkers is the number of workers executing ComputeFn. If
	// not specified, a single worker will be used.
	ComputeWorkers int
}

func (c *GraphConfig) validate() error {
	if c.ComputeFn == nil {
		return xerrors.New("compute function must be specified")
	}
	if c.ComputeWorkers <= 0 {
		c.ComputeWorkers = 1
	}
	return nil
}

// Graph executes a compute function over a set of pages in synchronous
// supersteps. Scores emitted during a superstep are delivered at the next
// one, so each superstep only ever observes the previous superstep's
// state.
type Graph struct {
	superstep   int
	pages       map[string]*Page
	aggregators map[string]Aggregator
	computeFunc ComputeFunc

	wg sync.WaitGroup

	// pageCh is polled by the compute workers to obtain the next page to
	// be processed.
	pageCh chan *Page

	// errCh is a buffered channel where workers publish errors raised by
	// the compute function. If it is already full the new error is
	// dropped; reporting one failure is enough to abort the run.
	errCh chan error

	// stepCompletedCh signals that the last enqueued page of the
	// superstep has been processed.
	stepCompletedCh chan struct{}

	// pendingInStep counts the pages still to be processed in the
	// current superstep.
	pendingInStep int64
}

// NewGraph creates a new Graph instance using the specified
// configuration. Callers must invoke Close on the returned graph once
// they are done with it.
func NewGraph(cfg GraphConfig) (*Graph, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("sweep graph config validation failed: %w", err)
	}

	g := &Graph{
		computeFunc: cfg.ComputeFn,
		pages:       make(map[string]*Page),
		aggregators: make(map[string]Aggregator),
	}
	g.startWorkers(cfg.ComputeWorkers)
	return g, nil
}

// Close releases the resources associated with the graph.
func (g *Graph) Close() error {
	close(g.pageCh)
	g.wg.Wait()
	return nil
}

// AddPage inserts a new page with the specified ID and initial score. If
// the page already exists its score is overwritten.
func (g *Graph) AddPage(id string, initScore float64) {
	p := g.pages[id]
	if p == nil {
		p = &Page{id: id}
		g.pages[id] = p
	}
	p.SetScore(initScore)
}

// AddLink inserts a directed link from src to dst. Links are owned by
// their source, so src must already be part of the graph.
func (g *Graph) AddLink(src, dst string) error {
	srcPage := g.pages[src]
	if srcPage == nil {
		return xerrors.Errorf("create link from %q to %q: %w", src, dst, ErrUnknownLinkSource)
	}
	srcPage.outLinks = append(srcPage.outLinks, dst)
	return nil
}

// RegisterAggregator attaches a named aggregator to the graph.
func (g *Graph) RegisterAggregator(name string, aggr Aggregator) {
	g.aggregators[name] = aggr
}

// Aggregator returns the aggregator registered under name, or nil.
func (g *Graph) Aggregator(name string) Aggregator {
	return g.aggregators[name]
}

func (g *Graph) Superstep() int { return g.superstep }

func (g *Graph) Pages() map[string]*Page { return g.pages }

// SendScore queues a score for delivery to the destination page at the
// next superstep.
func (g *Graph) SendScore(dst string, score float64) error {
	dstPage := g.pages[dst]
	if dstPage == nil {
		return xerrors.Errorf("send score to %q: %w", dst, ErrUnknownScoreDestination)
	}
	dstPage.queues[(g.superstep+1)%2].enqueue(score)
	return nil
}

// BroadcastScore sends score to every page that p links to.
func (g *Graph) BroadcastScore(p *Page, score float64) error {
	for _, dst := range p.outLinks {
		if err := g.SendScore(dst, score); err != nil {
			return err
		}
	}
	return nil
}

// startWorkers allocates the graph channels and spins up numWorkers to
// execute the supersteps.
func (g *Graph) startWorkers(numWorkers int) {
	g.pageCh = make(chan *Page)
	g.errCh = make(chan error, 1)
	g.stepCompletedCh = make(chan struct{})

	g.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go g.stepWorker()
	}
}

// stepWorker polls pageCh and executes the compute function on each
// incoming page. It exits when pageCh is closed.
func (g *Graph) stepWorker() {
	defer g.wg.Done()
	for p := range g.pageCh {
		inQueue := &p.queues[g.superstep%2]
		if err := g.computeFunc(g, p, inQueue); err != nil {
			emitError(g.errCh, xerrors.Errorf("compute failed for page %q: %w", p.ID(), err))
		} else {
			// Flush any scores the compute function left unconsumed so
			// they cannot leak into a later superstep.
			inQueue.discard()
		}
		if atomic.AddInt64(&g.pendingInStep, -1) == 0 {
			g.stepCompletedCh <- struct{}{}
		}
	}
}

// step executes the next superstep over all pages in the graph.
func (g *Graph) step() error {
	g.pendingInStep = int64(len(g.pages))
	if g.pendingInStep == 0 {
		return nil
	}

	for _, p := range g.pages {
		g.pageCh <- p
	}

	// Block until the worker pool has processed every page.
	<-g.stepCompletedCh

	var err error
	select {
	case err = <-g.errCh:
	default: // no error
	}
	return err
}

func emitError(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default: // the channel already contains an error
	}
}
