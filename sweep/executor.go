package sweep

import "context"

// Executor wraps a Graph instance and drives its supersteps until an
// error occurs or an exit condition is met. An optional set of hooks can
// be run around each superstep.
type Executor struct {
	g  *Graph
	cb ExecutorHooks
}

// ExecutorHooks encapsulates the hooks invoked by an Executor while
// running a graph. All hooks are optional.
type ExecutorHooks struct {
	// PreStep, if defined, is invoked before running the next superstep.
	// This is a good place to reset aggregators used by the upcoming
	// superstep.
	PreStep func(ctx context.Context, g *Graph) error

	// PostStep, if defined, is invoked after running a superstep.
	PostStep func(ctx context.Context, g *Graph) error

	// PostStepKeepRunning, if defined, is invoked after running a
	// superstep to decide whether the run's stop condition has been met.
	PostStepKeepRunning func(ctx context.Context, g *Graph) (bool, error)
}

// NewExecutor returns an Executor for graph g that invokes the provided
// hooks inside its execution loop.
func NewExecutor(g *Graph, cb ExecutorHooks) *Executor {
	if cb.PreStep == nil {
		cb.PreStep = func(context.Context, *Graph) error { return nil }
	}
	if cb.PostStep == nil {
		cb.PostStep = func(context.Context, *Graph) error { return nil }
	}
	if cb.PostStepKeepRunning == nil {
		cb.PostStepKeepRunning = func(context.Context, *Graph) (bool, error) { return true, nil }
	}
	g.superstep = 0
	return &Executor{g: g, cb: cb}
}

// RunToCompletion keeps executing supersteps until the context expires,
// an error occurs or a PostStepKeepRunning hook returns false.
func (ex *Executor) RunToCompletion(ctx context.Context) error {
	return ex.run(ctx, -1)
}

// RunSteps executes at most numSteps supersteps unless the context
// expires, an error occurs or a PostStepKeepRunning hook returns false.
func (ex *Executor) RunSteps(ctx context.Context, numSteps int) error {
	return ex.run(ctx, numSteps)
}

// Graph returns the graph instance associated with this executor.
func (ex *Executor) Graph() *Graph { return ex.g }

// Superstep returns the current graph superstep.
func (ex *Executor) Superstep() int { return ex.g.Superstep() }

func (ex *Executor) run(ctx context.Context, maxSteps int) error {
	var (
		err         error
		keepRunning bool
		cb          = ex.cb
	)

	for ; maxSteps != 0; ex.g.superstep, maxSteps = ex.g.superstep+1, maxSteps-1 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err = cb.PreStep(ctx, ex.g); err != nil {
			break
		} else if err = ex.g.step(); err != nil {
			break
		} else if err = cb.PostStep(ctx, ex.g); err != nil {
			break
		} else if keepRunning, err = cb.PostStepKeepRunning(ctx, ex.g); !keepRunning || err != nil {
			break
		}
	}
	return err
}
