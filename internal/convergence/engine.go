package convergence

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/imamik/netforge/internal/retry"
	"github.com/imamik/netforge/internal/topology"
)

// Engine executes planned actions against a provider.
type Engine struct {
	provider    Provider
	observer    Observer
	metrics     *Metrics
	concurrency int
	retryMax    int
	retryDelay  time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver sets the event sink.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithMetrics attaches convergence metrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithConcurrency bounds the worker pool for independent actions.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithRetry tunes transient-error retries per action.
func WithRetry(maxAttempts int, initialDelay time.Duration) Option {
	return func(e *Engine) {
		if maxAttempts > 0 {
			e.retryMax = maxAttempts
		}
		if initialDelay > 0 {
			e.retryDelay = initialDelay
		}
	}
}

// New creates an engine for the given provider.
func New(provider Provider, opts ...Option) *Engine {
	e := &Engine{
		provider:    provider,
		observer:    NopObserver{},
		concurrency: 4,
		retryMax:    5,
		retryDelay:  1 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Refresh takes a fresh observed-state snapshot for the given prefix. It is
// called once at the start of a planning cycle and not re-read mid-apply.
func (e *Engine) Refresh(ctx context.Context, prefix string) (*ObservedState, error) {
	nodes, err := e.provider.Describe(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh observed state: %w", err)
	}
	return NewObservedState(nodes), nil
}

// Apply executes the planned actions. Actions whose prerequisites are
// satisfied run concurrently on the worker pool; an action never starts
// before all its prerequisites completed successfully. Plan rank schedules
// destroys ahead of creates and updates, except where an update must repoint
// a surviving resource off a doomed one first. A failed action marks its
// dependent subtree skipped. Cancellation stops scheduling new actions but
// lets in-flight provider calls finish.
func (e *Engine) Apply(ctx context.Context, actions []Action) *Result {
	start := time.Now()
	result := &Result{}

	e.run(ctx, actions, result)

	e.metrics.observeApply(time.Since(start))
	return result
}

// run schedules the actions respecting their prerequisites.
func (e *Engine) run(ctx context.Context, actions []Action, result *Result) {
	if len(actions) == 0 {
		return
	}

	done := 0
	total := len(actions)

	pending := make(map[topology.ID]Action, len(actions))
	for _, a := range actions {
		pending[a.Node.ID] = a
	}

	prereqs, dependents := actionEdges(actions)

	// In-flight provider calls run to completion even when ctx is cancelled;
	// only scheduling observes the cancellation.
	execCtx := context.WithoutCancel(ctx)

	type completion struct {
		id  topology.ID
		err error
	}
	completions := make(chan completion)

	started := make(map[topology.ID]bool, len(actions))
	running := 0

	for len(pending) > 0 || running > 0 {
		if ctx.Err() == nil {
			for _, a := range readyActions(pending, prereqs, started) {
				if running >= e.concurrency {
					break
				}
				started[a.Node.ID] = true
				running++
				go func(a Action) {
					completions <- completion{id: a.Node.ID, err: e.execute(execCtx, a)}
				}(a)
			}
		}

		if running == 0 {
			// Cancelled, or everything left is blocked behind a failure.
			e.skipRemaining(pending, result, &done, total)
			return
		}

		c := <-completions
		running--

		a := pending[c.id]
		delete(pending, c.id)
		done++

		if c.err != nil {
			result.Failed = append(result.Failed, ActionFailure{Action: a, Err: c.err})
			e.skipSubtree(c.id, pending, dependents, result, &done, total)
		} else {
			result.Applied = append(result.Applied, a)
			for _, dep := range dependents[c.id] {
				prereqs[dep]--
			}
		}
		e.observer.Progress(done, total)
	}
}

// actionEdges derives prerequisite counts and reverse edges for the action
// set. Creates and updates wait for the changes they depend on; for destroys
// the direction inverts: a resource waits for its dependents to be deleted.
// A destroy additionally waits for any update whose observed node still
// references the doomed resource, so that, e.g., a surviving association is
// repointed to its new route table before the old one is deleted.
func actionEdges(actions []Action) (map[topology.ID]int, map[topology.ID][]topology.ID) {
	ops := make(map[topology.ID]Op, len(actions))
	for _, a := range actions {
		ops[a.Node.ID] = a.Op
	}

	prereqs := make(map[topology.ID]int, len(actions))
	dependents := make(map[topology.ID][]topology.ID, len(actions))

	// first must complete before then may start.
	edge := func(first, then topology.ID) {
		prereqs[then]++
		dependents[first] = append(dependents[first], then)
	}

	for _, a := range actions {
		if a.Op == OpDestroy {
			for _, dep := range a.Node.DependsOn {
				if ops[dep] == OpDestroy {
					edge(a.Node.ID, dep)
				}
			}
			continue
		}

		for _, dep := range a.Node.DependsOn {
			if op, ok := ops[dep]; ok && op != OpDestroy {
				edge(dep, a.Node.ID)
			}
		}

		if a.Prior == nil {
			continue
		}
		for _, dep := range a.Prior.DependsOn {
			if ops[dep] == OpDestroy {
				edge(a.Node.ID, dep)
			}
		}
	}
	return prereqs, dependents
}

// readyActions returns the unstarted pending actions with no unmet
// prerequisites, in plan order.
func readyActions(pending map[topology.ID]Action, prereqs map[topology.ID]int, started map[topology.ID]bool) []Action {
	var ready []Action
	for id, a := range pending {
		if !started[id] && prereqs[id] == 0 {
			ready = append(ready, a)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i].Rank < ready[j].Rank })
	return ready
}

// skipSubtree marks every pending transitive dependent of the failed action
// as skipped.
func (e *Engine) skipSubtree(failed topology.ID, pending map[topology.ID]Action, dependents map[topology.ID][]topology.ID, result *Result, done *int, total int) {
	queue := append([]topology.ID{}, dependents[failed]...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		a, ok := pending[id]
		if !ok {
			continue
		}
		delete(pending, id)
		*done++
		result.Skipped = append(result.Skipped, a)
		e.observer.Event(Event{
			Type:     EventResourceSkipped,
			Resource: a.Node.ID.String(),
			Message:  fmt.Sprintf("dependency %s failed", failed),
		})
		queue = append(queue, dependents[id]...)
	}
}

// skipRemaining marks everything still pending as skipped, in plan order.
func (e *Engine) skipRemaining(pending map[topology.ID]Action, result *Result, done *int, total int) {
	remaining := make([]Action, 0, len(pending))
	for _, a := range pending {
		remaining = append(remaining, a)
	}
	sort.Slice(remaining, func(i, j int) bool { return remaining[i].Rank < remaining[j].Rank })

	for _, a := range remaining {
		delete(pending, a.Node.ID)
		*done++
		result.Skipped = append(result.Skipped, a)
		e.observer.Event(Event{
			Type:     EventResourceSkipped,
			Resource: a.Node.ID.String(),
		})
	}
	e.observer.Progress(*done, total)
}

// execute runs one action with transient-error retry.
func (e *Engine) execute(ctx context.Context, a Action) error {
	e.observer.Event(Event{Type: startEvent(a.Op), Resource: a.Node.ID.String()})

	operation := func() error {
		switch a.Op {
		case OpCreate:
			return e.provider.Create(ctx, a.Node)
		case OpUpdate:
			return e.provider.Update(ctx, a.Node)
		case OpDestroy:
			return e.provider.Delete(ctx, a.Node)
		default:
			return retry.Fatal(fmt.Errorf("unknown operation %q", a.Op))
		}
	}

	err := retry.WithExponentialBackoff(ctx, operation,
		retry.WithMaxRetries(e.retryMax),
		retry.WithInitialDelay(e.retryDelay))
	if err != nil {
		e.observer.Event(Event{
			Type:     EventResourceFailed,
			Resource: a.Node.ID.String(),
			Message:  err.Error(),
		})
		e.metrics.observeAction(a.Op, "failure")
		return fmt.Errorf("%s %s: %w", a.Op, a.Node.ID, err)
	}

	e.observer.Event(Event{Type: doneEvent(a.Op), Resource: a.Node.ID.String()})
	e.metrics.observeAction(a.Op, "success")
	return nil
}

func startEvent(op Op) EventType {
	switch op {
	case OpUpdate:
		return EventResourceUpdating
	case OpDestroy:
		return EventResourceDeleting
	default:
		return EventResourceCreating
	}
}

func doneEvent(op Op) EventType {
	switch op {
	case OpUpdate:
		return EventResourceUpdated
	case OpDestroy:
		return EventResourceDeleted
	default:
		return EventResourceCreated
	}
}
