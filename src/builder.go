package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	Builder / scope discipline: every freshly constructed
 *		node self-registers with the active builder; Build() runs
 *		the full lowering pipeline and returns a finalized
 *		Definition.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"sync/atomic"
)

var builderCounter uint64

// Builder is a single-threaded scope that accumulates nodes in insertion
// order. It must not be shared between goroutines; use one Builder per
// goroutine (spec.md section 5).
type Builder struct {
	id         uint64
	nodes      []*Node
	paramNames map[string]bool
	firstErr   error
}

// NewBuilder creates an empty builder with a fresh scope identity.
func NewBuilder() *Builder {
	return &Builder{
		id:         atomic.AddUint64(&builderCounter, 1),
		paramNames: map[string]bool{},
	}
}

// Enter pushes b onto the calling goroutine's builder stack, making it the
// target of subsequent node construction.
func (b *Builder) Enter() {
	pushBuilder(b)
}

// Exit pops the calling goroutine's builder stack. It must be paired with
// an Enter on the same goroutine.
func (b *Builder) Exit() {
	popBuilder()
}

// fail records the first error encountered during construction. Later
// errors are dropped -- the first cause is almost always the useful one,
// and only the first is ever surfaced since Build stops there anyway.
func (b *Builder) fail(err error) {
	if b.firstErr == nil {
		b.firstErr = err
	}
}

// registerParameter records a Parameter node's name for duplicate
// detection, per spec.md's DuplicateParameter failure.
func (b *Builder) registerParameter(name string) error {
	if b.paramNames[name] {
		return newError(ErrDuplicateParameter, fmt.Sprintf("parameter %q already registered in this builder", name))
	}
	b.paramNames[name] = true
	return nil
}

// Scope runs fn with b as the active builder for the calling goroutine,
// then exits regardless of whether fn panics. Convenience wrapper around
// Enter/Exit for the common case.
func (b *Builder) Scope(fn func()) {
	b.Enter()
	defer b.Exit()
	fn()
}

// BuildGraph is sugar for the common "new builder, construct, build"
// sequence: it creates a builder, runs fn inside its scope, and finalizes
// the result under the given name.
func BuildGraph(name string, fn func(), opts ...BuildOption) (*Definition, error) {
	b := NewBuilder()
	b.Scope(fn)
	return b.Build(name, opts...)
}

// buildOptions holds Build's optional behavior, set via BuildOption
// functions.
type buildOptions struct {
	eliminateDeadCode bool
}

// BuildOption customizes a single Build call.
type BuildOption func(*buildOptions)

// WithDeadCodeElimination toggles the section 4.8 pass. It runs by
// default; pass WithDeadCodeElimination(false) to inspect the
// unoptimized linearization (e.g. in tests asserting on exact node
// counts before elimination).
func WithDeadCodeElimination(enabled bool) BuildOption {
	return func(o *buildOptions) { o.eliminateDeadCode = enabled }
}

// Build deep-clones the accumulated node set, lowers parameters into
// aggregate-control nodes, inserts the scratch-capacity node, linearizes
// the graph, optionally eliminates dead code, and wraps the result into
// an immutable Definition. The builder itself is left untouched and
// remains reusable for further construction/Build calls.
func (b *Builder) Build(name string, opts ...BuildOption) (*Definition, error) {
	options := buildOptions{eliminateDeadCode: true}
	for _, opt := range opts {
		opt(&options)
	}

	if b.firstErr != nil {
		return nil, b.firstErr
	}
	if len(b.nodes) == 0 {
		return nil, newError(ErrEmptyGraph, "build called on a builder that registered no nodes")
	}

	logger.Debug("build: start", "name", name, "nodes", len(b.nodes))

	nodes := cloneGraph(b.nodes)

	nodes, params, err := lowerParameters(nodes)
	if err != nil {
		return nil, err
	}
	logger.Debug("build: lowered parameters", "name", name, "nodes", len(nodes), "params", len(params))

	nodes = insertScratchCapacity(nodes)
	logger.Debug("build: scratch-capacity pass done", "name", name, "nodes", len(nodes))

	sorted, err := topoSort(nodes)
	if err != nil {
		return nil, err
	}
	logger.Debug("build: sorted", "name", name, "nodes", len(sorted))

	if options.eliminateDeadCode {
		before := len(sorted)
		sorted = eliminateDeadCode(sorted)
		logger.Debug("build: dead-code elimination done", "name", name, "removed", before-len(sorted))
	}

	return newDefinition(name, sorted, params)
}
