// Package lesentan is the public surface of the deinflection engine: the
// three query operations of the specification (transform,
// condition_flags_of, conditions_match) plus the constructor and loader
// that assemble them. It is a thin shim over internal/condition,
// internal/descriptor and internal/transform — mirroring how the teacher
// codebase keeps its domain logic in internal/ packages and exposes only a
// narrow, wiring-focused surface to cmd/.
package lesentan

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Casheeew/lesen-tan/internal/condition"
	"github.com/Casheeew/lesen-tan/internal/descriptor"
	"github.com/Casheeew/lesen-tan/internal/telemetry"
	"github.com/Casheeew/lesen-tan/internal/transform"
)

// CandidateState, Frame and Flags are re-exported so callers never need to
// import an internal/ package directly.
type (
	CandidateState = transform.CandidateState
	Frame          = transform.Frame
	Flags          = condition.Flags
)

// layer pairs one compiled descriptor with the search engine built over it.
type layer struct {
	compiled *descriptor.Compiled
	engine   *transform.Engine
}

// Engine is the deinflection engine described by §4 and §6: a constructor,
// a descriptor loader, and the three query operations. An Engine holds zero
// or more loaded descriptors ("layers"); Transform searches every layer and
// concatenates results in the order descriptors were added, so a caller
// serving more than one language can register each as its own descriptor.
// ConditionFlagsOf and ConditionsMatch operate against the most recently
// added descriptor's condition universe, since condition names are only
// meaningful within the descriptor that defined them — callers mixing
// languages should query a descriptor's own Engine view (see AddDescriptor's
// returned index) rather than the shared one.
//
// Engine is safe for concurrent use: AddDescriptor takes a write lock, every
// query operation that reads the loaded descriptors takes a read lock, and
// ConditionsMatch touches no Engine state at all, matching the transform engine's
// own immutable-after-construction design (§5).
type Engine struct {
	mu             sync.RWMutex
	layers         []*layer
	maxDepth       int
	useMaxOpt      bool
	visitedSetHint int
	logger         *zap.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithMaxTraceDepth overrides transform.DefaultMaxTraceDepth for every
// descriptor subsequently added to this Engine.
func WithMaxTraceDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
		e.useMaxOpt = true
	}
}

// WithLogger attaches a zap logger: every Transform call logs one debug
// event per rule application considered and one info summary at the end,
// via internal/telemetry. A nil logger (the default) disables this.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithVisitedSetHint pre-sizes each loaded layer's per-call visited-set map.
// It is a pure optimization hint (see transform.WithVisitedSetHint) and
// never changes Transform's result.
func WithVisitedSetHint(hint int) Option {
	return func(e *Engine) { e.visitedSetHint = hint }
}

// New returns an empty Engine. Descriptors must be loaded with AddDescriptor
// before Transform can find anything; an Engine with no descriptors is
// valid and simply returns the untouched source for any Transform call with
// a non-empty argument (the reflexivity guarantee of §8 still holds because
// Transform seeds its own result set, layers or not).
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadError wraps any failure encountered while parsing or compiling a
// descriptor, so callers can distinguish "bad JSON" from "bad domain rules"
// without inspecting the engine's internal packages.
type LoadError struct {
	Language string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Language != "" {
		return fmt.Sprintf("lesentan: load %q: %v", e.Language, e.Err)
	}
	return fmt.Sprintf("lesentan: load: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// AddDescriptor parses and compiles raw descriptor JSON and, on success,
// registers it as a new searchable layer. On failure the Engine is left
// exactly as it was: no partial application of a rejected descriptor ever
// occurs (§7).
//
// The returned index identifies the new layer for LayerConditionFlagsOf,
// for callers that load more than one language and need per-language
// condition queries.
func (e *Engine) AddDescriptor(raw []byte) (index int, err error) {
	var doc descriptor.RawDescriptor
	if err := json.Unmarshal(raw, &doc); err != nil {
		return -1, &LoadError{Err: err}
	}
	compiled, err := descriptor.Compile(&doc)
	if err != nil {
		return -1, &LoadError{Language: doc.Language, Err: err}
	}

	opts := e.engineOptions()
	l := &layer{compiled: compiled, engine: transform.New(compiled, opts...)}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.layers = append(e.layers, l)
	return len(e.layers) - 1, nil
}

func (e *Engine) engineOptions() []transform.Option {
	var opts []transform.Option
	if e.useMaxOpt {
		opts = append(opts, transform.WithMaxTraceDepth(e.maxDepth))
	}
	if e.visitedSetHint > 0 {
		opts = append(opts, transform.WithVisitedSetHint(e.visitedSetHint))
	}
	if e.logger != nil {
		logger := e.logger
		// A fresh Observer per Transform call, not one shared across the
		// layer's lifetime: otherwise every call — concurrent or sequential
		// — would log under the same correlation id (§5 guarantees callers
		// may run Transform concurrently against one Engine).
		opts = append(opts, transform.WithObserverFactory(func() transform.Observer {
			return telemetry.NewZapObserver(logger)
		}))
	}
	return opts
}

// Transform runs the breadth-first search of §4.3 against every loaded
// descriptor and concatenates their candidate sequences in descriptor-load
// order. With no descriptors loaded, it returns nil for an empty source and
// a single reflexive state otherwise — there is simply nothing to expand.
func (e *Engine) Transform(source string) []CandidateState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.layers) == 0 {
		if source == "" {
			return nil
		}
		return []CandidateState{{Text: source, Conditions: condition.All()}}
	}

	var out []CandidateState
	for _, l := range e.layers {
		out = append(out, l.engine.Transform(source)...)
	}
	return out
}

// ConditionFlagsOf resolves name against the most recently added
// descriptor's condition universe (§4.4's condition_flags_of).
func (e *Engine) ConditionFlagsOf(name string) (Flags, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.layers) == 0 {
		return Flags{}, fmt.Errorf("lesentan: %w: no descriptor loaded", condition.ErrUnknownCondition)
	}
	return e.layers[len(e.layers)-1].compiled.Universe.FlagsOf(name)
}

// LayerConditionFlagsOf is ConditionFlagsOf scoped to one loaded descriptor,
// identified by the index AddDescriptor returned for it.
func (e *Engine) LayerConditionFlagsOf(layerIndex int, name string) (Flags, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if layerIndex < 0 || layerIndex >= len(e.layers) {
		return Flags{}, fmt.Errorf("lesentan: layer index %d out of range", layerIndex)
	}
	return e.layers[layerIndex].compiled.Universe.FlagsOf(name)
}

// ConditionsMatch implements §4.4's conditions_match: it is pure and
// requires no loaded descriptor, since the acceptance predicate only
// depends on the two flag sets themselves.
func (e *Engine) ConditionsMatch(have, need Flags) bool {
	return condition.Matches(have, need)
}
