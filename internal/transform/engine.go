// Package transform implements the breadth-first deinflection search: the
// core of the engine, which explores every rule application that could
// have derived a surface string from some less-inflected candidate.
package transform

import (
	"github.com/Casheeew/lesen-tan/internal/condition"
	"github.com/Casheeew/lesen-tan/internal/descriptor"
)

// DefaultMaxTraceDepth bounds how many rule applications a single chain may
// accumulate before the engine stops expanding it further (§4.3's cycle
// guard #2). The state is still emitted; it simply is not used to seed
// further work.
const DefaultMaxTraceDepth = 16

// Frame is one link of a CandidateState's derivation trace: the rule that
// was applied, and the text it was applied to.
type Frame struct {
	Rule       string
	TextBefore string
}

// CandidateState is a (text, conditions, trace) triple yielded by
// Transform. States are never mutated after creation.
type CandidateState struct {
	Text       string
	Conditions condition.Flags
	Trace      []Frame
}

// Observer receives optional, purely informational callbacks during a
// Transform call. It exists for diagnostics only: the search's result is
// identical with or without an Observer attached (§5 — transform performs
// no I/O and its correctness never depends on the observer).
type Observer interface {
	// RuleConsidered is called once per (rule, variant) pair examined
	// against a work-list entry, reporting whether it was accepted.
	RuleConsidered(rule string, variantIndex int, before string, accepted bool)
	// Finished is called once, after the work list drains.
	Finished(source string, emitted int, depthBoundHits int)
}

// Engine runs the BFS search over a single compiled descriptor. Engine is
// immutable after construction and safe for concurrent use by any number
// of callers (§5): each Transform call owns its own work list and visited
// set.
type Engine struct {
	compiled        *descriptor.Compiled
	maxTraceDepth   int
	visitedSetHint  int
	observer        Observer
	observerFactory ObserverFactory
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithMaxTraceDepth overrides DefaultMaxTraceDepth.
func WithMaxTraceDepth(depth int) Option {
	return func(e *Engine) { e.maxTraceDepth = depth }
}

// WithVisitedSetHint pre-sizes each Transform call's visited-set map. It is
// a pure optimization hint — it never changes which states are found or in
// what order, only how many times the map reallocates while filling.
func WithVisitedSetHint(hint int) Option {
	return func(e *Engine) { e.visitedSetHint = hint }
}

// WithObserver attaches a single Observer instance, reused across every
// Transform call made on this Engine. Passing nil is equivalent to
// omitting the option. Use WithObserverFactory instead when an observer
// needs fresh per-call identity (e.g. a log correlation id).
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// ObserverFactory builds a fresh Observer for one Transform call. It exists
// so callers needing per-call identity (a correlation id, a request-scoped
// counter) don't have to share one Observer's state across concurrent or
// sequential calls (§5's concurrency guarantee means nothing stops two
// Transform calls from running at once).
type ObserverFactory func() Observer

// WithObserverFactory attaches a factory invoked once at the start of every
// Transform call; its result is used as that call's Observer instead of any
// Observer passed via WithObserver.
func WithObserverFactory(f ObserverFactory) Option {
	return func(e *Engine) { e.observerFactory = f }
}

// New builds an Engine over a compiled descriptor.
func New(compiled *descriptor.Compiled, opts ...Option) *Engine {
	e := &Engine{compiled: compiled, maxTraceDepth: DefaultMaxTraceDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type workItem struct {
	text       string
	conditions condition.Flags
	trace      []Frame
}

// Transform enumerates every (text, conditions, trace) state reachable from
// source by repeatedly applying the descriptor's rules, in breadth-first
// (shortest trace first) order, ties broken by rule- and then variant-
// insertion order. The first yielded state is always (source, ALL, nil).
//
// Transform never fails: an empty source yields an empty sequence, and any
// other input always yields at least itself.
func (e *Engine) Transform(source string) []CandidateState {
	obs := e.observer
	if e.observerFactory != nil {
		obs = e.observerFactory()
	}

	if source == "" {
		if obs != nil {
			obs.Finished(source, 0, 0)
		}
		return nil
	}

	visited := make(map[string]struct{}, e.visitedSetHint)
	visited[visitKey(source, condition.All())] = struct{}{}
	queue := []workItem{{text: source, conditions: condition.All()}}

	var out []CandidateState
	depthBoundHits := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		out = append(out, CandidateState{
			Text:       cur.text,
			Conditions: cur.conditions,
			Trace:      cur.trace,
		})

		if len(cur.trace) >= e.maxTraceDepth {
			depthBoundHits++
			continue
		}

		for _, rule := range e.compiled.Rules {
			for vi, variant := range rule.Variants {
				accepted := condition.Matches(cur.conditions, variant.ConditionsIn)
				var nextText string
				if accepted {
					var ok bool
					nextText, ok = apply(cur.text, variant)
					accepted = ok
				}
				if obs != nil {
					obs.RuleConsidered(rule.Name, vi, cur.text, accepted)
				}
				if !accepted {
					continue
				}

				key := visitKey(nextText, variant.ConditionsOut)
				if _, seen := visited[key]; seen {
					continue
				}
				visited[key] = struct{}{}

				trace := make([]Frame, len(cur.trace), len(cur.trace)+1)
				copy(trace, cur.trace)
				trace = append(trace, Frame{Rule: rule.Name, TextBefore: cur.text})

				queue = append(queue, workItem{
					text:       nextText,
					conditions: variant.ConditionsOut,
					trace:      trace,
				})
			}
		}
	}

	if obs != nil {
		obs.Finished(source, len(out), depthBoundHits)
	}
	return out
}

func visitKey(text string, conditions condition.Flags) string {
	return text + "\x00" + conditions.Key()
}
