// Package telemetry adapts the transform engine's optional Observer hook to
// structured zap logging, the way the teacher codebase threads a
// *zap.Logger through its engines rather than using the standard log
// package.
package telemetry

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Casheeew/lesen-tan/internal/transform"
)

// ZapObserver logs one debug event per rule application considered and one
// info summary per Transform call. It never influences the search: the
// result of a Transform call is identical whether or not an observer is
// attached (§5 of the specification).
type ZapObserver struct {
	logger     *zap.Logger
	queryID    string
	considered int
}

var _ transform.Observer = (*ZapObserver)(nil)

// NewZapObserver builds an Observer backed by logger. Passing a nil logger
// is valid and makes every call a no-op, matching zap's own nil-safety
// conventions.
func NewZapObserver(logger *zap.Logger) *ZapObserver {
	return &ZapObserver{logger: logger, queryID: uuid.NewString()}
}

// RuleConsidered implements transform.Observer.
func (o *ZapObserver) RuleConsidered(rule string, variantIndex int, before string, accepted bool) {
	if o.logger == nil {
		return
	}
	o.considered++
	o.logger.Debug("rule considered",
		zap.String("query_id", o.queryID),
		zap.String("rule", rule),
		zap.Int("variant", variantIndex),
		zap.String("before", before),
		zap.Bool("accepted", accepted),
	)
}

// Finished implements transform.Observer.
func (o *ZapObserver) Finished(source string, emitted int, depthBoundHits int) {
	if o.logger == nil {
		return
	}
	o.logger.Info("transform finished",
		zap.String("query_id", o.queryID),
		zap.String("source", source),
		zap.Int("emitted", emitted),
		zap.Int("considered", o.considered),
		zap.Int("depth_bound_hits", depthBoundHits),
	)
}
