package telemetry

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapObserverLogsConsiderationsAndSummary(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	o := NewZapObserver(zap.New(core))

	o.RuleConsidered("past", 0, "食べた", true)
	o.RuleConsidered("past", 1, "食べた", false)
	o.Finished("食べた", 2, 0)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("got %d log entries, want 3", len(entries))
	}
	if entries[0].Message != "rule considered" || entries[1].Message != "rule considered" {
		t.Errorf("expected two 'rule considered' entries, got %q and %q", entries[0].Message, entries[1].Message)
	}
	if entries[2].Message != "transform finished" {
		t.Errorf("expected a 'transform finished' entry, got %q", entries[2].Message)
	}
}

func TestZapObserverWithNilLoggerIsANoOp(t *testing.T) {
	o := NewZapObserver(nil)
	o.RuleConsidered("past", 0, "食べた", true)
	o.Finished("食べた", 1, 0)
}

func TestNewZapObserverAssignsDistinctQueryIDs(t *testing.T) {
	a := NewZapObserver(nil)
	b := NewZapObserver(nil)
	if a.queryID == b.queryID {
		t.Error("expected distinct query ids across observers")
	}
}
