package lesentan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Casheeew/lesen-tan/internal/fixture"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAddDescriptorRejectsMalformedJSONWithoutMutatingEngine(t *testing.T) {
	e := New()
	_, err := e.AddDescriptor([]byte("not json"))
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Len(t, e.Transform("anything"), 1)
}

func TestAddDescriptorThenTransform(t *testing.T) {
	e := New()
	idx, err := e.AddDescriptor(fixture.SampleJapaneseDescriptor())
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	states := e.Transform("食べました")
	require.NotEmpty(t, states)
	assert.Equal(t, "食べました", states[0].Text)

	var foundLemma bool
	for _, s := range states {
		if s.Text == "食べる" {
			foundLemma = true
		}
	}
	assert.True(t, foundLemma, "expected 食べる among candidates")
}

func TestConditionFlagsOfRequiresALoadedDescriptor(t *testing.T) {
	e := New()
	_, err := e.ConditionFlagsOf("v1")
	require.Error(t, err)
}

func TestConditionFlagsOfAndConditionsMatch(t *testing.T) {
	e := New()
	_, err := e.AddDescriptor(fixture.SampleJapaneseDescriptor())
	require.NoError(t, err)

	v1, err := e.ConditionFlagsOf("v1")
	require.NoError(t, err)
	v5, err := e.ConditionFlagsOf("v5")
	require.NoError(t, err)

	assert.True(t, e.ConditionsMatch(v1, v1))
	assert.False(t, e.ConditionsMatch(v1, v5))
	assert.True(t, e.ConditionsMatch(v1, Flags{}))
}

func TestLayerConditionFlagsOfOutOfRange(t *testing.T) {
	e := New()
	_, err := e.AddDescriptor(fixture.SampleJapaneseDescriptor())
	require.NoError(t, err)
	_, err = e.LayerConditionFlagsOf(5, "v1")
	assert.Error(t, err)
}

func TestTransformWithNoDescriptorsIsReflexive(t *testing.T) {
	e := New()
	assert.Nil(t, e.Transform(""))
	states := e.Transform("食べました")
	require.Len(t, states, 1)
	assert.Equal(t, "食べました", states[0].Text)
}

func TestWithMaxTraceDepthAppliesToSubsequentDescriptors(t *testing.T) {
	e := New(WithMaxTraceDepth(1))
	_, err := e.AddDescriptor(fixture.SampleJapaneseDescriptor())
	require.NoError(t, err)

	states := e.Transform("かわいげ")
	// With depth capped at 1, only the source and one hop are explored.
	assert.Len(t, states, 2)
}

// Every Transform call must log under its own correlation id: reusing one
// Observer's id across calls would make concurrent or sequential queries
// against the same layer indistinguishable in the logs.
func TestWithLoggerAssignsAFreshQueryIDPerTransformCall(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := New(WithLogger(zap.New(core)))
	_, err := e.AddDescriptor(fixture.SampleJapaneseDescriptor())
	require.NoError(t, err)

	e.Transform("食べました")
	e.Transform("買わされる")

	var ids []string
	for _, entry := range logs.All() {
		if entry.Message != "transform finished" {
			continue
		}
		for _, f := range entry.Context {
			if f.Key == "query_id" {
				ids = append(ids, f.String)
			}
		}
	}
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1], "expected distinct query ids across Transform calls")
}
