// Package fixture embeds a small, self-contained Japanese transform
// descriptor used across the module's test suites. It is not a claim of
// linguistic completeness (per-language rule authoring is out of scope,
// per the specification's §1 non-goals) — it exists to exercise the engine
// mechanics: suffix chaining, condition gating, cycle termination, and the
// trace-depth bound.
package fixture

import _ "embed"

//go:embed sample_ja.json
var sampleJapaneseJSON []byte

// SampleJapaneseDescriptor returns the raw JSON bytes of the bundled sample
// descriptor. Callers must not mutate the returned slice.
func SampleJapaneseDescriptor() []byte {
	return sampleJapaneseJSON
}
