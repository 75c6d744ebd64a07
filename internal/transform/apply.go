package transform

import (
	"strings"

	"github.com/Casheeew/lesen-tan/internal/descriptor"
)

// apply rewrites text according to variant's match shape, reporting ok=false
// if the variant does not apply. It dispatches on the tagged Kind enum
// rather than through a polymorphic interface, matching how the variant
// table was compiled (§9).
func apply(text string, v descriptor.Variant) (string, bool) {
	switch v.Kind {
	case descriptor.KindSuffix:
		if !strings.HasSuffix(text, v.PatternIn) {
			return "", false
		}
		stem := text[:len(text)-len(v.PatternIn)]
		if stem == "" {
			return "", false
		}
		return stem + v.Replacement, true

	case descriptor.KindPrefix:
		if !strings.HasPrefix(text, v.PatternIn) {
			return "", false
		}
		stem := text[len(v.PatternIn):]
		if stem == "" {
			return "", false
		}
		return v.Replacement + stem, true

	case descriptor.KindWholeword:
		if text != v.PatternIn {
			return "", false
		}
		return v.Replacement, true

	default:
		// KindOther: unsupported by the core engine; callers that need an
		// extension must do so outside this package.
		return "", false
	}
}
