package descriptor

import (
	"errors"
	"fmt"

	"github.com/Casheeew/lesen-tan/internal/condition"
)

// Kind is the tagged enumeration of match shapes a Variant can have (§9:
// "a flat record with an enum tag is faster and simpler" than polymorphic
// variant objects).
type Kind int

const (
	// KindSuffix requires the candidate text to end with PatternIn.
	KindSuffix Kind = iota
	// KindPrefix requires the candidate text to start with PatternIn.
	KindPrefix
	// KindWholeword requires the candidate text to equal PatternIn exactly.
	KindWholeword
	// KindOther is reserved for implementation extensions; the engine
	// treats it as inapplicable and offers no hook for handling it.
	KindOther
)

func parseKind(s string) (Kind, error) {
	switch s {
	case "suffix":
		return KindSuffix, nil
	case "prefix":
		return KindPrefix, nil
	case "wholeword":
		return KindWholeword, nil
	case "other":
		return KindOther, nil
	default:
		return 0, fmt.Errorf("%w: unknown variant type %q", ErrMalformedVariant, s)
	}
}

func (k Kind) String() string {
	switch k {
	case KindSuffix:
		return "suffix"
	case KindPrefix:
		return "prefix"
	case KindWholeword:
		return "wholeword"
	default:
		return "other"
	}
}

// Variant is one concrete suffix/prefix/wholeword substitution, with its
// condition references already resolved to bitmasks.
type Variant struct {
	Kind          Kind
	PatternIn     string
	Replacement   string
	ConditionsIn  condition.Flags
	ConditionsOut condition.Flags
}

// Rule is a named transform: an ordered list of independent Variant
// alternatives.
type Rule struct {
	Name     string
	Variants []Variant
}

// Compiled is the engine-ready form of a descriptor: the condition universe
// plus the rule table in descriptor-insertion order. After Compile returns,
// no further name lookups occur during search.
type Compiled struct {
	Language string
	Universe *condition.Universe
	Rules    []*Rule
}

// Sentinel load errors (§7).
var (
	ErrUnknownCondition = condition.ErrUnknownCondition
	ErrMalformedVariant = errors.New("descriptor: malformed variant")
	ErrEmptyRule        = errors.New("descriptor: rule has no variants")
	ErrNoOpVariant      = errors.New("descriptor: no-op variant rejected at load time")
)

// Compile consumes a RawDescriptor and produces a Compiled engine state:
// the condition universe with its expanded flags, and a flat list of rules
// with variants resolved to bitmasks.
func Compile(raw *RawDescriptor) (*Compiled, error) {
	defs := make(map[string]condition.Def, len(raw.Conditions))
	for _, nc := range raw.Conditions {
		name := nc.Key
		if nc.Value.Name != "" {
			name = nc.Value.Name
		}
		defs[nc.Key] = condition.Def{
			Name:             name,
			IsDictionaryForm: nc.Value.IsDictionaryForm,
			SubConditions:    nc.Value.SubConditions,
		}
	}

	universe, err := condition.Register(defs)
	if err != nil {
		return nil, err
	}

	compiled := &Compiled{Language: raw.Language, Universe: universe}

	for _, nt := range raw.Transforms {
		name := nt.Key
		if nt.Value.Name != "" {
			name = nt.Value.Name
		}
		if len(nt.Value.Rules) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyRule, name)
		}

		rule := &Rule{Name: name}
		for i, rr := range nt.Value.Rules {
			variant, err := compileVariant(universe, rr)
			if err != nil {
				return nil, fmt.Errorf("rule %q variant %d: %w", name, i, err)
			}
			rule.Variants = append(rule.Variants, variant)
		}
		compiled.Rules = append(compiled.Rules, rule)
	}

	return compiled, nil
}

func compileVariant(universe *condition.Universe, rr RawRule) (Variant, error) {
	kind, err := parseKind(rr.Type)
	if err != nil {
		return Variant{}, err
	}

	replacement := rr.Deinflected
	if replacement == "" {
		replacement = rr.Deinflect
	}

	patternIn := ""
	switch kind {
	case KindSuffix, KindPrefix, KindWholeword:
		patternIn = rr.IsInflected
		if patternIn == "" {
			return Variant{}, fmt.Errorf("%w: %s variant missing pattern", ErrMalformedVariant, kind)
		}
	case KindOther:
		patternIn = rr.IsInflected
	}

	in, err := resolveFlags(universe, rr.ConditionsIn)
	if err != nil {
		return Variant{}, err
	}
	out, err := resolveFlags(universe, rr.ConditionsOut)
	if err != nil {
		return Variant{}, err
	}

	if patternIn == replacement && in.Equal(out) {
		return Variant{}, fmt.Errorf("%w: pattern %q == replacement with identical conditions", ErrNoOpVariant, patternIn)
	}

	return Variant{
		Kind:          kind,
		PatternIn:     patternIn,
		Replacement:   replacement,
		ConditionsIn:  in,
		ConditionsOut: out,
	}, nil
}

func resolveFlags(universe *condition.Universe, names []string) (condition.Flags, error) {
	out := condition.Flags{}
	for _, name := range names {
		f, err := universe.FlagsOf(name)
		if err != nil {
			return condition.Flags{}, err
		}
		out = out.Union(f)
	}
	return out, nil
}
