package condition

import (
	"errors"
	"testing"
)

func TestRegisterExpandsSubConditions(t *testing.T) {
	defs := map[string]Def{
		"v5":   {Name: "v5", SubConditions: []string{"v5u", "v5k"}},
		"v5u":  {Name: "v5u"},
		"v5k":  {Name: "v5k"},
		"v1":   {Name: "v1", IsDictionaryForm: true},
	}
	u, err := Register(defs)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	v5, err := u.FlagsOf("v5")
	if err != nil {
		t.Fatalf("FlagsOf(v5): %v", err)
	}
	v5u, err := u.FlagsOf("v5u")
	if err != nil {
		t.Fatalf("FlagsOf(v5u): %v", err)
	}
	v5k, err := u.FlagsOf("v5k")
	if err != nil {
		t.Fatalf("FlagsOf(v5k): %v", err)
	}

	if !Matches(v5, v5u) {
		t.Errorf("expanded v5 should cover v5u's bit")
	}
	if !Matches(v5, v5k) {
		t.Errorf("expanded v5 should cover v5k's bit")
	}
	if Matches(v5u, v5k) {
		t.Errorf("v5u and v5k are siblings, not expected to intersect")
	}
	if !u.IsDictionaryForm("v1") {
		t.Errorf("v1 expected to be marked as dictionary form")
	}
}

func TestRegisterUnknownSubCondition(t *testing.T) {
	_, err := Register(map[string]Def{
		"v5": {Name: "v5", SubConditions: []string{"nope"}},
	})
	if !errors.Is(err, ErrUnknownConditionReference) {
		t.Fatalf("expected ErrUnknownConditionReference, got %v", err)
	}
}

func TestRegisterCycleDetected(t *testing.T) {
	_, err := Register(map[string]Def{
		"a": {Name: "a", SubConditions: []string{"b"}},
		"b": {Name: "b", SubConditions: []string{"a"}},
	})
	if !errors.Is(err, ErrConditionCycle) {
		t.Fatalf("expected ErrConditionCycle, got %v", err)
	}
}

func TestFlagsOfUnknown(t *testing.T) {
	u, err := Register(map[string]Def{"v1": {Name: "v1"}})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := u.FlagsOf("v99"); !errors.Is(err, ErrUnknownCondition) {
		t.Fatalf("expected ErrUnknownCondition, got %v", err)
	}
}

func TestMatchesSemantics(t *testing.T) {
	u, err := Register(map[string]Def{
		"v1": {Name: "v1"},
		"v5": {Name: "v5"},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	v1, _ := u.FlagsOf("v1")
	v5, _ := u.FlagsOf("v5")

	tests := []struct {
		name string
		have Flags
		need Flags
		want bool
	}{
		{"all matches anything", All(), v5, true},
		{"empty need matches anything", v1, Flags{}, true},
		{"disjoint bits reject", v1, v5, false},
		{"identical bits accept", v1, v1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.have, tt.need); got != tt.want {
				t.Errorf("Matches(%v, %v) = %v, want %v", tt.have, tt.need, got, tt.want)
			}
		})
	}
}

func TestFlagsWidensPastOneWord(t *testing.T) {
	defs := make(map[string]Def, 130)
	for i := 0; i < 130; i++ {
		defs[nthName(i)] = Def{Name: nthName(i)}
	}
	u, err := Register(defs)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	first, err := u.FlagsOf(nthName(0))
	if err != nil {
		t.Fatalf("FlagsOf: %v", err)
	}
	last, err := u.FlagsOf(nthName(129))
	if err != nil {
		t.Fatalf("FlagsOf: %v", err)
	}
	if Matches(first, last) {
		t.Errorf("129 conditions apart bits must not collide")
	}
	if !first.Test(0) {
		t.Errorf("first condition's own bit should be set")
	}
}

func nthName(i int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	return "cond_" + string(alphabet[i%26]) + string(rune('0'+i/26))
}
