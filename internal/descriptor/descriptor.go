// Package descriptor defines the wire format of a language transform
// descriptor (§6 of the specification) and compiles it into the searchable
// form the transform engine consumes.
package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawCondition is one entry of a descriptor's top-level "conditions" object.
type RawCondition struct {
	Name             string   `json:"name"`
	IsDictionaryForm bool     `json:"isDictionaryForm"`
	SubConditions    []string `json:"subConditions"`
}

// RawRule is one entry of a transform's "rules" array.
type RawRule struct {
	Type          string   `json:"type"`
	IsInflected   string   `json:"isInflected"`
	Deinflected   string   `json:"deinflected"`
	Deinflect     string   `json:"deinflect"` // legacy alias for Deinflected
	ConditionsIn  []string `json:"conditionsIn"`
	ConditionsOut []string `json:"conditionsOut"`
}

// RawTransform is one entry of a descriptor's top-level "transforms" object.
type RawTransform struct {
	Name  string    `json:"name"`
	Rules []RawRule `json:"rules"`
}

// RawDescriptor is the decoded JSON document described in §6. Conditions
// and Transforms preserve the key order of the source document: the
// engine's BFS tie-breaking rule ("rule-insertion order in the descriptor")
// depends on it, and a plain map[string]V would discard it.
type RawDescriptor struct {
	Language   string
	Conditions []NamedCondition
	Transforms []NamedTransform
}

// NamedCondition pairs a condition's map key with its definition. The key
// and Name field are usually identical; the key is authoritative.
type NamedCondition struct {
	Key   string
	Value RawCondition
}

// NamedTransform pairs a transform's map key with its definition.
type NamedTransform struct {
	Key   string
	Value RawTransform
}

// UnmarshalJSON decodes the descriptor while preserving the original key
// order of the "conditions" and "transforms" objects.
func (d *RawDescriptor) UnmarshalJSON(data []byte) error {
	var aux struct {
		Language   string          `json:"language"`
		Conditions json.RawMessage `json:"conditions"`
		Transforms json.RawMessage `json:"transforms"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("descriptor: malformed document: %w", err)
	}
	d.Language = aux.Language

	conds, err := decodeOrderedConditions(aux.Conditions)
	if err != nil {
		return err
	}
	d.Conditions = conds

	transforms, err := decodeOrderedTransforms(aux.Transforms)
	if err != nil {
		return err
	}
	d.Transforms = transforms
	return nil
}

func decodeOrderedConditions(raw json.RawMessage) ([]NamedCondition, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("descriptor: conditions: %w", err)
	}
	var out []NamedCondition
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("descriptor: conditions: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("descriptor: conditions: expected string key")
		}
		var val RawCondition
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("descriptor: conditions[%q]: %w", key, err)
		}
		out = append(out, NamedCondition{Key: key, Value: val})
	}
	return out, nil
}

func decodeOrderedTransforms(raw json.RawMessage) ([]NamedTransform, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("descriptor: transforms: %w", err)
	}
	var out []NamedTransform
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("descriptor: transforms: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("descriptor: transforms: expected string key")
		}
		var val RawTransform
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("descriptor: transforms[%q]: %w", key, err)
		}
		out = append(out, NamedTransform{Key: key, Value: val})
	}
	return out, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) (json.Delim, error) {
	tok, err := dec.Token()
	if err != nil {
		return 0, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != want {
		return 0, fmt.Errorf("expected %q", want)
	}
	return delim, nil
}
