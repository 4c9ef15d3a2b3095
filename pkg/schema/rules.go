package schema

import (
	"fmt"
	"regexp"
	"sync"
)

// FieldType tags the runtime type a field value must have.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
)

// Comparator is the operator of a conditional requirement.
type Comparator string

const (
	CompareEq    Comparator = "=="
	CompareNe    Comparator = "!="
	CompareGt    Comparator = ">"
	CompareGe    Comparator = ">="
	CompareLt    Comparator = "<"
	CompareLe    Comparator = "<="
	CompareOneOf Comparator = "oneOf"
)

func (c Comparator) valid() bool {
	switch c {
	case CompareEq, CompareNe, CompareGt, CompareGe, CompareLt, CompareLe, CompareOneOf:
		return true
	}
	return false
}

// Condition compares a base field of the candidate document against a
// target. The target resolves to another field of the same document when it
// names a present field, and is taken as a literal otherwise.
type Condition struct {
	Base   string
	Op     Comparator
	Target any
}

// Requirement says whether a field must be present: either always, or when a
// condition over the candidate document holds.
type Requirement struct {
	Always bool
	When   *Condition
}

func Required() Requirement { return Requirement{Always: true} }
func Optional() Requirement { return Requirement{} }

func RequiredWhen(base string, op Comparator, target any) Requirement {
	return Requirement{When: &Condition{Base: base, Op: op, Target: target}}
}

// Rule is the declarative constraint set for one field. Zero-valued bounds
// are treated as unset.
type Rule struct {
	Type      FieldType
	MinLength int
	MaxLength int
	MinValue  float64
	MaxValue  float64
	Values    []any
	Format    string
	Reference string
	Unique    bool
	Required  Requirement
	// Condition, when set, demands the field be present exactly when the
	// condition holds: present while true, absent while false. Stricter
	// than Required and configured independently of it.
	Condition *Condition
	Default   any

	formatOnce sync.Once
	format     *regexp.Regexp
	formatErr  error
}

// MatchFormat reports whether value matches the rule's Format pattern. The
// pattern is compiled once; a bad pattern is a schema defect.
func (r *Rule) MatchFormat(value string) (bool, error) {
	r.formatOnce.Do(func() {
		r.format, r.formatErr = regexp.Compile(r.Format)
	})
	if r.formatErr != nil {
		return false, fmt.Errorf("invalid format pattern %q: %v", r.Format, r.formatErr)
	}
	return r.format.MatchString(value), nil
}

// Rule constructors mirroring the shapes collection schemas are declared
// with. Use struct literals directly when a rule needs more than the common
// fields.

func StringRule(minLength, maxLength int, required Requirement, unique bool) *Rule {
	return &Rule{
		Type:      TypeString,
		MinLength: minLength,
		MaxLength: maxLength,
		Required:  required,
		Unique:    unique,
	}
}

func NumberRule(minValue, maxValue float64, required Requirement) *Rule {
	return &Rule{
		Type:     TypeNumber,
		MinValue: minValue,
		MaxValue: maxValue,
		Required: required,
	}
}

func BoolRule(required Requirement) *Rule {
	return &Rule{
		Type:     TypeBoolean,
		Required: required,
	}
}

func EnumRule(values []any, required Requirement, isNumber bool) *Rule {
	fieldType := TypeString
	if isNumber {
		fieldType = TypeNumber
	}
	return &Rule{
		Type:     fieldType,
		Values:   values,
		Required: required,
	}
}

func ForeignKeyRule(reference string, required Requirement, isNumber bool) *Rule {
	fieldType := TypeString
	if isNumber {
		fieldType = TypeNumber
	}
	return &Rule{
		Type:      fieldType,
		Reference: reference,
		Required:  required,
	}
}
