// Package validation checks candidate documents against their collection's
// declarative rule set. Data-backed checks (foreign keys, uniqueness) go
// through the storage collaborator; everything else is pure.
package validation

import (
	"context"
	"fmt"
	"reflect"

	"github.com/turboapi/turbo/pkg/errors"
	"github.com/turboapi/turbo/pkg/schema"
	"github.com/turboapi/turbo/pkg/store"
	"github.com/turboapi/turbo/pkg/utils/strutil"
)

// Validate checks data against the collection's rules. Field rules run
// per field; composite uniqueness runs once per document. A nil db is only
// an error when a rule actually needs the store.
func Validate(ctx context.Context, data store.Document, col *schema.Collection, db store.DataService) error {
	if data == nil {
		return errors.NewValidationError("no data")
	}

	for prop, rule := range col.Rules {
		if err := validateProp(ctx, prop, data, rule, db, col.Name); err != nil {
			return err
		}
	}

	for _, combo := range col.CompositeUnique {
		if err := validateUniqueCombo(ctx, data, combo, db, col.Name); err != nil {
			return err
		}
	}
	return nil
}

func validateProp(ctx context.Context, prop string, data store.Document, rule *schema.Rule, db store.DataService, collection string) error {
	if rule == nil {
		return errors.NewInternalError(fmt.Sprintf("validation rules not formatted properly for %s - rule is nil", prop))
	}

	value, present := data[prop]
	valueIsNull := !present || value == nil

	required, err := evalRequirement(prop, data, rule.Required)
	if err != nil {
		return err
	}
	if required && valueIsNull {
		return errors.NewValidationError(fmt.Sprintf("prop %s is required but is null", prop))
	}

	// A binding condition demands presence exactly matching its truth
	// value: present when true, absent when false.
	if rule.Condition != nil {
		holds, err := evalCondition(prop, data, rule.Condition)
		if err != nil {
			return err
		}
		if holds == valueIsNull {
			return errors.NewValidationError(fmt.Sprintf("prop %s fails conditional requirement", prop))
		}
	}

	if valueIsNull {
		return nil
	}

	if err := validateType(prop, value, rule); err != nil {
		return err
	}
	if err := validateLength(prop, value, rule); err != nil {
		return err
	}
	if err := validateSize(prop, value, rule); err != nil {
		return err
	}
	if err := validateValue(prop, value, rule); err != nil {
		return err
	}
	if err := validateFormat(prop, value, rule); err != nil {
		return err
	}
	if err := validateForeignKey(ctx, prop, value, rule, db); err != nil {
		return err
	}
	return validateUniqueness(ctx, prop, value, rule, db, collection)
}

func validateType(prop string, value any, rule *schema.Rule) error {
	if rule.Type == "" {
		return nil
	}
	var ok bool
	switch rule.Type {
	case schema.TypeString:
		_, ok = value.(string)
	case schema.TypeNumber:
		_, ok = toFloat(value)
	case schema.TypeBoolean:
		_, ok = value.(bool)
	default:
		return errors.NewInternalError(fmt.Sprintf("validation rules not formatted properly for %s - unknown type %s", prop, rule.Type))
	}
	if !ok {
		return errors.NewValidationError(fmt.Sprintf("prop %s is a %T, should be a %s", prop, value, rule.Type))
	}
	return nil
}

func validateLength(prop string, value any, rule *schema.Rule) error {
	if rule.MinLength == 0 && rule.MaxLength == 0 {
		return nil
	}
	length, ok := lengthOf(value)
	if !ok {
		return errors.NewValidationError(fmt.Sprintf("type mismatch: %s is %T, cannot check max/min length", prop, value))
	}
	if rule.MinLength > 0 && length < rule.MinLength {
		return errors.NewValidationError(fmt.Sprintf("prop %s does not meet minimum length of %d", prop, rule.MinLength))
	}
	if rule.MaxLength > 0 && length > rule.MaxLength {
		return errors.NewValidationError(fmt.Sprintf("prop %s exceeds maximum length of %d", prop, rule.MaxLength))
	}
	return nil
}

func validateSize(prop string, value any, rule *schema.Rule) error {
	if rule.MinValue == 0 && rule.MaxValue == 0 {
		return nil
	}
	number, ok := toFloat(value)
	if !ok {
		return errors.NewValidationError(fmt.Sprintf("type mismatch: %s is %T, cannot check max/min value", prop, value))
	}
	if rule.MinValue != 0 && number < rule.MinValue {
		return errors.NewValidationError(fmt.Sprintf("prop %s does not meet minimum value of %v", prop, rule.MinValue))
	}
	if rule.MaxValue != 0 && number > rule.MaxValue {
		return errors.NewValidationError(fmt.Sprintf("prop %s exceeds maximum value of %v", prop, rule.MaxValue))
	}
	return nil
}

func validateValue(prop string, value any, rule *schema.Rule) error {
	if len(rule.Values) == 0 {
		return nil
	}
	if _, isString := value.(string); !isString {
		if _, isNumber := toFloat(value); !isNumber {
			return errors.NewValidationError(fmt.Sprintf("type mismatch: %s is %T, cannot use like an enum", prop, value))
		}
	}
	for _, allowed := range rule.Values {
		if looseEquals(value, allowed) {
			return nil
		}
	}
	return errors.NewValidationError(fmt.Sprintf("prop %s must be one of: %v", prop, rule.Values))
}

func validateFormat(prop string, value any, rule *schema.Rule) error {
	if rule.Format == "" {
		return nil
	}
	text, ok := value.(string)
	if !ok {
		return errors.NewValidationError(fmt.Sprintf("%s format cannot be validated - not a string", prop))
	}
	matched, err := rule.MatchFormat(text)
	if err != nil {
		return errors.NewInternalError(fmt.Sprintf("validation rules not formatted properly for %s - %v", prop, err))
	}
	if !matched {
		return errors.NewValidationError(fmt.Sprintf("%s value %s does not fit the required format", prop, text))
	}
	return nil
}

func validateForeignKey(ctx context.Context, prop string, value any, rule *schema.Rule, db store.DataService) error {
	if rule.Reference == "" {
		return nil
	}
	if db == nil {
		return errors.NewServiceError("cannot constrain foreign key - no database reference available")
	}
	doc, err := db.GetDocumentByID(ctx, rule.Reference, fmt.Sprintf("%v", value), false)
	if err != nil {
		return err
	}
	if doc == nil {
		return errors.NewValidationError(fmt.Sprintf("prop %s is not a valid foreign key", prop))
	}
	return nil
}

func validateUniqueness(ctx context.Context, prop string, value any, rule *schema.Rule, db store.DataService, collection string) error {
	if !rule.Unique {
		return nil
	}
	if db == nil {
		return errors.NewServiceError("cannot check for uniqueness - no data service available")
	}
	documents, err := db.GetDocumentsByProp(ctx, collection, prop, value, false)
	if err != nil {
		return err
	}
	if len(documents) > 0 {
		return errors.NewValidationError(fmt.Sprintf(
			"prop %s must be unique; the %s collection already contains an item with a value of %v",
			prop, collection, value))
	}
	return nil
}

func validateUniqueCombo(ctx context.Context, data store.Document, combo schema.CompositeUnique, db store.DataService, collection string) error {
	if db == nil {
		return errors.NewServiceError("cannot check for uniqueness - no data service available")
	}
	props := make(map[string]any, len(combo.Fields))
	for _, field := range combo.Fields {
		props[field] = data[field]
	}
	documents, err := db.GetDocumentsByProps(ctx, collection, props, false)
	if err != nil {
		return err
	}
	if len(documents) > 0 {
		return errors.NewForbiddenError(fmt.Sprintf("data is not unique in %s: %s", collection, strutil.ObjectToString(props)))
	}
	return nil
}

func evalRequirement(prop string, data store.Document, req schema.Requirement) (bool, error) {
	if req.Always {
		return true, nil
	}
	if req.When == nil {
		return false, nil
	}
	return evalCondition(prop, data, req.When)
}

// evalCondition resolves and applies a conditional-requirement tuple. The
// base must name a present field; the target is read from the document when
// it names a present field and used literally otherwise. Malformed tuples
// are schema defects, not user input errors.
func evalCondition(prop string, data store.Document, cond *schema.Condition) (bool, error) {
	if cond == nil {
		return false, nil
	}
	baseValue, ok := data[cond.Base]
	if !ok {
		return false, errors.NewInternalError(fmt.Sprintf(
			"validation rules not formatted properly for %s - condition base must be a property name", prop))
	}

	targetValue := cond.Target
	if name, isString := cond.Target.(string); isString {
		if resolved, present := data[name]; present {
			targetValue = resolved
		}
	}

	return compare(prop, baseValue, cond.Op, targetValue)
}

func compare(prop string, baseValue any, op schema.Comparator, targetValue any) (bool, error) {
	switch op {
	case schema.CompareEq:
		return looseEquals(baseValue, targetValue), nil
	case schema.CompareNe:
		return !looseEquals(baseValue, targetValue), nil
	case schema.CompareGt, schema.CompareGe, schema.CompareLt, schema.CompareLe:
		return compareOrdered(prop, baseValue, op, targetValue)
	case schema.CompareOneOf:
		target := reflect.ValueOf(targetValue)
		if targetValue == nil || target.Kind() != reflect.Slice {
			return false, errors.NewInternalError(fmt.Sprintf(
				"validation rules not formatted properly for %s - oneOf target must be a list", prop))
		}
		for i := 0; i < target.Len(); i++ {
			if looseEquals(baseValue, target.Index(i).Interface()) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, errors.NewInternalError(fmt.Sprintf("unsupported comparison operator for %s: %s", prop, op))
	}
}

func compareOrdered(prop string, baseValue any, op schema.Comparator, targetValue any) (bool, error) {
	if base, ok := toFloat(baseValue); ok {
		if target, tok := toFloat(targetValue); tok {
			return applyOrder(base, op, target), nil
		}
	}
	if base, ok := baseValue.(string); ok {
		if target, tok := targetValue.(string); tok {
			return applyOrderStrings(base, op, target), nil
		}
	}
	return false, errors.NewInternalError(fmt.Sprintf(
		"validation rules not formatted properly for %s - cannot order %T against %T", prop, baseValue, targetValue))
}

func applyOrder(base float64, op schema.Comparator, target float64) bool {
	switch op {
	case schema.CompareGt:
		return base > target
	case schema.CompareGe:
		return base >= target
	case schema.CompareLt:
		return base < target
	default:
		return base <= target
	}
}

func applyOrderStrings(base string, op schema.Comparator, target string) bool {
	switch op {
	case schema.CompareGt:
		return base > target
	case schema.CompareGe:
		return base >= target
	case schema.CompareLt:
		return base < target
	default:
		return base <= target
	}
}

func lengthOf(value any) (int, bool) {
	if text, ok := value.(string); ok {
		return len(text), true
	}
	v := reflect.ValueOf(value)
	if value != nil && v.Kind() == reflect.Slice {
		return v.Len(), true
	}
	return 0, false
}

// looseEquals tolerates the int/float64 mismatch introduced by JSON
// decoding; everything else compares by interface equality.
func looseEquals(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
