// Package schema declares per-collection field rules and policy options.
// A Collection is the single source of truth for what a document may
// contain and who may operate on it.
package schema

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/turboapi/turbo/pkg/errors"
)

// Options modulate the authorization baseline per collection.
type Options struct {
	// IsAdminOnly restricts reads to admins regardless of public flags.
	IsAdminOnly bool
	// IsPublicGet lets anonymous requesters read single documents, active
	// lists and property queries.
	IsPublicGet bool
	// IsPublicPost lets anonymous requesters create documents, but only on
	// collections that also carry NoMetaData.
	IsPublicPost bool
	// NoMetaData suppresses created/createdBy/modified/modifiedBy stamping.
	NoMetaData bool
	// AllowUserDelete lets a document's creator delete it; otherwise
	// deletion is admin-only.
	AllowUserDelete bool
}

// CompositeUnique names a set of fields whose combined value must be unique
// within the collection.
type CompositeUnique struct {
	Name   string
	Fields []string
}

// Collection binds a name, a property allow-list, field rules and policy
// options.
type Collection struct {
	Name            string
	Props           []string
	Rules           map[string]*Rule
	CompositeUnique []CompositeUnique
	Options         Options
}

func (c *Collection) HasProp(name string) bool {
	for _, prop := range c.Props {
		if prop == name {
			return true
		}
	}
	return false
}

// Validate rejects malformed schema definitions at load time so per-request
// validation never meets an unrecognized comparator or a bad pattern. Every
// failure is an internal error: a schema defect is a deploy problem, not a
// user one.
func (c *Collection) Validate() error {
	if c.Name == "" {
		return errors.NewInternalError("collection name is required")
	}

	for prop, rule := range c.Rules {
		if rule == nil {
			return c.defect(prop, "rule is nil")
		}
		if !c.HasProp(prop) {
			return c.defect(prop, "rule targets a property outside the allow-list")
		}
		if err := c.validateCondition(prop, rule.Required.When); err != nil {
			return err
		}
		if err := c.validateCondition(prop, rule.Condition); err != nil {
			return err
		}
		if rule.Format != "" {
			if _, err := regexp.Compile(rule.Format); err != nil {
				return c.defect(prop, fmt.Sprintf("invalid format pattern: %v", err))
			}
		}
	}

	for _, combo := range c.CompositeUnique {
		if len(combo.Fields) == 0 {
			return errors.NewInternalError(fmt.Sprintf(
				"schema for %s: composite unique rule %q has no fields", c.Name, combo.Name))
		}
		for _, field := range combo.Fields {
			if !c.HasProp(field) {
				return errors.NewInternalError(fmt.Sprintf(
					"schema for %s: composite unique rule %q targets unknown property %s",
					c.Name, combo.Name, field))
			}
		}
	}

	return nil
}

func (c *Collection) validateCondition(prop string, cond *Condition) error {
	if cond == nil {
		return nil
	}
	if cond.Base == "" {
		return c.defect(prop, "condition base must name a property")
	}
	if !cond.Op.valid() {
		return c.defect(prop, fmt.Sprintf("unsupported comparison operator %q", cond.Op))
	}
	if cond.Op == CompareOneOf {
		if cond.Target == nil || reflect.TypeOf(cond.Target).Kind() != reflect.Slice {
			return c.defect(prop, "oneOf condition target must be a list")
		}
	}
	return nil
}

func (c *Collection) defect(prop, reason string) error {
	return errors.NewInternalError(fmt.Sprintf("schema for %s: rule %s: %s", c.Name, prop, reason))
}
