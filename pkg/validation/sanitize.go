package validation

import (
	"github.com/turboapi/turbo/pkg/schema"
	"github.com/turboapi/turbo/pkg/store"
)

// FilterByProps strips every field not in the allow-list. Idempotent:
// filtering an already-filtered document yields an identical result.
func FilterByProps(data store.Document, propNames []string) store.Document {
	filtered := store.Document{}
	for _, prop := range propNames {
		if value, ok := data[prop]; ok {
			filtered[prop] = value
		}
	}
	return filtered
}

// ApplyDefaults populates absent fields carrying a rule default. Runs before
// validation, so defaults are themselves validated.
func ApplyDefaults(data store.Document, rules map[string]*schema.Rule) store.Document {
	defaulted := data.Clone()
	if defaulted == nil {
		defaulted = store.Document{}
	}
	for prop, rule := range rules {
		if rule == nil || rule.Default == nil {
			continue
		}
		if value, ok := defaulted[prop]; !ok || value == nil {
			defaulted[prop] = rule.Default
		}
	}
	return defaulted
}
