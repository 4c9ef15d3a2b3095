package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turboapi/turbo/pkg/errors"
	"github.com/turboapi/turbo/pkg/schema"
	"github.com/turboapi/turbo/pkg/store"
	"github.com/turboapi/turbo/pkg/store/memory"
)

func TestValidate_NilData(t *testing.T) {
	col := &schema.Collection{Name: "posts", Props: []string{"title"}}
	err := Validate(context.Background(), nil, col, nil)
	assert.True(t, errors.IsValidation(err))
}

func TestValidate_Required(t *testing.T) {
	col := &schema.Collection{
		Name:  "posts",
		Props: []string{"title"},
		Rules: map[string]*schema.Rule{
			"title": schema.StringRule(1, 50, schema.Required(), false),
		},
	}
	ctx := context.Background()

	assert.NoError(t, Validate(ctx, store.Document{"title": "hello"}, col, nil))

	err := Validate(ctx, store.Document{}, col, nil)
	assert.True(t, errors.IsValidation(err))

	err = Validate(ctx, store.Document{"title": nil}, col, nil)
	assert.True(t, errors.IsValidation(err))
}

func TestValidate_ConditionalRequirement(t *testing.T) {
	// slug is required exactly when kind == "article"
	col := &schema.Collection{
		Name:  "posts",
		Props: []string{"kind", "slug"},
		Rules: map[string]*schema.Rule{
			"slug": schema.StringRule(1, 30, schema.RequiredWhen("kind", schema.CompareEq, "article"), false),
		},
	}
	ctx := context.Background()

	assert.NoError(t, Validate(ctx, store.Document{"kind": "article", "slug": "a"}, col, nil))
	assert.NoError(t, Validate(ctx, store.Document{"kind": "note"}, col, nil))
	assert.NoError(t, Validate(ctx, store.Document{"kind": "note", "slug": "a"}, col, nil))

	err := Validate(ctx, store.Document{"kind": "article"}, col, nil)
	assert.True(t, errors.IsValidation(err))
}

func TestValidate_BindingCondition(t *testing.T) {
	// with a binding condition the field must be present iff the condition
	// holds - both directions are violations
	col := &schema.Collection{
		Name:  "posts",
		Props: []string{"kind", "slug"},
		Rules: map[string]*schema.Rule{
			"slug": {
				Type:      schema.TypeString,
				Condition: &schema.Condition{Base: "kind", Op: schema.CompareEq, Target: "article"},
			},
		},
	}
	ctx := context.Background()

	assert.NoError(t, Validate(ctx, store.Document{"kind": "article", "slug": "a"}, col, nil))
	assert.NoError(t, Validate(ctx, store.Document{"kind": "note"}, col, nil))

	err := Validate(ctx, store.Document{"kind": "article"}, col, nil)
	assert.True(t, errors.IsValidation(err))

	err = Validate(ctx, store.Document{"kind": "note", "slug": "a"}, col, nil)
	assert.True(t, errors.IsValidation(err))
}

func TestValidate_ConditionTargetResolvesFields(t *testing.T) {
	// target naming a present field compares field against field
	col := &schema.Collection{
		Name:  "events",
		Props: []string{"start", "end", "note"},
		Rules: map[string]*schema.Rule{
			"note": schema.StringRule(0, 100, schema.RequiredWhen("start", schema.CompareGt, "end"), false),
		},
	}
	ctx := context.Background()

	err := Validate(ctx, store.Document{"start": 10, "end": 5}, col, nil)
	assert.True(t, errors.IsValidation(err))

	assert.NoError(t, Validate(ctx, store.Document{"start": 5, "end": 10}, col, nil))
}

func TestValidate_TypeChecks(t *testing.T) {
	col := &schema.Collection{
		Name:  "posts",
		Props: []string{"title", "views", "draft"},
		Rules: map[string]*schema.Rule{
			"title": schema.StringRule(0, 0, schema.Optional(), false),
			"views": schema.NumberRule(0, 0, schema.Optional()),
			"draft": schema.BoolRule(schema.Optional()),
		},
	}
	ctx := context.Background()

	assert.NoError(t, Validate(ctx, store.Document{"title": "x", "views": 3, "draft": true}, col, nil))
	assert.NoError(t, Validate(ctx, store.Document{"views": 3.5}, col, nil))

	assert.True(t, errors.IsValidation(Validate(ctx, store.Document{"title": 1}, col, nil)))
	assert.True(t, errors.IsValidation(Validate(ctx, store.Document{"views": "3"}, col, nil)))
	assert.True(t, errors.IsValidation(Validate(ctx, store.Document{"draft": "yes"}, col, nil)))
}

func TestValidate_Length(t *testing.T) {
	col := &schema.Collection{
		Name:  "posts",
		Props: []string{"title", "tags"},
		Rules: map[string]*schema.Rule{
			"title": schema.StringRule(2, 5, schema.Optional(), false),
			"tags":  {MinLength: 1, MaxLength: 3},
		},
	}
	ctx := context.Background()

	assert.NoError(t, Validate(ctx, store.Document{"title": "abc"}, col, nil))
	assert.NoError(t, Validate(ctx, store.Document{"tags": []any{"a", "b"}}, col, nil))

	assert.True(t, errors.IsValidation(Validate(ctx, store.Document{"title": "a"}, col, nil)))
	assert.True(t, errors.IsValidation(Validate(ctx, store.Document{"title": "abcdef"}, col, nil)))
	assert.True(t, errors.IsValidation(Validate(ctx, store.Document{"tags": []any{}}, col, nil)))
	// length checks only apply to strings and arrays
	assert.True(t, errors.IsValidation(Validate(ctx, store.Document{"tags": 7}, col, nil)))
}

func TestValidate_Range(t *testing.T) {
	col := &schema.Collection{
		Name:  "posts",
		Props: []string{"rating"},
		Rules: map[string]*schema.Rule{
			"rating": schema.NumberRule(1, 5, schema.Optional()),
		},
	}
	ctx := context.Background()

	assert.NoError(t, Validate(ctx, store.Document{"rating": 1}, col, nil))
	assert.NoError(t, Validate(ctx, store.Document{"rating": 5}, col, nil))

	assert.True(t, errors.IsValidation(Validate(ctx, store.Document{"rating": 0.5}, col, nil)))
	assert.True(t, errors.IsValidation(Validate(ctx, store.Document{"rating": 6}, col, nil)))
	assert.True(t, errors.IsValidation(Validate(ctx, store.Document{"rating": "high"}, col, nil)))
}

func TestValidate_Enum(t *testing.T) {
	col := &schema.Collection{
		Name:  "posts",
		Props: []string{"kind", "level"},
		Rules: map[string]*schema.Rule{
			"kind":  schema.EnumRule([]any{"note", "article"}, schema.Optional(), false),
			"level": schema.EnumRule([]any{1, 2, 3}, schema.Optional(), true),
		},
	}
	ctx := context.Background()

	assert.NoError(t, Validate(ctx, store.Document{"kind": "note"}, col, nil))
	// JSON decoding yields float64; enum membership must still hold
	assert.NoError(t, Validate(ctx, store.Document{"level": float64(2)}, col, nil))

	assert.True(t, errors.IsValidation(Validate(ctx, store.Document{"kind": "movie"}, col, nil)))
	assert.True(t, errors.IsValidation(Validate(ctx, store.Document{"level": 4}, col, nil)))
}

func TestValidate_Format(t *testing.T) {
	col := &schema.Collection{
		Name:  "users",
		Props: []string{"email"},
		Rules: map[string]*schema.Rule{
			"email": {Type: schema.TypeString, Format: `^[^@\s]+@[^@\s]+$`},
		},
	}
	ctx := context.Background()

	assert.NoError(t, Validate(ctx, store.Document{"email": "a@x.com"}, col, nil))
	assert.True(t, errors.IsValidation(Validate(ctx, store.Document{"email": "nope"}, col, nil)))
}

func TestValidate_ForeignKey(t *testing.T) {
	ctx := context.Background()
	db := memory.NewMemoryStore()
	owner, err := db.CreateDocument(ctx, "users", store.Document{"name": "A"}, "system", false)
	require.NoError(t, err)

	col := &schema.Collection{
		Name:  "posts",
		Props: []string{"ownerId"},
		Rules: map[string]*schema.Rule{
			"ownerId": schema.ForeignKeyRule("users", schema.Required(), false),
		},
	}

	assert.NoError(t, Validate(ctx, store.Document{"ownerId": owner.ID()}, col, db))

	err = Validate(ctx, store.Document{"ownerId": "ghost"}, col, db)
	assert.True(t, errors.IsValidation(err))

	// missing collaborator is an infrastructure failure, not a data one
	err = Validate(ctx, store.Document{"ownerId": owner.ID()}, col, nil)
	assert.True(t, errors.IsService(err))
}

func TestValidate_Uniqueness(t *testing.T) {
	ctx := context.Background()
	db := memory.NewMemoryStore()

	col := &schema.Collection{
		Name:  "users",
		Props: []string{"email"},
		Rules: map[string]*schema.Rule{
			"email": schema.StringRule(0, 0, schema.Optional(), true),
		},
	}

	assert.NoError(t, Validate(ctx, store.Document{"email": "a@x.com"}, col, db))

	_, err := db.CreateDocument(ctx, "users", store.Document{"email": "a@x.com"}, "u1", false)
	require.NoError(t, err)

	err = Validate(ctx, store.Document{"email": "a@x.com"}, col, db)
	assert.True(t, errors.IsValidation(err))

	err = Validate(ctx, store.Document{"email": "b@x.com"}, col, db)
	assert.NoError(t, err)
}

func TestValidate_CompositeUniqueness(t *testing.T) {
	ctx := context.Background()
	db := memory.NewMemoryStore()

	col := &schema.Collection{
		Name:  "pages",
		Props: []string{"orgId", "slug"},
		CompositeUnique: []schema.CompositeUnique{
			{Name: "orgSlug", Fields: []string{"orgId", "slug"}},
		},
	}

	_, err := db.CreateDocument(ctx, "pages", store.Document{"orgId": "o1", "slug": "home"}, "u1", false)
	require.NoError(t, err)

	// a composite clash is a data conflict, not a malformed request
	err = Validate(ctx, store.Document{"orgId": "o1", "slug": "home"}, col, db)
	assert.True(t, errors.IsForbidden(err))

	assert.NoError(t, Validate(ctx, store.Document{"orgId": "o2", "slug": "home"}, col, db))
}

func TestValidate_SchemaScenario(t *testing.T) {
	// name: required string 1-50, email: unique string, ownerId: fkey->users
	ctx := context.Background()
	db := memory.NewMemoryStore()
	owner, err := db.CreateDocument(ctx, "users", store.Document{"name": "owner"}, "system", false)
	require.NoError(t, err)

	col := &schema.Collection{
		Name:  "accounts",
		Props: []string{"name", "email", "ownerId"},
		Rules: map[string]*schema.Rule{
			"name":    schema.StringRule(1, 50, schema.Required(), false),
			"email":   schema.StringRule(0, 0, schema.Optional(), true),
			"ownerId": schema.ForeignKeyRule("users", schema.Required(), false),
		},
	}

	doc := store.Document{"name": "A", "email": "a@x.com", "ownerId": owner.ID()}
	require.NoError(t, Validate(ctx, doc, col, db))

	_, err = db.CreateDocument(ctx, "accounts", doc, "u1", false)
	require.NoError(t, err)

	err = Validate(ctx, doc, col, db)
	assert.True(t, errors.IsValidation(err))
}

func TestValidate_MalformedRules(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported comparator", func(t *testing.T) {
		col := &schema.Collection{
			Name:  "posts",
			Props: []string{"kind", "slug"},
			Rules: map[string]*schema.Rule{
				"slug": schema.StringRule(0, 0, schema.RequiredWhen("kind", "~=", "article"), false),
			},
		}
		err := Validate(ctx, store.Document{"kind": "article", "slug": "a"}, col, nil)
		assert.True(t, errors.IsInternal(err))
	})

	t.Run("condition base not a property", func(t *testing.T) {
		col := &schema.Collection{
			Name:  "posts",
			Props: []string{"slug"},
			Rules: map[string]*schema.Rule{
				"slug": schema.StringRule(0, 0, schema.RequiredWhen("missing", schema.CompareEq, "x"), false),
			},
		}
		err := Validate(ctx, store.Document{"slug": "a"}, col, nil)
		assert.True(t, errors.IsInternal(err))
	})

	t.Run("oneOf target not a list", func(t *testing.T) {
		col := &schema.Collection{
			Name:  "posts",
			Props: []string{"kind", "slug"},
			Rules: map[string]*schema.Rule{
				"slug": schema.StringRule(0, 0, schema.RequiredWhen("kind", schema.CompareOneOf, "article"), false),
			},
		}
		err := Validate(ctx, store.Document{"kind": "article", "slug": "a"}, col, nil)
		assert.True(t, errors.IsInternal(err))
	})

	t.Run("nil rule", func(t *testing.T) {
		col := &schema.Collection{
			Name:  "posts",
			Props: []string{"slug"},
			Rules: map[string]*schema.Rule{"slug": nil},
		}
		err := Validate(ctx, store.Document{"slug": "a"}, col, nil)
		assert.True(t, errors.IsInternal(err))
	})
}

func TestValidate_OneOfCondition(t *testing.T) {
	col := &schema.Collection{
		Name:  "posts",
		Props: []string{"kind", "slug"},
		Rules: map[string]*schema.Rule{
			"slug": schema.StringRule(0, 0, schema.RequiredWhen("kind", schema.CompareOneOf, []any{"article", "page"}), false),
		},
	}
	ctx := context.Background()

	err := Validate(ctx, store.Document{"kind": "page"}, col, nil)
	assert.True(t, errors.IsValidation(err))

	assert.NoError(t, Validate(ctx, store.Document{"kind": "note"}, col, nil))
}
