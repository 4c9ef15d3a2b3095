package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turboapi/turbo/pkg/auth"
	"github.com/turboapi/turbo/pkg/errors"
	"github.com/turboapi/turbo/pkg/schema"
	"github.com/turboapi/turbo/pkg/store"
)

var (
	anonymous *auth.User
	member    = &auth.User{UID: "u1"}
	other     = &auth.User{UID: "u2"}
	admin     = &auth.User{UID: "root", Admin: true}
)

func colWith(opts schema.Options) *schema.Collection {
	return &schema.Collection{Name: "posts", Props: []string{"title"}, Options: opts}
}

func TestAuthorize_Create(t *testing.T) {
	tests := []struct {
		name    string
		user    *auth.User
		opts    schema.Options
		wantErr bool
	}{
		{"authenticated user", member, schema.Options{}, false},
		{"admin", admin, schema.Options{}, false},
		{"anonymous rejected", anonymous, schema.Options{}, true},
		{"anonymous with public post only", anonymous, schema.Options{IsPublicPost: true}, true},
		{"anonymous with no metadata only", anonymous, schema.Options{NoMetaData: true}, true},
		{"anonymous with public post and no metadata", anonymous, schema.Options{IsPublicPost: true, NoMetaData: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(OpCreate, tt.user, colWith(tt.opts), nil)
			if tt.wantErr {
				assert.True(t, errors.IsAuth(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthorize_Reads(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		user    *auth.User
		opts    schema.Options
		wantErr bool
	}{
		{"get requires auth", OpGet, anonymous, schema.Options{}, true},
		{"get with auth", OpGet, member, schema.Options{}, false},
		{"public get allows anonymous", OpGet, anonymous, schema.Options{IsPublicGet: true}, false},
		{"admin only overrides public get", OpGet, member, schema.Options{IsPublicGet: true, IsAdminOnly: true}, true},
		{"admin only allows admin", OpGet, admin, schema.Options{IsAdminOnly: true}, false},
		{"active list public", OpGetActive, anonymous, schema.Options{IsPublicGet: true}, false},
		{"by prop requires auth", OpGetByProp, anonymous, schema.Options{}, true},
		{"by props public", OpGetByProps, anonymous, schema.Options{IsPublicGet: true}, false},
		{"recent follows read policy", OpGetRecent, anonymous, schema.Options{IsPublicGet: true}, false},
		{"get all is admin only", OpGetAll, member, schema.Options{IsPublicGet: true}, true},
		{"get all allows admin", OpGetAll, admin, schema.Options{}, false},
		{"owner query is admin only", OpGetUser, member, schema.Options{}, true},
		{"mine requires auth", OpGetMine, anonymous, schema.Options{IsPublicGet: true}, true},
		{"mine with auth", OpGetMine, member, schema.Options{}, false},
		{"mine still gated by admin only", OpGetMine, member, schema.Options{IsAdminOnly: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.op, tt.user, colWith(tt.opts), nil)
			if tt.wantErr {
				assert.True(t, errors.IsAuth(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthorize_Ownership(t *testing.T) {
	owned := store.Document{store.FieldID: "d1", store.FieldCreatedBy: "u1"}

	tests := []struct {
		name    string
		op      Operation
		user    *auth.User
		opts    schema.Options
		wantErr bool
	}{
		{"owner may update", OpUpdate, member, schema.Options{}, false},
		{"non-owner may not update", OpUpdate, other, schema.Options{}, true},
		{"admin may update", OpUpdate, admin, schema.Options{}, false},
		{"anonymous may not update", OpUpdate, anonymous, schema.Options{}, true},
		{"owner may archive", OpArchive, member, schema.Options{}, false},
		{"non-owner may not archive", OpArchive, other, schema.Options{}, true},
		{"dearchive is admin only even for the owner", OpDearchive, member, schema.Options{}, true},
		{"dearchive allows admin", OpDearchive, admin, schema.Options{}, false},
		{"delete is admin only by default", OpDelete, member, schema.Options{}, true},
		{"delete allows admin", OpDelete, admin, schema.Options{}, false},
		{"allowUserDelete lets the owner delete", OpDelete, member, schema.Options{AllowUserDelete: true}, false},
		{"allowUserDelete does not extend to others", OpDelete, other, schema.Options{AllowUserDelete: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.op, tt.user, colWith(tt.opts), owned)
			if tt.wantErr {
				assert.True(t, errors.IsAuth(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthorize_UnknownOperation(t *testing.T) {
	err := Authorize(Operation("explode"), admin, colWith(schema.Options{}), nil)
	assert.True(t, errors.IsInternal(err))
}
