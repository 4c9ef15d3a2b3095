package controllers

import (
	"github.com/turboapi/turbo/pkg/auth"
	"github.com/turboapi/turbo/pkg/errors"
	"github.com/turboapi/turbo/pkg/schema"
	"github.com/turboapi/turbo/pkg/store"
)

// Operation names one lifecycle action for authorization decisions.
type Operation string

const (
	OpCreate     Operation = "create"
	OpGet        Operation = "get"
	OpGetActive  Operation = "getActive"
	OpGetAll     Operation = "getAll"
	OpGetByProp  Operation = "getByProp"
	OpGetByProps Operation = "getByProps"
	OpGetRecent  Operation = "getRecent"
	OpGetMine    Operation = "getMine"
	OpGetUser    Operation = "getUser"
	OpUpdate     Operation = "update"
	OpArchive    Operation = "archive"
	OpDearchive  Operation = "dearchive"
	OpDelete     Operation = "delete"
)

// Authorize decides whether the requester may perform op on the collection.
// Operations that compare ownership (update, archive, delete) need the
// existing document; callers resolve existence first, so a NotFound always
// precedes an Auth failure for mutations on a specific id.
//
// Authorization failures are always Auth errors, never Forbidden, so the
// response does not leak whether a document exists across cases.
func Authorize(op Operation, user *auth.User, col *schema.Collection, existing store.Document) error {
	opts := col.Options

	switch op {
	case OpCreate:
		// anonymous creates are only possible on collections that both
		// accept public posts and carry no requester metadata
		if user == nil && !(opts.IsPublicPost && opts.NoMetaData) {
			return errors.NewAuthError("user is not authenticated")
		}
		return nil

	case OpGet, OpGetActive, OpGetByProp, OpGetByProps, OpGetRecent:
		if opts.IsAdminOnly {
			return requireAdmin(user)
		}
		if opts.IsPublicGet {
			return nil
		}
		return requireAuthenticated(user)

	case OpGetMine:
		if opts.IsAdminOnly {
			return requireAdmin(user)
		}
		return requireAuthenticated(user)

	case OpGetAll, OpGetUser, OpDearchive:
		return requireAdmin(user)

	case OpUpdate, OpArchive:
		return requireOwnerOrAdmin(user, existing)

	case OpDelete:
		if user != nil && user.Admin {
			return nil
		}
		if opts.AllowUserDelete {
			return requireOwnerOrAdmin(user, existing)
		}
		return errors.NewAuthError("user is not authenticated")

	default:
		return errors.NewInternalError("unknown operation: " + string(op))
	}
}

func requireAuthenticated(user *auth.User) error {
	if user == nil {
		return errors.NewAuthError("you must be logged in to see this")
	}
	return nil
}

func requireAdmin(user *auth.User) error {
	if user == nil || !user.Admin {
		return errors.NewAuthError("user is not authenticated")
	}
	return nil
}

func requireOwnerOrAdmin(user *auth.User, existing store.Document) error {
	if user == nil {
		return errors.NewAuthError("user is not authenticated")
	}
	if user.Admin || user.UID == existing.CreatedBy() {
		return nil
	}
	return errors.NewAuthError("user is not authenticated")
}
