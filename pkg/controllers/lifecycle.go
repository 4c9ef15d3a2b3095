// Package controllers holds the policy-enforcing document lifecycle
// controller: every operation resolves identity, authorizes, shapes and
// validates the payload, calls the storage collaborator and emits an audit
// record.
package controllers

import (
	"context"
	"fmt"

	"github.com/turboapi/turbo/pkg/auth"
	"github.com/turboapi/turbo/pkg/errors"
	"github.com/turboapi/turbo/pkg/logging"
	"github.com/turboapi/turbo/pkg/schema"
	"github.com/turboapi/turbo/pkg/store"
	"github.com/turboapi/turbo/pkg/utils/strutil"
	"github.com/turboapi/turbo/pkg/validation"
)

// LifecycleController runs authorization-gated, validated CRUD operations
// for one collection. Documents move Active <-> Archived until deleted.
type LifecycleController interface {
	Create(ctx context.Context, data store.Document, user *auth.User) (store.Document, error)
	GetByID(ctx context.Context, id string, user *auth.User) (store.Document, error)
	GetActive(ctx context.Context, user *auth.User) ([]store.Document, error)
	GetAll(ctx context.Context, user *auth.User) ([]store.Document, error)
	GetByProp(ctx context.Context, prop string, value any, user *auth.User) ([]store.Document, error)
	GetByProps(ctx context.Context, props map[string]any, user *auth.User) ([]store.Document, error)
	GetRecent(ctx context.Context, limit int, user *auth.User) ([]store.Document, error)
	GetMine(ctx context.Context, user *auth.User) ([]store.Document, error)
	GetUserDocuments(ctx context.Context, ownerID string, user *auth.User) ([]store.Document, error)
	Update(ctx context.Context, id string, data store.Document, user *auth.User) (store.Document, error)
	Archive(ctx context.Context, id string, user *auth.User) (store.Document, error)
	Dearchive(ctx context.Context, id string, user *auth.User) (store.Document, error)
	Delete(ctx context.Context, id string, user *auth.User) error
}

type lifecycleController struct {
	col    *schema.Collection
	db     store.DataService
	logger logging.Logger
}

// NewLifecycleController validates the collection schema once at
// construction so malformed rules surface at startup, not per request.
func NewLifecycleController(col *schema.Collection, db store.DataService, logger logging.Logger) (LifecycleController, error) {
	if db == nil {
		return nil, errors.NewServiceError("no data service available")
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	if err := col.Validate(); err != nil {
		return nil, err
	}
	return &lifecycleController{
		col:    col,
		db:     db,
		logger: logger,
	}, nil
}

func (c *lifecycleController) Create(ctx context.Context, data store.Document, user *auth.User) (store.Document, error) {
	if err := Authorize(OpCreate, user, c.col, nil); err != nil {
		return nil, err
	}

	filtered := validation.FilterByProps(data, c.col.Props)
	defaulted := validation.ApplyDefaults(filtered, c.col.Rules)
	if err := validation.Validate(ctx, defaulted, c.col, c.db); err != nil {
		return nil, err
	}

	created, err := c.db.CreateDocument(ctx, c.col.Name, defaulted, requesterID(user), c.col.Options.NoMetaData)
	if err != nil {
		return nil, err
	}

	c.logger.Info(fmt.Sprintf("new item added to %s with ID %s by %s:\n%s",
		c.col.Name, created.ID(), requesterID(user), strutil.ObjectToString(created)))
	return created, nil
}

func (c *lifecycleController) GetByID(ctx context.Context, id string, user *auth.User) (store.Document, error) {
	if err := Authorize(OpGet, user, c.col, nil); err != nil {
		return nil, err
	}

	doc, err := c.db.GetDocumentByID(ctx, c.col.Name, id, false)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, c.notFound(id)
	}

	c.logger.Info(fmt.Sprintf("%s: %s retrieved by %s", c.col.Name, id, requesterID(user)))
	return doc, nil
}

func (c *lifecycleController) GetActive(ctx context.Context, user *auth.User) ([]store.Document, error) {
	if err := Authorize(OpGetActive, user, c.col, nil); err != nil {
		return nil, err
	}

	docs, err := c.db.GetActiveDocuments(ctx, c.col.Name)
	if err != nil {
		return nil, err
	}

	c.logger.Info(fmt.Sprintf("active %s retrieved by %s", c.col.Name, requesterID(user)))
	return docs, nil
}

func (c *lifecycleController) GetAll(ctx context.Context, user *auth.User) ([]store.Document, error) {
	if err := Authorize(OpGetAll, user, c.col, nil); err != nil {
		return nil, err
	}

	docs, err := c.db.GetAllDocuments(ctx, c.col.Name)
	if err != nil {
		return nil, err
	}

	c.logger.Info(fmt.Sprintf("all %s retrieved by user %s", c.col.Name, requesterID(user)))
	return docs, nil
}

func (c *lifecycleController) GetByProp(ctx context.Context, prop string, value any, user *auth.User) ([]store.Document, error) {
	if err := Authorize(OpGetByProp, user, c.col, nil); err != nil {
		return nil, err
	}

	docs, err := c.db.GetDocumentsByProp(ctx, c.col.Name, prop, value, false)
	if err != nil {
		return nil, err
	}

	c.logger.Info(fmt.Sprintf("%s where %s = %v retrieved by %s", c.col.Name, prop, value, requesterID(user)))
	return docs, nil
}

func (c *lifecycleController) GetByProps(ctx context.Context, props map[string]any, user *auth.User) ([]store.Document, error) {
	if err := Authorize(OpGetByProps, user, c.col, nil); err != nil {
		return nil, err
	}

	docs, err := c.db.GetDocumentsByProps(ctx, c.col.Name, props, false)
	if err != nil {
		return nil, err
	}

	c.logger.Info(fmt.Sprintf("%s where %s\n retrieved by %s", c.col.Name, strutil.ObjectToString(props), requesterID(user)))
	return docs, nil
}

func (c *lifecycleController) GetRecent(ctx context.Context, limit int, user *auth.User) ([]store.Document, error) {
	if err := Authorize(OpGetRecent, user, c.col, nil); err != nil {
		return nil, err
	}

	docs, err := c.db.GetRecentDocuments(ctx, c.col.Name, limit)
	if err != nil {
		return nil, err
	}

	c.logger.Info(fmt.Sprintf("recent %s retrieved by %s", c.col.Name, requesterID(user)))
	return docs, nil
}

func (c *lifecycleController) GetMine(ctx context.Context, user *auth.User) ([]store.Document, error) {
	if err := Authorize(OpGetMine, user, c.col, nil); err != nil {
		return nil, err
	}

	docs, err := c.db.GetMyDocuments(ctx, c.col.Name, user.UID)
	if err != nil {
		return nil, err
	}

	c.logger.Info(fmt.Sprintf("own %s retrieved by user %s", c.col.Name, user.UID))
	return docs, nil
}

func (c *lifecycleController) GetUserDocuments(ctx context.Context, ownerID string, user *auth.User) ([]store.Document, error) {
	if err := Authorize(OpGetUser, user, c.col, nil); err != nil {
		return nil, err
	}

	docs, err := c.db.GetUserDocuments(ctx, c.col.Name, ownerID)
	if err != nil {
		return nil, err
	}

	c.logger.Info(fmt.Sprintf("%s owned by user %s retrieved by user %s", c.col.Name, ownerID, requesterID(user)))
	return docs, nil
}

func (c *lifecycleController) Update(ctx context.Context, id string, data store.Document, user *auth.User) (store.Document, error) {
	existing, err := c.fetchExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(OpUpdate, user, c.col, existing); err != nil {
		return nil, err
	}

	// The update payload is validated as filtered, not merged: rules apply
	// to what the requester sent.
	filtered := validation.FilterByProps(data, c.col.Props)
	if err := validation.Validate(ctx, filtered, c.col, c.db); err != nil {
		return nil, err
	}

	updated, err := c.db.UpdateDocument(ctx, c.col.Name, id, filtered, requesterID(user), c.col.Options.NoMetaData)
	if err != nil {
		return nil, err
	}

	c.logger.Info(fmt.Sprintf("%s: %s updated by user %s:%s",
		c.col.Name, id, requesterID(user), strutil.DiffString(existing, updated)))
	return updated, nil
}

func (c *lifecycleController) Archive(ctx context.Context, id string, user *auth.User) (store.Document, error) {
	existing, err := c.fetchExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(OpArchive, user, c.col, existing); err != nil {
		return nil, err
	}

	archived, err := c.db.ArchiveDocument(ctx, c.col.Name, id, requesterID(user), c.col.Options.NoMetaData)
	if err != nil {
		return nil, err
	}

	c.logger.Info(fmt.Sprintf("%s: %s archived by user %s", c.col.Name, id, requesterID(user)))
	return archived, nil
}

func (c *lifecycleController) Dearchive(ctx context.Context, id string, user *auth.User) (store.Document, error) {
	existing, err := c.fetchExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(OpDearchive, user, c.col, existing); err != nil {
		return nil, err
	}

	restored, err := c.db.DearchiveDocument(ctx, c.col.Name, id, requesterID(user), c.col.Options.NoMetaData)
	if err != nil {
		return nil, err
	}

	c.logger.Warn(fmt.Sprintf("%s: %s - DE-ARCHIVED by user %s", c.col.Name, id, requesterID(user)))
	return restored, nil
}

func (c *lifecycleController) Delete(ctx context.Context, id string, user *auth.User) error {
	existing, err := c.fetchExisting(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(OpDelete, user, c.col, existing); err != nil {
		return err
	}

	if err := c.db.DeleteDocument(ctx, c.col.Name, id); err != nil {
		return err
	}

	c.logger.Warn(fmt.Sprintf("%s: %s - DELETED by user %s", c.col.Name, id, requesterID(user)))
	return nil
}

// fetchExisting resolves the current document for mutating operations.
// Existence is checked before ownership, so absence reads as NotFound even
// for requesters who would fail authorization.
func (c *lifecycleController) fetchExisting(ctx context.Context, id string) (store.Document, error) {
	existing, err := c.db.GetDocumentByID(ctx, c.col.Name, id, true)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, c.notFound(id)
	}
	return existing, nil
}

func (c *lifecycleController) notFound(id string) error {
	return errors.NewNotFoundError(fmt.Sprintf("ID %s not found in %s", id, c.col.Name))
}

func requesterID(user *auth.User) string {
	if user == nil {
		return "anonymous"
	}
	return user.UID
}
