// Package services maps configuration names to adapter instances. A
// Registry is built once at startup and passed to whoever needs it; nothing
// resolves adapters per request.
package services

import (
	"github.com/turboapi/turbo/pkg/auth"
	"github.com/turboapi/turbo/pkg/errors"
	"github.com/turboapi/turbo/pkg/logging"
	"github.com/turboapi/turbo/pkg/store"
)

// DefaultServiceName is used when the configuration does not pick a service.
const DefaultServiceName = "memory"

type entry struct {
	data    store.DataService
	logging logging.Logger
	auth    auth.Authenticator
}

type Registry struct {
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register binds the adapter trio under name. Registration happens during
// process initialization only; the registry is treated as immutable after.
func (r *Registry) Register(name string, data store.DataService, logger logging.Logger, authn auth.Authenticator) {
	r.entries[name] = entry{data: data, logging: logger, auth: authn}
}

func (r *Registry) DataService(name string) (store.DataService, error) {
	e, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.data, nil
}

func (r *Registry) LoggingService(name string) (logging.Logger, error) {
	e, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.logging, nil
}

func (r *Registry) AuthService(name string) (auth.Authenticator, error) {
	e, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.auth, nil
}

func (r *Registry) lookup(name string) (entry, error) {
	if name == "" {
		name = DefaultServiceName
	}
	e, ok := r.entries[name]
	if !ok {
		return entry{}, errors.NewServiceError("no service registered under " + name)
	}
	return e, nil
}
