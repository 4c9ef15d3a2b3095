package router

import (
	"github.com/gin-gonic/gin"

	"github.com/turboapi/turbo/pkg/apis/handlers"
	"github.com/turboapi/turbo/pkg/middleware"
	"github.com/turboapi/turbo/pkg/schema"
	"github.com/turboapi/turbo/pkg/services"
)

// Resource ties a collection schema to the URL path it is served under.
// Full controls whether the admin and query routes are mounted in
// addition to the basic CRUD set.
type Resource struct {
	Path       string
	Collection *schema.Collection
	Full       bool
}

// Setup builds the gin engine: recovery, error translation and token
// authentication apply to every route, then each resource is mounted
// under /api/v1. The adapter trio is resolved from the registry under
// serviceName (empty picks the default).
func Setup(registry *services.Registry, serviceName string, resources []Resource) (*gin.Engine, error) {
	db, err := registry.DataService(serviceName)
	if err != nil {
		return nil, err
	}
	logger, err := registry.LoggingService(serviceName)
	if err != nil {
		return nil, err
	}
	authn, err := registry.AuthService(serviceName)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorMiddleware(logger))
	r.Use(middleware.Authentication(authn))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	for _, res := range resources {
		h, err := handlers.NewResourceHandler(res.Collection, db, logger)
		if err != nil {
			return nil, err
		}
		group := v1.Group(res.Path)
		if res.Full {
			h.RegisterFull(group)
		} else {
			h.RegisterBasic(group)
		}
	}

	return r, nil
}
