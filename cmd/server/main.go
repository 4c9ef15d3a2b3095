package main

import (
	"fmt"
	"log"
	"time"

	"github.com/turboapi/turbo/internal/config"
	"github.com/turboapi/turbo/pkg/apis/router"
	"github.com/turboapi/turbo/pkg/auth"
	"github.com/turboapi/turbo/pkg/logging"
	"github.com/turboapi/turbo/pkg/schema"
	"github.com/turboapi/turbo/pkg/services"
	"github.com/turboapi/turbo/pkg/store"
	"github.com/turboapi/turbo/pkg/store/memory"
	"github.com/turboapi/turbo/pkg/store/sqlite"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewProductionLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := newDataService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	manager := auth.NewJWTManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenExpiration)*time.Hour)

	registry := services.NewRegistry()
	registry.Register(cfg.Services.Name, db, logger, manager)

	engine, err := router.Setup(registry, cfg.Services.Name, resources())
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting on " + addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newDataService(cfg *config.Config) (store.DataService, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(db)
	case "memory", "":
		return memory.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// resources declares the collections served by this instance.
func resources() []router.Resource {
	users := &schema.Collection{
		Name:  "users",
		Props: []string{"name", "email", "role"},
		Rules: map[string]*schema.Rule{
			"name":  schema.StringRule(1, 100, schema.Required(), false),
			"email": schema.StringRule(5, 254, schema.Required(), true),
			"role":  schema.EnumRule([]any{"member", "editor"}, schema.Optional(), false),
		},
		Options: schema.Options{IsAdminOnly: true},
	}

	articles := &schema.Collection{
		Name:  "articles",
		Props: []string{"title", "slug", "authorId", "status"},
		Rules: map[string]*schema.Rule{
			"title":    schema.StringRule(1, 200, schema.Required(), false),
			"slug":     schema.StringRule(1, 80, schema.Required(), false),
			"authorId": schema.ForeignKeyRule("users", schema.Required(), false),
			"status":   schema.EnumRule([]any{"draft", "published"}, schema.Optional(), false),
		},
		CompositeUnique: []schema.CompositeUnique{
			{Name: "authorSlug", Fields: []string{"authorId", "slug"}},
		},
		Options: schema.Options{IsPublicGet: true},
	}

	return []router.Resource{
		{Path: "/users", Collection: users, Full: true},
		{Path: "/articles", Collection: articles, Full: true},
	}
}
