package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/blog-api/internal/config"
	"github.com/example/blog-api/internal/db"
	"github.com/example/blog-api/internal/repository"
	"github.com/example/blog-api/internal/search"
	"github.com/example/blog-api/internal/service"
	"github.com/example/blog-api/internal/transport/http"
)

type Application struct {
	Config *config.Config
	Posts  repository.PostRepository
	Search *search.Elastic
	Router http.Router

	log     zerolog.Logger
	closers []func(ctx context.Context) error
}

// Initialize opens the configured store and search index and assembles the
// router. Close releases whatever was opened.
func Initialize(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, error) {
	a := &Application{Config: cfg, log: log}

	posts, err := a.openStore(ctx)
	if err != nil {
		a.Close(context.Background())
		return nil, err
	}
	a.Posts = posts

	var index search.Indexer
	if cfg.ElasticAddr != "" {
		es, err := search.NewElastic(cfg)
		if err != nil {
			a.Close(context.Background())
			return nil, fmt.Errorf("elasticsearch: %w", err)
		}
		esCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := es.EnsurePostsIndex(esCtx); err != nil {
			a.Close(context.Background())
			return nil, fmt.Errorf("ensure ES index: %w", err)
		}
		a.Search = es
		index = es
	}

	svc := service.NewPostService(posts, index, log)
	a.Router = http.NewRouter(cfg, svc, log)
	return a, nil
}

func (a *Application) openStore(ctx context.Context) (repository.PostRepository, error) {
	cfg := a.Config
	switch cfg.StoreDriver {
	case config.DriverMongo:
		m, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, a.log)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		a.closers = append(a.closers, m.Close)
		return repository.NewMongoPostRepository(m.Database), nil

	case config.DriverPostgres:
		database, err := db.ConnectPostgres(cfg, a.log)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return database.Close() })
		if err := database.Migrate(); err != nil {
			return nil, fmt.Errorf("db migrate: %w", err)
		}
		return repository.NewGormPostRepository(database.Gorm), nil

	case config.DriverRedis:
		client, err := db.ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		return repository.NewRedisPostRepository(client), nil

	case config.DriverMemory:
		return repository.NewMemoryPostRepository(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// Close releases resources in reverse order of opening.
func (a *Application) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Error().Err(err).Msg("close error")
		}
	}
	a.closers = nil
}
