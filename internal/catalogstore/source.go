// Package catalogstore loads the intervention catalog from its configured source.
package catalogstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"woundcare-workers/internal/clinical/catalog"
	"woundcare-workers/internal/common/config"
	stderrors "woundcare-workers/internal/common/errors"
	"woundcare-workers/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

// Source produces a validated catalog.
type Source interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
	Name() string
}

// BuiltinSource serves the catalog compiled into the binary.
type BuiltinSource struct{}

func (BuiltinSource) Load(context.Context) (*catalog.Catalog, error) {
	return catalog.Default(), nil
}

func (BuiltinSource) Name() string { return config.CatalogSourceBuiltin }

// FileSource reads a JSON or YAML catalog document.
type FileSource struct {
	Path string
}

func (s FileSource) Load(context.Context) (*catalog.Catalog, error) {
	return catalog.LoadFile(s.Path)
}

func (s FileSource) Name() string { return "file:" + s.Path }

// Deps are the connections a source may need. Only the ones the configuration
// selects must be set.
type Deps struct {
	DB     *sql.DB
	Redis  redis.Cmdable
	Logger logger.Logger
}

// New builds the source described by cfg, wrapped in a Redis cache when enabled.
func New(cfg config.CatalogConfig, deps Deps) (Source, error) {
	var src Source
	switch cfg.Source {
	case config.CatalogSourceBuiltin, "":
		src = BuiltinSource{}
	case config.CatalogSourceFile:
		src = FileSource{Path: cfg.Path}
	case config.CatalogSourcePostgres:
		if deps.DB == nil {
			return nil, fmt.Errorf("postgres catalog source needs a database connection")
		}
		pg, err := NewPostgresSource(deps.DB, cfg.Table)
		if err != nil {
			return nil, err
		}
		src = pg
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}

	if !cfg.Cache.Enabled {
		return src, nil
	}
	if deps.Redis == nil {
		return nil, fmt.Errorf("catalog cache needs a redis connection")
	}
	return NewCachedSource(src, deps.Redis, cfg.Cache.Key, cfg.Cache.TTL, deps.Logger), nil
}

// Load loads from src and classifies failures: a catalog that was read but is
// malformed is CATALOG_INVALID, anything else is CATALOG_LOAD_FAILED.
func Load(ctx context.Context, src Source) (*catalog.Catalog, error) {
	cat, err := src.Load(ctx)
	if err == nil {
		return cat, nil
	}
	var loadErr *catalog.LoadError
	if errors.As(err, &loadErr) {
		return nil, stderrors.NewCatalogInvalidError(err).WithMetadata("source", src.Name())
	}
	return nil, stderrors.NewCatalogLoadFailedError(src.Name(), err)
}
