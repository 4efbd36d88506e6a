package catalogstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"woundcare-workers/internal/clinical/catalog"
	"woundcare-workers/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

// CachedSource keeps the validated catalog document in Redis under key. A
// cached document is validated again when read. Cache failures fall back to
// the wrapped source.
type CachedSource struct {
	next   Source
	client redis.Cmdable
	key    string
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(next Source, client redis.Cmdable, key string, ttl time.Duration, log logger.Logger) *CachedSource {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CachedSource{next: next, client: client, key: key, ttl: ttl, logger: log}
}

func (s *CachedSource) Name() string { return s.next.Name() }

func (s *CachedSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	switch {
	case err == nil:
		cat, perr := catalog.ParseFrom("redis:"+s.key, data)
		if perr == nil {
			s.logger.Debug("catalog served from cache", map[string]interface{}{"key": s.key, "products": cat.Len()})
			return cat, nil
		}
		s.logger.Warn("cached catalog is invalid, reloading", map[string]interface{}{"key": s.key, "error": perr})
	case errors.Is(err, redis.Nil):
	default:
		s.logger.Warn("catalog cache unavailable", map[string]interface{}{"key": s.key, "error": err})
	}

	cat, err := s.next.Load(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := json.Marshal(cat)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, s.key, string(doc), s.ttl).Err(); err != nil {
		s.logger.Warn("failed to cache catalog", map[string]interface{}{"key": s.key, "error": err})
	}
	return cat, nil
}

// Invalidate drops the cached document so the next Load reads the source.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
