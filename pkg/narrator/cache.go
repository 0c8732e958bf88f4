package narrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cached remembers successful insights for identical inputs.
type Cached struct {
	next  Narrator
	cache *cache.Cache
}

// NewCached wraps next with a TTL cache. Failures are never cached.
func NewCached(next Narrator, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *Cached) Narrate(ctx context.Context, in Input) (string, error) {
	key, err := cacheKey(in)
	if err != nil {
		return c.next.Narrate(ctx, in)
	}
	if v, ok := c.cache.Get(key); ok {
		return v.(string), nil
	}

	text, err := c.next.Narrate(ctx, in)
	if err != nil {
		return "", err
	}
	c.cache.Set(key, text, cache.DefaultExpiration)
	return text, nil
}

func cacheKey(in Input) (string, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
