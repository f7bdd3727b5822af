package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"summabot/internal/cache"
	"time"
)

const summaryCacheMaxEntries = 256

// Cached answers repeated identical inputs from memory.
type Cached struct {
	next  Summarizer
	cache *cache.LRU[string]
	ttl   time.Duration
	salt  string
	now   func() time.Time
}

// NewCached wraps next. salt separates keys of different models.
func NewCached(next Summarizer, ttl time.Duration, salt string) *Cached {
	return &Cached{
		next:  next,
		cache: cache.NewLRU[string](summaryCacheMaxEntries),
		ttl:   ttl,
		salt:  salt,
		now:   time.Now,
	}
}

func (c *Cached) Summarize(ctx context.Context, input Input) (string, error) {
	if c.ttl <= 0 {
		return c.next.Summarize(ctx, input)
	}

	key := c.key(input.Text)
	now := c.now()

	if summary, ok := c.cache.Get(key, now); ok {
		return summary, nil
	}

	summary, err := c.next.Summarize(ctx, input)
	if err != nil {
		return "", err
	}

	c.cache.Set(key, summary, now.Add(c.ttl), now)

	return summary, nil
}

// Prune drops expired summaries.
func (c *Cached) Prune(now time.Time) int {
	return c.cache.Prune(now)
}

func (c *Cached) key(text string) string {
	sum := sha256.Sum256([]byte(c.salt + "\x00" + text))

	return hex.EncodeToString(sum[:])
}
