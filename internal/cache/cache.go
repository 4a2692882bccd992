package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/codequest/codequest-backend/internal/genai"
	"github.com/codequest/codequest-backend/internal/logger"
)

// CachedGenerator memoizes pipeline output keyed by a hash of the
// operation name and its ordered arguments. A hit is served without
// invoking the pipeline and is silent regarding quality: a cached
// fallback result may be served again within the TTL. Any store failure
// degrades transparently to the uncached pipeline; it never surfaces to
// the caller.
type CachedGenerator struct {
	log   *logger.Logger
	store Store
	ttl   time.Duration
	next  genai.ChallengeGenerator
	group singleflight.Group
}

func NewCachedGenerator(log *logger.Logger, store Store, ttl time.Duration, next genai.ChallengeGenerator) *CachedGenerator {
	return &CachedGenerator{
		log:   log.With("service", "CachedGenerator"),
		store: store,
		ttl:   ttl,
		next:  next,
	}
}

// Key hashes an operation identity plus its ordered arguments.
func Key(op string, args ...string) string {
	h := sha256.New()
	h.Write([]byte(op))
	for _, arg := range args {
		h.Write([]byte{0})
		h.Write([]byte(arg))
	}
	return "cache:" + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedGenerator) Generate(ctx context.Context, topic, difficulty, subTopic string) genai.ChallengeRecord {
	if c.store == nil {
		return c.next.Generate(ctx, topic, difficulty, subTopic)
	}

	key := Key("generate_challenge", topic, difficulty, subTopic)

	raw, hit, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("Cache lookup failed, bypassing cache", "error", err)
	} else if hit {
		var record genai.ChallengeRecord
		if uErr := json.Unmarshal([]byte(raw), &record); uErr == nil {
			c.log.Debug("Cache hit", "key", key)
			return record
		}
		c.log.Warn("Cache entry undecodable, regenerating", "key", key)
	}

	// Concurrent identical misses collapse to one generation. A duplicate
	// generation on a cache race would still be tolerable.
	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		record := c.next.Generate(ctx, topic, difficulty, subTopic)
		if encoded, mErr := json.Marshal(record); mErr == nil {
			if sErr := c.store.Set(ctx, key, string(encoded), c.ttl); sErr != nil {
				c.log.Warn("Cache write failed", "error", sErr)
			}
		}
		return record, nil
	})
	return v.(genai.ChallengeRecord)
}
