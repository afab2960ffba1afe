package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SummaryCache keeps the latest recalculation summary per user in Redis so
// the UI can show "last recalculated at" without touching the store.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache instantiates the cache helper.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func summaryKey(userID uuid.UUID) string {
	return fmt.Sprintf("pricing:user:%s:summary", userID)
}

// Store persists the summary, replacing any previous one.
func (c *SummaryCache) Store(ctx context.Context, userID uuid.UUID, summary Summary) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("pricing: marshal summary: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("pricing: store summary: %w", err)
	}
	return nil
}

// Load returns the cached summary or ErrSummaryNotFound.
func (c *SummaryCache) Load(ctx context.Context, userID uuid.UUID) (Summary, error) {
	if c == nil || c.client == nil {
		return Summary{}, ErrSummaryNotFound
	}
	data, err := c.client.Get(ctx, summaryKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Summary{}, ErrSummaryNotFound
	}
	if err != nil {
		return Summary{}, fmt.Errorf("pricing: load summary: %w", err)
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return Summary{}, fmt.Errorf("pricing: unmarshal summary: %w", err)
	}
	return summary, nil
}
