package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"pdf-docat-backend/internal/models"
)

const resultTTL = 7 * 24 * time.Hour

// Cache fronts the durable processing_logs cache with Redis so repeat
// uploads of the same document skip the engines entirely.
type Cache struct {
	rdb *redis.Client
}

func New(redisURL string) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Cache{rdb: rdb}, nil
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

// Key builds the cache key for an extraction result.
func Key(fileHash string, engine models.EngineType) string {
	return fmt.Sprintf("extract:%s:%s", fileHash, engine)
}

type cachedResult struct {
	ExtractedContent json.RawMessage `json:"extracted_content"`
	FileAnnotations  json.RawMessage `json:"file_annotations,omitempty"`
}

func (c *Cache) GetResult(ctx context.Context, fileHash string, engine models.EngineType) (extracted, annotations json.RawMessage, ok bool) {
	raw, err := c.rdb.Get(ctx, Key(fileHash, engine)).Bytes()
	if err != nil {
		return nil, nil, false
	}
	var result cachedResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, nil, false
	}
	return result.ExtractedContent, result.FileAnnotations, true
}

func (c *Cache) SetResult(ctx context.Context, fileHash string, engine models.EngineType, extracted, annotations json.RawMessage) error {
	raw, err := json.Marshal(cachedResult{
		ExtractedContent: extracted,
		FileAnnotations:  annotations,
	})
	if err != nil {
		return fmt.Errorf("failed to encode cached result: %w", err)
	}
	return c.rdb.Set(ctx, Key(fileHash, engine), raw, resultTTL).Err()
}
