package contextrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/memdex/internal/domain"
	"github.com/kailas-cloud/memdex/internal/domain/document"
)

// scanBatchSize is how many keys one SCAN iteration requests.
const scanBatchSize = 256

// RedisConfig holds connection parameters for the Redis-backed repository.
type RedisConfig struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// Redis persists context records as JSON values under a key prefix. It is
// the production snapshot provider the index is rebuilt from.
type Redis struct {
	client rueidis.Client
	prefix string
}

// NewRedis creates a Redis-backed context repository.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "memdex:ctx:"
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Redis{client: client, prefix: cfg.KeyPrefix}, nil
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	cmd := r.client.B().Ping().Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (r *Redis) Close() {
	r.client.Close()
}

// WaitForReady polls Ping until the store responds or the timeout expires.
func (r *Redis) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := r.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("store not ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Save stores or replaces a context record.
func (r *Redis) Save(ctx context.Context, doc document.Document) error {
	data, err := json.Marshal(toDTO(&doc))
	if err != nil {
		return fmt.Errorf("marshal context %q: %w", doc.ID(), err)
	}

	cmd := r.client.B().Set().Key(r.key(doc.ID())).Value(string(data)).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set context %q: %w", doc.ID(), err)
	}
	return nil
}

// Get retrieves one context record.
func (r *Redis) Get(ctx context.Context, id string) (document.Document, error) {
	cmd := r.client.B().Get().Key(r.key(id)).Build()
	data, err := r.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return document.Document{}, domain.ErrNotFound
		}
		return document.Document{}, fmt.Errorf("get context %q: %w", id, err)
	}

	var dto contextDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return document.Document{}, fmt.Errorf("unmarshal context %q: %w", id, err)
	}
	return fromDTO(dto), nil
}

// Delete removes one context record.
func (r *Redis) Delete(ctx context.Context, id string) error {
	cmd := r.client.B().Del().Key(r.key(id)).Build()
	n, err := r.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return fmt.Errorf("del context %q: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListAll enumerates every stored context record (SCAN over the key prefix,
// then batched MGET). This is the snapshot the index rebuild consumes.
func (r *Redis) ListAll(ctx context.Context) ([]document.Document, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	var docs []document.Document
	for start := 0; start < len(keys); start += scanBatchSize {
		end := min(start+scanBatchSize, len(keys))

		cmd := r.client.B().Mget().Key(keys[start:end]...).Build()
		values, err := r.client.Do(ctx, cmd).ToArray()
		if err != nil {
			return nil, fmt.Errorf("mget contexts: %w", err)
		}

		for _, v := range values {
			data, err := v.AsBytes()
			if err != nil {
				// Key deleted between SCAN and MGET.
				if rueidis.IsRedisNil(err) {
					continue
				}
				return nil, fmt.Errorf("read context value: %w", err)
			}
			var dto contextDTO
			if err := json.Unmarshal(data, &dto); err != nil {
				return nil, fmt.Errorf("unmarshal context: %w", err)
			}
			docs = append(docs, fromDTO(dto))
		}
	}
	return docs, nil
}

func (r *Redis) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		cmd := r.client.B().Scan().Cursor(cursor).Match(r.prefix + "*").Count(scanBatchSize).Build()
		entry, err := r.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("scan contexts: %w", err)
		}
		keys = append(keys, entry.Elements...)
		cursor = entry.Cursor
		if cursor == 0 {
			return keys, nil
		}
	}
}

func (r *Redis) key(id string) string {
	return r.prefix + id
}
