package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/cinema/config"
	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotHeld = errors.New("session lock expired or taken by another holder")

// releaseLock deletes the key only while it still holds the caller's token.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisCache struct {
	client     *redis.Client
	catalogTTL time.Duration
	newToken   func() string
}

func NewRedisCache(cfg config.RedisConfig, catalogTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		catalogTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, catalogTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, catalogTTL: catalogTTL, newToken: uuid.NewString}
}

// GetCatalog returns nil without error on a cache miss.
func (c *RedisCache) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	data, err := c.client.Get(ctx, catalogKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (c *RedisCache) SetCatalog(ctx context.Context, catalog *domain.Catalog) error {
	payload, err := json.Marshal(catalog)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogKey(), payload, c.catalogTTL).Err()
}

func (c *RedisCache) InvalidateCatalog(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey()).Err()
}

// AcquireSessionLock serialises seat finalisation for one session. The
// returned token must be handed back to ReleaseSessionLock.
func (c *RedisCache) AcquireSessionLock(ctx context.Context, sessionID string, ttl time.Duration) (string, bool, error) {
	token := c.newToken()
	ok, err := c.client.SetNX(ctx, sessionLockKey(sessionID), token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (c *RedisCache) ReleaseSessionLock(ctx context.Context, sessionID, token string) error {
	deleted, err := releaseLock.Run(ctx, c.client, []string{sessionLockKey(sessionID)}, token).Int()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrLockNotHeld
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func catalogKey() string {
	return "cache:catalog"
}

func sessionLockKey(sessionID string) string {
	return "lock:session:" + sessionID
}
