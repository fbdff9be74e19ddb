// api/db/redis.go
package db

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
)

// KeyValueStore is the TTL cache used for tokens, valet keys and records.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// WorkQueue is a FIFO list of serialized payloads.
type WorkQueue interface {
	Push(ctx context.Context, queue, payload string) error
	PushFront(ctx context.Context, queue, payload string) error
	Pop(ctx context.Context, queue string) (string, bool, error)
	Len(ctx context.Context, queue string) (int64, error)
}

// Locker provides a distributed lock owned by the token LockResource
// returns. Refresh and unlock only act while that token still holds it.
type Locker interface {
	LockResource(ctx context.Context, resourceName string, ttl time.Duration) (string, bool, error)
	RefreshLock(ctx context.Context, resourceName, owner string, ttl time.Duration) (bool, error)
	UnlockResource(ctx context.Context, resourceName, owner string) error
}

// RateLimiter counts requests per key in a sliding window.
type RateLimiter interface {
	RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error)
}

// RedisStore implements every store interface in this package on top of a
// single go-redis client.
type RedisStore struct {
	client *redis.Client
}

var (
	_ KeyValueStore = (*RedisStore)(nil)
	_ WorkQueue     = (*RedisStore)(nil)
	_ Locker        = (*RedisStore)(nil)
	_ RateLimiter   = (*RedisStore)(nil)
)

func InitRedis() (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return NewRedisStore(client), nil
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	if err := s.client.Close(); err != nil {
		logger.Error("Error closing Redis connection", zap.Error(err))
		return err
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		logger.Debug("Key not found in cache", zap.String("key", key))
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}
	logger.Debug("Key cached", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s in cache: %w", key, err)
	}
	return n > 0, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from cache: %w", key, err)
	}
	logger.Debug("Key deleted from cache", zap.String("key", key))
	return nil
}

func (s *RedisStore) Push(ctx context.Context, queue, payload string) error {
	if err := s.client.RPush(ctx, queue, payload).Err(); err != nil {
		return fmt.Errorf("failed to push to %s: %w", queue, err)
	}
	return nil
}

func (s *RedisStore) PushFront(ctx context.Context, queue, payload string) error {
	if err := s.client.LPush(ctx, queue, payload).Err(); err != nil {
		return fmt.Errorf("failed to requeue to %s: %w", queue, err)
	}
	return nil
}

func (s *RedisStore) Pop(ctx context.Context, queue string) (string, bool, error) {
	payload, err := s.client.LPop(ctx, queue).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("failed to pop from %s: %w", queue, err)
	}
	return payload, true, nil
}

func (s *RedisStore) Len(ctx context.Context, queue string) (int64, error) {
	n, err := s.client.LLen(ctx, queue).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read length of %s: %w", queue, err)
	}
	return n, nil
}

func (s *RedisStore) RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := s.client.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}

var (
	refreshLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

	unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)
)

func lockKey(resourceName string) string {
	return fmt.Sprintf("lock:%s", resourceName)
}

func (s *RedisStore) LockResource(ctx context.Context, resourceName string, ttl time.Duration) (string, bool, error) {
	owner := uuid.NewString()
	locked, err := s.client.SetNX(ctx, lockKey(resourceName), owner, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	logger.Debug("Lock acquisition attempt",
		zap.String("resource", resourceName),
		zap.Bool("locked", locked))
	if !locked {
		return "", false, nil
	}
	return owner, true, nil
}

func (s *RedisStore) RefreshLock(ctx context.Context, resourceName, owner string, ttl time.Duration) (bool, error) {
	n, err := refreshLockScript.Run(ctx, s.client, []string{lockKey(resourceName)}, owner, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to refresh lock: %w", err)
	}
	return n == 1, nil
}

func (s *RedisStore) UnlockResource(ctx context.Context, resourceName, owner string) error {
	n, err := unlockScript.Run(ctx, s.client, []string{lockKey(resourceName)}, owner).Int()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if n == 0 {
		logger.Warn("Lock no longer held by this owner, left in place", zap.String("resource", resourceName))
		return nil
	}
	logger.Debug("Lock released", zap.String("resource", resourceName))
	return nil
}

// Sealer encrypts cache values at rest with AES-GCM. A nil *Sealer passes
// values through unchanged.
type Sealer struct {
	key []byte
}

// NewSealer returns nil for an empty key.
func NewSealer(key string) (*Sealer, error) {
	if key == "" {
		return nil, nil
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid encryption key length: must be 32 bytes")
	}
	return &Sealer{key: []byte(key)}, nil
}

func (s *Sealer) Seal(plaintext []byte) (string, error) {
	if s == nil {
		return string(plaintext), nil
	}
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(gcm.Seal(nonce, nonce, plaintext, nil)), nil
}

func (s *Sealer) Open(value string) ([]byte, error) {
	if s == nil {
		return []byte(value), nil
	}
	ciphertext, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sealed value: %w", err)
	}
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
