package uistate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "masthead:ui:"

// maxUpdateAttempts bounds optimistic retries when another writer touches
// the same key between WATCH and EXEC.
const maxUpdateAttempts = 10

var ErrUpdateContention = errors.New("uistate: too many concurrent updates")

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
	Logger   *slog.Logger
}

// Redis shares header state between several server instances.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return newRedis(client, cfg), nil
}

func newRedis(client *redis.Client, cfg RedisConfig) *Redis {
	r := &Redis{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
		logger: cfg.Logger,
	}
	if r.prefix == "" {
		r.prefix = DefaultKeyPrefix
	}
	if r.ttl <= 0 {
		r.ttl = DefaultTTL
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.logger.Info("uistate.redis_ready", "addr", cfg.Addr, "db", cfg.DB)
	return r
}

func (r *Redis) key(visitorID string) string { return r.prefix + visitorID }

func (r *Redis) Load(ctx context.Context, visitorID string) (Record, error) {
	return r.get(ctx, r.client, r.key(visitorID))
}

// getter is the part of *redis.Client and *redis.Tx that get needs.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *Redis) get(ctx context.Context, c getter, key string) (Record, error) {
	b, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("redis get: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		r.logger.Warn("uistate.redis_corrupt", "key", key, "err", err)
		return Record{}, nil
	}
	return rec, nil
}

// Update runs fn inside WATCH/MULTI/EXEC and retries when the key changed
// underneath it.
func (r *Redis) Update(ctx context.Context, visitorID string, fn func(Record) Record) (Record, error) {
	key := r.key(visitorID)
	var next Record
	txf := func(tx *redis.Tx) error {
		cur, err := r.get(ctx, tx, key)
		if err != nil {
			return err
		}
		next = fn(cur)
		b, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, r.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateAttempts; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return next, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return Record{}, fmt.Errorf("redis update: %w", err)
	}
	return Record{}, ErrUpdateContention
}

func (r *Redis) Save(ctx context.Context, visitorID string, rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(visitorID), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
