package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/doomlearn/doomfeed-backend/internal/domain"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

const redisKeyPrefix = "doomfeed:session:"

// RedisRepo keeps each session as a JSON blob under its own key. A zero ttl
// means sessions live as long as the Redis instance does.
type RedisRepo struct {
	log *logger.Logger
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRepo(log *logger.Logger, addr string, ttl time.Duration) (*RedisRepo, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisRepo{
		log: log.With("service", "SessionRedisRepo"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (r *RedisRepo) Create(ctx context.Context, s *domain.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, redisKey(s.ID), raw, r.ttl).Err()
}

func (r *RedisRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := r.rdb.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	var s domain.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

// UpdatePosts runs under WATCH so two generations attaching posts to the
// same session cannot interleave a read-modify-write.
func (r *RedisRepo) UpdatePosts(ctx context.Context, id string, posts []domain.Post) error {
	key := redisKey(id)
	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return &NotFoundError{ID: id}
		}
		if err != nil {
			return err
		}
		var s domain.Session
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("decode session %s: %w", id, err)
		}
		s.GeneratedPosts = posts
		next, err := json.Marshal(&s)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, r.ttl)
			return nil
		})
		return err
	}, key)
	return err
}
