package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/w-h-a/bookflow/session"
)

const (
	keyPrefix  = "bookflow:session:"
	maxRetries = 8
)

var ErrConflict = errors.New("session update conflicted too many times")

type redisStore struct {
	options session.Options
	client  *redis.Client
}

func (s *redisStore) Get(ctx context.Context, id string) (session.Context, error) {
	key := s.key(id)

	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return session.Context{SessionId: id}, nil
	}
	if err != nil {
		return session.Context{}, err
	}

	var data session.Context
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return session.Context{}, err
	}

	if err := s.client.Expire(ctx, key, s.options.TTL).Err(); err != nil {
		slog.WarnContext(ctx, "failed to refresh session ttl", "session_id", id, "error", err)
	}

	data.SessionId = id

	return data, nil
}

func (s *redisStore) Update(ctx context.Context, id string, fn func(*session.Context) error) (session.Context, error) {
	key := s.key(id)

	var out session.Context

	txf := func(tx *redis.Tx) error {
		data := session.Context{SessionId: id}

		val, err := tx.Get(ctx, key).Result()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if err := json.Unmarshal([]byte(val), &data); err != nil {
				return err
			}
		}

		if err := fn(&data); err != nil {
			return err
		}

		data.SessionId = id
		data.UpdatedAt = time.Now().UTC()
		if s.options.Window > 0 && len(data.Turns) > s.options.Window {
			data.Turns = append([]session.Turn(nil), data.Turns[len(data.Turns)-s.options.Window:]...)
		}

		newVal, err := json.Marshal(data)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newVal, s.options.TTL)
			return nil
		})
		if err != nil {
			return err
		}

		out = data

		return nil
	}

	for i := 0; i < maxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return session.Context{}, err
		}
		return out, nil
	}

	return session.Context{}, fmt.Errorf("session %s: %w", id, ErrConflict)
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}

func (s *redisStore) key(id string) string {
	return keyPrefix + id
}

func NewStore(opts ...session.Option) session.Store {
	options := session.NewOptions(opts...)

	redisOpts, err := redis.ParseURL(options.Location)
	if err != nil {
		detail := "failed to parse redis session store location"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	client := redis.NewClient(redisOpts)

	if err := client.Ping(options.Context).Err(); err != nil {
		detail := "failed to ping redis session store"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	return &redisStore{
		options: options,
		client:  client,
	}
}
