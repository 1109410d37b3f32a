// Package redisstore implements tokenstore.Store on Redis, for agents or
// CI runners where several processes share one signed-in session.
//
// Like every token store, operations are best-effort: an unreachable
// Redis behaves as an empty store. Concurrent writers follow the same
// last-writer-wins policy as the file store.
package redisstore

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/worknest/worknest-go/tokenstore"
)

const (
	fieldToken     = "access_token"
	fieldTimestamp = "auth_timestamp"
	fieldPersisted = "auth_persisted"

	opTimeout = 5 * time.Second
)

// Store keeps the session in a single Redis hash.
type Store struct {
	client *redis.Client
	key    string
}

// New creates a Redis-backed token store using the given key.
func New(client *redis.Client, key string) *Store {
	if key == "" {
		key = "worknest:session"
	}
	return &Store{client: client, key: key}
}

// FromURL creates a store from a Redis connection URL.
func FromURL(rawURL, key string) (*Store, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return New(redis.NewClient(opts), key), nil
}

func (s *Store) SetToken(token string) {
	ctx, cancel := s.ctx()
	defer cancel()

	if token == "" {
		_ = s.client.Del(ctx, s.key).Err()
		return
	}
	_ = s.client.HSet(ctx, s.key, fieldToken, token).Err()
}

func (s *Store) Token() string {
	ctx, cancel := s.ctx()
	defer cancel()

	token, err := s.client.HGet(ctx, s.key, fieldToken).Result()
	if err != nil {
		return ""
	}
	return token
}

func (s *Store) SetMarker() {
	ctx, cancel := s.ctx()
	defer cancel()

	token, err := s.client.HGet(ctx, s.key, fieldToken).Result()
	if err != nil || token == "" {
		return
	}
	now := tokenstore.NowTimeFunc().UnixMilli()
	_ = s.client.HSet(ctx, s.key,
		fieldTimestamp, strconv.FormatInt(now, 10),
		fieldPersisted, "true",
	).Err()
}

func (s *Store) ReadMarker() bool {
	ctx, cancel := s.ctx()
	defer cancel()

	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return false
	}
	if fields[fieldToken] == "" || fields[fieldPersisted] != "true" {
		return false
	}
	ts, err := strconv.ParseInt(fields[fieldTimestamp], 10, 64)
	if err != nil || ts == 0 {
		return false
	}
	age := tokenstore.NowTimeFunc().UnixMilli() - ts
	return age >= 0 && age < tokenstore.MarkerTTL.Milliseconds()
}

func (s *Store) Clear() {
	ctx, cancel := s.ctx()
	defer cancel()

	_ = s.client.Del(ctx, s.key).Err()
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

var _ tokenstore.Store = (*Store)(nil)
