// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "balescorer:doc:"

// RedisStore keeps each document as a hash: one field per top level key,
// each field holding that value's JSON.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Document, bool, error) {
	fields, err := s.client.HGetAll(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read document %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}

	doc, err := decodeFields(fields)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode document %s: %w", key, err)
	}
	return doc, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, doc Document, merge bool) error {
	values := make([]any, 0, len(doc)*2)
	for field, v := range doc {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode field %s of %s: %w", field, key, err)
		}
		values = append(values, field, string(data))
	}

	rkey := redisKeyPrefix + key
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if !merge {
			pipe.Del(ctx, rkey)
		}
		if len(values) > 0 {
			pipe.HSet(ctx, rkey, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, prefix string) (map[string]Document, error) {
	out := make(map[string]Document)

	iter := s.client.Scan(ctx, 0, redisKeyPrefix+escapeGlob(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		rkey := iter.Val()
		fields, err := s.client.HGetAll(ctx, rkey).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", rkey, err)
		}
		if len(fields) == 0 {
			continue
		}
		doc, err := decodeFields(fields)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", rkey, err)
		}
		out[strings.TrimPrefix(rkey, redisKeyPrefix)] = doc
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	n, err := s.client.Del(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeFields(fields map[string]string) (Document, error) {
	doc := make(Document, len(fields))
	for field, raw := range fields {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("field %s: %w", field, err)
		}
		doc[field] = v
	}
	return doc, nil
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
