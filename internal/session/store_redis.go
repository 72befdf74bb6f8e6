package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the session record as a JSON payload under one key.
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, namespace string) *RedisStore {
	return &RedisStore{rdb: rdb, key: "practiced:session:" + namespace}
}

func (r *RedisStore) Load(ctx context.Context) (Session, bool, error) {
	raw, err := r.rdb.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, false, nil
		}
		return Session{}, false, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, false, nil
	}
	return sess, true, nil
}

func (r *RedisStore) Save(ctx context.Context, sess Session) error {
	buf, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key, buf, 0).Err()
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.rdb.Del(ctx, r.key).Err()
}
