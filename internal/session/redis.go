package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "sessao:"

// RedisStore persiste sessões no Redis com TTL igual à expiração.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Save(ctx context.Context, sessao *Sessao) error {
	payload, err := json.Marshal(sessao)
	if err != nil {
		return err
	}

	ttl := time.Until(sessao.ExpiraEm)
	if ttl <= 0 {
		return r.Delete(ctx, sessao.ID)
	}
	return r.client.Set(ctx, redisKeyPrefix+sessao.ID, payload, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Sessao, error) {
	payload, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNaoEncontrada
	}
	if err != nil {
		return nil, err
	}

	var sessao Sessao
	if err := json.Unmarshal(payload, &sessao); err != nil {
		return nil, err
	}
	if sessao.Expirada(time.Now()) {
		_ = r.Delete(ctx, id)
		return nil, ErrNaoEncontrada
	}
	return &sessao, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisKeyPrefix+id).Err()
}
