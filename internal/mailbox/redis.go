package mailbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "trove:pending_speech:"

// Redis backs the mailbox with a Redis instance so pending speech survives
// server restarts and multiple backend replicas. Redis expires the key; Take
// still checks age as a guard against clock drift.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Put(ctx context.Context, session, text string) error {
	if text == "" {
		return nil
	}
	raw, err := json.Marshal(PendingSpeech{Text: text, QueuedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("marshal pending speech: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+session, raw, TTL).Err(); err != nil {
		return fmt.Errorf("store pending speech: %w", err)
	}
	return nil
}

func (r *Redis) Take(ctx context.Context, session string) (string, bool, error) {
	raw, err := r.client.GetDel(ctx, keyPrefix+session).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("consume pending speech: %w", err)
	}
	var e PendingSpeech
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return "", false, nil
	}
	if e.Text == "" || time.Since(e.QueuedAt) > TTL {
		return "", false, nil
	}
	return e.Text, true, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
