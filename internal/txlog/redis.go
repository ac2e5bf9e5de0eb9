package txlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "flyhigh:txlog:"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisLog stores each kind as a capped list: LPUSH then LTRIM to MaxEntries.
type RedisLog struct {
	client *redis.Client
	opts   Options
}

func NewRedisLog(cfg RedisConfig, opts Options) (*RedisLog, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisLog{
		client: client,
		opts:   opts.normalized(),
	}, nil
}

func (r *RedisLog) Record(ctx context.Context, kind Kind, e Entry) error {
	data, err := json.Marshal(r.opts.prepare(e))
	if err != nil {
		return err
	}

	key := keyPrefix + string(kind)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(r.opts.MaxEntries-1))
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisLog) List(ctx context.Context, kind Kind) ([]Entry, error) {
	raw, err := r.client.LRange(ctx, keyPrefix+string(kind), 0, int64(r.opts.MaxEntries-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *RedisLog) Close() error {
	return r.client.Close()
}
