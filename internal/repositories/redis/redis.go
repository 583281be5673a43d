// Package redis stores jobs and results as JSON values with a TTL, plus a
// sorted set of job ids ordered by creation time for the history listing.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

func NewClient(ctx context.Context, addr string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr: addr,
		DB:   db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

type keys struct {
	prefix string
}

func (k keys) job(id string) string    { return k.prefix + ":job:" + id }
func (k keys) result(id string) string { return k.prefix + ":result:" + id }
func (k keys) history() string         { return k.prefix + ":jobs" }
