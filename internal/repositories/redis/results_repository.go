package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	repositories "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/repository"
	goredis "github.com/redis/go-redis/v9"
)

var _ repositories.ResultRepositoryInterface = (*ResultsRepository)(nil)

type ResultsRepository struct {
	client *goredis.Client
	keys   keys
	ttl    time.Duration
}

func NewResultsRepository(client *goredis.Client, prefix string, ttl time.Duration) *ResultsRepository {
	return &ResultsRepository{
		client: client,
		keys:   keys{prefix: prefix},
		ttl:    ttl,
	}
}

func (r *ResultsRepository) Save(ctx context.Context, result *entity.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := r.client.Set(ctx, r.keys.result(result.JobID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (r *ResultsRepository) Get(ctx context.Context, jobID string) (*entity.Result, error) {
	payload, err := r.client.Get(ctx, r.keys.result(jobID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repositories.ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}

	var result entity.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}

func (r *ResultsRepository) Delete(ctx context.Context, jobID string) error {
	if err := r.client.Del(ctx, r.keys.result(jobID)).Err(); err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}
