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

var _ repositories.JobRepositoryInterface = (*JobsRepository)(nil)

type JobsRepository struct {
	client *goredis.Client
	keys   keys
	ttl    time.Duration
}

func NewJobsRepository(client *goredis.Client, prefix string, ttl time.Duration) *JobsRepository {
	return &JobsRepository{
		client: client,
		keys:   keys{prefix: prefix},
		ttl:    ttl,
	}
}

func (j *JobsRepository) Create(ctx context.Context, job *entity.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	ok, err := j.client.SetNX(ctx, j.keys.job(job.ID), payload, j.ttl).Result()
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	if !ok {
		return repositories.ErrJobExists
	}

	err = j.client.ZAdd(ctx, j.keys.history(), goredis.Z{
		Score:  float64(job.CreatedAt),
		Member: job.ID,
	}).Err()
	if err != nil {
		return fmt.Errorf("index job: %w", err)
	}
	return nil
}

func (j *JobsRepository) Read(ctx context.Context, jobID string) (*entity.Job, error) {
	payload, err := j.client.Get(ctx, j.keys.job(jobID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repositories.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	var job entity.Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

func (j *JobsRepository) List(ctx context.Context) ([]*entity.Job, error) {
	ids, err := j.client.ZRevRange(ctx, j.keys.history(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list job ids: %w", err)
	}
	if len(ids) == 0 {
		return []*entity.Job{}, nil
	}

	jobKeys := make([]string, len(ids))
	for i, id := range ids {
		jobKeys[i] = j.keys.job(id)
	}

	values, err := j.client.MGet(ctx, jobKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get jobs: %w", err)
	}

	jobs := make([]*entity.Job, 0, len(values))
	var expired []any
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var job entity.Job
		if err := json.Unmarshal([]byte(s), &job); err != nil {
			return nil, fmt.Errorf("unmarshal job %s: %w", ids[i], err)
		}
		jobs = append(jobs, &job)
	}

	if len(expired) > 0 {
		// values expired through TTL, drop them from the index
		if err := j.client.ZRem(ctx, j.keys.history(), expired...).Err(); err != nil {
			return nil, fmt.Errorf("prune job index: %w", err)
		}
	}

	return jobs, nil
}

func (j *JobsRepository) Upsert(ctx context.Context, jobs []*entity.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	_, err := j.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, job := range jobs {
			payload, err := json.Marshal(job)
			if err != nil {
				return fmt.Errorf("marshal job: %w", err)
			}
			pipe.Set(ctx, j.keys.job(job.ID), payload, j.ttl)
			pipe.ZAdd(ctx, j.keys.history(), goredis.Z{Score: float64(job.CreatedAt), Member: job.ID})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert jobs: %w", err)
	}
	return nil
}

func (j *JobsRepository) Delete(ctx context.Context, jobID string) error {
	var del *goredis.IntCmd
	_, err := j.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		del = pipe.Del(ctx, j.keys.job(jobID))
		pipe.ZRem(ctx, j.keys.history(), jobID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if del.Val() == 0 {
		return repositories.ErrJobNotFound
	}
	return nil
}
