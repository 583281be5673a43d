package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	repositories "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/repository"
)

var _ repositories.JobRepositoryInterface = (*JobsRepository)(nil)

// JobsRepository keeps copies of jobs so callers never share memory with the store.
type JobsRepository struct {
	jobs map[string]*entity.Job
	mu   sync.RWMutex
}

func NewJobsRepository() *JobsRepository {
	return &JobsRepository{
		jobs: make(map[string]*entity.Job),
	}
}

func (j *JobsRepository) Create(ctx context.Context, job *entity.Job) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, ok := j.jobs[job.ID]; ok {
		return repositories.ErrJobExists
	}
	stored := *job
	j.jobs[job.ID] = &stored

	return nil
}

func (j *JobsRepository) Read(ctx context.Context, jobID string) (*entity.Job, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	job, ok := j.jobs[jobID]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}

	out := *job
	return &out, nil
}

func (j *JobsRepository) List(ctx context.Context) ([]*entity.Job, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]*entity.Job, 0, len(j.jobs))
	for _, job := range j.jobs {
		c := *job
		out = append(out, &c)
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt == out[b].CreatedAt {
			return out[a].ID < out[b].ID
		}
		return out[a].CreatedAt > out[b].CreatedAt
	})

	return out, nil
}

func (j *JobsRepository) Upsert(ctx context.Context, jobs []*entity.Job) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, job := range jobs {
		stored := *job
		j.jobs[job.ID] = &stored
	}

	return nil
}

func (j *JobsRepository) Delete(ctx context.Context, jobID string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, ok := j.jobs[jobID]; !ok {
		return repositories.ErrJobNotFound
	}
	delete(j.jobs, jobID)

	return nil
}
