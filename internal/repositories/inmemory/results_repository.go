package inmemory

import (
	"context"
	"sync"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	repositories "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/repository"
)

var _ repositories.ResultRepositoryInterface = (*ResultsRepository)(nil)

// ResultsRepository stores results by job id. Results are immutable once
// saved, so the stored pointer is handed out directly.
type ResultsRepository struct {
	results map[string]*entity.Result
	mu      sync.RWMutex
}

func NewResultsRepository() *ResultsRepository {
	return &ResultsRepository{
		results: make(map[string]*entity.Result),
	}
}

func (r *ResultsRepository) Save(ctx context.Context, result *entity.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[result.JobID] = result
	return nil
}

func (r *ResultsRepository) Get(ctx context.Context, jobID string) (*entity.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.results[jobID]
	if !ok {
		return nil, repositories.ErrResultNotFound
	}
	return result, nil
}

func (r *ResultsRepository) Delete(ctx context.Context, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.results, jobID)
	return nil
}
