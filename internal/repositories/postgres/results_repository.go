package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	repositories "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/repository"
	"github.com/jackc/pgx/v5"
)

var _ repositories.ResultRepositoryInterface = (*ResultsRepository)(nil)

type ResultsRepository struct {
	db Querier
}

func NewResultsRepository(db Querier) *ResultsRepository {
	return &ResultsRepository{
		db: db,
	}
}

const (
	querySaveResult = `INSERT INTO ocr_results (job_id, result) VALUES ($1, $2)
		ON CONFLICT (job_id) DO UPDATE SET result = EXCLUDED.result`

	queryGetResult = `SELECT result FROM ocr_results WHERE job_id = $1`

	queryDeleteResult = `DELETE FROM ocr_results WHERE job_id = $1`
)

func (r *ResultsRepository) Save(ctx context.Context, result *entity.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if _, err := r.db.Exec(ctx, querySaveResult, result.JobID, payload); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

func (r *ResultsRepository) Get(ctx context.Context, jobID string) (*entity.Result, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, queryGetResult, jobID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query result: %w", err)
	}

	var result entity.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}

func (r *ResultsRepository) Delete(ctx context.Context, jobID string) error {
	if _, err := r.db.Exec(ctx, queryDeleteResult, jobID); err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	return nil
}
