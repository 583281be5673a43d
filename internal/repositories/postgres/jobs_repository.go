package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	repositories "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var _ repositories.JobRepositoryInterface = (*JobsRepository)(nil)

type JobsRepository struct {
	db Querier
}

func NewJobsRepository(db Querier) *JobsRepository {
	return &JobsRepository{
		db: db,
	}
}

const (
	jobColumns = `id, file_name, file_size, page_count, status, progress, current_step,
		estimated_time, error, created_at, updated_at, finished_at`

	queryCreateJob = `INSERT INTO ocr_jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	queryRead = `SELECT ` + jobColumns + ` FROM ocr_jobs WHERE id = $1`

	queryList = `SELECT ` + jobColumns + ` FROM ocr_jobs ORDER BY created_at DESC, id`

	queryUpsert = `INSERT INTO ocr_jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) ON CONFLICT (id) DO UPDATE SET
		status = EXCLUDED.status, progress = EXCLUDED.progress, current_step = EXCLUDED.current_step,
		estimated_time = EXCLUDED.estimated_time, error = EXCLUDED.error,
		updated_at = EXCLUDED.updated_at, finished_at = EXCLUDED.finished_at`

	queryDelete = `DELETE FROM ocr_jobs WHERE id = $1`

	uniqueViolation = "23505"
)

func (j *JobsRepository) Create(ctx context.Context, job *entity.Job) error {
	_, err := j.db.Exec(ctx, queryCreateJob, jobArgs(job)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repositories.ErrJobExists
		}
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (j *JobsRepository) Read(ctx context.Context, jobID string) (*entity.Job, error) {
	job, err := scanJob(j.db.QueryRow(ctx, queryRead, jobID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row: %w", err)
	}
	return job, nil
}

func (j *JobsRepository) List(ctx context.Context) ([]*entity.Job, error) {
	rows, err := j.db.Query(ctx, queryList)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*entity.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return jobs, nil
}

func (j *JobsRepository) Upsert(ctx context.Context, jobs []*entity.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, job := range jobs {
		batch.Queue(queryUpsert, jobArgs(job)...)
	}

	if err := j.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert jobs: %w", err)
	}
	return nil
}

func (j *JobsRepository) Delete(ctx context.Context, jobID string) error {
	result, err := j.db.Exec(ctx, queryDelete, jobID)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repositories.ErrJobNotFound
	}

	return nil
}

func jobArgs(job *entity.Job) []any {
	return []any{
		job.ID,
		job.FileName,
		job.FileSize,
		job.PageCount,
		string(job.Status),
		job.Progress,
		job.CurrentStep,
		job.EstimatedTime,
		job.Error,
		job.CreatedAt,
		job.UpdatedAt,
		sql.NullInt64{Int64: job.FinishedAt, Valid: job.FinishedAt > 0},
	}
}

func scanJob(row pgx.Row) (*entity.Job, error) {
	var (
		job        entity.Job
		status     string
		finishedAt sql.NullInt64
	)

	if err := row.Scan(
		&job.ID,
		&job.FileName,
		&job.FileSize,
		&job.PageCount,
		&status,
		&job.Progress,
		&job.CurrentStep,
		&job.EstimatedTime,
		&job.Error,
		&job.CreatedAt,
		&job.UpdatedAt,
		&finishedAt,
	); err != nil {
		return nil, err
	}

	job.Status = entity.JobStatus(status)
	if finishedAt.Valid {
		job.FinishedAt = finishedAt.Int64
	}
	return &job, nil
}
