package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	repositories "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id", "file_name", "file_size", "page_count", "status", "progress", "current_step",
	"estimated_time", "error", "created_at", "updated_at", "finished_at",
}

func setupMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestApplySchema(t *testing.T) {
	mock := setupMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS ocr_jobs").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, applySchema(context.Background(), mock))
}

func TestApplySchemaError(t *testing.T) {
	mock := setupMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS ocr_jobs").
		WillReturnError(errors.New("permission denied"))

	err := applySchema(context.Background(), mock)
	assert.ErrorContains(t, err, "apply schema")
}

func TestJobsRepositoryCreate(t *testing.T) {
	mock := setupMock(t)
	repo := NewJobsRepository(mock)
	job := &entity.Job{
		ID: "a", FileName: "a.pdf", FileSize: 2048, PageCount: 3,
		Status: entity.StatusPending, CurrentStep: "Waiting in queue",
		CreatedAt: 100, UpdatedAt: 100,
	}

	mock.ExpectExec(regexp.QuoteMeta(queryCreateJob)).
		WithArgs("a", "a.pdf", int64(2048), 3, "pending", 0.0, "Waiting in queue",
			0, "", int64(100), int64(100), sql.NullInt64{}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, repo.Create(context.Background(), job))

	mock.ExpectExec(regexp.QuoteMeta(queryCreateJob)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})
	assert.ErrorIs(t, repo.Create(context.Background(), job), repositories.ErrJobExists)
}

func TestJobsRepositoryReadFinishedAt(t *testing.T) {
	mock := setupMock(t)
	repo := NewJobsRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(queryRead)).
		WithArgs("done").
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("done", "d.pdf", int64(10), 2, "completed", 100.0, "Done",
				0, "", int64(100), int64(500), int64(500)))

	job, err := repo.Read(context.Background(), "done")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, job.Status)
	assert.Equal(t, int64(500), job.FinishedAt)
	assert.Equal(t, 2, job.PageCount)

	mock.ExpectQuery(regexp.QuoteMeta(queryRead)).
		WithArgs("running").
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("running", "r.pdf", int64(10), 1, "processing", 40.0, "Extracting text",
				12, "", int64(100), int64(300), nil))

	job, err = repo.Read(context.Background(), "running")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusProcessing, job.Status)
	assert.Zero(t, job.FinishedAt)
	assert.Equal(t, 12, job.EstimatedTime)
}

func TestJobsRepositoryReadMissing(t *testing.T) {
	mock := setupMock(t)
	repo := NewJobsRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(queryRead)).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Read(context.Background(), "nope")
	assert.ErrorIs(t, err, repositories.ErrJobNotFound)
}

func TestJobsRepositoryList(t *testing.T) {
	mock := setupMock(t)
	repo := NewJobsRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(queryList)).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("b", "b.pdf", int64(1), 1, "pending", 0.0, "", 0, "", int64(200), int64(200), nil).
			AddRow("a", "a.pdf", int64(1), 1, "failed", 30.0, "", 0, "boom", int64(100), int64(150), int64(150)))

	jobs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "b", jobs[0].ID)
	assert.Equal(t, "boom", jobs[1].Error)
	assert.Equal(t, int64(150), jobs[1].FinishedAt)
}

func TestJobsRepositoryUpsert(t *testing.T) {
	mock := setupMock(t)
	repo := NewJobsRepository(mock)

	require.NoError(t, repo.Upsert(context.Background(), nil))

	job := &entity.Job{
		ID: "a", FileName: "a.pdf", PageCount: 1, Status: entity.StatusCancelled,
		Progress: 40, CreatedAt: 100, UpdatedAt: 200, FinishedAt: 200,
	}
	batch := mock.ExpectBatch()
	batch.ExpectExec(regexp.QuoteMeta(queryUpsert)).
		WithArgs("a", "a.pdf", int64(0), 1, "cancelled", 40.0, "", 0, "",
			int64(100), int64(200), sql.NullInt64{Int64: 200, Valid: true}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Upsert(context.Background(), []*entity.Job{job}))
}

func TestJobsRepositoryDelete(t *testing.T) {
	mock := setupMock(t)
	repo := NewJobsRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(queryDelete)).
		WithArgs("a").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.Delete(context.Background(), "a"))

	mock.ExpectExec(regexp.QuoteMeta(queryDelete)).
		WithArgs("a").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "a"), repositories.ErrJobNotFound)
}

func TestResultsRepository(t *testing.T) {
	mock := setupMock(t)
	repo := NewResultsRepository(mock)
	result := &entity.Result{
		JobID:         "a",
		Status:        entity.StatusCompleted,
		ExtractedText: "hello",
		PageCount:     1,
		Confidence:    0.95,
	}
	payload, err := json.Marshal(result)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(querySaveResult)).
		WithArgs("a", payload).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, repo.Save(context.Background(), result))

	mock.ExpectQuery(regexp.QuoteMeta(queryGetResult)).
		WithArgs("a").
		WillReturnRows(pgxmock.NewRows([]string{"result"}).AddRow(payload))
	got, err := repo.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, result, got)

	mock.ExpectQuery(regexp.QuoteMeta(queryGetResult)).
		WithArgs("b").
		WillReturnError(pgx.ErrNoRows)
	_, err = repo.Get(context.Background(), "b")
	assert.ErrorIs(t, err, repositories.ErrResultNotFound)

	mock.ExpectExec(regexp.QuoteMeta(queryDeleteResult)).
		WithArgs("a").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.Delete(context.Background(), "a"))
}
