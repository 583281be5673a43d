package inmemory

import (
	"context"
	"testing"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	repositories "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobsRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewJobsRepository()

	job := &entity.Job{ID: "a", FileName: "a.pdf", Status: entity.StatusPending, CreatedAt: 1}
	require.NoError(t, repo.Create(ctx, job))
	assert.ErrorIs(t, repo.Create(ctx, job), repositories.ErrJobExists)

	// mutating the caller's copy must not leak into the store
	job.Status = entity.StatusFailed
	got, err := repo.Read(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status)

	got.Status = entity.StatusProcessing
	got.Progress = 40
	require.NoError(t, repo.Upsert(ctx, []*entity.Job{got}))

	got, err = repo.Read(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusProcessing, got.Status)
	assert.Equal(t, 40.0, got.Progress)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.Read(ctx, "a")
	assert.ErrorIs(t, err, repositories.ErrJobNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "a"), repositories.ErrJobNotFound)
}

func TestJobsRepositoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewJobsRepository()

	jobs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	require.NoError(t, repo.Create(ctx, &entity.Job{ID: "old", CreatedAt: 10}))
	require.NoError(t, repo.Create(ctx, &entity.Job{ID: "new", CreatedAt: 30}))
	require.NoError(t, repo.Create(ctx, &entity.Job{ID: "mid", CreatedAt: 20}))

	jobs, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{jobs[0].ID, jobs[1].ID, jobs[2].ID})
}

func TestResultsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewResultsRepository()

	_, err := repo.Get(ctx, "a")
	assert.ErrorIs(t, err, repositories.ErrResultNotFound)

	require.NoError(t, repo.Save(ctx, &entity.Result{JobID: "a", PageCount: 2}))
	res, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, res.PageCount)

	require.NoError(t, repo.Delete(ctx, "a"))
	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, repositories.ErrResultNotFound)
}
