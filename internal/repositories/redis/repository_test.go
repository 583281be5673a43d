package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	repositories "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/repository"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestJobsRepository(t *testing.T) {
	ctx := context.Background()
	_, client := setup(t)
	repo := NewJobsRepository(client, "test", time.Hour)

	first := &entity.Job{ID: "a", FileName: "a.pdf", Status: entity.StatusPending, CreatedAt: 100}
	second := &entity.Job{ID: "b", FileName: "b.pdf", Status: entity.StatusPending, CreatedAt: 200}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.ErrorIs(t, repo.Create(ctx, first), repositories.ErrJobExists)

	first.Status = entity.StatusCompleted
	first.Progress = 100
	require.NoError(t, repo.Upsert(ctx, []*entity.Job{first}))

	got, err := repo.Read(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, got.Status)
	assert.Equal(t, "a.pdf", got.FileName)

	jobs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "b", jobs[0].ID)
	assert.Equal(t, "a", jobs[1].ID)

	require.NoError(t, repo.Delete(ctx, "a"))
	assert.ErrorIs(t, repo.Delete(ctx, "a"), repositories.ErrJobNotFound)
	_, err = repo.Read(ctx, "a")
	assert.ErrorIs(t, err, repositories.ErrJobNotFound)
}

func TestJobsRepositoryListPrunesExpired(t *testing.T) {
	ctx := context.Background()
	mr, client := setup(t)
	repo := NewJobsRepository(client, "test", time.Minute)

	require.NoError(t, repo.Create(ctx, &entity.Job{ID: "a", CreatedAt: 1}))
	mr.FastForward(2 * time.Minute)

	jobs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	members, err := client.ZRange(ctx, "test:jobs", 0, -1).Result()
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestResultsRepository(t *testing.T) {
	ctx := context.Background()
	_, client := setup(t)
	repo := NewResultsRepository(client, "test", time.Hour)

	_, err := repo.Get(ctx, "a")
	assert.ErrorIs(t, err, repositories.ErrResultNotFound)

	result := &entity.Result{
		JobID:         "a",
		Status:        entity.StatusCompleted,
		ExtractedText: "hello",
		Pages: []entity.Page{{
			PageNumber: 1,
			Blocks:     []entity.LayoutElement{{Type: entity.BlockTitle, BBox: entity.BBox{1, 2, 3, 4}}},
		}},
	}
	require.NoError(t, repo.Save(ctx, result))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, result, got)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, repositories.ErrResultNotFound)
}
