package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignitelabs/sparkd/internal/models"
)

func TestTeasersRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	spark := seedSpark(t, db, time.Now().Add(time.Hour))
	repo := NewTeasersRepository(db)

	teaser := &models.Teaser{
		SparkID:       spark.ID,
		Content:       "Something is coming.",
		ScheduledDate: time.Now().Add(20 * time.Minute),
	}
	require.NoError(t, repo.Create(ctx, teaser))
	assert.NotZero(t, teaser.ID, "Create should assign an id")

	got, err := repo.GetByID(ctx, teaser.ID)
	require.NoError(t, err)
	assert.Equal(t, "Something is coming.", got.Content)
	assert.False(t, got.Sent, "new teasers start unsent")
}

func TestTeasersRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTeasersRepository(db)

	_, err := repo.GetByID(context.Background(), newUUID(t))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTeasersRepository_FindDue(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()
	spark := seedSpark(t, db, now.Add(2*time.Hour))
	repo := NewTeasersRepository(db)

	past1 := &models.Teaser{SparkID: spark.ID, Content: "t1", ScheduledDate: now.Add(-30 * time.Minute)}
	past2 := &models.Teaser{SparkID: spark.ID, Content: "t2", ScheduledDate: now.Add(-10 * time.Minute)}
	future := &models.Teaser{SparkID: spark.ID, Content: "t3", ScheduledDate: now.Add(30 * time.Minute)}
	sentPast := &models.Teaser{SparkID: spark.ID, Content: "t4", ScheduledDate: now.Add(-time.Hour), Sent: true}

	for _, teaser := range []*models.Teaser{past2, past1, future, sentPast} {
		require.NoError(t, repo.Create(ctx, teaser))
	}

	due, err := repo.FindDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 2, "only past, unsent teasers are due")

	// ascending scheduled date
	assert.Equal(t, "t1", due[0].Content)
	assert.Equal(t, "t2", due[1].Content)
}

func TestTeasersRepository_MarkSent_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	spark := seedSpark(t, db, time.Now().Add(time.Hour))
	repo := NewTeasersRepository(db)

	teaser := &models.Teaser{SparkID: spark.ID, Content: "once", ScheduledDate: time.Now().Add(-time.Minute)}
	require.NoError(t, repo.Create(ctx, teaser))

	require.NoError(t, repo.MarkSent(ctx, teaser.ID))

	got, err := repo.GetByID(ctx, teaser.ID)
	require.NoError(t, err)
	assert.True(t, got.Sent)

	// second call is a no-op, not an error
	require.NoError(t, repo.MarkSent(ctx, teaser.ID))

	due, err := repo.FindDue(ctx, time.Now())
	require.NoError(t, err)
	assert.Empty(t, due, "sent teasers never show up as due again")
}

func TestTeasersRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	spark := seedSpark(t, db, time.Now().Add(time.Hour))
	repo := NewTeasersRepository(db)

	teaser := &models.Teaser{SparkID: spark.ID, Content: "draft", ScheduledDate: time.Now().Add(10 * time.Minute)}
	require.NoError(t, repo.Create(ctx, teaser))

	content := "final copy"
	updated, err := repo.Update(ctx, teaser.ID, TeaserUpdate{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "final copy", updated.Content)

	_, err = repo.Update(ctx, newUUID(t), TeaserUpdate{Content: &content})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTeasersRepository_List_FilterAndPagination(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()
	sparkA := seedSpark(t, db, now.Add(time.Hour))
	sparkB := seedSpark(t, db, now.Add(time.Hour))
	repo := NewTeasersRepository(db)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Teaser{
			SparkID:       sparkA.ID,
			Content:       "a",
			ScheduledDate: now.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Create(ctx, &models.Teaser{
		SparkID:       sparkB.ID,
		Content:       "b",
		ScheduledDate: now,
	}))

	onlyA, err := repo.List(ctx, TeaserFilter{SparkID: &sparkA.ID}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, onlyA, 3)

	page2, err := repo.List(ctx, TeaserFilter{SparkID: &sparkA.ID}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page2, 1)

	unsent := false
	all, err := repo.List(ctx, TeaserFilter{Sent: &unsent}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestTeasersRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	spark := seedSpark(t, db, time.Now().Add(time.Hour))
	repo := NewTeasersRepository(db)

	teaser := &models.Teaser{SparkID: spark.ID, Content: "gone", ScheduledDate: time.Now()}
	require.NoError(t, repo.Create(ctx, teaser))

	require.NoError(t, repo.Delete(ctx, teaser.ID))
	assert.ErrorIs(t, repo.Delete(ctx, teaser.ID), ErrNotFound)
}
