package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ignitelabs/sparkd/internal/models"
)

// Setup in-memory DB for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Category{},
		&models.User{},
		&models.Spark{},
		&models.Teaser{},
	)
	require.NoError(t, err)

	return db
}

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

// seedSpark creates a category, a creator and a spark launching at the given time.
func seedSpark(t *testing.T, db *gorm.DB, launch time.Time) *models.Spark {
	t.Helper()
	ctx := context.Background()

	cat := &models.Category{Name: "thriller-" + uuid.NewString(), Description: "edge of the seat"}
	require.NoError(t, NewCategoriesRepository(db).Create(ctx, cat))

	creator := &models.User{FirstName: "Ada", LastName: "Creator", Email: "ada@example.com"}
	require.NoError(t, NewUsersRepository(db).Create(ctx, creator))

	spark := &models.Spark{
		Title:       "Midnight Signal",
		Description: "a story told in static",
		FileType:    models.FileTypeMarkdown,
		CategoryID:  cat.ID,
		CreatorID:   creator.ID,
		LaunchDate:  launch,
	}
	require.NoError(t, NewSparksRepository(db).Create(ctx, spark))

	return spark
}
