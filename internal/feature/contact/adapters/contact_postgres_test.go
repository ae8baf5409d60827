package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"findmyplugin_backend/internal/feature/contact/domain/entity"
	"findmyplugin_backend/internal/feature/contact/usecase"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	require.NoError(t, db.AutoMigrate(&entity.ContactMessage{}))
	return db
}

func TestContactPostgres_CreateAndList(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewContactRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i, m := range []entity.ContactMessage{
		{Email: "a@example.com", Message: "first"},
		{Email: "b@example.com", Message: "second"},
	} {
		m.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(ctx, &m))
	}

	msgs, err := repo.ListAll(ctx)
	require.NoError(t, err)

	require.Len(t, msgs, 2)
	assert.Equal(t, "second", msgs[0].Message, "newest first")
	assert.Equal(t, "first", msgs[1].Message)
}

func TestContactPostgres_Delete(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewContactRepository(db)
	ctx := context.Background()

	m := &entity.ContactMessage{Email: "a@example.com", Message: "hello"}
	require.NoError(t, repo.Create(ctx, m))

	t.Run("成功: 削除できる", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, m.ID))

		msgs, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("失敗: 存在しないIDはErrContactMessageNotFound", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, 9999), usecase.ErrContactMessageNotFound)
	})
}
