package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authentity "findmyplugin_backend/internal/feature/auth/domain/entity"
	"findmyplugin_backend/internal/feature/comments/domain/entity"
	"findmyplugin_backend/internal/feature/comments/usecase"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
// コメントは投稿者と結合するためusersテーブルも作成します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&authentity.User{}, &entity.Comment{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

// seedUser はテスト用ユーザーを作成します。
func seedUser(t *testing.T, db *gorm.DB, name, email string) *authentity.User {
	t.Helper()

	user := &authentity.User{Name: name, Email: email, Password: "hashed", Provider: authentity.ProviderLocal, Role: authentity.RoleUser}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCommentPostgres_CreateAndJoin(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "Alice", "alice@example.com")

	got, err := repo.Create(ctx, &entity.Comment{PluginID: 1, UserID: user.ID, Content: "Nice!"})
	require.NoError(t, err)

	assert.Equal(t, "Nice!", got.Content)
	assert.Equal(t, "Alice", got.UserName, "creator name must be joined in")
	assert.Equal(t, "alice@example.com", got.UserEmail)
	assert.NotZero(t, got.ID)
}

func TestCommentPostgres_ListByPlugin(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "Bob", "bob@example.com")

	// 古い順に3件、うち1件は別プラグイン
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range []entity.Comment{
		{PluginID: 1, UserID: user.ID, Content: "first"},
		{PluginID: 1, UserID: user.ID, Content: "second"},
		{PluginID: 2, UserID: user.ID, Content: "other plugin"},
	} {
		c.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&c).Error)
	}

	comments, err := repo.ListByPlugin(ctx, 1, 200)
	require.NoError(t, err)

	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content, "newest first")
	assert.Equal(t, "first", comments[1].Content)
}

func TestCommentPostgres_ListByPlugin_DeletedUser(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	// 存在しないユーザーIDのコメントもLEFT JOINで返る
	require.NoError(t, db.Create(&entity.Comment{PluginID: 1, UserID: 9999, Content: "orphan"}).Error)

	comments, err := repo.ListByPlugin(ctx, 1, 200)
	require.NoError(t, err)

	require.Len(t, comments, 1)
	assert.Empty(t, comments[0].UserName)
}

func TestCommentPostgres_Delete(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "Carol", "carol@example.com")
	created, err := repo.Create(ctx, &entity.Comment{PluginID: 1, UserID: user.ID, Content: "bye"})
	require.NoError(t, err)

	t.Run("成功: 削除できる", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, created.ID))

		_, err := repo.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, usecase.ErrCommentNotFound)
	})

	t.Run("失敗: 二重削除はErrCommentNotFound", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, created.ID), usecase.ErrCommentNotFound)
	})
}
