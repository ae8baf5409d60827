package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"findmyplugin_backend/internal/feature/auth/domain/entity"
	"findmyplugin_backend/internal/feature/auth/usecase"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
// 一意制約違反をgorm.ErrDuplicatedKeyへ変換するためTranslateErrorを有効にします。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.User{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func TestUserPostgres_Create(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("成功: ユーザーを作成できる", func(t *testing.T) {
		user := &entity.User{Name: "Alice", Email: "alice@example.com", Password: "hashed", Provider: entity.ProviderLocal, Role: entity.RoleUser}
		err := repo.Create(ctx, user)
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
	})

	t.Run("失敗: 重複メールはErrEmailAlreadyExists", func(t *testing.T) {
		dup := &entity.User{Name: "Alice2", Email: "alice@example.com", Password: "hashed", Provider: entity.ProviderLocal, Role: entity.RoleUser}
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)
	})
}

func TestUserPostgres_Find(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seeded := &entity.User{Name: "Bob", Email: "bob@example.com", Password: "hashed", Provider: entity.ProviderLocal, Role: entity.RoleUser}
	require.NoError(t, repo.Create(ctx, seeded))

	t.Run("成功: メールで取得できる", func(t *testing.T) {
		got, err := repo.FindByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, got.ID)
	})

	t.Run("成功: IDで取得できる", func(t *testing.T) {
		got, err := repo.FindByID(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", got.Email)
	})

	t.Run("失敗: 未登録メールはErrUserNotFound", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})

	t.Run("失敗: 存在しないIDはErrUserNotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 9999)
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})
}
