// Package adapters はcategoriesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"findmyplugin_backend/internal/feature/categories/domain/entity"
	"findmyplugin_backend/internal/feature/categories/usecase"
)

// categoryPostgres はCategoryRepositoryインターフェースのPostgreSQL実装です。
type categoryPostgres struct {
	db *gorm.DB
}

var _ usecase.CategoryRepository = (*categoryPostgres)(nil)

// NewCategoryRepository は指定されたDB接続でcategoryPostgresの新しいインスタンスを生成します。
func NewCategoryRepository(db *gorm.DB) *categoryPostgres {
	return &categoryPostgres{db: db}
}

// ListAll は全カテゴリを名前順に返します。
func (r *categoryPostgres) ListAll(ctx context.Context) ([]entity.Category, error) {
	var cats []entity.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

// Create はカテゴリを追加します。同名カテゴリはErrCategoryNameTakenになります。
func (r *categoryPostgres) Create(ctx context.Context, c *entity.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		var pgErr *pgconn.PgError
		if (errors.As(err, &pgErr) && pgErr.Code == "23505") || errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.ErrCategoryNameTaken
		}
		return err
	}
	return nil
}

// Update は指定されたフィールドのみ更新し、更新後のカテゴリを返します。
func (r *categoryPostgres) Update(ctx context.Context, id uint, name *string, subs *entity.SubList) (*entity.Category, error) {
	cols := map[string]any{}
	if name != nil {
		cols["name"] = *name
	}
	if subs != nil {
		cols["subs"] = *subs
	}

	if len(cols) > 0 {
		res := r.db.WithContext(ctx).
			Model(&entity.Category{}).
			Where("id = ?", id).
			Updates(cols)
		if err := res.Error; err != nil {
			var pgErr *pgconn.PgError
			if (errors.As(err, &pgErr) && pgErr.Code == "23505") || errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, usecase.ErrCategoryNameTaken
			}
			return nil, err
		}
		if res.RowsAffected == 0 {
			return nil, usecase.ErrCategoryNotFound
		}
	}

	var c entity.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Delete はカテゴリを物理削除します。
func (r *categoryPostgres) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrCategoryNotFound
	}
	return nil
}
