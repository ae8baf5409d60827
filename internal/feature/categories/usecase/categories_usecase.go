// Package usecase はcategoriesフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"

	"findmyplugin_backend/internal/feature/categories/domain/entity"
)

var (
	// ErrCategoryNotFound はカテゴリが存在しない場合に返されます。
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryNameTaken は同名カテゴリが既に存在する場合に返されます。
	ErrCategoryNameTaken = errors.New("category name already exists")
)

// CategoryRepository はカテゴリの永続化層を抽象化します。
type CategoryRepository interface {
	// ListAll は全カテゴリを名前順に返します。
	ListAll(ctx context.Context) ([]entity.Category, error)

	// Create は新しいカテゴリを永続化します。
	// 同名カテゴリが存在する場合、ErrCategoryNameTakenを返します。
	Create(ctx context.Context, c *entity.Category) error

	// Update は指定されたフィールドのみ更新し、更新後のカテゴリを返します。
	Update(ctx context.Context, id uint, name *string, subs *entity.SubList) (*entity.Category, error)

	// Delete はカテゴリを物理削除します。
	Delete(ctx context.Context, id uint) error
}

// categoriesUsecase はカテゴリ操作のビジネスロジックを実装します。
type categoriesUsecase struct {
	categories CategoryRepository
}

// NewCategoriesUsecase はcategoriesUsecaseの新しいインスタンスを生成します。
func NewCategoriesUsecase(categories CategoryRepository) *categoriesUsecase {
	return &categoriesUsecase{categories: categories}
}

// List は全カテゴリを返します。
func (u *categoriesUsecase) List(ctx context.Context) ([]entity.Category, error) {
	return u.categories.ListAll(ctx)
}

// Create は新しいカテゴリを登録して返します。
func (u *categoriesUsecase) Create(ctx context.Context, name string, subs []string) (*entity.Category, error) {
	c := &entity.Category{Name: name, Subs: entity.SubList(subs)}
	if c.Subs == nil {
		c.Subs = entity.SubList{}
	}
	if err := u.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update はカテゴリの名前・サブカテゴリを部分更新します。
func (u *categoriesUsecase) Update(ctx context.Context, id uint, name *string, subs *[]string) (*entity.Category, error) {
	var subList *entity.SubList
	if subs != nil {
		sl := entity.SubList(*subs)
		subList = &sl
	}
	return u.categories.Update(ctx, id, name, subList)
}

// Delete はカテゴリを削除します。
func (u *categoriesUsecase) Delete(ctx context.Context, id uint) error {
	return u.categories.Delete(ctx, id)
}
