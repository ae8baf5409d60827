// Package adapters はrequestsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"findmyplugin_backend/internal/feature/requests/domain/entity"
	"findmyplugin_backend/internal/feature/requests/usecase"
)

// requestPostgres はRequestRepositoryインターフェースのPostgreSQL実装です。
type requestPostgres struct {
	db *gorm.DB
}

var _ usecase.RequestRepository = (*requestPostgres)(nil)

// NewRequestRepository は指定されたDB接続でrequestPostgresの新しいインスタンスを生成します。
func NewRequestRepository(db *gorm.DB) *requestPostgres {
	return &requestPostgres{db: db}
}

// Create はリクエストを保存します。
func (r *requestPostgres) Create(ctx context.Context, req *entity.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// ListAll は全リクエストを作成日時の降順で返します。
func (r *requestPostgres) ListAll(ctx context.Context) ([]entity.Request, error) {
	var requests []entity.Request
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindByID はリクエストを1件取得します。
func (r *requestPostgres) FindByID(ctx context.Context, id uint) (*entity.Request, error) {
	var req entity.Request
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Delete はリクエストを物理削除します。
func (r *requestPostgres) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Request{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrRequestNotFound
	}
	return nil
}

// CountByStatus は指定ステータスのリクエスト数を返します。
func (r *requestPostgres) CountByStatus(ctx context.Context, status entity.RequestStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Request{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
