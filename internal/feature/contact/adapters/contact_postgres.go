// Package adapters はcontactフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"findmyplugin_backend/internal/feature/contact/domain/entity"
	"findmyplugin_backend/internal/feature/contact/usecase"
)

// contactPostgres はContactRepositoryインターフェースのPostgreSQL実装です。
type contactPostgres struct {
	db *gorm.DB
}

var _ usecase.ContactRepository = (*contactPostgres)(nil)

// NewContactRepository は指定されたDB接続でcontactPostgresの新しいインスタンスを生成します。
func NewContactRepository(db *gorm.DB) *contactPostgres {
	return &contactPostgres{db: db}
}

// Create はお問い合わせを保存します。
func (r *contactPostgres) Create(ctx context.Context, m *entity.ContactMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListAll は全お問い合わせを作成日時の降順で返します。
func (r *contactPostgres) ListAll(ctx context.Context) ([]entity.ContactMessage, error) {
	var messages []entity.ContactMessage
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// Delete はお問い合わせを物理削除します。
func (r *contactPostgres) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ContactMessage{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrContactMessageNotFound
	}
	return nil
}
