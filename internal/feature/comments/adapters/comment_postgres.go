// Package adapters はcommentsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"findmyplugin_backend/internal/feature/comments/domain/entity"
	"findmyplugin_backend/internal/feature/comments/usecase"
)

// commentPostgres はCommentRepositoryインターフェースのPostgreSQL実装です。
type commentPostgres struct {
	db *gorm.DB
}

var _ usecase.CommentRepository = (*commentPostgres)(nil)

// NewCommentRepository は指定されたDB接続でcommentPostgresの新しいインスタンスを生成します。
func NewCommentRepository(db *gorm.DB) *commentPostgres {
	return &commentPostgres{db: db}
}

// commentRow はusersテーブルと結合した読み取り用の行です。
type commentRow struct {
	ID        uint
	PluginID  uint
	UserID    uint
	Content   string
	CreatedAt time.Time
	UserName  string
	UserEmail string
}

func (r commentRow) toEntity() entity.CommentWithUser {
	return entity.CommentWithUser{
		Comment: entity.Comment{
			ID:        r.ID,
			PluginID:  r.PluginID,
			UserID:    r.UserID,
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
		},
		UserName:  r.UserName,
		UserEmail: r.UserEmail,
	}
}

// joined はコメントと投稿者を結合したベースクエリを返します。
// 退会済みユーザーのコメントも表示するためLEFT JOINを使います。
func (r *commentPostgres) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.plugin_id, comments.user_id, comments.content, comments.created_at, users.name AS user_name, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = comments.user_id")
}

// Create はコメントを追加し、投稿者情報付きで読み直して返します。
func (r *commentPostgres) Create(ctx context.Context, c *entity.Comment) (*entity.CommentWithUser, error) {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}

	var row commentRow
	if err := r.joined(ctx).Where("comments.id = ?", c.ID).Scan(&row).Error; err != nil {
		return nil, err
	}
	out := row.toEntity()
	return &out, nil
}

// ListByPlugin はプラグインのコメントを新しい順にlimit件まで返します。
func (r *commentPostgres) ListByPlugin(ctx context.Context, pluginID uint, limit int) ([]entity.CommentWithUser, error) {
	var rows []commentRow
	err := r.joined(ctx).
		Where("comments.plugin_id = ?", pluginID).
		Order("comments.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.CommentWithUser, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// ListAll は全コメントを新しい順にlimit件まで返します。
func (r *commentPostgres) ListAll(ctx context.Context, limit int) ([]entity.CommentWithUser, error) {
	var rows []commentRow
	err := r.joined(ctx).
		Order("comments.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.CommentWithUser, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// FindByID はコメントをIDで取得します。
func (r *commentPostgres) FindByID(ctx context.Context, id uint) (*entity.Comment, error) {
	var c entity.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Delete はコメントを物理削除します。
func (r *commentPostgres) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrCommentNotFound
	}
	return nil
}
