// Package usecase はcommentsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"findmyplugin_backend/internal/feature/comments/domain/entity"
)

// MaxCommentsPerList は1回のリストで返すコメントの最大件数です。
const MaxCommentsPerList = 200

var (
	// ErrCommentNotFound はコメントが存在しない場合に返されます。
	ErrCommentNotFound = errors.New("comment not found")

	// ErrEmptyComment はサニタイズ後に本文が空になった場合に返されます。
	ErrEmptyComment = errors.New("empty comment")

	// ErrForbidden は所有者でも管理者でもないユーザーによる削除で返されます。
	ErrForbidden = errors.New("forbidden")
)

// CommentRepository はコメントの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはコンシューマー（usecase）が定義します。
type CommentRepository interface {
	// Create はコメントを永続化し、投稿者情報付きで返します。
	Create(ctx context.Context, c *entity.Comment) (*entity.CommentWithUser, error)

	// ListByPlugin はプラグインのコメントを新しい順にlimit件まで返します。
	ListByPlugin(ctx context.Context, pluginID uint, limit int) ([]entity.CommentWithUser, error)

	// ListAll は全コメントを新しい順にlimit件まで返します（管理画面用）。
	ListAll(ctx context.Context, limit int) ([]entity.CommentWithUser, error)

	// FindByID はコメントをIDで取得します。
	FindByID(ctx context.Context, id uint) (*entity.Comment, error)

	// Delete はコメントを物理削除します。
	Delete(ctx context.Context, id uint) error
}

// commentsUsecase はコメント操作のビジネスロジックを実装します。
type commentsUsecase struct {
	comments  CommentRepository
	sanitizer *bluemonday.Policy
}

// NewCommentsUsecase はcommentsUsecaseの新しいインスタンスを生成します。
func NewCommentsUsecase(comments CommentRepository) *commentsUsecase {
	return &commentsUsecase{
		comments: comments,
		// コメントはプレーンテキストのみ許可（全タグ除去）
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// ListForPlugin はプラグインのコメントを新しい順に返します。
func (u *commentsUsecase) ListForPlugin(ctx context.Context, pluginID uint) ([]entity.CommentWithUser, error) {
	return u.comments.ListByPlugin(ctx, pluginID, MaxCommentsPerList)
}

// ListAll は全コメントを返します（管理者専用）。
func (u *commentsUsecase) ListAll(ctx context.Context) ([]entity.CommentWithUser, error) {
	return u.comments.ListAll(ctx, MaxCommentsPerList)
}

// Create は本文をサニタイズしてコメントを投稿します。
// HTMLタグはすべて除去し、空になった場合はErrEmptyCommentを返します。
func (u *commentsUsecase) Create(ctx context.Context, pluginID, userID uint, content string) (*entity.CommentWithUser, error) {
	clean := strings.TrimSpace(u.sanitizer.Sanitize(content))
	if clean == "" {
		return nil, ErrEmptyComment
	}

	return u.comments.Create(ctx, &entity.Comment{
		PluginID: pluginID,
		UserID:   userID,
		Content:  clean,
	})
}

// Delete はコメントを削除します。所有者本人または管理者のみ許可されます。
func (u *commentsUsecase) Delete(ctx context.Context, id, actorID uint, actorIsAdmin bool) error {
	comment, err := u.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if comment.UserID != actorID && !actorIsAdmin {
		return ErrForbidden
	}

	return u.comments.Delete(ctx, id)
}
