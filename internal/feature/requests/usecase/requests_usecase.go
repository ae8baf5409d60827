// Package usecase はrequestsフィーチャーのビジネスロジックを提供します。
package usecase

import (
	"context"
	"fmt"
	"strings"

	"findmyplugin_backend/internal/feature/requests/domain/entity"
)

// Upload は受信した添付ファイルの中身とメタデータです。
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SubmitInput はリクエスト送信の入力です。
type SubmitInput struct {
	Text  string
	Name  string
	Email string
	Phone string
	File  *Upload
}

// RequestRepository はリクエストの永続化操作を定義するインターフェースです。
type RequestRepository interface {
	Create(ctx context.Context, r *entity.Request) error
	ListAll(ctx context.Context) ([]entity.Request, error)
	FindByID(ctx context.Context, id uint) (*entity.Request, error)
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context, status entity.RequestStatus) (int64, error)
}

// FileStore は添付ファイルの保存先を定義するインターフェースです。
// Saveは保存後のファイル名と公開URLを返します。
type FileStore interface {
	Save(filename string, data []byte) (storedName, url string, err error)
}

// ImageModerator は画像添付の安全性を判定するインターフェースです。
type ImageModerator interface {
	IsSafe(ctx context.Context, imageData []byte) (bool, error)
}

// requestsUsecase はリクエスト送信と管理操作のユースケース実装です。
// moderatorがnilの場合、画像の安全性チェックはスキップされます。
type requestsUsecase struct {
	requests  RequestRepository
	files     FileStore
	moderator ImageModerator
}

// NewRequestsUsecase はrequestsUsecaseの新しいインスタンスを生成します。
func NewRequestsUsecase(requests RequestRepository, files FileStore, moderator ImageModerator) *requestsUsecase {
	return &requestsUsecase{requests: requests, files: files, moderator: moderator}
}

// Submit はリクエストを保存します。画像添付はモデレーションを通過した場合のみ保存されます。
func (u *requestsUsecase) Submit(ctx context.Context, in SubmitInput) (*entity.Request, error) {
	req := &entity.Request{
		Text:   strings.TrimSpace(in.Text),
		Name:   strings.TrimSpace(in.Name),
		Email:  strings.TrimSpace(in.Email),
		Phone:  strings.TrimSpace(in.Phone),
		Status: entity.StatusNew,
	}

	if in.File != nil && len(in.File.Data) > 0 {
		if u.moderator != nil && strings.HasPrefix(in.File.ContentType, "image/") {
			safe, err := u.moderator.IsSafe(ctx, in.File.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to moderate attachment: %w", err)
			}
			if !safe {
				return nil, ErrUnsafeImage
			}
		}

		storedName, url, err := u.files.Save(in.File.Filename, in.File.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to store attachment: %w", err)
		}
		req.FileURL = url
		req.Filename = storedName
	}

	if err := u.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// List は全リクエストを新しい順に返します。
func (u *requestsUsecase) List(ctx context.Context) ([]entity.Request, error) {
	return u.requests.ListAll(ctx)
}

// Get はリクエストを1件取得します。
func (u *requestsUsecase) Get(ctx context.Context, id uint) (*entity.Request, error) {
	return u.requests.FindByID(ctx, id)
}

// Delete はリクエストを削除します。
func (u *requestsUsecase) Delete(ctx context.Context, id uint) error {
	return u.requests.Delete(ctx, id)
}

// CountPending は未対応（new）リクエスト数を返します。
func (u *requestsUsecase) CountPending(ctx context.Context) (int64, error) {
	return u.requests.CountByStatus(ctx, entity.StatusNew)
}
