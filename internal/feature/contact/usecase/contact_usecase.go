// Package usecase はcontactフィーチャーのビジネスロジックを提供します。
package usecase

import (
	"context"
	"errors"
	"strings"

	"findmyplugin_backend/internal/feature/contact/domain/entity"
)

// ErrContactMessageNotFound は指定されたお問い合わせが存在しない場合に返されます。
var ErrContactMessageNotFound = errors.New("contact message not found")

// ContactRepository はお問い合わせの永続化操作を定義するインターフェースです。
type ContactRepository interface {
	Create(ctx context.Context, m *entity.ContactMessage) error
	ListAll(ctx context.Context) ([]entity.ContactMessage, error)
	Delete(ctx context.Context, id uint) error
}

// contactUsecase はContactRepositoryを利用したユースケース実装です。
type contactUsecase struct {
	messages ContactRepository
}

// NewContactUsecase はcontactUsecaseの新しいインスタンスを生成します。
func NewContactUsecase(messages ContactRepository) *contactUsecase {
	return &contactUsecase{messages: messages}
}

// Submit はお問い合わせを保存します。前後の空白は除去されます。
func (u *contactUsecase) Submit(ctx context.Context, email, message string) (*entity.ContactMessage, error) {
	m := &entity.ContactMessage{
		Email:   strings.TrimSpace(email),
		Message: strings.TrimSpace(message),
	}
	if err := u.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// List は全お問い合わせを新しい順に返します。
func (u *contactUsecase) List(ctx context.Context) ([]entity.ContactMessage, error) {
	return u.messages.ListAll(ctx)
}

// Delete はお問い合わせを削除します。
func (u *contactUsecase) Delete(ctx context.Context, id uint) error {
	return u.messages.Delete(ctx, id)
}
