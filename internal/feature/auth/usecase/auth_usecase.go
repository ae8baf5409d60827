// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"findmyplugin_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// GoogleIdentity はGoogleのIDトークンから検証済みで取り出されたプロフィールです。
type GoogleIdentity struct {
	Email         string
	EmailVerified bool
	Name          string
}

// GoogleVerifier はGoogleのIDトークンを公開鍵検証サービスに対して検証します。
// Goの慣例に従い、インターフェースはコンシューマー（usecase）が定義します。
type GoogleVerifier interface {
	// Verify はIDトークンの署名・発行者・audienceを検証し、プロフィールを返します。
	Verify(ctx context.Context, idToken string) (GoogleIdentity, error)
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users         UserRepository
	google        GoogleVerifier
	adminEmail    string
	adminPassword string
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// adminEmail/adminPasswordは環境設定の管理者ショートカット資格情報です。
// googleはnil可（フェデレーテッドログイン無効）。
func NewAuthUsecase(users UserRepository, google GoogleVerifier, adminEmail, adminPassword string) *authUsecase {
	return &authUsecase{
		users:         users,
		google:        google,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録します。
// メールアドレスが既に使われている場合、ErrEmailAlreadyExistsを返し、
// 新しいアカウントは作成されません。
func (u *authUsecase) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Provider: entity.ProviderLocal,
		Role:     entity.RoleUser,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login はユーザーを認証し、成功時にユーザーを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := u.users.FindByEmail(ctx, email)

	// ユーザー未検出時のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = user.Password
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// AdminLogin は環境設定の管理者ショートカット資格情報を検証します。
// 比較は定数時間で行います。
func (u *authUsecase) AdminLogin(email, password string) error {
	if u.adminEmail == "" || u.adminPassword == "" {
		return ErrInvalidCredentials
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(u.adminEmail))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(u.adminPassword))
	if emailOK&passOK != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

// GoogleLogin はGoogleのIDトークンを検証し、対応するユーザーを返します。
// 初回ログイン時はrole=userのアカウントを作成します。
func (u *authUsecase) GoogleLogin(ctx context.Context, idToken string) (*entity.User, error) {
	if u.google == nil {
		return nil, ErrInvalidGoogleToken
	}

	identity, err := u.google.Verify(ctx, idToken)
	if err != nil || !identity.EmailVerified || identity.Email == "" {
		return nil, ErrInvalidGoogleToken
	}

	user, err := u.users.FindByEmail(ctx, identity.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	// 初回ログイン：アカウントを作成
	user = &entity.User{
		Name:     identity.Name,
		Email:    identity.Email,
		Provider: entity.ProviderGoogle,
		Role:     entity.RoleUser,
	}
	if err := u.users.Create(ctx, user); err != nil {
		// 並行リクエストが先にアカウントを作成した場合は取り直す
		if errors.Is(err, ErrEmailAlreadyExists) {
			return u.users.FindByEmail(ctx, identity.Email)
		}
		return nil, err
	}
	return user, nil
}

// GetByID は検証済みクレデンシャルが参照するユーザーを取得します。
// アカウントが既に存在しない場合、ErrUserNotFoundを返します。
func (u *authUsecase) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}
