// Package google はGoogleのIDトークン検証クライアントを提供します。
package google

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"findmyplugin_backend/internal/feature/auth/usecase"
)

// Issuer はGoogleのOpenID Connect発行者URLです。
const Issuer = "https://accounts.google.com"

// Verifier はgo-oidc経由でGoogleの公開鍵に対してIDトークンを検証します。
// 鍵の取得とローテーションはoidcプロバイダーが管理します。
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// VerifierがGoogleVerifierを実装していることをコンパイル時に検証します。
var _ usecase.GoogleVerifier = (*Verifier)(nil)

// NewVerifier はGoogleのディスカバリードキュメントからVerifierを初期化します。
// clientIDはトークンのaudience検証に使用します。
func NewVerifier(ctx context.Context, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover google oidc provider: %w", err)
	}
	return &Verifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// Verify はIDトークンの署名・発行者・audience・有効期限を検証し、
// プロフィールクレームを返します。
func (v *Verifier) Verify(ctx context.Context, idToken string) (usecase.GoogleIdentity, error) {
	tok, err := v.verifier.Verify(ctx, idToken)
	if err != nil {
		return usecase.GoogleIdentity{}, fmt.Errorf("google id token verification failed: %w", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := tok.Claims(&claims); err != nil {
		return usecase.GoogleIdentity{}, fmt.Errorf("failed to parse google claims: %w", err)
	}

	return usecase.GoogleIdentity{
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}, nil
}
