// Package dto はauthフィーチャーのHTTPリクエスト/レスポンス型を定義します。
package dto

// AdminLoginRequest はPOST /api/auth/loginのボディです。
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest はPOST /api/auth/user-registerのボディです。
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest はPOST /api/auth/user-loginのボディです。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest はPOST /api/auth/googleのボディです。
// CredentialはGoogle Identity Servicesが発行するIDトークンです。
type GoogleLoginRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// SessionResponse はログイン成功時のレスポンスです。
// クレデンシャル本体はHTTP-onlyクッキーで運ばれ、ボディには含めません。
type SessionResponse struct {
	OK   bool   `json:"ok"`
	Role string `json:"role"`
}

// MeResponse はGET /api/auth/meのレスポンスです。
type MeResponse struct {
	ID    uint   `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
