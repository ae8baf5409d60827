// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"findmyplugin_backend/internal/api"
	"findmyplugin_backend/internal/feature/auth/domain/entity"
	"findmyplugin_backend/internal/feature/auth/transport/http/dto"
	"findmyplugin_backend/internal/feature/auth/usecase"
	"findmyplugin_backend/internal/platform/token"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は指定された名前・メールアドレス・パスワードで新規ユーザーを登録します。
	Register(ctx context.Context, name, email, password string) (*entity.User, error)
	// Login はユーザーを認証し、成功時にユーザーを返します。
	Login(ctx context.Context, email, password string) (*entity.User, error)
	// AdminLogin は環境設定の管理者資格情報を検証します。
	AdminLogin(email, password string) error
	// GoogleLogin はGoogleのIDトークンを検証し、対応するユーザーを返します。
	GoogleLogin(ctx context.Context, idToken string) (*entity.User, error)
	// GetByID はIDでユーザーを取得します。
	GetByID(ctx context.Context, id uint) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// セッションクレデンシャルの発行とクッキー配送はこの層が担当します。
type AuthHandler struct {
	auth       AuthUsecase
	codec      *token.Codec
	production bool
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase, codec *token.Codec, production bool) *AuthHandler {
	return &AuthHandler{auth: auth, codec: codec, production: production}
}

// AdminLogin は環境設定の管理者ログインを処理します。
// 成功時は{role:admin, email}クレームのクッキーを発行します。
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.NewValidationError("body", err))
		return
	}

	if err := h.auth.AdminLogin(req.Email, req.Password); err != nil {
		slog.Warn("admin login failed", "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.Error("Invalid credentials"))
		return
	}

	credential, err := h.codec.IssueAdmin(req.Email)
	if err != nil {
		slog.Error("failed to issue admin credential", "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	token.SetSessionCookie(c, credential, h.production)
	slog.Info("admin login successful", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.SessionResponse{OK: true, Role: entity.RoleAdmin})
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - メール重複時は400（Conflict）を返却し、アカウントは作成されない
// - 成功時はセッションクッキーを発行して201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.NewValidationError("body", err))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			c.JSON(http.StatusBadRequest, api.Error("Email already registered"))
			return
		}
		slog.Warn("register failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Error("Registration failed"))
		return
	}

	h.issueSession(c, user, http.StatusCreated)
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証失敗時はユーザー列挙を防ぐため常に同じ401を返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.NewValidationError("body", err))
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.Error("Invalid email or password"))
		return
	}

	slog.Info("user login successful", "user_id", user.ID)
	h.issueSession(c, user, http.StatusOK)
}

// GoogleLogin はフェデレーテッドログインを処理します。
// IDトークン検証後はローカルログインと同一のセッションクッキーを発行します。
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.NewValidationError("body", err))
		return
	}

	user, err := h.auth.GoogleLogin(c.Request.Context(), req.Credential)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidGoogleToken) {
			slog.Warn("google login rejected", "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, api.Error("Invalid Google credential"))
			return
		}
		slog.Error("google login failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	slog.Info("google login successful", "user_id", user.ID)
	h.issueSession(c, user, http.StatusOK)
}

// issueSession はDBユーザー向けのセッションクッキーを発行して応答します。
func (h *AuthHandler) issueSession(c *gin.Context, user *entity.User, status int) {
	credential, err := h.codec.IssueUser(user.ID, token.Role(user.Role))
	if err != nil {
		slog.Error("failed to issue credential", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	token.SetSessionCookie(c, credential, h.production)
	c.JSON(status, dto.SessionResponse{OK: true, Role: user.Role})
}

// Me は現在のセッションのアイデンティティを解決します。
// 環境管理者はトークンのクレームのみから合成し、DBユーザーはIDで引き直します。
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := token.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Error("Not authenticated"))
		return
	}

	if claims.IsEnvAdmin() {
		c.JSON(http.StatusOK, dto.MeResponse{Email: claims.Email, Role: string(claims.Role)})
		return
	}

	user, err := h.auth.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			// 参照先のアカウントが既に存在しない
			c.JSON(http.StatusUnauthorized, api.Error("Not authenticated"))
			return
		}
		slog.Error("identity resolution failed", "error", err, "user_id", claims.UserID)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, dto.MeResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

// Logout はセッションクッキーを破棄します。サーバー側の失効リストは持ちません。
func (h *AuthHandler) Logout(c *gin.Context) {
	token.ClearSessionCookie(c, h.production)
	c.JSON(http.StatusOK, api.Message("Logged out"))
}
