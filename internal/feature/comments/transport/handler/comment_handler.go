// Package handler はcommentsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"findmyplugin_backend/internal/api"
	"findmyplugin_backend/internal/feature/comments/domain/entity"
	"findmyplugin_backend/internal/feature/comments/usecase"
	"findmyplugin_backend/internal/platform/token"
)

// CommentsUsecase はコメント操作のユースケースインターフェースを定義します。
type CommentsUsecase interface {
	ListForPlugin(ctx context.Context, pluginID uint) ([]entity.CommentWithUser, error)
	ListAll(ctx context.Context) ([]entity.CommentWithUser, error)
	Create(ctx context.Context, pluginID, userID uint, content string) (*entity.CommentWithUser, error)
	Delete(ctx context.Context, id, actorID uint, actorIsAdmin bool) error
}

// CommentsHandler はコメントのHTTPリクエストを処理します。
type CommentsHandler struct {
	uc CommentsUsecase
}

// NewCommentsHandler はCommentsHandlerの新しいインスタンスを生成します。
func NewCommentsHandler(uc CommentsUsecase) *CommentsHandler {
	return &CommentsHandler{uc: uc}
}

// createCommentRequest はコメント投稿のボディです。
type createCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// commentResponse はコメント1件のレスポンス表現です。
type commentResponse struct {
	ID        uint      `json:"id"`
	PluginID  uint      `json:"pluginId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `json:"userId,omitempty"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail,omitempty"`
}

func toResponse(c entity.CommentWithUser, includeEmail bool) commentResponse {
	name := c.UserName
	if name == "" {
		name = "Unknown"
	}
	out := commentResponse{
		ID:        c.ID,
		PluginID:  c.PluginID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UserID:    c.UserID,
		UserName:  name,
	}
	if includeEmail {
		out.UserEmail = c.UserEmail
	}
	return out
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.Error("Invalid id"))
		return 0, false
	}
	return uint(id), true
}

// ListForPlugin はプラグインのコメント一覧を処理します（認証不要）。
//
// エンドポイント: GET /api/plugins/:id/comments
func (h *CommentsHandler) ListForPlugin(c *gin.Context) {
	pluginID, ok := pathID(c)
	if !ok {
		return
	}

	comments, err := h.uc.ListForPlugin(c.Request.Context(), pluginID)
	if err != nil {
		slog.Error("comment list failed", "error", err, "plugin_id", pluginID)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	out := make([]commentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toResponse(cm, false))
	}
	c.JSON(http.StatusOK, api.OK(out))
}

// ListAll は全コメント一覧を処理します（管理者専用）。
//
// エンドポイント: GET /api/comments
func (h *CommentsHandler) ListAll(c *gin.Context) {
	comments, err := h.uc.ListAll(c.Request.Context())
	if err != nil {
		slog.Error("admin comment list failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	out := make([]commentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toResponse(cm, true))
	}
	c.JSON(http.StatusOK, api.OK(out))
}

// Create はコメント投稿を処理します（要ログイン）。
//
// エンドポイント: POST /api/plugins/:id/comments
func (h *CommentsHandler) Create(c *gin.Context) {
	pluginID, ok := pathID(c)
	if !ok {
		return
	}

	claims, ok := token.ClaimsFrom(c)
	if !ok || claims.UserID == 0 {
		// 環境管理者はDB上のユーザーを持たないため投稿者になれない
		c.JSON(http.StatusForbidden, api.Error("Commenting requires a user account"))
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.NewValidationError("body", err))
		return
	}

	comment, err := h.uc.Create(c.Request.Context(), pluginID, claims.UserID, req.Content)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyComment) {
			c.JSON(http.StatusBadRequest, api.Error("Empty comment"))
			return
		}
		slog.Error("comment create failed", "error", err, "plugin_id", pluginID)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	c.JSON(http.StatusCreated, api.OK(toResponse(*comment, false)))
}

// Delete はコメント削除を処理します。所有者本人または管理者のみ許可されます。
//
// エンドポイント: DELETE /api/comments/:id
func (h *CommentsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	claims, ok := token.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Error("Not authenticated"))
		return
	}

	err := h.uc.Delete(c.Request.Context(), id, claims.UserID, claims.Role == token.RoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCommentNotFound):
			c.JSON(http.StatusNotFound, api.Error("Comment not found"))
		case errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, api.Error("Forbidden"))
		default:
			slog.Error("comment delete failed", "error", err, "id", id)
			c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		}
		return
	}

	c.JSON(http.StatusOK, api.Message("Comment deleted"))
}
