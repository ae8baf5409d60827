// Package handler はcontactフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"findmyplugin_backend/internal/api"
	"findmyplugin_backend/internal/feature/contact/domain/entity"
	"findmyplugin_backend/internal/feature/contact/usecase"
)

// ContactUsecase はお問い合わせ操作のユースケースインターフェースを定義します。
type ContactUsecase interface {
	Submit(ctx context.Context, email, message string) (*entity.ContactMessage, error)
	List(ctx context.Context) ([]entity.ContactMessage, error)
	Delete(ctx context.Context, id uint) error
}

// ContactHandler はお問い合わせのHTTPリクエストを処理します。
type ContactHandler struct {
	uc ContactUsecase
}

// NewContactHandler はContactHandlerの新しいインスタンスを生成します。
func NewContactHandler(uc ContactUsecase) *ContactHandler {
	return &ContactHandler{uc: uc}
}

// submitContactRequest はお問い合わせ送信のボディです。
type submitContactRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,min=5"`
}

// Submit はお問い合わせ送信を処理します（認証不要）。
//
// エンドポイント: POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req submitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.NewValidationError("body", err))
		return
	}

	m, err := h.uc.Submit(c.Request.Context(), req.Email, req.Message)
	if err != nil {
		slog.Error("contact submit failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}
	c.JSON(http.StatusCreated, api.OK(m))
}

// List はお問い合わせ一覧を処理します（管理者専用）。
//
// エンドポイント: GET /api/contact
func (h *ContactHandler) List(c *gin.Context) {
	messages, err := h.uc.List(c.Request.Context())
	if err != nil {
		slog.Error("contact list failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}
	c.JSON(http.StatusOK, api.OK(messages))
}

// Delete はお問い合わせ削除を処理します（管理者専用）。
//
// エンドポイント: DELETE /api/contact/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.Error("Invalid id"))
		return
	}

	if err := h.uc.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, usecase.ErrContactMessageNotFound) {
			c.JSON(http.StatusNotFound, api.Error("Contact message not found"))
			return
		}
		slog.Error("contact delete failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}
	c.JSON(http.StatusOK, api.Message("Contact message deleted"))
}
