// Package handler はcategoriesフィーチャーのHTTPハンドラーを提供します。
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
	"findmyplugin_backend/internal/feature/categories/domain/entity"
	"findmyplugin_backend/internal/feature/categories/usecase"
)

// CategoriesUsecase はカテゴリ操作のユースケースインターフェースを定義します。
type CategoriesUsecase interface {
	List(ctx context.Context) ([]entity.Category, error)
	Create(ctx context.Context, name string, subs []string) (*entity.Category, error)
	Update(ctx context.Context, id uint, name *string, subs *[]string) (*entity.Category, error)
	Delete(ctx context.Context, id uint) error
}

// CategoriesHandler はカテゴリのHTTPリクエストを処理します。
type CategoriesHandler struct {
	uc CategoriesUsecase
}

// NewCategoriesHandler はCategoriesHandlerの新しいインスタンスを生成します。
func NewCategoriesHandler(uc CategoriesUsecase) *CategoriesHandler {
	return &CategoriesHandler{uc: uc}
}

// createCategoryRequest はカテゴリ作成のボディです。
type createCategoryRequest struct {
	Name string   `json:"name" binding:"required,min=2"`
	Subs []string `json:"subs"`
}

// updateCategoryRequest はカテゴリ部分更新のボディです。
type updateCategoryRequest struct {
	Name *string   `json:"name" binding:"omitempty,min=2"`
	Subs *[]string `json:"subs"`
}

// categoryResponse はカテゴリ1件のレスポンス表現です。
type categoryResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Subs      []string  `json:"subs"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(c entity.Category) categoryResponse {
	subs := []string(c.Subs)
	if subs == nil {
		subs = []string{}
	}
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Subs:      subs,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.Error("Invalid id"))
		return 0, false
	}
	return uint(id), true
}

// List はカテゴリ一覧を処理します（認証不要）。
//
// エンドポイント: GET /api/categories
func (h *CategoriesHandler) List(c *gin.Context) {
	cats, err := h.uc.List(c.Request.Context())
	if err != nil {
		slog.Error("category list failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	out := make([]categoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toResponse(cat))
	}
	c.JSON(http.StatusOK, api.OK(out))
}

// Create はカテゴリ作成を処理します（管理者専用）。
//
// エンドポイント: POST /api/categories
func (h *CategoriesHandler) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.NewValidationError("body", err))
		return
	}

	cat, err := h.uc.Create(c.Request.Context(), req.Name, req.Subs)
	if err != nil {
		if errors.Is(err, usecase.ErrCategoryNameTaken) {
			c.JSON(http.StatusBadRequest, api.Error("Category already exists"))
			return
		}
		slog.Error("category create failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}
	c.JSON(http.StatusCreated, api.OK(toResponse(*cat)))
}

// Update はカテゴリ部分更新を処理します（管理者専用）。
//
// エンドポイント: PATCH /api/categories/:id
func (h *CategoriesHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.NewValidationError("body", err))
		return
	}

	cat, err := h.uc.Update(c.Request.Context(), id, req.Name, req.Subs)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, api.Error("Category not found"))
		case errors.Is(err, usecase.ErrCategoryNameTaken):
			c.JSON(http.StatusBadRequest, api.Error("Category already exists"))
		default:
			slog.Error("category update failed", "error", err, "id", id)
			c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		}
		return
	}
	c.JSON(http.StatusOK, api.OK(toResponse(*cat)))
}

// Delete はカテゴリ削除を処理します（管理者専用）。
//
// エンドポイント: DELETE /api/categories/:id
func (h *CategoriesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, api.Error("Category not found"))
			return
		}
		slog.Error("category delete failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}
	c.JSON(http.StatusOK, api.Message("Category deleted"))
}
