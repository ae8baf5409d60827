// Package handler はsuggestフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"findmyplugin_backend/internal/api"
	"findmyplugin_backend/internal/feature/suggest/usecase"
)

// SuggestUsecase はタグ提案のユースケースインターフェースを定義します。
type SuggestUsecase interface {
	SuggestTags(ctx context.Context, title, description string) ([]string, error)
}

// SuggestHandler はタグ提案のHTTPリクエストを処理します。
type SuggestHandler struct {
	uc SuggestUsecase
}

// NewSuggestHandler はSuggestHandlerの新しいインスタンスを生成します。
func NewSuggestHandler(uc SuggestUsecase) *SuggestHandler {
	return &SuggestHandler{uc: uc}
}

// suggestTagsRequest はタグ提案のボディです。
type suggestTagsRequest struct {
	Title string `json:"title" binding:"required,min=2"`
	Desc  string `json:"desc" binding:"required,min=5"`
}

// suggestTagsResponse はタグ提案の結果です。
type suggestTagsResponse struct {
	Tags []string `json:"tags"`
}

// SuggestTags はタイトルと説明文からのタグ提案を処理します（管理者専用）。
//
// エンドポイント: POST /api/plugins/suggest-tags
func (h *SuggestHandler) SuggestTags(c *gin.Context) {
	var req suggestTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.NewValidationError("body", err))
		return
	}

	tags, err := h.uc.SuggestTags(c.Request.Context(), req.Title, req.Desc)
	if err != nil {
		if errors.Is(err, usecase.ErrAnalyzerUnavailable) {
			c.JSON(http.StatusServiceUnavailable, api.Error("Tag suggestion is not available"))
			return
		}
		slog.Error("tag suggestion failed", "error", err)
		c.JSON(http.StatusBadGateway, api.Error("Tag suggestion failed"))
		return
	}
	c.JSON(http.StatusOK, api.OK(suggestTagsResponse{Tags: tags}))
}
