// Package handler はrequestsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"findmyplugin_backend/internal/api"
	"findmyplugin_backend/internal/feature/requests/domain/entity"
	"findmyplugin_backend/internal/feature/requests/usecase"
)

// maxUploadSize は添付ファイルの上限サイズです。
const maxUploadSize = 10 << 20 // 10MB

// RequestsUsecase はリクエスト操作のユースケースインターフェースを定義します。
type RequestsUsecase interface {
	Submit(ctx context.Context, in usecase.SubmitInput) (*entity.Request, error)
	List(ctx context.Context) ([]entity.Request, error)
	Get(ctx context.Context, id uint) (*entity.Request, error)
	Delete(ctx context.Context, id uint) error
}

// RequestsHandler はサポートリクエストのHTTPリクエストを処理します。
type RequestsHandler struct {
	uc RequestsUsecase
}

// NewRequestsHandler はRequestsHandlerの新しいインスタンスを生成します。
func NewRequestsHandler(uc RequestsUsecase) *RequestsHandler {
	return &RequestsHandler{uc: uc}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.Error("Invalid id"))
		return 0, false
	}
	return uint(id), true
}

// Submit はサポートリクエスト送信を処理します（認証不要）。
// multipart/form-dataで`text`必須、`file`任意です。
//
// エンドポイント: POST /api/requests
func (h *RequestsHandler) Submit(c *gin.Context) {
	text := strings.TrimSpace(c.PostForm("text"))
	if text == "" {
		c.JSON(http.StatusBadRequest, api.Error("Text is required"))
		return
	}

	in := usecase.SubmitInput{
		Text:  text,
		Name:  c.PostForm("name"),
		Email: c.PostForm("email"),
		Phone: c.PostForm("phone"),
	}

	fileHeader, err := c.FormFile("file")
	if err == nil && fileHeader != nil {
		if fileHeader.Size > maxUploadSize {
			c.JSON(http.StatusBadRequest, api.Error("File too large (max 10MB)"))
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			slog.Error("upload open failed", "error", err)
			c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
		if err != nil {
			slog.Error("upload read failed", "error", err)
			c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
			return
		}
		if len(data) > maxUploadSize {
			c.JSON(http.StatusBadRequest, api.Error("File too large (max 10MB)"))
			return
		}
		in.File = &usecase.Upload{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	req, err := h.uc.Submit(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, usecase.ErrUnsafeImage) {
			c.JSON(http.StatusBadRequest, api.Error("Attachment rejected by moderation"))
			return
		}
		slog.Error("request submit failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}
	c.JSON(http.StatusCreated, api.OK(req))
}

// List はリクエスト一覧を処理します（管理者専用）。
//
// エンドポイント: GET /api/requests
func (h *RequestsHandler) List(c *gin.Context) {
	requests, err := h.uc.List(c.Request.Context())
	if err != nil {
		slog.Error("request list failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}
	c.JSON(http.StatusOK, api.OK(requests))
}

// Get はリクエスト1件取得を処理します（管理者専用）。
//
// エンドポイント: GET /api/requests/:id
func (h *RequestsHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	req, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, api.Error("Request not found"))
			return
		}
		slog.Error("request get failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}
	c.JSON(http.StatusOK, api.OK(req))
}

// Delete はリクエスト削除を処理します（管理者専用）。
//
// エンドポイント: DELETE /api/requests/:id
func (h *RequestsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, api.Error("Request not found"))
			return
		}
		slog.Error("request delete failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}
	c.JSON(http.StatusOK, api.Message("Request deleted"))
}
