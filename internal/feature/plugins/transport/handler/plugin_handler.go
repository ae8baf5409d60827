// Package handler はpluginsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"findmyplugin_backend/internal/api"
	"findmyplugin_backend/internal/feature/plugins/domain/entity"
	"findmyplugin_backend/internal/feature/plugins/transport/http/dto"
	"findmyplugin_backend/internal/feature/plugins/usecase"
)

// PluginsUsecase はプラグイン操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type PluginsUsecase interface {
	List(ctx context.Context, p usecase.ListParams) ([]entity.Plugin, usecase.PageInfo, error)
	Get(ctx context.Context, id uint) (*entity.Plugin, error)
	Create(ctx context.Context, p *entity.Plugin) (*entity.Plugin, error)
	Update(ctx context.Context, id uint, changes usecase.UpdateChanges) (*entity.Plugin, error)
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) (*entity.Plugin, error)
}

// PluginsHandler はプラグインのHTTPリクエストを処理します。
type PluginsHandler struct {
	uc PluginsUsecase
}

// NewPluginsHandler はPluginsHandlerの新しいインスタンスを生成します。
func NewPluginsHandler(uc PluginsUsecase) *PluginsHandler {
	return &PluginsHandler{uc: uc}
}

// pluginID はパスパラメータの:idを検証付きで取り出します。
// 数値として不正な形状のIDは404ではなく400で弾き、クライアントのバグを
// 空の結果として隠さないようにします。
func pluginID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.Error("Invalid plugin id"))
		return 0, false
	}
	return uint(id), true
}

// List はプラグインのリスト/フィルタ/ページネーションを処理します。
//
// エンドポイント例:
// GET /api/plugins?q=color&tags=design,free&sortBy=popular&order=desc&page=2&limit=12
func (h *PluginsHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.NewValidationError("query", err))
		return
	}

	items, page, err := h.uc.List(c.Request.Context(), q.ToParams())
	if err != nil {
		slog.Error("plugin list failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, api.OKWithMeta(dto.FromEntities(items), api.Meta{
		Page:  page.Page,
		Limit: page.Limit,
		Total: page.Total,
		Pages: page.Pages,
	}))
}

// Get はプラグイン1件の取得を処理します。削除済みは404になります。
func (h *PluginsHandler) Get(c *gin.Context) {
	id, ok := pluginID(c)
	if !ok {
		return
	}

	p, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrPluginNotFound) {
			c.JSON(http.StatusNotFound, api.Error("Plugin not found"))
			return
		}
		slog.Error("plugin get failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, api.OK(dto.FromEntity(p)))
}

// Create はプラグインの新規登録を処理します（admin専用ルート配下）。
// - バリデーションエラー時は構造化された400を返却
// - 成功時は201を返却
func (h *PluginsHandler) Create(c *gin.Context) {
	var req dto.CreatePluginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("plugin create validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.NewValidationError("body", err))
		return
	}

	created, err := h.uc.Create(c.Request.Context(), req.ToEntity())
	if err != nil {
		slog.Error("plugin create failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	slog.Info("plugin created", "id", created.ID, "title", created.Title)
	c.JSON(http.StatusCreated, api.OK(dto.FromEntity(created)))
}

// Update はプラグインの部分更新を処理します。
// 削除済みレコードは復元されるまで更新対象にならず404になります。
func (h *PluginsHandler) Update(c *gin.Context) {
	id, ok := pluginID(c)
	if !ok {
		return
	}

	var req dto.UpdatePluginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("plugin update validation failed", "error", err, "id", id)
		c.JSON(http.StatusBadRequest, api.NewValidationError("body", err))
		return
	}

	updated, err := h.uc.Update(c.Request.Context(), id, req.ToChanges())
	if err != nil {
		if errors.Is(err, usecase.ErrPluginNotFound) {
			c.JSON(http.StatusNotFound, api.Error("Plugin not found"))
			return
		}
		slog.Error("plugin update failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, api.OK(dto.FromEntity(updated)))
}

// Delete はプラグインのソフト削除を処理します。
// 既に削除済みの場合は404（2回目の呼び出しでタイムスタンプを上書きしない）。
func (h *PluginsHandler) Delete(c *gin.Context) {
	id, ok := pluginID(c)
	if !ok {
		return
	}

	if err := h.uc.SoftDelete(c.Request.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrPluginNotFound) {
			c.JSON(http.StatusNotFound, api.Error("Plugin not found"))
			return
		}
		slog.Error("plugin delete failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	slog.Info("plugin soft-deleted", "id", id)
	c.JSON(http.StatusOK, api.OK(gin.H{"id": id, "message": "Plugin soft-deleted"}))
}

// Restore はソフト削除済みプラグインの復元を処理します。
// 削除されていないプラグインの復元は404になります。
func (h *PluginsHandler) Restore(c *gin.Context) {
	id, ok := pluginID(c)
	if !ok {
		return
	}

	restored, err := h.uc.Restore(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrPluginNotFound) {
			c.JSON(http.StatusNotFound, api.Error("No deleted plugin found"))
			return
		}
		slog.Error("plugin restore failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	slog.Info("plugin restored", "id", id)
	c.JSON(http.StatusOK, api.OK(dto.FromEntity(restored)))
}
