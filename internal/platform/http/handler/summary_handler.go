package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"findmyplugin_backend/internal/api"
)

// PluginCounter はアクティブなプラグイン数を数えるインターフェースです。
type PluginCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

// RequestCounter は未対応リクエスト数を数えるインターフェースです。
type RequestCounter interface {
	CountPending(ctx context.Context) (int64, error)
}

// SummaryHandler は管理ダッシュボード用の集計エンドポイントを処理します。
type SummaryHandler struct {
	plugins  PluginCounter
	requests RequestCounter
}

// NewSummaryHandler はSummaryHandlerの新しいインスタンスを生成します。
func NewSummaryHandler(plugins PluginCounter, requests RequestCounter) *SummaryHandler {
	return &SummaryHandler{plugins: plugins, requests: requests}
}

// summaryResponse は集計結果のレスポンス表現です。
type summaryResponse struct {
	TotalPlugins    int64     `json:"totalPlugins"`
	PendingRequests int64     `json:"pendingRequests"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

// Summary は管理サマリー取得を処理します（管理者専用）。
//
// エンドポイント: GET /api/admin/summary
func (h *SummaryHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	totalPlugins, err := h.plugins.CountActive(ctx)
	if err != nil {
		slog.Error("plugin count failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	pending, err := h.requests.CountPending(ctx)
	if err != nil {
		slog.Error("pending request count failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, api.OK(summaryResponse{
		TotalPlugins:    totalPlugins,
		PendingRequests: pending,
		GeneratedAt:     time.Now().UTC(),
	}))
}
