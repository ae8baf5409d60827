package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"findmyplugin_backend/internal/api"
	authhandler "findmyplugin_backend/internal/feature/auth/transport/handler"
	categoryhandler "findmyplugin_backend/internal/feature/categories/transport/handler"
	commenthandler "findmyplugin_backend/internal/feature/comments/transport/handler"
	contacthandler "findmyplugin_backend/internal/feature/contact/transport/handler"
	pluginhandler "findmyplugin_backend/internal/feature/plugins/transport/handler"
	requesthandler "findmyplugin_backend/internal/feature/requests/transport/handler"
	suggesthandler "findmyplugin_backend/internal/feature/suggest/transport/handler"
	"findmyplugin_backend/internal/platform/config"
	"findmyplugin_backend/internal/platform/http/handler"
	"findmyplugin_backend/internal/platform/token"
	"findmyplugin_backend/internal/shared/ratelimiter"
)

// requestsPerMinute はIPあたりのAPIリクエスト上限です。
const requestsPerMinute = 120

// Handlers はルーターに登録するハンドラー一式です。
type Handlers struct {
	Auth       *authhandler.AuthHandler
	Plugins    *pluginhandler.PluginsHandler
	Comments   *commenthandler.CommentsHandler
	Categories *categoryhandler.CategoriesHandler
	Contact    *contacthandler.ContactHandler
	Requests   *requesthandler.RequestsHandler
	Suggest    *suggesthandler.SuggestHandler
	Summary    *handler.SummaryHandler
}

// NewRouter は全ルートとミドルウェアを登録したGinエンジンを生成します。
func NewRouter(cfg config.Config, codec *token.Codec, h Handlers) *gin.Engine {
	r := gin.Default()

	// バリデーションエラーのパスにjson/formタグ名を使う
	api.RegisterTagNameFunc()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(ratelimiter.Middleware(ratelimiter.NewKeyedLimiter(requestsPerMinute/60.0, requestsPerMinute)))

	// 認証不要
	// 導通確認用
	r.GET("/health", handler.Health)
	r.HEAD("/health", handler.Health)
	r.OPTIONS("/health", handler.Health)

	// アップロードファイルの静的配信
	r.Static("/uploads", cfg.UploadDir)

	apiGroup := r.Group("/api")

	auth := apiGroup.Group("/auth")
	{
		auth.POST("/login", h.Auth.AdminLogin)
		auth.POST("/admin-login", h.Auth.AdminLogin)
		auth.POST("/user-register", h.Auth.Register)
		auth.POST("/user-login", h.Auth.Login)
		auth.POST("/google", h.Auth.GoogleLogin)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", token.AuthRequired(codec), h.Auth.Me)
	}

	plugins := apiGroup.Group("/plugins")
	{
		plugins.GET("", h.Plugins.List)
		plugins.GET("/:id", h.Plugins.Get)
		plugins.GET("/:id/comments", h.Comments.ListForPlugin)
		plugins.POST("/:id/comments", token.AuthRequired(codec), h.Comments.Create)

		// 管理者専用
		admin := plugins.Group("", token.AuthRequired(codec), token.RequireAdmin())
		{
			admin.POST("", h.Plugins.Create)
			admin.POST("/suggest-tags", h.Suggest.SuggestTags)
			admin.PATCH("/:id", h.Plugins.Update)
			admin.DELETE("/:id", h.Plugins.Delete)
			admin.POST("/:id/restore", h.Plugins.Restore)
		}
	}

	comments := apiGroup.Group("/comments")
	{
		comments.GET("", token.AuthRequired(codec), token.RequireAdmin(), h.Comments.ListAll)
		comments.DELETE("/:id", token.AuthRequired(codec), h.Comments.Delete)
	}

	categories := apiGroup.Group("/categories")
	{
		categories.GET("", h.Categories.List)

		admin := categories.Group("", token.AuthRequired(codec), token.RequireAdmin())
		{
			admin.POST("", h.Categories.Create)
			admin.PATCH("/:id", h.Categories.Update)
			admin.DELETE("/:id", h.Categories.Delete)
		}
	}

	contact := apiGroup.Group("/contact")
	{
		contact.POST("", h.Contact.Submit)

		admin := contact.Group("", token.AuthRequired(codec), token.RequireAdmin())
		{
			admin.GET("", h.Contact.List)
			admin.DELETE("/:id", h.Contact.Delete)
		}
	}

	requests := apiGroup.Group("/requests")
	{
		requests.POST("", h.Requests.Submit)

		admin := requests.Group("", token.AuthRequired(codec), token.RequireAdmin())
		{
			admin.GET("", h.Requests.List)
			admin.GET("/:id", h.Requests.Get)
			admin.DELETE("/:id", h.Requests.Delete)
		}
	}

	apiGroup.GET("/admin/summary", token.AuthRequired(codec), token.RequireAdmin(), h.Summary.Summary)

	return r
}
