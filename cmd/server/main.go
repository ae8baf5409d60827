package main

import (
	"context"
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"findmyplugin_backend/internal/app/router"
	authadapters "findmyplugin_backend/internal/feature/auth/adapters"
	"findmyplugin_backend/internal/feature/auth/adapters/google"
	authhandler "findmyplugin_backend/internal/feature/auth/transport/handler"
	authusecase "findmyplugin_backend/internal/feature/auth/usecase"
	categoryadapters "findmyplugin_backend/internal/feature/categories/adapters"
	categoryhandler "findmyplugin_backend/internal/feature/categories/transport/handler"
	categoryusecase "findmyplugin_backend/internal/feature/categories/usecase"
	commentadapters "findmyplugin_backend/internal/feature/comments/adapters"
	commenthandler "findmyplugin_backend/internal/feature/comments/transport/handler"
	commentusecase "findmyplugin_backend/internal/feature/comments/usecase"
	contactadapters "findmyplugin_backend/internal/feature/contact/adapters"
	contacthandler "findmyplugin_backend/internal/feature/contact/transport/handler"
	contactusecase "findmyplugin_backend/internal/feature/contact/usecase"
	pluginadapters "findmyplugin_backend/internal/feature/plugins/adapters"
	pluginhandler "findmyplugin_backend/internal/feature/plugins/transport/handler"
	pluginusecase "findmyplugin_backend/internal/feature/plugins/usecase"
	requestadapters "findmyplugin_backend/internal/feature/requests/adapters"
	"findmyplugin_backend/internal/feature/requests/adapters/localfs"
	"findmyplugin_backend/internal/feature/requests/adapters/vision"
	requesthandler "findmyplugin_backend/internal/feature/requests/transport/handler"
	requestusecase "findmyplugin_backend/internal/feature/requests/usecase"
	"findmyplugin_backend/internal/feature/suggest/adapters/gemini"
	suggesthandler "findmyplugin_backend/internal/feature/suggest/transport/handler"
	suggestusecase "findmyplugin_backend/internal/feature/suggest/usecase"
	"findmyplugin_backend/internal/platform/cache"
	"findmyplugin_backend/internal/platform/config"
	platformdb "findmyplugin_backend/internal/platform/db"
	platformhandler "findmyplugin_backend/internal/platform/http/handler"
	platformredis "findmyplugin_backend/internal/platform/redis"
	"findmyplugin_backend/internal/platform/token"
)

// listCacheTTL はプラグイン一覧キャッシュの保持時間です。
const listCacheTTL = 5 * time.Minute

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	// db
	db := platformdb.OpenDB(cfg)

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(cfg); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserRepository(db)
	pluginRepo := pluginadapters.NewPluginRepository(db)
	commentRepo := commentadapters.NewCommentRepository(db)
	categoryRepo := categoryadapters.NewCategoryRepository(db)
	contactRepo := contactadapters.NewContactRepository(db)
	requestRepo := requestadapters.NewRequestRepository(db)

	// Redisキャッシュでラップ
	cachedPluginRepo := cache.NewCachingPluginRepository(rdb, listCacheTTL, pluginRepo, "plugins")

	// 添付ファイル保存先
	fileStore, err := localfs.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatal("[ERROR] Failed to prepare upload dir:", err)
	}

	// GoogleログインのIDトークン検証（失敗時は機能無効で起動継続）
	var googleVerifier authusecase.GoogleVerifier
	if cfg.GoogleClientID != "" {
		if v, err := google.NewVerifier(ctx, cfg.GoogleClientID); err != nil {
			log.Println("[WARN] Google verifier unavailable. Google login disabled:", err)
		} else {
			googleVerifier = v
		}
	}

	// 画像モデレーション（失敗時はスキップして起動継続）
	var moderator requestusecase.ImageModerator
	if m, err := vision.NewSafeSearchModerator(ctx); err != nil {
		log.Println("[WARN] Vision client unavailable. Upload moderation disabled:", err)
	} else {
		moderator = m
		defer func() {
			if err := m.Close(); err != nil {
				log.Println("[ERROR] Failed to close Vision client:", err)
			}
		}()
	}

	// タグ提案（失敗時は503で応答）
	var analyzer suggestusecase.TagAnalyzer
	if g, err := gemini.NewGeminiAnalyzer(ctx); err != nil {
		log.Println("[WARN] Gemini client unavailable. Tag suggestion disabled:", err)
	} else {
		analyzer = g
	}

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, googleVerifier, cfg.AdminEmail, cfg.AdminPassword)
	pluginUC := pluginusecase.NewPluginsUsecase(cachedPluginRepo)
	commentUC := commentusecase.NewCommentsUsecase(commentRepo)
	categoryUC := categoryusecase.NewCategoriesUsecase(categoryRepo)
	contactUC := contactusecase.NewContactUsecase(contactRepo)
	requestUC := requestusecase.NewRequestsUsecase(requestRepo, fileStore, moderator)
	suggestUC := suggestusecase.NewSuggestUsecase(analyzer)

	// Handler
	codec := token.NewCodec(cfg.JWTSecret, token.TokenTTL)
	handlers := router.Handlers{
		Auth:       authhandler.NewAuthHandler(authUC, codec, cfg.IsProduction()),
		Plugins:    pluginhandler.NewPluginsHandler(pluginUC),
		Comments:   commenthandler.NewCommentsHandler(commentUC),
		Categories: categoryhandler.NewCategoriesHandler(categoryUC),
		Contact:    contacthandler.NewContactHandler(contactUC),
		Requests:   requesthandler.NewRequestsHandler(requestUC),
		Suggest:    suggesthandler.NewSuggestHandler(suggestUC),
		Summary:    platformhandler.NewSummaryHandler(cachedPluginRepo, requestUC),
	}

	// ルータ生成
	r := router.NewRouter(cfg, codec, handlers)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
