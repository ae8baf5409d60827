package db

import (
	"fmt"
	"log"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	authentity "findmyplugin_backend/internal/feature/auth/domain/entity"
	categoryentity "findmyplugin_backend/internal/feature/categories/domain/entity"
	commententity "findmyplugin_backend/internal/feature/comments/domain/entity"
	contactentity "findmyplugin_backend/internal/feature/contact/domain/entity"
	pluginentity "findmyplugin_backend/internal/feature/plugins/domain/entity"
	requestentity "findmyplugin_backend/internal/feature/requests/domain/entity"
	"findmyplugin_backend/internal/platform/config"
)

// retryInterval はDB接続リトライの間隔です。
const retryInterval = 3 * time.Second

// BuildDSN は設定からPostgreSQLのDSN文字列を組み立てます。
// InstanceConnectionNameが設定されている場合はCloud SQLのunixソケット接続を優先します。
func BuildDSN(cfg config.Config) string {
	if cfg.InstanceConnectionName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.InstanceConnectionName, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
}

// ConnectWithRetry は指定されたタイムアウトまで接続をリトライします。
// openerはテストで差し替え可能な接続関数です。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(dsn string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB はPostgreSQLへのGORM接続を確立します。
// 起動直後のDBコンテナ待ちを考慮して60秒までリトライします。
func OpenDB(cfg config.Config) *gorm.DB {
	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
	})
	if err != nil {
		log.Fatal(err)
	}

	if cfg.RunMigrations {
		// マイグレーション（User, Plugin など）
		if err := db.AutoMigrate(
			&authentity.User{},
			&pluginentity.Plugin{},
			&categoryentity.Category{},
			&commententity.Comment{},
			&contactentity.ContactMessage{},
			&requestentity.Request{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
