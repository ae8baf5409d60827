package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authadapters "findmyplugin_backend/internal/feature/auth/adapters"
	authentity "findmyplugin_backend/internal/feature/auth/domain/entity"
	authhandler "findmyplugin_backend/internal/feature/auth/transport/handler"
	authusecase "findmyplugin_backend/internal/feature/auth/usecase"
	categoryadapters "findmyplugin_backend/internal/feature/categories/adapters"
	categoryentity "findmyplugin_backend/internal/feature/categories/domain/entity"
	categoryhandler "findmyplugin_backend/internal/feature/categories/transport/handler"
	categoryusecase "findmyplugin_backend/internal/feature/categories/usecase"
	commentadapters "findmyplugin_backend/internal/feature/comments/adapters"
	commententity "findmyplugin_backend/internal/feature/comments/domain/entity"
	commenthandler "findmyplugin_backend/internal/feature/comments/transport/handler"
	commentusecase "findmyplugin_backend/internal/feature/comments/usecase"
	contactadapters "findmyplugin_backend/internal/feature/contact/adapters"
	contactentity "findmyplugin_backend/internal/feature/contact/domain/entity"
	contacthandler "findmyplugin_backend/internal/feature/contact/transport/handler"
	contactusecase "findmyplugin_backend/internal/feature/contact/usecase"
	pluginadapters "findmyplugin_backend/internal/feature/plugins/adapters"
	pluginentity "findmyplugin_backend/internal/feature/plugins/domain/entity"
	pluginhandler "findmyplugin_backend/internal/feature/plugins/transport/handler"
	pluginusecase "findmyplugin_backend/internal/feature/plugins/usecase"
	requestadapters "findmyplugin_backend/internal/feature/requests/adapters"
	"findmyplugin_backend/internal/feature/requests/adapters/localfs"
	requestentity "findmyplugin_backend/internal/feature/requests/domain/entity"
	requesthandler "findmyplugin_backend/internal/feature/requests/transport/handler"
	requestusecase "findmyplugin_backend/internal/feature/requests/usecase"
	suggesthandler "findmyplugin_backend/internal/feature/suggest/transport/handler"
	suggestusecase "findmyplugin_backend/internal/feature/suggest/usecase"
	"findmyplugin_backend/internal/platform/config"
	platformhandler "findmyplugin_backend/internal/platform/http/handler"
	"findmyplugin_backend/internal/platform/token"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// newTestServer は全ルートをインメモリSQLiteの実リポジトリで組み立てます。
func newTestServer(t *testing.T) (*gin.Engine, *token.Codec) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&authentity.User{},
		&pluginentity.Plugin{},
		&commententity.Comment{},
		&categoryentity.Category{},
		&contactentity.ContactMessage{},
		&requestentity.Request{},
	))

	cfg := config.Config{
		JWTSecret:      "e2e-secret",
		AdminEmail:     "admin@example.com",
		AdminPassword:  "admin-password",
		AllowedOrigins: []string{"http://localhost:3000"},
		UploadDir:      t.TempDir(),
	}
	codec := token.NewCodec(cfg.JWTSecret, 0)

	pluginRepo := pluginadapters.NewPluginRepository(db)
	pluginUC := pluginusecase.NewPluginsUsecase(pluginRepo)
	authUC := authusecase.NewAuthUsecase(authadapters.NewUserRepository(db), nil, cfg.AdminEmail, cfg.AdminPassword)
	commentUC := commentusecase.NewCommentsUsecase(commentadapters.NewCommentRepository(db))
	categoryUC := categoryusecase.NewCategoriesUsecase(categoryadapters.NewCategoryRepository(db))
	contactUC := contactusecase.NewContactUsecase(contactadapters.NewContactRepository(db))

	fileStore, err := localfs.NewStore(cfg.UploadDir)
	require.NoError(t, err)
	requestUC := requestusecase.NewRequestsUsecase(requestadapters.NewRequestRepository(db), fileStore, nil)

	h := Handlers{
		Auth:       authhandler.NewAuthHandler(authUC, codec, false),
		Plugins:    pluginhandler.NewPluginsHandler(pluginUC),
		Comments:   commenthandler.NewCommentsHandler(commentUC),
		Categories: categoryhandler.NewCategoriesHandler(categoryUC),
		Contact:    contacthandler.NewContactHandler(contactUC),
		Requests:   requesthandler.NewRequestsHandler(requestUC),
		Suggest:    suggesthandler.NewSuggestHandler(suggestusecase.NewSuggestUsecase(nil)),
		Summary:    platformhandler.NewSummaryHandler(pluginRepo, requestUC),
	}

	return NewRouter(cfg, codec, h), codec
}

// do はJSONボディ付きリクエストを実行します。
func do(t *testing.T, r *gin.Engine, method, path, cookie string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: token.CookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func adminCookie(t *testing.T, codec *token.Codec) string {
	t.Helper()

	credential, err := codec.IssueAdmin("admin@example.com")
	require.NoError(t, err)
	return credential
}

func TestRouter_PluginLifecycle(t *testing.T) {
	r, codec := newTestServer(t)
	admin := adminCookie(t, codec)

	// 管理者がプラグインを2件登録する
	var gridID uint
	for _, body := range []map[string]any{
		{"title": "Grid Layout", "desc": "Snap layers to a grid", "category": "layout", "tags": []string{"grid", "layout"}},
		{"title": "Color Picker", "desc": "Pick colors from anywhere", "category": "design", "tags": []string{"color"}},
	} {
		w := do(t, r, http.MethodPost, "/api/plugins", admin, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Data struct {
				ID    uint   `json:"id"`
				Title string `json:"title"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		if resp.Data.Title == "Grid Layout" {
			gridID = resp.Data.ID
		}
	}
	require.NotZero(t, gridID)

	// 認証なしの登録は401
	w := do(t, r, http.MethodPost, "/api/plugins", "", map[string]any{"title": "Nope", "desc": "unauthenticated", "category": "misc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 一般ユーザーの登録は403
	userCredential, err := codec.IssueUser(42, token.RoleUser)
	require.NoError(t, err)
	w = do(t, r, http.MethodPost, "/api/plugins", userCredential, map[string]any{"title": "Nope", "desc": "user attempt", "category": "misc"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 公開リストはフィルタが効く
	w = do(t, r, http.MethodGet, "/api/plugins?q=grid", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []struct {
			ID    uint   `json:"id"`
			Title string `json:"title"`
		} `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Grid Layout", list.Data[0].Title)
	assert.EqualValues(t, 1, list.Meta.Total)

	// 部分更新
	w = do(t, r, http.MethodPatch, fmt.Sprintf("/api/plugins/%d", gridID), admin, map[string]any{"title": "Grid Layout Pro"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"title":"Grid Layout Pro"`)
	assert.Contains(t, w.Body.String(), `"desc":"Snap layers to a grid"`, "unset fields keep their values")

	// 論理削除後は公開側から見えない
	w = do(t, r, http.MethodDelete, fmt.Sprintf("/api/plugins/%d", gridID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/api/plugins/%d", gridID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/plugins", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data, 1)

	// 復元で再び公開される
	w = do(t, r, http.MethodPost, fmt.Sprintf("/api/plugins/%d/restore", gridID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"isDeleted":false`)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/api/plugins/%d", gridID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_AuthAndComments(t *testing.T) {
	r, codec := newTestServer(t)
	admin := adminCookie(t, codec)

	// プラグインを1件用意
	w := do(t, r, http.MethodPost, "/api/plugins", admin, map[string]any{"title": "Commented", "desc": "has comments", "category": "misc"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// ユーザー登録でセッションクッキーが発行される
	w = do(t, r, http.MethodPost, "/api/auth/user-register", "", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var session string
	for _, c := range w.Result().Cookies() {
		if c.Name == token.CookieName {
			session = c.Value
		}
	}
	require.NotEmpty(t, session, "registration must set a session cookie")

	commentsPath := fmt.Sprintf("/api/plugins/%d/comments", created.Data.ID)

	// 未認証のコメント投稿は401
	w = do(t, r, http.MethodPost, commentsPath, "", map[string]any{"content": "anonymous"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// ログイン済みユーザーはコメントでき、HTMLはサニタイズされる
	w = do(t, r, http.MethodPost, commentsPath, session, map[string]any{"content": "<b>Great</b> plugin!"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"content":"Great plugin!"`)
	assert.Contains(t, w.Body.String(), `"userName":"Alice"`)

	// コメントは誰でも読める
	w = do(t, r, http.MethodGet, commentsPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Great plugin!")
}

func TestRouter_AdminSummary(t *testing.T) {
	r, codec := newTestServer(t)
	admin := adminCookie(t, codec)

	w := do(t, r, http.MethodPost, "/api/plugins", admin, map[string]any{"title": "Only One", "desc": "single plugin", "category": "misc"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodGet, "/api/admin/summary", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalPlugins":1`)
	assert.Contains(t, w.Body.String(), `"pendingRequests":0`)

	// 一般ユーザーは403
	userCredential, err := codec.IssueUser(1, token.RoleUser)
	require.NoError(t, err)
	w = do(t, r, http.MethodGet, "/api/admin/summary", userCredential, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_Health(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}
