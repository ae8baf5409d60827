package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findmyplugin_backend/internal/api"
	"findmyplugin_backend/internal/feature/auth/domain/entity"
	"findmyplugin_backend/internal/feature/auth/transport/handler"
	"findmyplugin_backend/internal/feature/auth/usecase"
	"findmyplugin_backend/internal/platform/token"
)

// mockAuthUsecase はAuthUsecaseインターフェースのモック実装です。
type mockAuthUsecase struct {
	RegisterFunc    func(ctx context.Context, name, email, password string) (*entity.User, error)
	LoginFunc       func(ctx context.Context, email, password string) (*entity.User, error)
	AdminLoginFunc  func(email, password string) error
	GoogleLoginFunc func(ctx context.Context, idToken string) (*entity.User, error)
	GetByIDFunc     func(ctx context.Context, id uint) (*entity.User, error)
}

func (m *mockAuthUsecase) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	return m.RegisterFunc(ctx, name, email, password)
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (*entity.User, error) {
	return m.LoginFunc(ctx, email, password)
}

func (m *mockAuthUsecase) AdminLogin(email, password string) error {
	return m.AdminLoginFunc(email, password)
}

func (m *mockAuthUsecase) GoogleLogin(ctx context.Context, idToken string) (*entity.User, error) {
	return m.GoogleLoginFunc(ctx, idToken)
}

func (m *mockAuthUsecase) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func setupAuthRouter(uc *mockAuthUsecase, codec *token.Codec) *gin.Engine {
	gin.SetMode(gin.TestMode)
	api.RegisterTagNameFunc()

	h := handler.NewAuthHandler(uc, codec, false)
	r := gin.New()
	r.POST("/api/auth/login", h.AdminLogin)
	r.POST("/api/auth/user-register", h.Register)
	r.POST("/api/auth/user-login", h.Login)
	r.POST("/api/auth/google", h.GoogleLogin)
	r.POST("/api/auth/logout", h.Logout)
	r.GET("/api/auth/me", token.AuthRequired(codec), h.Me)
	return r
}

// sessionCookie はレスポンスからセッションクッキーを取り出します。
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == token.CookieName {
			return c
		}
	}
	return nil
}

func postJSON(r *gin.Engine, url, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_AdminLogin(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)

	t.Run("成功: クッキーが発行されrole=adminが返る", func(t *testing.T) {
		uc := &mockAuthUsecase{
			AdminLoginFunc: func(email, password string) error { return nil },
		}
		r := setupAuthRouter(uc, codec)

		w := postJSON(r, "/api/auth/login", `{"email":"admin@example.com","password":"secret"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"admin"`)

		cookie := sessionCookie(t, w)
		require.NotNil(t, cookie, "session cookie must be set")
		assert.True(t, cookie.HttpOnly)

		claims, err := codec.Verify(cookie.Value)
		require.NoError(t, err)
		assert.True(t, claims.IsEnvAdmin())
	})

	t.Run("失敗: 資格情報不一致は401", func(t *testing.T) {
		uc := &mockAuthUsecase{
			AdminLoginFunc: func(email, password string) error { return usecase.ErrInvalidCredentials },
		}
		r := setupAuthRouter(uc, codec)

		w := postJSON(r, "/api/auth/login", `{"email":"admin@example.com","password":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials")
		assert.Nil(t, sessionCookie(t, w))
	})
}

func TestAuthHandler_Register(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)

	t.Run("成功: 201でクッキーが発行される", func(t *testing.T) {
		uc := &mockAuthUsecase{
			RegisterFunc: func(ctx context.Context, name, email, password string) (*entity.User, error) {
				return &entity.User{ID: 1, Name: name, Email: email, Role: entity.RoleUser}, nil
			},
		}
		r := setupAuthRouter(uc, codec)

		w := postJSON(r, "/api/auth/user-register", `{"name":"Alice","email":"alice@example.com","password":"password123"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, sessionCookie(t, w))
	})

	t.Run("失敗: 重複メールは400", func(t *testing.T) {
		uc := &mockAuthUsecase{
			RegisterFunc: func(ctx context.Context, name, email, password string) (*entity.User, error) {
				return nil, usecase.ErrEmailAlreadyExists
			},
		}
		r := setupAuthRouter(uc, codec)

		w := postJSON(r, "/api/auth/user-register", `{"name":"Alice","email":"alice@example.com","password":"password123"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Email already registered")
	})

	t.Run("失敗: 不正なメールはパス付きバリデーションエラー", func(t *testing.T) {
		uc := &mockAuthUsecase{}
		r := setupAuthRouter(uc, codec)

		w := postJSON(r, "/api/auth/user-register", `{"name":"Alice","email":"not-an-email","password":"password123"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"path":"body.email"`)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)

	t.Run("成功: クッキーが発行されrole=userが返る", func(t *testing.T) {
		uc := &mockAuthUsecase{
			LoginFunc: func(ctx context.Context, email, password string) (*entity.User, error) {
				return &entity.User{ID: 5, Email: email, Role: entity.RoleUser}, nil
			},
		}
		r := setupAuthRouter(uc, codec)

		w := postJSON(r, "/api/auth/user-login", `{"email":"alice@example.com","password":"password123"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"user"`)

		cookie := sessionCookie(t, w)
		require.NotNil(t, cookie)
		claims, err := codec.Verify(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, uint(5), claims.UserID)
	})

	t.Run("失敗: 認証失敗は詳細を明かさず401", func(t *testing.T) {
		uc := &mockAuthUsecase{
			LoginFunc: func(ctx context.Context, email, password string) (*entity.User, error) {
				return nil, usecase.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(uc, codec)

		w := postJSON(r, "/api/auth/user-login", `{"email":"alice@example.com","password":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email or password")
	})
}

func TestAuthHandler_GoogleLogin(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)

	t.Run("成功: 検証済みトークンでローカルセッションが発行される", func(t *testing.T) {
		uc := &mockAuthUsecase{
			GoogleLoginFunc: func(ctx context.Context, idToken string) (*entity.User, error) {
				assert.Equal(t, "google-id-token", idToken)
				return &entity.User{ID: 9, Email: "alice@example.com", Role: entity.RoleUser}, nil
			},
		}
		r := setupAuthRouter(uc, codec)

		w := postJSON(r, "/api/auth/google", `{"credential":"google-id-token"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, sessionCookie(t, w))
	})

	t.Run("失敗: 不正なIDトークンは401", func(t *testing.T) {
		uc := &mockAuthUsecase{
			GoogleLoginFunc: func(ctx context.Context, idToken string) (*entity.User, error) {
				return nil, usecase.ErrInvalidGoogleToken
			},
		}
		r := setupAuthRouter(uc, codec)

		w := postJSON(r, "/api/auth/google", `{"credential":"bad"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid Google credential")
	})
}

func TestAuthHandler_Me(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)

	t.Run("成功: DBユーザーはIDから引き直される", func(t *testing.T) {
		uc := &mockAuthUsecase{
			GetByIDFunc: func(ctx context.Context, id uint) (*entity.User, error) {
				assert.Equal(t, uint(5), id)
				return &entity.User{ID: 5, Name: "Alice", Email: "alice@example.com", Role: entity.RoleUser}, nil
			},
		}
		r := setupAuthRouter(uc, codec)

		credential, err := codec.IssueUser(5, token.RoleUser)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: token.CookieName, Value: credential})
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Alice"`)
	})

	t.Run("成功: 環境管理者はトークンのみで解決される", func(t *testing.T) {
		uc := &mockAuthUsecase{
			GetByIDFunc: func(ctx context.Context, id uint) (*entity.User, error) {
				t.Fatal("env admin must not hit the database")
				return nil, nil
			},
		}
		r := setupAuthRouter(uc, codec)

		credential, err := codec.IssueAdmin("admin@example.com")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: token.CookieName, Value: credential})
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"admin"`)
	})

	t.Run("失敗: アカウントが消えたセッションは401", func(t *testing.T) {
		uc := &mockAuthUsecase{
			GetByIDFunc: func(ctx context.Context, id uint) (*entity.User, error) {
				return nil, usecase.ErrUserNotFound
			},
		}
		r := setupAuthRouter(uc, codec)

		credential, err := codec.IssueUser(5, token.RoleUser)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: token.CookieName, Value: credential})
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)
	uc := &mockAuthUsecase{}
	r := setupAuthRouter(uc, codec)

	w := postJSON(r, "/api/auth/logout", `{}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged out")

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie, "expired cookie must be sent to clear the session")
	assert.Less(t, cookie.MaxAge, 0)
}
