package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authusecase "microblog_backend/internal/feature/auth/usecase"
	statusentity "microblog_backend/internal/feature/statuses/domain/entity"
	"microblog_backend/internal/feature/users/domain/entity"
	"microblog_backend/internal/feature/users/usecase"
	jwtmw "microblog_backend/internal/platform/jwt"
	"microblog_backend/internal/shared/pagination"
	"microblog_backend/internal/shared/validation"
)

// mockUserUsecase is a mock implementation of the UserUsecase interface.
type mockUserUsecase struct {
	RegisterFunc      func(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
	ConfirmEmailFunc  func(ctx context.Context, token string) (*entity.User, error)
	ProfileFunc       func(ctx context.Context, id uint, page int) (*entity.User, pagination.Page[statusentity.Status], error)
	ListFunc          func(ctx context.Context, page int) (pagination.Page[entity.User], error)
	UpdateProfileFunc func(ctx context.Context, actorID, targetID uint, in usecase.UpdateProfileInput) (*entity.User, error)
	DeleteFunc        func(ctx context.Context, actorID, targetID uint) error
}

func (m *mockUserUsecase) Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return &entity.User{ID: 1, Name: in.Name, Email: in.Email}, nil
}

func (m *mockUserUsecase) ConfirmEmail(ctx context.Context, token string) (*entity.User, error) {
	if m.ConfirmEmailFunc != nil {
		return m.ConfirmEmailFunc(ctx, token)
	}
	return nil, usecase.ErrTokenNotFound
}

func (m *mockUserUsecase) Profile(ctx context.Context, id uint, page int) (*entity.User, pagination.Page[statusentity.Status], error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, id, page)
	}
	return nil, pagination.Page[statusentity.Status]{}, usecase.ErrUserNotFound
}

func (m *mockUserUsecase) List(ctx context.Context, page int) (pagination.Page[entity.User], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, page)
	}
	return pagination.New[entity.User](nil, page, 10, 0), nil
}

func (m *mockUserUsecase) UpdateProfile(ctx context.Context, actorID, targetID uint, in usecase.UpdateProfileInput) (*entity.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, actorID, targetID, in)
	}
	return &entity.User{ID: targetID, Name: in.Name}, nil
}

func (m *mockUserUsecase) Delete(ctx context.Context, actorID, targetID uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, actorID, targetID)
	}
	return nil
}

// mockSessionManager is a mock implementation of the SessionManager interface.
type mockSessionManager struct {
	IssueForFunc  func(ctx context.Context, user *entity.User, client authusecase.ClientInfo) (authusecase.TokenPair, error)
	RevokeAllFunc func(ctx context.Context, userID uint) error
}

func (m *mockSessionManager) IssueFor(ctx context.Context, user *entity.User, client authusecase.ClientInfo) (authusecase.TokenPair, error) {
	if m.IssueForFunc != nil {
		return m.IssueForFunc(ctx, user, client)
	}
	return authusecase.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (m *mockSessionManager) RevokeAll(ctx context.Context, userID uint) error {
	if m.RevokeAllFunc != nil {
		return m.RevokeAllFunc(ctx, userID)
	}
	return nil
}

// asUser injects an authenticated user the way the JWT middleware does.
func asUser(id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(jwtmw.ContextUserID, id)
		c.Next()
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestUserHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    gin.H
		mockRegister   func(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
		expectedStatus int
		checkBody      func(t *testing.T, body map[string]any)
	}{
		{
			name: "success: user registration",
			requestBody: gin.H{
				"name": "alice", "email": "alice@example.com",
				"password": "password123", "password_confirmation": "password123",
			},
			mockRegister: func(ctx context.Context, in usecase.RegisterInput) (*entity.User, error) {
				return &entity.User{ID: 1, Name: in.Name, Email: in.Email}, nil
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "验证邮件已发送到你的注册邮箱上，请注意查收。", body["message"])
				assert.NotNil(t, body["user"])
			},
		},
		{
			name:        "failure: validation error returns field messages",
			requestBody: gin.H{"name": "", "email": "bad", "password": "x", "password_confirmation": "y"},
			mockRegister: func(ctx context.Context, in usecase.RegisterInput) (*entity.User, error) {
				ve := validation.NewError()
				ve.Add("name", "name is required")
				ve.Add("password", "password confirmation does not match")
				return nil, ve
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkBody: func(t *testing.T, body map[string]any) {
				errs, ok := body["errors"].(map[string]any)
				require.True(t, ok, "expected errors map, got: %v", body)
				assert.Contains(t, errs, "name")
				assert.Contains(t, errs, "password")
			},
		},
		{
			name: "failure: duplicate name",
			requestBody: gin.H{
				"name": "taken", "email": "a@b.com",
				"password": "password123", "password_confirmation": "password123",
			},
			mockRegister: func(ctx context.Context, in usecase.RegisterInput) (*entity.User, error) {
				ve := validation.NewError()
				ve.Add("name", "name has already been taken")
				return nil, ve
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkBody: func(t *testing.T, body map[string]any) {
				errs := body["errors"].(map[string]any)
				assert.Contains(t, errs, "name")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockUserUsecase{RegisterFunc: tt.mockRegister}
			h := NewUserHandler(mockUC, &mockSessionManager{})

			router := gin.New()
			router.POST("/users", h.Register)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/users", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, decodeBody(t, w))
			}
		})
	}
}

func TestUserHandler_ConfirmEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success: activation logs the user in", func(t *testing.T) {
		mockUC := &mockUserUsecase{
			ConfirmEmailFunc: func(ctx context.Context, token string) (*entity.User, error) {
				assert.Equal(t, "valid-token", token)
				return &entity.User{ID: 1, Name: "alice", Activated: true}, nil
			},
		}
		h := NewUserHandler(mockUC, &mockSessionManager{})

		router := gin.New()
		router.GET("/signup/confirm/:token", h.ConfirmEmail)

		req, _ := http.NewRequest(http.MethodGet, "/signup/confirm/valid-token", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "恭喜你，激活成功！", body["message"])
		assert.Equal(t, "access", body["token"])
		assert.Equal(t, "refresh", body["refresh_token"])
	})

	t.Run("failure: unknown or consumed token", func(t *testing.T) {
		h := NewUserHandler(&mockUserUsecase{}, &mockSessionManager{})

		router := gin.New()
		router.GET("/signup/confirm/:token", h.ConfirmEmail)

		req, _ := http.NewRequest(http.MethodGet, "/signup/confirm/bad-token", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserHandler_Show(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success: profile with statuses", func(t *testing.T) {
		mockUC := &mockUserUsecase{
			ProfileFunc: func(ctx context.Context, id uint, page int) (*entity.User, pagination.Page[statusentity.Status], error) {
				assert.Equal(t, uint(1), id)
				assert.Equal(t, 2, page)
				statuses := []statusentity.Status{{ID: 1, Content: "hi", UserID: id}}
				return &entity.User{ID: id, Name: "alice"}, pagination.New(statuses, page, 10, 11), nil
			},
		}
		h := NewUserHandler(mockUC, &mockSessionManager{})

		router := gin.New()
		router.GET("/users/:id", h.Show)

		req, _ := http.NewRequest(http.MethodGet, "/users/1?page=2", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.NotNil(t, body["user"])
		assert.NotNil(t, body["statuses"])
	})

	t.Run("failure: unknown user", func(t *testing.T) {
		h := NewUserHandler(&mockUserUsecase{}, &mockSessionManager{})

		router := gin.New()
		router.GET("/users/:id", h.Show)

		req, _ := http.NewRequest(http.MethodGet, "/users/999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("failure: non-numeric id", func(t *testing.T) {
		h := NewUserHandler(&mockUserUsecase{}, &mockSessionManager{})

		router := gin.New()
		router.GET("/users/:id", h.Show)

		req, _ := http.NewRequest(http.MethodGet, "/users/abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		actorID        uint
		target         string
		mockUpdate     func(ctx context.Context, actorID, targetID uint, in usecase.UpdateProfileInput) (*entity.User, error)
		expectedStatus int
	}{
		{
			name:    "success: own profile",
			actorID: 1,
			target:  "1",
			mockUpdate: func(ctx context.Context, actorID, targetID uint, in usecase.UpdateProfileInput) (*entity.User, error) {
				return &entity.User{ID: targetID, Name: in.Name}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "failure: another user's profile",
			actorID: 2,
			target:  "1",
			mockUpdate: func(ctx context.Context, actorID, targetID uint, in usecase.UpdateProfileInput) (*entity.User, error) {
				return nil, usecase.ErrForbidden
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockUserUsecase{UpdateProfileFunc: tt.mockUpdate}
			h := NewUserHandler(mockUC, &mockSessionManager{})

			router := gin.New()
			router.PATCH("/users/:id", asUser(tt.actorID), h.Update)

			body, _ := json.Marshal(gin.H{"name": "renamed"})
			req, _ := http.NewRequest(http.MethodPatch, "/users/"+tt.target, bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	t.Run("failure: no authenticated user", func(t *testing.T) {
		h := NewUserHandler(&mockUserUsecase{}, &mockSessionManager{})

		router := gin.New()
		router.PATCH("/users/:id", h.Update)

		body, _ := json.Marshal(gin.H{"name": "renamed"})
		req, _ := http.NewRequest(http.MethodPatch, "/users/1", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUserHandler_Destroy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success: deletion revokes all sessions", func(t *testing.T) {
		revoked := false
		mockSessions := &mockSessionManager{
			RevokeAllFunc: func(ctx context.Context, userID uint) error {
				revoked = true
				assert.Equal(t, uint(1), userID)
				return nil
			},
		}
		h := NewUserHandler(&mockUserUsecase{}, mockSessions)

		router := gin.New()
		router.DELETE("/users/:id", asUser(1), h.Destroy)

		req, _ := http.NewRequest(http.MethodDelete, "/users/1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, revoked, "sessions should be revoked")
		body := decodeBody(t, w)
		assert.Equal(t, "成功删除用户！", body["message"])
	})

	t.Run("failure: another user's account", func(t *testing.T) {
		mockUC := &mockUserUsecase{
			DeleteFunc: func(ctx context.Context, actorID, targetID uint) error {
				return usecase.ErrForbidden
			},
		}
		h := NewUserHandler(mockUC, &mockSessionManager{})

		router := gin.New()
		router.DELETE("/users/:id", asUser(2), h.Destroy)

		req, _ := http.NewRequest(http.MethodDelete, "/users/1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestUserHandler_Index(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUC := &mockUserUsecase{
		ListFunc: func(ctx context.Context, page int) (pagination.Page[entity.User], error) {
			users := []entity.User{{ID: 1, Name: "alice"}, {ID: 2, Name: "bob"}}
			return pagination.New(users, page, 10, 2), nil
		},
	}
	h := NewUserHandler(mockUC, &mockSessionManager{})

	router := gin.New()
	router.GET("/users", h.Index)

	req, _ := http.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	items, ok := body["items"].([]any)
	require.True(t, ok, "expected items array, got: %v", body)
	assert.Len(t, items, 2)
	assert.Equal(t, float64(2), body["total"])
}
