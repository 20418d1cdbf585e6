package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	service "github.com/dinerozz/focus-session-backend/internal/service/extension_user"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CreateUser(ctx context.Context, req entity.CreateExtensionUserRequest) (*entity.ExtensionUser, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*entity.ExtensionUser)
	return user, args.Error(1)
}

func (m *mockService) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.ExtensionUserPublic, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.ExtensionUserPublic)
	return user, args.Error(1)
}

func (m *mockService) GetAllUsers(ctx context.Context, filter entity.ExtensionUserFilter) ([]entity.ExtensionUserPublic, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]entity.ExtensionUserPublic)
	return users, args.Error(1)
}

func (m *mockService) UpdateUser(ctx context.Context, id uuid.UUID, req entity.UpdateExtensionUserRequest) (*entity.ExtensionUserPublic, error) {
	args := m.Called(ctx, id, req)
	user, _ := args.Get(0).(*entity.ExtensionUserPublic)
	return user, args.Error(1)
}

func (m *mockService) RegenerateAPIKey(ctx context.Context, id uuid.UUID) (*entity.RegenerateAPIKeyResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*entity.RegenerateAPIKeyResponse)
	return resp, args.Error(1)
}

func (m *mockService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) ValidateAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionUser, error) {
	args := m.Called(ctx, apiKey)
	user, _ := args.Get(0).(*entity.ExtensionUser)
	return user, args.Error(1)
}

func (m *mockService) GetStats(ctx context.Context) (*entity.ExtensionUserStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*entity.ExtensionUserStats)
	return stats, args.Error(1)
}

func newRouter(svc service.ExtensionUserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewExtensionUserHandler(svc)
	h.RegisterAdminRoutes(r.Group("/api/v1/admin"))
	h.RegisterExtensionRoutes(r.Group("/api/v1/extension"))
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateExtensionUser(t *testing.T) {
	svc := new(mockService)
	svc.On("CreateUser", mock.Anything, entity.CreateExtensionUserRequest{Username: "alice"}).
		Return(&entity.ExtensionUser{Username: "alice", APIKey: "fs_key"}, nil)
	svc.On("CreateUser", mock.Anything, entity.CreateExtensionUserRequest{Username: "bob"}).
		Return(nil, service.ErrUsernameTaken)

	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/extension/users/generate", bytes.NewBufferString(`{"username":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(r, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "fs_key")

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/extension/users/generate", bytes.NewBufferString(`{"username":"bob"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/extension/users/generate", bytes.NewBufferString(`{"username":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, serve(r, req).Code)
}

func TestExtensionUserByID(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	missing := uuid.Must(uuid.NewV4())

	svc := new(mockService)
	svc.On("GetUserByID", mock.Anything, id).Return(&entity.ExtensionUserPublic{ID: id, Username: "alice"}, nil)
	svc.On("GetUserByID", mock.Anything, missing).Return(nil, service.ErrUserNotFound)

	r := newRouter(svc)

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/admin/extension/users/"+id.String(), nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/admin/extension/users/"+missing.String(), nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/admin/extension/users/not-a-uuid", nil)).Code)
}

func TestDeleteExtensionUser(t *testing.T) {
	id := uuid.Must(uuid.NewV4())

	svc := new(mockService)
	svc.On("DeleteUser", mock.Anything, id).Return(nil)

	w := serve(newRouter(svc), httptest.NewRequest(http.MethodDelete, "/api/v1/admin/extension/users/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestValidateAPIKey(t *testing.T) {
	svc := new(mockService)
	svc.On("ValidateAPIKey", mock.Anything, "fs_good").Return(&entity.ExtensionUser{Username: "alice", APIKey: "fs_good"}, nil)
	svc.On("ValidateAPIKey", mock.Anything, "").Return(nil, service.ErrInvalidAPIKey)

	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extension/users/auth", nil)
	req.Header.Set("X-API-Key", "fs_good")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "fs_good")

	w = serve(r, httptest.NewRequest(http.MethodPost, "/api/v1/extension/users/auth", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
