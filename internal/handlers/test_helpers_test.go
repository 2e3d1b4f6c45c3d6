package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/egaming/internal/auth"
	"github.com/BradenHooton/egaming/internal/models"
	"github.com/BradenHooton/egaming/internal/services"
	pkghttp "github.com/BradenHooton/egaming/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithIdentity attaches the caller identity the guard would resolve
func WithIdentity(req *http.Request, userID string, role models.Role) *http.Request {
	identity := &models.Identity{UserID: userID, Email: userID + "@example.com", Role: role}
	return req.WithContext(auth.WithIdentity(req.Context(), identity))
}

// WithURLParam sets a chi route parameter on req
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) pkghttp.ErrorResponse {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
	return resp
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc             func(ctx context.Context, in services.RegisterInput, meta services.RequestMeta) (*services.RegisterResponse, error)
	VerifyEmailFunc          func(ctx context.Context, email, code string, meta services.RequestMeta) (*services.AuthResponse, error)
	LoginFunc                func(ctx context.Context, email, password string, meta services.RequestMeta) (*services.LoginResult, error)
	VerifyLoginFunc          func(ctx context.Context, email, code string, meta services.RequestMeta) (*services.AuthResponse, error)
	RequestPasswordResetFunc func(ctx context.Context, email string) *services.MessageResponse
	ResetPasswordFunc        func(ctx context.Context, email, code, newPassword string) (*services.MessageResponse, error)
	RefreshFunc              func(ctx context.Context, refreshToken string) (*services.AuthResponse, error)
	MeFunc                   func(ctx context.Context, userID string) (*services.Profile, error)
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput, meta services.RequestMeta) (*services.RegisterResponse, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.RegisterFunc(ctx, in, meta)
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, email, code string, meta services.RequestMeta) (*services.AuthResponse, error) {
	if m.VerifyEmailFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.VerifyEmailFunc(ctx, email, code, meta)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string, meta services.RequestMeta) (*services.LoginResult, error) {
	if m.LoginFunc == nil {
		return nil, models.NewError(models.ErrUnauthorized, "Invalid email or password")
	}
	return m.LoginFunc(ctx, email, password, meta)
}

func (m *MockAuthService) VerifyLogin(ctx context.Context, email, code string, meta services.RequestMeta) (*services.AuthResponse, error) {
	if m.VerifyLoginFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.VerifyLoginFunc(ctx, email, code, meta)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) *services.MessageResponse {
	if m.RequestPasswordResetFunc == nil {
		return &services.MessageResponse{Message: "If the email exists, a reset code has been sent"}
	}
	return m.RequestPasswordResetFunc(ctx, email)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email, code, newPassword string) (*services.MessageResponse, error) {
	if m.ResetPasswordFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.ResetPasswordFunc(ctx, email, code, newPassword)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*services.AuthResponse, error) {
	if m.RefreshFunc == nil {
		return nil, models.NewError(models.ErrUnauthorized, "Invalid or expired refresh token")
	}
	return m.RefreshFunc(ctx, refreshToken)
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*services.Profile, error) {
	if m.MeFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.MeFunc(ctx, userID)
}

// MockUserService implements UserService for testing
type MockUserService struct {
	ListUsersFunc    func(ctx context.Context) ([]services.UserListItem, error)
	UpdateRoleFunc   func(ctx context.Context, actorID, targetID string, role models.Role) (*services.UserSummary, error)
	ListAuthLogsFunc func(ctx context.Context, userID string) ([]services.AuthLogResponse, error)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]services.UserListItem, error) {
	if m.ListUsersFunc == nil {
		return []services.UserListItem{}, nil
	}
	return m.ListUsersFunc(ctx)
}

func (m *MockUserService) UpdateRole(ctx context.Context, actorID, targetID string, role models.Role) (*services.UserSummary, error) {
	if m.UpdateRoleFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.UpdateRoleFunc(ctx, actorID, targetID, role)
}

func (m *MockUserService) ListAuthLogs(ctx context.Context, userID string) ([]services.AuthLogResponse, error) {
	if m.ListAuthLogsFunc == nil {
		return []services.AuthLogResponse{}, nil
	}
	return m.ListAuthLogsFunc(ctx, userID)
}

// MockGameService implements GameService for testing
type MockGameService struct {
	ListActiveFunc func(ctx context.Context) ([]services.PublicGame, error)
	ListAllFunc    func(ctx context.Context) ([]*services.GameResponse, error)
	GetFunc        func(ctx context.Context, id string) (*services.GameResponse, error)
	CreateFunc     func(ctx context.Context, in services.CreateGameInput) (*services.GameResponse, error)
	UpdateFunc     func(ctx context.Context, id string, upd models.GameUpdate) (*services.GameResponse, error)
	DeleteFunc     func(ctx context.Context, id string) (*services.GameResponse, error)
}

func (m *MockGameService) ListActive(ctx context.Context) ([]services.PublicGame, error) {
	if m.ListActiveFunc == nil {
		return []services.PublicGame{}, nil
	}
	return m.ListActiveFunc(ctx)
}

func (m *MockGameService) ListAll(ctx context.Context) ([]*services.GameResponse, error) {
	if m.ListAllFunc == nil {
		return []*services.GameResponse{}, nil
	}
	return m.ListAllFunc(ctx)
}

func (m *MockGameService) Get(ctx context.Context, id string) (*services.GameResponse, error) {
	if m.GetFunc == nil {
		return nil, models.NewError(models.ErrNotFound, "Game not found")
	}
	return m.GetFunc(ctx, id)
}

func (m *MockGameService) Create(ctx context.Context, in services.CreateGameInput) (*services.GameResponse, error) {
	if m.CreateFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateFunc(ctx, in)
}

func (m *MockGameService) Update(ctx context.Context, id string, upd models.GameUpdate) (*services.GameResponse, error) {
	if m.UpdateFunc == nil {
		return nil, models.NewError(models.ErrNotFound, "Game not found")
	}
	return m.UpdateFunc(ctx, id, upd)
}

func (m *MockGameService) Delete(ctx context.Context, id string) (*services.GameResponse, error) {
	if m.DeleteFunc == nil {
		return nil, models.NewError(models.ErrNotFound, "Game not found")
	}
	return m.DeleteFunc(ctx, id)
}
