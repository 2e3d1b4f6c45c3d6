package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/egaming/internal/auth"
	"github.com/BradenHooton/egaming/internal/services"
	pkghttp "github.com/BradenHooton/egaming/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, in services.RegisterInput, meta services.RequestMeta) (*services.RegisterResponse, error)
	VerifyEmail(ctx context.Context, email, code string, meta services.RequestMeta) (*services.AuthResponse, error)
	Login(ctx context.Context, email, password string, meta services.RequestMeta) (*services.LoginResult, error)
	VerifyLogin(ctx context.Context, email, code string, meta services.RequestMeta) (*services.AuthResponse, error)
	RequestPasswordReset(ctx context.Context, email string) *services.MessageResponse
	ResetPassword(ctx context.Context, email, code, newPassword string) (*services.MessageResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*services.AuthResponse, error)
	Me(ctx context.Context, userID string) (*services.Profile, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service  AuthServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		ipConfig: ipConfig,
	}
}

// Request DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,password"`
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,phone"`
}

// CodeRequest is the body of verify-email and verify-login
type CodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,otp"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,otp"`
	NewPassword string `json:"newPassword" validate:"required,password"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *AuthHandler) meta(r *http.Request) services.RequestMeta {
	info := pkghttp.ExtractClientInfo(r, h.ipConfig)
	return services.RequestMeta{IPAddress: info.IPAddress, UserAgent: info.UserAgent}
}

// Register handles user registration
// @Summary User registration
// @Accept json
// @Param request body RegisterRequest true "Register request"
// @Produce json
// @Success 201 {object} services.RegisterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	}, h.meta(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, resp)
}

// VerifyEmail redeems an emailed verification code and signs the user in
// @Summary Verify email address
// @Accept json
// @Param request body CodeRequest true "Verify email request"
// @Produce json
// @Success 200 {object} services.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.VerifyEmail(r.Context(), req.Email, req.Code, h.meta(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// Login handles user login. An unverified account receives a verification
// challenge instead of tokens.
// @Summary User login
// @Accept json
// @Param request body LoginRequest true "Login request"
// @Produce json
// @Success 200 {object} services.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password, h.meta(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if result.Verification != nil {
		pkghttp.WriteJSON(w, http.StatusOK, result.Verification)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, result.Tokens)
}

// VerifyLogin completes a login that required a verification code
// @Router /auth/verify-login [post]
func (h *AuthHandler) VerifyLogin(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.VerifyLogin(r.Context(), req.Email, req.Code, h.meta(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// RequestPasswordReset always answers with the same message
// @Router /auth/request-password-reset [post]
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, h.service.RequestPasswordReset(r.Context(), req.Email))
}

// ResetPassword sets a new password using an emailed reset code
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// RefreshToken handles token refresh
// @Summary Rotate refresh token
// @Accept json
// @Param request body RefreshTokenRequest true "Refresh token request"
// @Produce json
// @Success 200 {object} services.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// Me returns the caller's profile
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	profile, err := h.service.Me(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profile)
}
