package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/BradenHooton/egaming/internal/auth"
	"github.com/BradenHooton/egaming/internal/models"
	pkgauth "github.com/BradenHooton/egaming/pkg/auth"
	pkglogger "github.com/BradenHooton/egaming/pkg/logger"
)

const (
	msgInvalidCredentials   = "Invalid email or password"
	msgAccountDisabled      = "Account is disabled"
	msgEmailRegistered      = "Email already registered"
	msgCodeSent             = "Verification code sent to your email"
	msgInvalidVerifyCode    = "Invalid or expired verification code"
	msgVerifyCodeExpired    = "Verification code has expired"
	msgInvalidResetCode     = "Invalid or expired reset code"
	msgResetCodeExpired     = "Reset code has expired"
	msgResetRequested       = "If the email exists, a reset code has been sent"
	msgPasswordReset        = "Password reset successfully"
	msgInvalidRefreshToken  = "Invalid or expired refresh token"
	defaultNotifyTimeout    = 10 * time.Second
	defaultCodeExpiry       = 10 * time.Minute
	defaultRefreshExpiry    = 7 * 24 * time.Hour
	defaultLockoutDuration  = 15 * time.Minute
	defaultMaxFailedAttempt = 5
)

// decoyPassword is hashed once and compared when a login names an unknown email
const decoyPassword = "Decoy-Passw0rd-Never-Stored"

// AuthConfig holds the lifetimes and lockout policy of the auth core
type AuthConfig struct {
	CodeExpiry             time.Duration
	RefreshTokenExpiry     time.Duration
	MaxFailedLoginAttempts int
	LockoutDuration        time.Duration
	NotifyTimeout          time.Duration // bound for each code delivery
}

func (c AuthConfig) withDefaults() AuthConfig {
	if c.CodeExpiry <= 0 {
		c.CodeExpiry = defaultCodeExpiry
	}
	if c.RefreshTokenExpiry <= 0 {
		c.RefreshTokenExpiry = defaultRefreshExpiry
	}
	if c.MaxFailedLoginAttempts <= 0 {
		c.MaxFailedLoginAttempts = defaultMaxFailedAttempt
	}
	if c.LockoutDuration <= 0 {
		c.LockoutDuration = defaultLockoutDuration
	}
	if c.NotifyTimeout <= 0 {
		c.NotifyTimeout = defaultNotifyTimeout
	}
	return c
}

// RequestMeta identifies where an auth request came from
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type RegisterInput struct {
	Email    string
	Password string
	Name     *string
	Phone    *string
}

// AuthService implements registration, verification, login, password reset
// and refresh token rotation
type AuthService struct {
	store       Store
	notifier    Notifier
	tm          *auth.TokenManager
	timing      *auth.TimingDelay
	cfg         AuthConfig
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger

	now             func() time.Time
	hashPassword    func(string) (string, error)
	comparePassword func(hash, password string) error
	generateCode    func() (string, error)
	decoyHash       func() string

	pending sync.WaitGroup // in-flight background deliveries
}

func NewAuthService(
	store Store,
	notifier Notifier,
	tm *auth.TokenManager,
	timing *auth.TimingDelay,
	cfg AuthConfig,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	s := &AuthService{
		store:           store,
		notifier:        notifier,
		tm:              tm,
		timing:          timing,
		cfg:             cfg.withDefaults(),
		logger:          logger,
		auditLogger:     auditLogger,
		now:             func() time.Time { return time.Now().UTC() },
		hashPassword:    pkgauth.HashPassword,
		comparePassword: pkgauth.ComparePassword,
		generateCode:    pkgauth.GenerateOneTimeCode,
	}
	s.decoyHash = sync.OnceValue(func() string {
		hash, err := s.hashPassword(decoyPassword)
		if err != nil {
			s.logger.Error("failed to hash decoy password", slog.Any("error", err))
		}
		return hash
	})
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and emails it a verification code
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta RequestMeta) (*RegisterResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, models.NewError(models.ErrBadRequest, "Email is required")
	}
	if err := pkgauth.ValidatePassword(in.Password); err != nil {
		return nil, models.NewError(models.ErrBadRequest, passwordMessage(err))
	}

	if _, err := s.store.Repos().Users.GetByEmail(ctx, email); err == nil {
		s.logger.Info("registration failed: email already registered")
		return nil, models.NewError(models.ErrConflict, msgEmailRegistered)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, s.internal("failed to check existing user", err)
	}

	passwordHash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, s.internal("failed to hash password", err)
	}

	var user *models.User
	var code string
	err = s.store.WithinTx(ctx, func(r Repos) error {
		var err error
		user, err = r.Users.Create(ctx, &models.User{
			Email:        email,
			PasswordHash: passwordHash,
			Name:         in.Name,
			Phone:        in.Phone,
			Role:         models.RoleUser,
			IsActive:     true,
		})
		if err != nil {
			if errors.Is(err, models.ErrConflict) {
				return models.NewError(models.ErrConflict, msgEmailRegistered)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		if code, err = s.issueCode(ctx, r, user, models.CodeTypeEmailVerify); err != nil {
			return err
		}

		return s.logAuth(ctx, r, user.ID, models.AuthActionSignUp, meta)
	})
	if err != nil {
		return nil, s.fail("registration failed", err)
	}

	s.notify(ctx, user.Email, code, models.CodeTypeEmailVerify)

	s.logger.Info("user registered", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: pkglogger.EventRegister,
		UserID:    user.ID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Success:   true,
	})

	return &RegisterResponse{
		User: RegisteredUser{
			ID:            user.ID,
			Email:         user.Email,
			Name:          user.Name,
			Phone:         user.Phone,
			Role:          user.Role,
			EmailVerified: user.EmailVerified,
			CreatedAt:     user.CreatedAt,
		},
		RequiresVerification: true,
		Message:              msgCodeSent,
	}, nil
}

// VerifyEmail redeems an EMAIL_VERIFY code, marks the email verified and signs the user in
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string, meta RequestMeta) (*AuthResponse, error) {
	email = normalizeEmail(email)

	var tokens *AuthResponse
	err := s.store.WithinTx(ctx, func(r Repos) error {
		userID, err := s.redeemCode(ctx, r, email, code, models.CodeTypeEmailVerify, msgInvalidVerifyCode, msgVerifyCodeExpired)
		if err != nil {
			return err
		}

		if err := r.Users.MarkEmailVerified(ctx, userID); err != nil {
			return fmt.Errorf("failed to mark email verified: %w", err)
		}

		user, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load verified user: %w", err)
		}

		if tokens, err = s.issueTokens(ctx, r, user); err != nil {
			return err
		}

		return s.logAuth(ctx, r, user.ID, models.AuthActionSignIn, meta)
	})
	if err != nil {
		s.auditFailure(pkglogger.EventVerifyEmail, email, meta, err)
		return nil, s.fail("email verification failed", err)
	}

	s.logger.Info("email verified", slog.String("user_id", tokens.User.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: pkglogger.EventVerifyEmail,
		UserID:    tokens.User.ID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Success:   true,
	})

	return tokens, nil
}

// Login checks credentials. A locked account fails before the password is
// compared. A verified account gets tokens; an unverified one gets a fresh
// code by email and no tokens.
func (s *AuthService) Login(ctx context.Context, email, password string, meta RequestMeta) (*LoginResult, error) {
	start := time.Now()
	email = normalizeEmail(email)
	repos := s.store.Repos()

	user, err := repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			_ = s.comparePassword(s.decoyHash(), password)
			s.timing.WaitFrom(start, false)
			s.logger.Info("login failed: invalid credentials")
			s.auditFailure(pkglogger.EventLogin, email, meta, errors.New("invalid_credentials"))
			return nil, models.NewError(models.ErrUnauthorized, msgInvalidCredentials)
		}
		return nil, s.internal("failed to get user by email", err)
	}

	now := s.now()
	if user.IsLocked(now) {
		s.logger.Info("login blocked: account locked", slog.String("user_id", user.ID))
		s.auditFailure(pkglogger.EventLogin, email, meta, errors.New("account_locked"))
		lockedUntil := *user.LockedUntil
		return nil, &models.Error{
			Kind:        models.ErrAccountLocked,
			Message:     fmt.Sprintf("Account locked. Try again after %s", lockedUntil.UTC().Format(time.RFC3339)),
			LockedUntil: &lockedUntil,
		}
	}

	if err := s.comparePassword(user.PasswordHash, password); err != nil {
		attempts, lockedUntil, recErr := repos.Users.RecordFailedLogin(ctx, user.ID, s.cfg.MaxFailedLoginAttempts, now.Add(s.cfg.LockoutDuration))
		if recErr != nil {
			return nil, s.internal("failed to record failed login", recErr)
		}
		if lockedUntil != nil {
			s.logger.Warn("account locked after repeated failures",
				slog.String("user_id", user.ID),
				slog.Int("failed_attempts", attempts))
		}
		s.timing.WaitFrom(start, false)
		s.auditFailure(pkglogger.EventLogin, email, meta, errors.New("invalid_credentials"))
		return nil, models.NewError(models.ErrUnauthorized, msgInvalidCredentials)
	}

	if !user.IsActive {
		s.auditFailure(pkglogger.EventLogin, email, meta, errors.New("account_disabled"))
		return nil, models.NewError(models.ErrAccountDisabled, msgAccountDisabled)
	}

	if !user.EmailVerified {
		code, err := s.issueCode(ctx, repos, user, models.CodeTypeEmailVerify)
		if err != nil {
			return nil, s.fail("failed to issue verification code", err)
		}
		s.notifyAsync(user.Email, code, models.CodeTypeEmailVerify)

		s.logger.Info("login requires email verification", slog.String("user_id", user.ID))
		return &LoginResult{Verification: &VerificationRequired{
			RequiresVerification: true,
			Email:                user.Email,
			Message:              msgCodeSent,
		}}, nil
	}

	var tokens *AuthResponse
	err = s.store.WithinTx(ctx, func(r Repos) error {
		if err := r.Users.RecordLogin(ctx, user.ID, now); err != nil {
			return fmt.Errorf("failed to record login: %w", err)
		}
		var err error
		if tokens, err = s.issueTokens(ctx, r, user); err != nil {
			return err
		}
		return s.logAuth(ctx, r, user.ID, models.AuthActionSignIn, meta)
	})
	if err != nil {
		return nil, s.fail("login failed", err)
	}

	s.timing.WaitFrom(start, true)
	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: pkglogger.EventLogin,
		UserID:    user.ID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Success:   true,
	})

	return &LoginResult{Tokens: tokens}, nil
}

// VerifyLogin completes a login that required email verification
func (s *AuthService) VerifyLogin(ctx context.Context, email, code string, meta RequestMeta) (*AuthResponse, error) {
	email = normalizeEmail(email)

	var tokens *AuthResponse
	err := s.store.WithinTx(ctx, func(r Repos) error {
		record, err := s.findCode(ctx, r, email, code, models.CodeTypeEmailVerify, msgInvalidVerifyCode, msgVerifyCodeExpired)
		if err != nil {
			return err
		}

		user, err := r.Users.GetByID(ctx, *record.UserID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.NewError(models.ErrBadRequest, msgInvalidVerifyCode)
			}
			return fmt.Errorf("failed to load code owner: %w", err)
		}
		if !user.IsActive {
			return models.NewError(models.ErrAccountDisabled, msgAccountDisabled)
		}

		if err := s.consumeCode(ctx, r, record, msgInvalidVerifyCode); err != nil {
			return err
		}
		if err := r.Users.MarkEmailVerified(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to mark email verified: %w", err)
		}
		if err := r.Users.RecordLogin(ctx, user.ID, s.now()); err != nil {
			return fmt.Errorf("failed to record login: %w", err)
		}

		if tokens, err = s.issueTokens(ctx, r, user); err != nil {
			return err
		}
		return s.logAuth(ctx, r, user.ID, models.AuthActionSignIn, meta)
	})
	if err != nil {
		s.auditFailure(pkglogger.EventVerifyLogin, email, meta, err)
		return nil, s.fail("login verification failed", err)
	}

	s.logger.Info("login verified", slog.String("user_id", tokens.User.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: pkglogger.EventVerifyLogin,
		UserID:    tokens.User.ID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Success:   true,
	})

	return tokens, nil
}

// RequestPasswordReset emails a reset code when the account exists. The
// response never reveals whether it does.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) *MessageResponse {
	email = normalizeEmail(email)
	repos := s.store.Repos()

	user, err := repos.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		code, err := s.issueCode(ctx, repos, user, models.CodeTypePasswordReset)
		if err != nil {
			s.logger.Error("failed to issue reset code", slog.String("user_id", user.ID), slog.Any("error", err))
			break
		}
		s.notify(ctx, user.Email, code, models.CodeTypePasswordReset)
		s.logger.Info("password reset requested", slog.String("user_id", user.ID))
	case errors.Is(err, models.ErrNotFound):
		s.logger.Info("password reset requested for unknown email")
	default:
		s.logger.Error("failed to look up user for password reset", slog.Any("error", err))
	}

	return &MessageResponse{Message: msgResetRequested}
}

// ResetPassword redeems a PASSWORD_RESET code and replaces the password.
// The failure counter and lock are cleared.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) (*MessageResponse, error) {
	email = normalizeEmail(email)

	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return nil, models.NewError(models.ErrBadRequest, passwordMessage(err))
	}

	passwordHash, err := s.hashPassword(newPassword)
	if err != nil {
		return nil, s.internal("failed to hash password", err)
	}

	var userID string
	err = s.store.WithinTx(ctx, func(r Repos) error {
		var err error
		userID, err = s.redeemCode(ctx, r, email, code, models.CodeTypePasswordReset, msgInvalidResetCode, msgResetCodeExpired)
		if err != nil {
			return err
		}
		if err := r.Users.UpdatePassword(ctx, userID, passwordHash); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.NewError(models.ErrBadRequest, msgInvalidResetCode)
			}
			return fmt.Errorf("failed to update password: %w", err)
		}
		return nil
	})
	if err != nil {
		s.auditFailure(pkglogger.EventPasswordReset, email, RequestMeta{}, err)
		return nil, s.fail("password reset failed", err)
	}

	s.logger.Info("password reset", slog.String("user_id", userID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: pkglogger.EventPasswordReset,
		UserID:    userID,
		Success:   true,
	})

	return &MessageResponse{Message: msgPasswordReset}, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued for the same user
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, models.NewError(models.ErrUnauthorized, msgInvalidRefreshToken)
	}
	digest := pkgauth.HashForStorage(refreshToken)

	var tokens *AuthResponse
	err := s.store.WithinTx(ctx, func(r Repos) error {
		record, err := r.RefreshTokens.Revoke(ctx, digest, s.now())
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.NewError(models.ErrUnauthorized, msgInvalidRefreshToken)
			}
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}

		user, err := r.Users.GetByID(ctx, record.UserID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.NewError(models.ErrUnauthorized, msgInvalidRefreshToken)
			}
			return fmt.Errorf("failed to load token owner: %w", err)
		}
		if !user.IsActive {
			return models.NewError(models.ErrAccountDisabled, msgAccountDisabled)
		}

		tokens, err = s.issueTokens(ctx, r, user)
		return err
	})
	if err != nil {
		s.auditFailure(pkglogger.EventTokenRefresh, "", RequestMeta{}, err)
		return nil, s.fail("token refresh failed", err)
	}

	s.logger.Info("token refreshed", slog.String("user_id", tokens.User.ID))

	return tokens, nil
}

// Me returns the profile of the authenticated caller
func (s *AuthService) Me(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.store.Repos().Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewError(models.ErrUnauthorized, "User not found")
		}
		return nil, s.internal("failed to load profile", err)
	}

	return &Profile{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Phone:         user.Phone,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		LastLoginAt:   user.LastLoginAt,
	}, nil
}

// Wait blocks until background code deliveries have finished
func (s *AuthService) Wait() {
	s.pending.Wait()
}

func (s *AuthService) issueCode(ctx context.Context, r Repos, user *models.User, codeType models.CodeType) (string, error) {
	code, err := s.generateCode()
	if err != nil {
		return "", err
	}

	now := s.now()
	userID := user.ID
	_, err = r.Codes.Create(ctx, &models.VerificationCode{
		Email:     user.Email,
		Code:      code,
		Type:      codeType,
		UserID:    &userID,
		ExpiresAt: now.Add(s.cfg.CodeExpiry),
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}

	return code, nil
}

// findCode returns the newest unused (email, code, type) match with an owner
func (s *AuthService) findCode(ctx context.Context, r Repos, email, code string, codeType models.CodeType, invalidMsg, expiredMsg string) (*models.VerificationCode, error) {
	record, err := r.Codes.FindLatestUnused(ctx, email, code, codeType)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewError(models.ErrBadRequest, invalidMsg)
		}
		return nil, fmt.Errorf("failed to look up verification code: %w", err)
	}
	if record.UserID == nil {
		return nil, models.NewError(models.ErrBadRequest, invalidMsg)
	}
	if record.IsExpired(s.now()) {
		return nil, models.NewError(models.ErrBadRequest, expiredMsg)
	}
	return record, nil
}

// consumeCode marks record used; losing a concurrent race reads as an invalid code
func (s *AuthService) consumeCode(ctx context.Context, r Repos, record *models.VerificationCode, invalidMsg string) error {
	if err := r.Codes.MarkUsed(ctx, record.ID, s.now()); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewError(models.ErrBadRequest, invalidMsg)
		}
		return fmt.Errorf("failed to consume verification code: %w", err)
	}
	return nil
}

func (s *AuthService) redeemCode(ctx context.Context, r Repos, email, code string, codeType models.CodeType, invalidMsg, expiredMsg string) (string, error) {
	record, err := s.findCode(ctx, r, email, code, codeType, invalidMsg, expiredMsg)
	if err != nil {
		return "", err
	}
	if err := s.consumeCode(ctx, r, record, invalidMsg); err != nil {
		return "", err
	}
	return *record.UserID, nil
}

func (s *AuthService) issueTokens(ctx context.Context, r Repos, user *models.User) (*AuthResponse, error) {
	accessToken, err := s.tm.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	secret, err := pkgauth.GenerateRefreshSecret()
	if err != nil {
		return nil, err
	}

	now := s.now()
	_, err = r.RefreshTokens.Create(ctx, &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: pkgauth.HashForStorage(secret),
		ExpiresAt: now.Add(s.cfg.RefreshTokenExpiry),
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &AuthResponse{
		User:         newUserSummary(user),
		AccessToken:  accessToken,
		RefreshToken: secret,
		ExpiresIn:    int(s.tm.AccessTokenExpiry().Seconds()),
	}, nil
}

func (s *AuthService) logAuth(ctx context.Context, r Repos, userID string, action models.AuthAction, meta RequestMeta) error {
	entry := &models.AuthLog{
		UserID: userID,
		Action: action,
	}
	if meta.IPAddress != "" {
		entry.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		entry.UserAgent = &meta.UserAgent
	}
	return r.AuthLogs.Create(ctx, entry)
}

// notify delivers a code and waits for it; delivery errors are logged only
func (s *AuthService) notify(ctx context.Context, email, code string, codeType models.CodeType) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
	defer cancel()

	if err := s.notifier.SendCode(ctx, email, code, codeType); err != nil {
		s.logger.Error("failed to deliver verification code",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.String("code_type", string(codeType)),
			slog.Any("error", err))
	}
}

// notifyAsync delivers a code on a detached goroutine
func (s *AuthService) notifyAsync(email, code string, codeType models.CodeType) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.notify(context.Background(), email, code, codeType)
	}()
}

func (s *AuthService) auditFailure(eventType, email string, meta RequestMeta, err error) {
	reason := err.Error()
	var e *models.Error
	if errors.As(err, &e) {
		reason = e.Message
	}
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType:     eventType,
		Email:         email,
		IPAddress:     meta.IPAddress,
		UserAgent:     meta.UserAgent,
		Success:       false,
		FailureReason: reason,
	})
}

// fail passes client-safe errors through and hides everything else behind ErrInternalServer
func (s *AuthService) fail(msg string, err error) error {
	var e *models.Error
	if errors.As(err, &e) {
		return e
	}
	return s.internal(msg, err)
}

func (s *AuthService) internal(msg string, err error) error {
	s.logger.Error(msg, slog.Any("error", err))
	return models.ErrInternalServer
}

func passwordMessage(err error) string {
	var pve *pkgauth.PasswordValidationError
	if errors.As(err, &pve) && len(pve.Errors) > 0 {
		msg := pve.Error()
		return strings.ToUpper(msg[:1]) + msg[1:]
	}
	return "Invalid password"
}
