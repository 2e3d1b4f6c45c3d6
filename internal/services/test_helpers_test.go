package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/BradenHooton/egaming/internal/auth"
	"github.com/BradenHooton/egaming/internal/models"
	pkgauth "github.com/BradenHooton/egaming/pkg/auth"
	pkglogger "github.com/BradenHooton/egaming/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret-32-characters-long!!"

// memStore is an in-memory Store. Transactions are serialized and roll back
// to a snapshot when fn fails.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*models.User
	codes  []*models.VerificationCode
	tokens map[string]*models.RefreshToken // by digest
	logs   []*models.AuthLog
	now    func() time.Time
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{
		users:  make(map[string]*models.User),
		tokens: make(map[string]*models.RefreshToken),
		now:    now,
	}
}

type memSnapshot struct {
	users  map[string]models.User
	codes  []models.VerificationCode
	tokens map[string]models.RefreshToken
	logs   int
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		users:  make(map[string]models.User, len(s.users)),
		tokens: make(map[string]models.RefreshToken, len(s.tokens)),
		logs:   len(s.logs),
	}
	for id, u := range s.users {
		snap.users[id] = *u
	}
	for _, c := range s.codes {
		snap.codes = append(snap.codes, *c)
	}
	for h, t := range s.tokens {
		snap.tokens[h] = *t
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.users = make(map[string]*models.User, len(snap.users))
	for id, u := range snap.users {
		u := u
		s.users[id] = &u
	}
	s.codes = s.codes[:0]
	for _, c := range snap.codes {
		c := c
		s.codes = append(s.codes, &c)
	}
	s.tokens = make(map[string]*models.RefreshToken, len(snap.tokens))
	for h, t := range snap.tokens {
		t := t
		s.tokens[h] = &t
	}
	s.logs = s.logs[:snap.logs]
}

func (s *memStore) Repos() Repos {
	return s.repos(false)
}

func (s *memStore) WithinTx(ctx context.Context, fn func(Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(s.repos(true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) repos(inTx bool) Repos {
	return Repos{
		Users:         &memUsers{s: s, inTx: inTx},
		Codes:         &memCodes{s: s, inTx: inTx},
		RefreshTokens: &memTokens{s: s, inTx: inTx},
		AuthLogs:      &memLogs{s: s, inTx: inTx},
	}
}

// lock takes the store mutex unless already held by the running transaction
func (s *memStore) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// user returns a copy of the stored user with email
func (s *memStore) user(email string) *models.User {
	defer s.lock(false)()
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c
		}
	}
	return nil
}

func (s *memStore) addCode(code *models.VerificationCode) {
	defer s.lock(false)()
	if code.ID == "" {
		code.ID = uuid.New().String()
	}
	s.codes = append(s.codes, code)
}

func (s *memStore) authLogs(userID string, action models.AuthAction) int {
	defer s.lock(false)()
	n := 0
	for _, l := range s.logs {
		if l.UserID == userID && l.Action == action {
			n++
		}
	}
	return n
}

func (s *memStore) tokenCount() int {
	defer s.lock(false)()
	return len(s.tokens)
}

func (s *memStore) setActive(email string, active bool) {
	defer s.lock(false)()
	for _, u := range s.users {
		if u.Email == email {
			u.IsActive = active
		}
	}
}

type memUsers struct {
	s    *memStore
	inTx bool
}

func (r *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer r.s.lock(r.inTx)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.s.lock(r.inTx)()
	for _, u := range r.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	defer r.s.lock(r.inTx)()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, models.ErrConflict
		}
	}
	c := *user
	c.ID = uuid.New().String()
	c.CreatedAt = r.s.now()
	c.UpdatedAt = c.CreatedAt
	r.s.users[c.ID] = &c
	out := c
	return &out, nil
}

func (r *memUsers) RecordFailedLogin(ctx context.Context, id string, limit int, lockUntil time.Time) (int, *time.Time, error) {
	defer r.s.lock(r.inTx)()
	u, ok := r.s.users[id]
	if !ok {
		return 0, nil, models.ErrNotFound
	}
	u.FailedLoginAttempts++
	u.LockedUntil = nil
	if u.FailedLoginAttempts >= limit {
		until := lockUntil
		u.LockedUntil = &until
	}
	return u.FailedLoginAttempts, u.LockedUntil, nil
}

func (r *memUsers) RecordLogin(ctx context.Context, id string, at time.Time) error {
	return r.update(id, func(u *models.User) {
		u.LastLoginAt = &at
		u.FailedLoginAttempts = 0
		u.LockedUntil = nil
	})
}

func (r *memUsers) MarkEmailVerified(ctx context.Context, id string) error {
	return r.update(id, func(u *models.User) { u.EmailVerified = true })
}

func (r *memUsers) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.update(id, func(u *models.User) {
		u.PasswordHash = passwordHash
		u.FailedLoginAttempts = 0
		u.LockedUntil = nil
	})
}

func (r *memUsers) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	if err := r.update(id, func(u *models.User) { u.Role = role }); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *memUsers) ListWithStats(ctx context.Context) ([]*models.UserWithStats, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*models.UserWithStats, 0, len(r.s.users))
	for _, u := range r.s.users {
		var n int64
		for _, l := range r.s.logs {
			if l.UserID == u.ID {
				n++
			}
		}
		out = append(out, &models.UserWithStats{User: *u, AuthLogCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memUsers) update(id string, fn func(*models.User)) error {
	defer r.s.lock(r.inTx)()
	u, ok := r.s.users[id]
	if !ok {
		return models.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = r.s.now()
	return nil
}

type memCodes struct {
	s    *memStore
	inTx bool
}

func (r *memCodes) Create(ctx context.Context, code *models.VerificationCode) (*models.VerificationCode, error) {
	defer r.s.lock(r.inTx)()
	c := *code
	c.ID = uuid.New().String()
	r.s.codes = append(r.s.codes, &c)
	out := c
	return &out, nil
}

func (r *memCodes) FindLatestUnused(ctx context.Context, email, code string, codeType models.CodeType) (*models.VerificationCode, error) {
	defer r.s.lock(r.inTx)()
	var latest *models.VerificationCode
	for _, c := range r.s.codes {
		if c.Email != email || c.Code != code || c.Type != codeType || c.UsedAt != nil {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, models.ErrNotFound
	}
	out := *latest
	return &out, nil
}

func (r *memCodes) MarkUsed(ctx context.Context, id string, at time.Time) error {
	defer r.s.lock(r.inTx)()
	for _, c := range r.s.codes {
		if c.ID == id && c.UsedAt == nil {
			c.UsedAt = &at
			return nil
		}
	}
	return models.ErrNotFound
}

type memTokens struct {
	s    *memStore
	inTx bool
}

func (r *memTokens) Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error) {
	defer r.s.lock(r.inTx)()
	if _, exists := r.s.tokens[token.TokenHash]; exists {
		return nil, models.ErrConflict
	}
	t := *token
	t.ID = uuid.New().String()
	r.s.tokens[t.TokenHash] = &t
	out := t
	return &out, nil
}

func (r *memTokens) Revoke(ctx context.Context, tokenHash string, now time.Time) (*models.RefreshToken, error) {
	defer r.s.lock(r.inTx)()
	t, ok := r.s.tokens[tokenHash]
	if !ok || t.RevokedAt != nil || !t.ExpiresAt.After(now) {
		return nil, models.ErrNotFound
	}
	t.RevokedAt = &now
	out := *t
	return &out, nil
}

type memLogs struct {
	s    *memStore
	inTx bool
}

func (r *memLogs) Create(ctx context.Context, log *models.AuthLog) error {
	defer r.s.lock(r.inTx)()
	l := *log
	l.ID = uuid.New().String()
	l.CreatedAt = r.s.now()
	r.s.logs = append(r.s.logs, &l)
	return nil
}

func (r *memLogs) List(ctx context.Context, userID string, limit int) ([]*models.AuthLogEntry, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*models.AuthLogEntry, 0)
	for i := len(r.s.logs) - 1; i >= 0 && len(out) < limit; i-- {
		l := r.s.logs[i]
		if userID != "" && l.UserID != userID {
			continue
		}
		entry := &models.AuthLogEntry{AuthLog: *l}
		if u, ok := r.s.users[l.UserID]; ok {
			entry.UserEmail = u.Email
			entry.UserName = u.Name
			entry.UserPhone = u.Phone
		}
		out = append(out, entry)
	}
	return out, nil
}

// sentCode is one delivery captured by recordingNotifier
type sentCode struct {
	Email string
	Code  string
	Type  models.CodeType
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (n *recordingNotifier) SendCode(ctx context.Context, email, code string, codeType models.CodeType) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentCode{Email: email, Code: code, Type: codeType})
	return n.err
}

// last returns the most recent code delivered to email with codeType
func (n *recordingNotifier) last(email string, codeType models.CodeType) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].Email == email && n.sent[i].Type == codeType {
			return n.sent[i].Code, true
		}
	}
	return "", false
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// testClock is a settable clock shared by the service and the store
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Now().UTC().Truncate(time.Second)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type authFixture struct {
	svc      *AuthService
	store    *memStore
	notifier *recordingNotifier
	clock    *testClock
	compares int
	mu       sync.Mutex
}

func (f *authFixture) compareCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.compares
}

// newAuthFixture builds an AuthService over memStore with a cheap bcrypt
// cost and a counting password comparison
func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	clock := newTestClock()
	store := newMemStore(clock.Now)
	notifier := &recordingNotifier{}
	logger := discardLogger()

	svc := NewAuthService(
		store,
		notifier,
		auth.NewTokenManager(testJWTSecret, 15*time.Minute),
		nil,
		AuthConfig{},
		logger,
		pkglogger.NewAuditLogger(logger),
	)

	f := &authFixture{svc: svc, store: store, notifier: notifier, clock: clock}
	svc.now = clock.Now
	svc.hashPassword = func(password string) (string, error) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		return string(hash), err
	}
	svc.comparePassword = func(hash, password string) error {
		f.mu.Lock()
		f.compares++
		f.mu.Unlock()
		return pkgauth.ComparePassword(hash, password)
	}

	t.Cleanup(svc.Wait)
	return f
}

// registerVerified registers email and redeems its verification code
func (f *authFixture) registerVerified(t *testing.T, email, password string) *AuthResponse {
	t.Helper()
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, RegisterInput{Email: email, Password: password}, RequestMeta{}); err != nil {
		t.Fatalf("Register() = %v", err)
	}
	code, ok := f.notifier.last(normalizeEmail(email), models.CodeTypeEmailVerify)
	if !ok {
		t.Fatalf("no verification code sent to %s", email)
	}
	tokens, err := f.svc.VerifyEmail(ctx, email, code, RequestMeta{})
	if err != nil {
		t.Fatalf("VerifyEmail() = %v", err)
	}
	return tokens
}

// errorKind returns the sentinel kind of a service error
func errorKind(err error) error {
	var e *models.Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return err
}

// MockGameRepository implements GameRepository for testing
type MockGameRepository struct {
	ListFunc    func(ctx context.Context, activeOnly bool) ([]*models.Game, error)
	GetByIDFunc func(ctx context.Context, id string) (*models.Game, error)
	CreateFunc  func(ctx context.Context, game *models.Game) (*models.Game, error)
	UpdateFunc  func(ctx context.Context, id string, upd models.GameUpdate) (*models.Game, error)
	DeleteFunc  func(ctx context.Context, id string) (*models.Game, error)
	CountFunc   func(ctx context.Context) (int64, error)
}

func (m *MockGameRepository) List(ctx context.Context, activeOnly bool) ([]*models.Game, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, activeOnly)
	}
	return []*models.Game{}, nil
}

func (m *MockGameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockGameRepository) Create(ctx context.Context, game *models.Game) (*models.Game, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, game)
	}
	return nil, models.ErrInternalServer
}

func (m *MockGameRepository) Update(ctx context.Context, id string, upd models.GameUpdate) (*models.Game, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, upd)
	}
	return nil, models.ErrNotFound
}

func (m *MockGameRepository) Delete(ctx context.Context, id string) (*models.Game, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockGameRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func strPtr(s string) *string { return &s }
