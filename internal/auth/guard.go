package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/BradenHooton/egaming/internal/models"
	pkghttp "github.com/BradenHooton/egaming/pkg/http"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Policy is the access requirement attached to a route
type Policy struct {
	public bool
	roles  []models.Role
}

// Public lets every request through without credentials
func Public() Policy {
	return Policy{public: true}
}

// Authenticated requires a valid bearer token of any role
func Authenticated() Policy {
	return Policy{}
}

// RequireRoles requires a valid bearer token whose user holds one of roles
func RequireRoles(roles ...models.Role) Policy {
	return Policy{roles: roles}
}

func (p Policy) IsPublic() bool {
	return p.public
}

// Allows reports whether a caller with role satisfies the policy
func (p Policy) Allows(role models.Role) bool {
	if p.public || len(p.roles) == 0 {
		return true
	}
	for _, r := range p.roles {
		if r == role {
			return true
		}
	}
	return false
}

// UserResolver loads the account behind a token subject
type UserResolver interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Guard enforces route policies on incoming requests
type Guard struct {
	tm     *TokenManager
	users  UserResolver
	logger *slog.Logger
}

func NewGuard(tm *TokenManager, users UserResolver, logger *slog.Logger) *Guard {
	return &Guard{tm: tm, users: users, logger: logger}
}

// Protect returns middleware enforcing policy. Non-public routes get the
// resolved Identity in their request context.
func (g *Guard) Protect(policy Policy) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if policy.IsPublic() {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				pkghttp.WriteUnauthorized(w, "Missing or invalid authorization header")
				return
			}

			claims, err := g.tm.ValidateToken(tokenString)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "Invalid or expired token")
				return
			}

			// role comes from the live row so demotions apply before the token expires
			user, err := g.users.GetByID(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					pkghttp.WriteUnauthorized(w, "Invalid or expired token")
					return
				}
				g.logger.Error("failed to resolve token subject",
					slog.String("user_id", claims.Subject),
					slog.Any("error", err))
				pkghttp.WriteInternalError(w, "Internal server error")
				return
			}

			identity := &models.Identity{
				UserID: user.ID,
				Email:  user.Email,
				Role:   user.Role,
			}

			if !policy.Allows(identity.Role) {
				g.logger.Warn("access denied by role policy",
					slog.String("user_id", identity.UserID),
					slog.String("role", string(identity.Role)),
					slog.String("path", r.URL.Path))
				pkghttp.WriteForbidden(w, forbiddenMessage(policy))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func forbiddenMessage(policy Policy) string {
	if len(policy.roles) == 1 && policy.roles[0] == models.RoleAdmin {
		return "Admin access required"
	}
	return "Insufficient permissions"
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the caller attached by Protect, or nil
func IdentityFromContext(ctx context.Context) *models.Identity {
	identity, ok := ctx.Value(identityContextKey).(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}
