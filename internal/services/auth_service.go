package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	authorizer "github.com/localnerve/authorizer-go"
	"github.com/localnerve/landtoken/internal/config"
	"github.com/localnerve/landtoken/internal/models"
	"github.com/localnerve/landtoken/internal/types"
	"github.com/localnerve/landtoken/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInvalidToken is returned by a TokenVerifier for a bad or expired credential
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is a verified bearer credential
type Identity struct {
	UID   string
	Email string
}

// Role is the resolved user record and its role flags
type Role struct {
	User       *models.User
	IsAdmin    bool
	IsAdvocate bool
}

// AdvocateOrAdmin reports whether the user may broker transactions
func (r *Role) AdvocateOrAdmin() bool {
	return r != nil && (r.IsAdmin || r.IsAdvocate)
}

// TokenVerifier checks a bearer credential against the identity provider
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}

// IdentityGate authenticates requests and resolves role flags
type IdentityGate struct {
	Verifier TokenVerifier
	DB       *gorm.DB
}

// Authenticate parses an Authorization header and verifies its bearer credential
func (g *IdentityGate) Authenticate(ctx context.Context, header string) (*Identity, error) {
	if header == "" {
		return nil, types.NewUnauthenticated("Authorization header is missing")
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return nil, types.NewUnauthenticated("Authorization header must be a Bearer token")
	}

	identity, err := g.Verifier.VerifyToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, types.NewInvalidToken("Invalid or expired token")
		}
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	if identity == nil || identity.UID == "" {
		return nil, types.NewInvalidToken("Invalid or expired token")
	}

	return identity, nil
}

// ResolveRole loads the user record for uid. A missing record is a
// ProfileNotFound error reported with the given status code.
func (g *IdentityGate) ResolveRole(ctx context.Context, uid string, missingCode int) (*Role, error) {
	var user models.User
	err := g.DB.WithContext(ctx).Where("id = ?", uid).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewProfileNotFound(missingCode, "User profile not found")
		}
		return nil, fmt.Errorf("failed to load user %s: %w", uid, err)
	}

	return &Role{User: &user, IsAdmin: user.IsAdmin, IsAdvocate: user.IsAdvocate}, nil
}

// RequireAdmin resolves the role and fails Forbidden unless it is an admin
func (g *IdentityGate) RequireAdmin(ctx context.Context, uid string) (*Role, error) {
	role, err := g.ResolveRole(ctx, uid, http.StatusForbidden)
	if err != nil {
		return nil, err
	}
	if !role.IsAdmin {
		return nil, types.NewForbidden("Insufficient permissions. Admin role required.")
	}
	return role, nil
}

// RequireAdvocateOrAdmin resolves the role and fails Forbidden unless it is an advocate or admin
func (g *IdentityGate) RequireAdvocateOrAdmin(ctx context.Context, uid string) (*Role, error) {
	role, err := g.ResolveRole(ctx, uid, http.StatusForbidden)
	if err != nil {
		return nil, err
	}
	if !role.AdvocateOrAdmin() {
		return nil, types.NewForbidden("Insufficient permissions.")
	}
	return role, nil
}

// AuthorizerVerifier validates access tokens with an Authorizer instance
type AuthorizerVerifier struct {
	client *authorizer.AuthorizerClient
	log    *zap.Logger
}

// NewAuthorizerVerifier pings the Authorizer service and creates the client
func NewAuthorizerVerifier(ctx context.Context, cfg *config.Config, log *zap.Logger) (*AuthorizerVerifier, error) {
	if err := utils.PingURL(ctx, cfg.AuthzURL); err != nil {
		return nil, fmt.Errorf("authorizer ping failed: %w", err)
	}

	log.Info("Initializing Authorizer",
		zap.String("url", cfg.AuthzURL),
		zap.String("client_id", cfg.AuthzClientID))

	client, err := authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer client: %w", err)
	}

	return &AuthorizerVerifier{client: client, log: log}, nil
}

// VerifyToken implements TokenVerifier
func (v *AuthorizerVerifier) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	res, err := v.client.ValidateJWTToken(&authorizer.ValidateJWTTokenInput{
		TokenType: authorizer.TokenTypeAccessToken,
		Token:     token,
	})
	if err != nil {
		// The provider answers GraphQL errors for malformed or expired tokens
		v.log.Debug("Token validation failed", zap.Error(err))
		return nil, ErrInvalidToken
	}
	if res == nil || !res.IsValid {
		return nil, ErrInvalidToken
	}

	identity := &Identity{}
	if sub, ok := res.Claims["sub"].(string); ok {
		identity.UID = sub
	}
	if email, ok := res.Claims["email"].(string); ok {
		identity.Email = email
	}
	if identity.UID == "" {
		return nil, ErrInvalidToken
	}

	return identity, nil
}
