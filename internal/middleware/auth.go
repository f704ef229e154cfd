package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/landtoken/internal/services"
	"github.com/localnerve/landtoken/internal/types"
)

// Locals keys set by the authentication handlers
const (
	IdentityKey = "identity"
	RoleKey     = "role"
)

// Authenticate verifies the bearer credential and stores the identity in Locals
func Authenticate(gate *services.IdentityGate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := gate.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		c.Locals(IdentityKey, identity)
		return c.Next()
	}
}

// RequireAdmin resolves the caller's role and rejects non-admins
func RequireAdmin(gate *services.IdentityGate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, gate.RequireAdmin)
	}
}

// RequireAdvocateOrAdmin resolves the caller's role and rejects everyone but advocates and admins
func RequireAdvocateOrAdmin(gate *services.IdentityGate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, gate.RequireAdvocateOrAdmin)
	}
}

// authorize runs a role check for the authenticated identity
func authorize(c *fiber.Ctx, check func(ctx context.Context, uid string) (*services.Role, error)) error {
	identity := GetIdentity(c)
	if identity == nil {
		return types.NewUnauthenticated("Authorization header is missing")
	}

	role, err := check(c.UserContext(), identity.UID)
	if err != nil {
		return err
	}

	c.Locals(RoleKey, role)
	return c.Next()
}

// GetIdentity returns the identity stored by Authenticate
func GetIdentity(c *fiber.Ctx) *services.Identity {
	identity, _ := c.Locals(IdentityKey).(*services.Identity)
	return identity
}

// GetRole returns the role stored by a role gate
func GetRole(c *fiber.Ctx) *services.Role {
	role, _ := c.Locals(RoleKey).(*services.Role)
	return role
}
