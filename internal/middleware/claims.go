package middleware

import (
	"errors"

	"github.com/cerrolargo/camineria-backend/internal/authz"
	"github.com/cerrolargo/camineria-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoToken = errors.New("no token in context")

// ActorFromContext rebuilds the policy actor from the verified JWT that
// JWTProtected left in the context.
func ActorFromContext(c *fiber.Ctx) (authz.Actor, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return authz.Actor{}, ErrNoToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authz.Actor{}, ErrNoToken
	}

	email, _ := claims["email"].(string)
	roleStr, _ := claims["role"].(string)
	zone, _ := claims["municipio_id"].(string)

	role, ok := authz.ParseRole(roleStr)
	if !ok {
		// Unknown roles still produce an actor; the policy denies them.
		return authz.Actor{Email: email, Role: authz.Role(roleStr)}, nil
	}
	return authz.Actor{
		Email: email,
		Role:  role,
		Scope: authz.ScopeFor(role, zone),
	}, nil
}

// RoleRequired rejects requests whose token carries none of the given
// roles.
func RoleRequired(roles ...authz.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := ActorFromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Forbidden: insufficient permissions",
		})
	}
}

// AdminRequired shorthand, used by the user/banner/report admin surface.
func AdminRequired() fiber.Handler {
	return RoleRequired(authz.RoleAdmin)
}
