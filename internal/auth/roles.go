package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-engine/internal/domain"
	apperrors "github.com/spec-kit/support-engine/pkg/util"
)

// RequireAdmin ensures the caller is an ADMIN actor.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok || actor.Role != domain.ActorRoleAdmin {
			return apperrors.NewForbidden("admin required")
		}
		return c.Next()
	}
}

// RequireMerchant ensures the caller is a MERCHANT actor.
func RequireMerchant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok || actor.Role != domain.ActorRoleMerchant {
			return apperrors.NewForbidden("merchant required")
		}
		return c.Next()
	}
}

// RequireAnyActor ensures the caller is authenticated.
func RequireAnyActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := ActorFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
