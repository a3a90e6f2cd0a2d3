package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-engine/internal/domain"
	apperrors "github.com/spec-kit/support-engine/pkg/util"
)

// ActorKey names the locals slot holding the verified actor. The
// websocket handler reads it back after the connection upgrade.
const ActorKey = "auth_actor"

// AuthMiddleware validates bearer tokens and stores the actor on the
// request context.
type AuthMiddleware struct {
	tokens *TokenVerifier
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. It accepts the
// Authorization header or, for websocket upgrades where headers are
// awkward from browsers, a `token` query parameter.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	tokenStr := bearerToken(c.Get("Authorization"))
	if tokenStr == "" {
		tokenStr = c.Query("token")
	}
	if tokenStr == "" {
		return apperrors.NewUnauthorized("missing credentials")
	}

	actor, err := m.tokens.Verify(tokenStr)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(ActorKey, actor)
	return c.Next()
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// ActorFromContext retrieves the authenticated actor.
func ActorFromContext(c *fiber.Ctx) (*domain.Actor, bool) {
	val := c.Locals(ActorKey)
	if val == nil {
		return nil, false
	}
	actor, ok := val.(*domain.Actor)
	return actor, ok
}

// ActorFromLocals retrieves the actor from an already-extracted locals
// value, used by the websocket handler after the upgrade.
func ActorFromLocals(val interface{}) (*domain.Actor, bool) {
	actor, ok := val.(*domain.Actor)
	return actor, ok
}
