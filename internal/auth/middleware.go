package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-service/pkg/envelope"
)

const claimsKey = "auth_claims"

// Gate messages kept stable for clients.
const (
	MsgNoTokenProvided = "No token provided"
	MsgInvalidToken    = "Invalid token"
)

// Middleware validates bearer tokens and attaches claims to the request.
// It performs no lookups against the credential store; a valid token is
// sufficient to pass the gate.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs the access gate.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. Requests without a
// bearer token stop here with 401; the downstream handler is never invoked.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return envelope.NewMissingCredential(MsgNoTokenProvided)
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return envelope.NewMissingCredential(MsgNoTokenProvided)
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return envelope.NewInvalidCredential(MsgInvalidToken)
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the authenticated identity.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
