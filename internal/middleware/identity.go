package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Identity resolution. Token verification belongs to the external auth
// provider; this server only needs a stable caller id. When AUTH_JWT_SECRET
// is configured, a Bearer token is verified and its subject becomes the
// caller id. Without it, the opaque userId in the request body or query is
// trusted as-is.

var jwtSecret []byte

func InitIdentity(secret string) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
}

// ResolveIdentity stores the verified subject in locals when a valid token
// is presented. Invalid tokens are ignored rather than rejected: every
// endpoint also works for anonymous callers.
func ResolveIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if jwtSecret == nil {
			return c.Next()
		}

		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Next()
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, _ := claims["sub"].(string); sub != "" {
				c.Locals("auth_user_id", sub)
			}
		}

		return c.Next()
	}
}

// CallerID returns the effective caller identity: the verified token subject
// when present, otherwise the claimed id from the request.
func CallerID(c *fiber.Ctx, claimed string) string {
	if verified, ok := c.Locals("auth_user_id").(string); ok && verified != "" {
		return verified
	}
	return claimed
}
