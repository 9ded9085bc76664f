package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDLocalKey is the key used to store the authenticated user id in Fiber's
// context locals.
const UserIDLocalKey = "user_id"

// RequireAuth returns a middleware that accepts only requests carrying a valid
// Bearer token signed with secret. The authenticated user id is stored under
// UserIDLocalKey for downstream handlers. Requests without a valid session are
// terminated with 401; the caller never runs.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}

		userID, err := ParseUserID(token, secret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(UserIDLocalKey, userID)
		return c.Next()
	}
}

// OptionalAuth stores the user id when a valid token is present but lets
// anonymous requests through. Used on public pages that personalize stats for
// logged-in visitors.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if userID, err := ParseUserID(token, secret); err == nil {
				c.Locals(UserIDLocalKey, userID)
			}
		}
		return c.Next()
	}
}

// UserIDFromCtx extracts the authenticated user id, empty for anonymous.
func UserIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(UserIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ParseUserID validates a signed token and returns its user_id claim.
func ParseUserID(token, secret string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return userID, nil
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return h[7:]
	}
	return ""
}
