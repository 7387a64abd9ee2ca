package middleware

import (
	"log"
	"strings"

	"caregate/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by RequireScopes for downstream handlers.
const (
	LocalSubject = "subject"
	LocalScopes  = "scopes"
)

// RequireScopes verifies the caller's bearer token and checks that every
// required capability scope was granted at issuance. Invalid or expired
// tokens get 401; valid tokens missing a scope get 403 naming the missing
// scopes.
func RequireScopes(issuer *auth.TokenIssuer, required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := auth.ExtractToken(c.Get("Authorization"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid authorization token",
			})
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			log.Printf("❌ [AUTH] Token rejected: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		if missing := auth.MissingScopes(claims.Scopes, required); len(missing) > 0 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Missing scopes: " + strings.Join(missing, ", "),
			})
		}

		c.Locals(LocalSubject, claims.Subject)
		c.Locals(LocalScopes, claims.Scopes)
		return c.Next()
	}
}

// GrantedScopes returns the scope set RequireScopes stored on the request.
func GrantedScopes(c *fiber.Ctx) []string {
	if scopes, ok := c.Locals(LocalScopes).([]string); ok {
		return scopes
	}
	return nil
}
