// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"taibah_backend/internals/configs"
	helper "taibah_backend/internals/helpers"
)

// AuthMiddleware verifies the bearer JWT and stores user_id/user_email in
// locals. It never touches the database; admin checks live in AdminOnly.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return helper.JsonError(c, fiber.StatusInternalServerError, "Missing JWT secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		}); err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		c.Locals("user_id", userID.String())

		if email, ok := claims["email"].(string); ok {
			c.Locals("user_email", email)
		}

		return c.Next()
	}
}

// AdminOnly gates a route group on membership in admin_users. Requires
// AuthMiddleware to have run first.
func AdminOnly(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := helper.GetUserUUID(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		ok, err := helper.IsAdmin(db, userID)
		if err != nil {
			log.Println("[ERROR] admin lookup failed:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}
		if !ok {
			return helper.JsonError(c, fiber.StatusForbidden, "Forbidden")
		}
		return c.Next()
	}
}

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", fmt.Errorf("unauthorized - no token provided")
	}

	// Robust split: tolerates repeated whitespace; scheme is case-insensitive.
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("unauthorized - invalid token format")
	}

	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("unauthorized - empty token")
	}
	return tok, nil
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration) error {
	expVal, ok := claims["exp"]
	if !ok {
		return fmt.Errorf("token has no exp")
	}

	var expUnix int64
	switch t := expVal.(type) {
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	default:
		return fmt.Errorf("unexpected exp type %T", expVal)
	}

	if time.Now().After(time.Unix(expUnix, 0).Add(skew)) {
		return fmt.Errorf("token expired")
	}
	return nil
}

func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	// Supabase-style tokens carry the user id in "sub"; older internal
	// tokens used "user_id".
	for _, key := range []string{"sub", "user_id"} {
		if raw, ok := claims[key].(string); ok && raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return uuid.Nil, fmt.Errorf("invalid %s claim", key)
			}
			return id, nil
		}
	}
	return uuid.Nil, fmt.Errorf("missing user id claim")
}
