package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var ErrNoUserInContext = errors.New("no authenticated user in request context")

// GetUserUUID reads the user id the auth middleware stored in locals.
func GetUserUUID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, ErrNoUserInContext
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrNoUserInContext
	}
	return id, nil
}

// GetUserEmail returns the authenticated user's email, or "".
func GetUserEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals("user_email").(string); ok {
		return email
	}
	return ""
}
