package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/yoshifumik/snapdetect/auth"
)

const userIDKey = "user_id"

// AuthRequired resolves the session from the JWT cookie (or a Bearer
// header) and puts the user id into the request locals. Requests without a
// valid session get a 401.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tokenStr string

		authHeader := c.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		} else {
			tokenStr = c.Cookies(auth.CookieName)
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Please log in to access this page.",
				"data":    nil,
			})
		}

		userID, err := auth.ParseToken(tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Please log in to access this page.",
				"data":    nil,
			})
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// CurrentUserID returns the authenticated user's id. Only valid behind
// AuthRequired.
func CurrentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(userIDKey).(uint)
	return id
}
