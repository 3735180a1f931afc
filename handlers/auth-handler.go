package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yoshifumik/snapdetect/auth"
	"github.com/yoshifumik/snapdetect/services"
)

// Signup handles account registration: username, password and
// confirm_password, form-encoded.
func Signup(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input struct {
			Username        string `form:"username" json:"username"`
			Password        string `form:"password" json:"password"`
			ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
		}
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid request body",
				"data":    nil,
			})
		}

		user, err := users.Signup(input.Username, input.Password, input.ConfirmPassword)
		if err != nil {
			var ve *services.ValidationError
			if errors.As(err, &ve) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"status":  "error",
					"message": ve.Message,
					"data":    nil,
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Failed to create account",
				"data":    nil,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":  "success",
			"message": "Account created successfully! Please log in.",
			"data": fiber.Map{
				"id":       user.ID,
				"username": user.Username,
			},
		})
	}
}

// Login verifies credentials and establishes the session cookie.
func Login(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input struct {
			Username string `form:"username" json:"username"`
			Password string `form:"password" json:"password"`
		}
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid request body",
				"data":    nil,
			})
		}

		user, err := users.Authenticate(input.Username, input.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"status":  "error",
					"message": "Invalid username or password.",
					"data":    nil,
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Database error",
				"data":    nil,
			})
		}

		tokenStr, err := auth.IssueToken(user.ID, user.Username)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Failed to generate token",
				"data":    nil,
			})
		}

		c.Cookie(&fiber.Cookie{
			Name:     auth.CookieName,
			Value:    tokenStr,
			Expires:  time.Now().Add(auth.CookieTTL),
			HTTPOnly: true,
			Secure:   false, // Set to true in production with HTTPS
			SameSite: "Lax",
		})

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": fmt.Sprintf("Welcome back, %s!", user.Username),
			"data": fiber.Map{
				"id":       user.ID,
				"username": user.Username,
				"token":    tokenStr,
			},
		})
	}
}

// Logout tears the session down by expiring the cookie.
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "You have been logged out.",
		"data":    nil,
	})
}
