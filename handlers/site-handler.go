package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Home is the landing page, open to everyone.
func Home(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Welcome to snapdetect",
		"data": fiber.Map{
			"signup": "POST /signup",
			"login":  "POST /login",
			"upload": "POST /upload (multipart field: image)",
			"images": "GET /images",
			"delete": "POST /delete/:id",
		},
	})
}

// SignupForm describes the signup fields for clients that GET the route.
func SignupForm(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Submit the form to create an account",
		"data":    fiber.Map{"fields": []string{"username", "password", "confirm_password"}},
	})
}

// LoginForm describes the login fields for clients that GET the route.
func LoginForm(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Submit the form to log in",
		"data":    fiber.Map{"fields": []string{"username", "password"}},
	})
}

// UploadForm describes the upload field for clients that GET the route.
func UploadForm(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Submit a multipart form to run detection",
		"data":    fiber.Map{"fields": []string{"image"}, "allowed": []string{"png", "jpg", "jpeg", "gif", "bmp"}},
	})
}

// Health reports liveness.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// NotFound is the catch-all for unknown routes.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":  "error",
		"message": "Page not found.",
		"data":    nil,
	})
}

// ErrorHandler renders unhandled errors as generic envelopes, never raw
// stack traces.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error."

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    nil,
	})
}
