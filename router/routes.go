package router

import (
	"github.com/gofiber/fiber/v2"

	handler "github.com/yoshifumik/snapdetect/handlers"
	"github.com/yoshifumik/snapdetect/middleware"
	"github.com/yoshifumik/snapdetect/services"
)

// SetupRoutes wires the HTTP surface. Uploaded and annotated images are
// served statically from the upload directory.
func SetupRoutes(app *fiber.App, uploadDir string, users *services.UserService, images *services.ImageService) {
	app.Get("/", handler.Home)
	app.Get("/health", handler.Health)

	// Auth
	app.Get("/signup", handler.SignupForm)
	app.Post("/signup", handler.Signup(users))
	app.Get("/login", handler.LoginForm)
	app.Post("/login", handler.Login(users))
	app.Get("/logout", middleware.AuthRequired(), handler.Logout)

	// Images
	app.Get("/upload", middleware.AuthRequired(), handler.UploadForm)
	app.Post("/upload", middleware.AuthRequired(), handler.Upload(images))
	app.Get("/images", middleware.AuthRequired(), handler.ListImages(images))
	app.Post("/delete/:id", middleware.AuthRequired(), handler.DeleteImage(images))

	app.Static("/uploads", uploadDir)

	app.Use(handler.NotFound)
}
