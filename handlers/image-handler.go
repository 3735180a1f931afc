package handler

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/yoshifumik/snapdetect/middleware"
	"github.com/yoshifumik/snapdetect/services"
)

// Upload accepts a multipart file field "image" and drives the
// upload-detect-persist pipeline for the authenticated user.
func Upload(images *services.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.CurrentUserID(c)

		fileHeader, err := c.FormFile("image")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "No file selected.",
				"data":    nil,
			})
		}

		blobFile, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Error opening the file",
				"data":    nil,
			})
		}
		defer blobFile.Close()

		data, err := io.ReadAll(blobFile)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Error reading the file",
				"data":    nil,
			})
		}

		res, err := images.Upload(c.Context(), userID, fileHeader.Filename, data)
		if err != nil {
			var ve *services.ValidationError
			if errors.As(err, &ve) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"status":  "error",
					"message": ve.Message,
					"data":    nil,
				})
			}
			var de *services.DetectionError
			if errors.As(err, &de) {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
					"status":  "error",
					"message": "Error during object detection: " + de.Err.Error(),
					"data":    nil,
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Error processing the upload",
				"data":    nil,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":  "success",
			"message": "Image uploaded successfully! Detected: " + res.Summary,
			"data":    res.Image,
		})
	}
}

// ListImages returns the authenticated user's uploads, newest first.
func ListImages(images *services.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.CurrentUserID(c)

		list, err := images.List(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Database error",
				"data":    nil,
			})
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "Images retrieved",
			"data":    list,
		})
	}
}

// DeleteImage removes one of the authenticated user's images, files first,
// row always.
func DeleteImage(images *services.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.CurrentUserID(c)

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid image id",
				"data":    nil,
			})
		}

		if err := images.Delete(userID, uint(id)); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"status":  "error",
					"message": "Image not found.",
					"data":    nil,
				})
			}
			if errors.Is(err, services.ErrNotOwner) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"status":  "error",
					"message": "You can only delete your own images.",
					"data":    nil,
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Failed to delete image",
				"data":    nil,
			})
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "Image deleted successfully.",
			"data":    nil,
		})
	}
}
