package server

import (
	"path/filepath"

	"tradepost/internal/models"
	"tradepost/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// maxUploadSize caps goods images at 5 MB.
const maxUploadSize = 5 * 1024 * 1024

// UploadImage handles POST /api/upload
func (s *Server) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("No file uploaded"))
	}
	if file.Size > maxUploadSize {
		return models.RespondWithError(c,
			models.NewValidationError("File too large (max 5MB)"))
	}
	if !storage.AllowedExtension(filepath.Ext(file.Filename)) {
		return models.RespondWithError(c,
			models.NewValidationError("Unsupported image format, expected jpg, jpeg, png, gif or webp"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	url, err := s.media.Save(file.Filename, src)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"image_url": url,
	})
}
