package media

import (
	"errors"

	"github.com/Abby966/social-media-API/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, requireAuth, limit fiber.Handler) {
	r.Post("/uploads", requireAuth, limit, func(c *fiber.Ctx) error {
		var body struct {
			FileName    string `json:"file_name"`
			ContentType string `json:"content_type"`
		}
		if err := c.BodyParser(&body); err != nil || body.FileName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "file_name required")
		}
		obj, err := svc.CreateUpload(c.Context(), auth.UserID(c), body.FileName, body.ContentType)
		if err != nil {
			if errors.Is(err, ErrNotConfigured) {
				return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(obj)
	})
}
