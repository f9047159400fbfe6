package feed

import (
	"github.com/Abby966/social-media-API/internal/auth"
	"github.com/Abby966/social-media-API/internal/shared/page"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, requireAuth fiber.Handler, pageSize int) {
	r.Get("/", requireAuth, func(c *fiber.Ctx) error {
		params := page.FromQuery(c, pageSize)
		posts, total, err := svc.Compose(c.Context(), auth.UserID(c), c.Query("q"), params.Limit, params.Offset)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(page.Envelope(total, posts))
	})
}
