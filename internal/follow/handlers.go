package follow

import (
	"errors"

	"github.com/Abby966/social-media-API/internal/auth"
	"github.com/Abby966/social-media-API/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, requireAuth, limit fiber.Handler) {
	r.Post("/", requireAuth, limit, func(c *fiber.Ctx) error {
		var body struct {
			Following string `json:"following"`
		}
		if err := c.BodyParser(&body); err != nil || body.Following == "" {
			return fiber.NewError(fiber.StatusBadRequest, "following required")
		}
		f, err := svc.Create(c.Context(), auth.UserID(c), body.Following)
		if err != nil {
			switch {
			case errors.Is(err, ErrSelfFollow):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			case errors.Is(err, ErrAlreadyFollowing):
				return fiber.NewError(fiber.StatusConflict, err.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
		}
		metrics.FollowsCreated.Inc()
		return c.Status(fiber.StatusCreated).JSON(f)
	})

	r.Delete("/:id", requireAuth, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id"), auth.UserID(c)); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/", requireAuth, func(c *fiber.Ctx) error {
		follows, err := svc.List(c.Context(), auth.UserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(follows)
	})
}
