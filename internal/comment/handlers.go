package comment

import (
	"errors"

	"github.com/Abby966/social-media-API/internal/auth"
	"github.com/Abby966/social-media-API/internal/shared/page"

	"github.com/gofiber/fiber/v2"
)

func statusFor(err error) error {
	switch {
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrContentTooLong):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPostNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotOwner):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

func RegisterRoutes(r fiber.Router, svc *Service, requireAuth, optionalAuth, limit fiber.Handler, pageSize int) {
	r.Post("/", requireAuth, limit, func(c *fiber.Ctx) error {
		var body struct {
			PostID  string `json:"post"`
			Content string `json:"content"`
		}
		if err := c.BodyParser(&body); err != nil || body.PostID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "post and content required")
		}
		cm, err := svc.Create(c.Context(), auth.UserID(c), body.PostID, body.Content)
		if err != nil {
			return statusFor(err)
		}
		return c.Status(fiber.StatusCreated).JSON(cm)
	})

	r.Get("/", optionalAuth, func(c *fiber.Ctx) error {
		params := page.FromQuery(c, pageSize)
		comments, total, err := svc.List(c.Context(), c.Query("post"), c.Query("q"), params.Limit, params.Offset)
		if err != nil {
			return statusFor(err)
		}
		return c.JSON(page.Envelope(total, comments))
	})

	r.Get("/:id", optionalAuth, func(c *fiber.Ctx) error {
		cm, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return statusFor(err)
		}
		return c.JSON(cm)
	})

	r.Patch("/:id", requireAuth, limit, func(c *fiber.Ctx) error {
		var body struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		cm, err := svc.Update(c.Context(), c.Params("id"), auth.UserID(c), body.Content)
		if err != nil {
			return statusFor(err)
		}
		return c.JSON(cm)
	})

	r.Delete("/:id", requireAuth, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id"), auth.UserID(c)); err != nil {
			return statusFor(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
