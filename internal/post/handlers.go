package post

import (
	"errors"

	"github.com/Abby966/social-media-API/internal/auth"
	"github.com/Abby966/social-media-API/internal/metrics"
	"github.com/Abby966/social-media-API/internal/shared/page"

	"github.com/gofiber/fiber/v2"
)

func statusFor(err error) error {
	switch {
	case errors.Is(err, ErrEmptyContent):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
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
			Content  string `json:"content"`
			MediaURL string `json:"media_url"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := svc.Create(c.Context(), auth.UserID(c), body.Content, body.MediaURL)
		if err != nil {
			return statusFor(err)
		}
		metrics.PostsCreated.Inc()
		return c.Status(fiber.StatusCreated).JSON(p)
	})

	r.Get("/", optionalAuth, func(c *fiber.Ctx) error {
		params := page.FromQuery(c, pageSize)
		posts, total, err := svc.List(c.Context(), auth.UserID(c), c.Query("author"), c.Query("q"), params.Limit, params.Offset)
		if err != nil {
			return statusFor(err)
		}
		return c.JSON(page.Envelope(total, posts))
	})

	// Must come before /:id.
	r.Get("/bookmarks", requireAuth, func(c *fiber.Ctx) error {
		params := page.FromQuery(c, pageSize)
		posts, total, err := svc.Bookmarked(c.Context(), auth.UserID(c), params.Limit, params.Offset)
		if err != nil {
			return statusFor(err)
		}
		return c.JSON(page.Envelope(total, posts))
	})

	r.Get("/:id", optionalAuth, func(c *fiber.Ctx) error {
		p, err := svc.Get(c.Context(), c.Params("id"), auth.UserID(c))
		if err != nil {
			return statusFor(err)
		}
		return c.JSON(p)
	})

	r.Patch("/:id", requireAuth, limit, func(c *fiber.Ctx) error {
		var body struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := svc.Update(c.Context(), c.Params("id"), auth.UserID(c), body.Content)
		if err != nil {
			return statusFor(err)
		}
		return c.JSON(p)
	})

	r.Delete("/:id", requireAuth, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id"), auth.UserID(c)); err != nil {
			return statusFor(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/like", requireAuth, limit, func(c *fiber.Ctx) error {
		like, created, err := svc.Like(c.Context(), c.Params("id"), auth.UserID(c))
		if err != nil {
			return statusFor(err)
		}
		if !created {
			return c.JSON(fiber.Map{"detail": "already liked"})
		}
		metrics.LikesToggled.WithLabelValues("like").Inc()
		return c.Status(fiber.StatusCreated).JSON(like)
	})

	r.Delete("/:id/unlike", requireAuth, func(c *fiber.Ctx) error {
		if err := svc.Unlike(c.Context(), c.Params("id"), auth.UserID(c)); err != nil {
			return statusFor(err)
		}
		metrics.LikesToggled.WithLabelValues("unlike").Inc()
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/:id/likes", requireAuth, func(c *fiber.Ctx) error {
		likes, err := svc.Likes(c.Context(), c.Params("id"))
		if err != nil {
			return statusFor(err)
		}
		return c.JSON(likes)
	})

	r.Post("/:id/bookmark", requireAuth, limit, func(c *fiber.Ctx) error {
		bm, created, err := svc.Bookmark(c.Context(), c.Params("id"), auth.UserID(c))
		if err != nil {
			return statusFor(err)
		}
		if !created {
			return c.JSON(fiber.Map{"detail": "already bookmarked"})
		}
		return c.Status(fiber.StatusCreated).JSON(bm)
	})

	r.Delete("/:id/unbookmark", requireAuth, func(c *fiber.Ctx) error {
		if err := svc.Unbookmark(c.Context(), c.Params("id"), auth.UserID(c)); err != nil {
			return statusFor(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
