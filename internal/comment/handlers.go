package comment

import (
	"errors"

	"github.com/Neomeniam/GeoMemories-DRF/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		postID := c.Query("post_id")
		if postID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "post_id required")
		}
		thread, err := svc.Thread(c.Context(), postID, auth.UserID(c))
		if err != nil {
			return fiber.NewError(statusForErr(err), err.Error())
		}
		return c.JSON(thread)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			PostID string  `json:"post_id"`
			Text   string  `json:"text"`
			Parent *string `json:"parent"`
		}
		if err := c.BodyParser(&body); err != nil || body.PostID == "" || body.Text == "" {
			return fiber.NewError(fiber.StatusBadRequest, "post_id and text required")
		}
		created, err := svc.Create(c.Context(), body.PostID, auth.UserID(c), body.Text, body.Parent)
		if err != nil {
			return fiber.NewError(statusForErr(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Text string `json:"text"`
		}
		if err := c.BodyParser(&body); err != nil || body.Text == "" {
			return fiber.NewError(fiber.StatusBadRequest, "text required")
		}
		updated, err := svc.Update(c.Context(), c.Params("id"), auth.UserID(c), body.Text)
		if err != nil {
			return fiber.NewError(statusForErr(err), err.Error())
		}
		return c.JSON(updated)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id"), auth.UserID(c)); err != nil {
			return fiber.NewError(statusForErr(err), err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/like", authMiddleware, func(c *fiber.Ctx) error {
		liked, count, err := svc.ToggleLike(c.Context(), c.Params("id"), auth.UserID(c))
		if err != nil {
			return fiber.NewError(statusForErr(err), err.Error())
		}
		return c.JSON(fiber.Map{"status": "success", "is_liked": liked, "like_count": count})
	})
}

func statusForErr(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPostNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, ErrParentNotFound), errors.Is(err, ErrParentMismatch):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
