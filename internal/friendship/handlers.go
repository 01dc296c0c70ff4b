package friendship

import (
	"errors"

	"github.com/Neomeniam/GeoMemories-DRF/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/requests", authMiddleware, func(c *fiber.Ctx) error {
		viewer := auth.UserID(c)
		var body struct {
			ToUserID string `json:"to_user_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.ToUserID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "to_user_id required")
		}
		f, err := svc.CreateRequest(c.Context(), viewer, body.ToUserID)
		if err != nil {
			return fiber.NewError(statusForErr(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(f)
	})

	r.Get("/requests", authMiddleware, func(c *fiber.Ctx) error {
		requests, err := svc.PendingReceived(c.Context(), auth.UserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(requests)
	})

	r.Get("/requests/sent", authMiddleware, func(c *fiber.Ctx) error {
		requests, err := svc.PendingSent(c.Context(), auth.UserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(requests)
	})

	r.Post("/requests/:id/accept", authMiddleware, func(c *fiber.Ctx) error {
		return resolve(c, svc, true)
	})

	r.Post("/requests/:id/decline", authMiddleware, func(c *fiber.Ctx) error {
		return resolve(c, svc, false)
	})
}

func resolve(c *fiber.Ctx, svc *Service, accept bool) error {
	f, err := svc.Resolve(c.Context(), c.Params("id"), auth.UserID(c), accept)
	if err != nil {
		return fiber.NewError(statusForErr(err), err.Error())
	}
	return c.JSON(fiber.Map{"status": f.Status})
}

func statusForErr(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrNotRecipient):
		return fiber.StatusForbidden
	case errors.Is(err, ErrSelfRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrAlreadyFriends),
		errors.Is(err, ErrIncomingPending), errors.Is(err, ErrNotPending):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
