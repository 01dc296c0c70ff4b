package notification

import (
	"github.com/Neomeniam/GeoMemories-DRF/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		notifications, err := svc.List(c.Context(), auth.UserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if notifications == nil {
			notifications = []Notification{}
		}
		return c.JSON(notifications)
	})

	r.Post("/mark_read", authMiddleware, func(c *fiber.Ctx) error {
		updated, err := svc.MarkAllRead(c.Context(), auth.UserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"status": "marked as read", "updated": updated})
	})
}
