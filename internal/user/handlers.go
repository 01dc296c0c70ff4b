package user

import (
	"errors"

	"github.com/Neomeniam/GeoMemories-DRF/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	// /me and /search before /:id so the param route does not swallow them.
	r.Get("/me", authMiddleware, func(c *fiber.Ctx) error {
		profile, err := svc.Me(c.Context(), auth.UserID(c))
		if err != nil {
			return fiber.NewError(statusForErr(err), err.Error())
		}
		return c.JSON(profile)
	})

	r.Patch("/me", authMiddleware, func(c *fiber.Ctx) error {
		var patch UpdateProfileRequest
		if err := c.BodyParser(&patch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		profile, err := svc.UpdateMe(c.Context(), auth.UserID(c), patch)
		if err != nil {
			return fiber.NewError(statusForErr(err), err.Error())
		}
		return c.JSON(profile)
	})

	r.Get("/search", authMiddleware, func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q required")
		}
		profiles, err := svc.Search(c.Context(), auth.UserID(c), query)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if profiles == nil {
			profiles = []Profile{}
		}
		return c.JSON(profiles)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		profile, err := svc.Profile(c.Context(), auth.UserID(c), c.Params("id"))
		if err != nil {
			return fiber.NewError(statusForErr(err), err.Error())
		}
		return c.JSON(profile)
	})

	r.Get("/:id/posts", authMiddleware, func(c *fiber.Ctx) error {
		posts, err := svc.Posts(c.Context(), auth.UserID(c), c.Params("id"))
		if err != nil {
			return fiber.NewError(statusForErr(err), err.Error())
		}
		return c.JSON(posts)
	})
}

func statusForErr(err error) int {
	if errors.Is(err, ErrNotFound) {
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}
