package post

import (
	"context"
	"errors"

	"github.com/Neomeniam/GeoMemories-DRF/internal/auth"
	"github.com/Neomeniam/GeoMemories-DRF/internal/comment"
	"github.com/Neomeniam/GeoMemories-DRF/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

// ThreadLoader supplies the rendered comment tree for the detail shape. The
// comment service satisfies it.
type ThreadLoader interface {
	Thread(ctx context.Context, postID, viewerID string) ([]comment.Comment, error)
}

// DetailResponse is the detail output shape: the list shape plus the comment
// thread. The boundary picks list or detail explicitly per endpoint.
type DetailResponse struct {
	Post
	Comments []comment.Comment `json:"comments"`
}

func RegisterRoutes(r fiber.Router, svc *Service, threads ThreadLoader, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Post
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Caption == "" {
			return fiber.NewError(fiber.StatusBadRequest, "caption required")
		}
		if req.Visibility != "" && !ValidVisibility(req.Visibility) {
			return fiber.NewError(fiber.StatusBadRequest, "visibility must be public, friends or private")
		}
		if req.LocationAccess != "" && !ValidLocationAccess(req.LocationAccess) {
			return fiber.NewError(fiber.StatusBadRequest, "location_access must be anywhere or nearby")
		}
		req.AuthorID = auth.UserID(c)

		created, err := svc.CreatePost(c.Context(), req)
		if err != nil {
			return fiber.NewError(statusForErr(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		return feed(c, svc)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		viewer := auth.UserID(c)
		p, err := svc.Detail(c.Context(), c.Params("id"), viewer, viewerCoord(c))
		if err != nil {
			return fiber.NewError(statusForErr(err), err.Error())
		}
		resp := DetailResponse{Post: p, Comments: []comment.Comment{}}
		if threads != nil {
			thread, err := threads.Thread(c.Context(), p.ID, viewer)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			resp.Comments = thread
		}
		return c.JSON(resp)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeletePost(c.Context(), c.Params("id"), auth.UserID(c)); err != nil {
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

	r.Post("/:id/media", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			FileURL   string `json:"file_url"`
			MediaType string `json:"media_type"`
		}
		if err := c.BodyParser(&body); err != nil || body.FileURL == "" {
			return fiber.NewError(fiber.StatusBadRequest, "file_url required")
		}
		m, err := svc.AddMedia(c.Context(), c.Params("id"), auth.UserID(c), body.FileURL, body.MediaType)
		if err != nil {
			return fiber.NewError(statusForErr(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	})
}

// RegisterFeed mounts the default feed endpoint.
func RegisterFeed(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		return feed(c, svc)
	})
}

func feed(c *fiber.Ctx, svc *Service) error {
	posts, err := svc.Feed(c.Context(), auth.UserID(c), viewerCoord(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(posts)
}

// viewerCoord reads the optional viewer coordinate. Both the lat/lng and
// latitude/longitude spellings are accepted; anything unparseable degrades to
// no coordinate.
func viewerCoord(c *fiber.Ctx) *geo.Coord {
	lat := c.Query("latitude")
	if lat == "" {
		lat = c.Query("lat")
	}
	lng := c.Query("longitude")
	if lng == "" {
		lng = c.Query("lng")
	}
	return geo.ParseCoord(lat, lng)
}

func statusForErr(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, ErrInvalidMedia):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
