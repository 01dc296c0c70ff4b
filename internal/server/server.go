package server

import (
	"github.com/Neomeniam/GeoMemories-DRF/internal/auth"
	"github.com/Neomeniam/GeoMemories-DRF/internal/comment"
	"github.com/Neomeniam/GeoMemories-DRF/internal/config"
	"github.com/Neomeniam/GeoMemories-DRF/internal/event"
	"github.com/Neomeniam/GeoMemories-DRF/internal/friendship"
	"github.com/Neomeniam/GeoMemories-DRF/internal/notification"
	"github.com/Neomeniam/GeoMemories-DRF/internal/post"
	"github.com/Neomeniam/GeoMemories-DRF/internal/storage"
	"github.com/Neomeniam/GeoMemories-DRF/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
	Bus   *event.Bus
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
		Bus:   event.NewBus(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	notificationSvc := notification.NewService(s.DB)
	notification.NewNotifier(notificationSvc).Register(s.Bus)

	friendshipSvc := friendship.NewService(s.DB, s.Bus)
	postSvc := post.NewService(s.DB, friendshipSvc, s.Bus)
	commentSvc := comment.NewService(s.DB, postSvc, s.Bus)
	userSvc := user.NewService(s.DB, friendshipSvc, postSvc)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	user.RegisterRoutes(s.App.Group("/users"), userSvc, jwtMiddleware)
	post.RegisterRoutes(s.App.Group("/posts"), postSvc, commentSvc, jwtMiddleware)
	post.RegisterFeed(s.App.Group("/feed"), postSvc, jwtMiddleware)
	comment.RegisterRoutes(s.App.Group("/comments"), commentSvc, jwtMiddleware)
	friendship.RegisterRoutes(s.App.Group("/friends"), friendshipSvc, jwtMiddleware)
	notification.RegisterRoutes(s.App.Group("/notifications"), notificationSvc, jwtMiddleware)
	storage.RegisterRoutes(s.App.Group("/storage"), storage.NewService(s.DB), jwtMiddleware)
}
