// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qolzam/telar/apps/console/admin"
	"github.com/qolzam/telar/apps/console/dashboard"
	dashboardCache "github.com/qolzam/telar/apps/console/dashboard/cache"
	dashboardHandlers "github.com/qolzam/telar/apps/console/dashboard/handlers"
	dashboardServices "github.com/qolzam/telar/apps/console/dashboard/services"
	kv "github.com/qolzam/telar/apps/console/internal/cache"
	"github.com/qolzam/telar/apps/console/internal/database/postgres"
	"github.com/qolzam/telar/apps/console/internal/metrics"
	"github.com/qolzam/telar/apps/console/internal/middleware/requestid"
	"github.com/qolzam/telar/apps/console/internal/pkg/log"
	platformconfig "github.com/qolzam/telar/apps/console/internal/platform/config"
	platformemail "github.com/qolzam/telar/apps/console/internal/platform/email"
	"github.com/qolzam/telar/apps/console/notifications"
	"github.com/qolzam/telar/apps/console/posts"
	postsHandlers "github.com/qolzam/telar/apps/console/posts/handlers"
	postsRepository "github.com/qolzam/telar/apps/console/posts/repository"
	postsServices "github.com/qolzam/telar/apps/console/posts/services"
	"github.com/qolzam/telar/apps/console/users"
	usersHandlers "github.com/qolzam/telar/apps/console/users/handlers"
	usersRepository "github.com/qolzam/telar/apps/console/users/repository"
	usersServices "github.com/qolzam/telar/apps/console/users/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Error("console server stopped: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log.SetDebug(cfg.Server.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.NewClient(ctx, cfg.Database.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pgClient.Close()
	if err := pgClient.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	cacheManager, err := dashboardCache.Shared(func() (*dashboardCache.Manager, error) {
		store, err := kv.NewStore(kv.StoreConfig{
			Backend:     kv.StoreType(cfg.Cache.Backend),
			Namespace:   cfg.Cache.Namespace,
			Path:        cfg.Cache.Path,
			OpenTimeout: 5 * time.Second,
			Redis: kv.RedisConfig{
				Address:      cfg.Cache.Redis.Address,
				Password:     cfg.Cache.Redis.Password,
				Database:     cfg.Cache.Redis.Database,
				PoolSize:     cfg.Cache.Redis.PoolSize,
				MinIdleConns: cfg.Cache.Redis.MinIdleConns,
			},
		})
		if err != nil {
			return nil, err
		}
		return dashboardCache.NewManager(store, dashboardCache.WithTTL(cfg.Cache.TTL)), nil
	})
	if err != nil {
		return fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}
	defer cacheManager.Close()

	var sender platformemail.Sender
	if cfg.Email.SMTPEnabled() {
		smtpSender, err := platformemail.NewSMTPSender(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPUser, cfg.Email.SMTPPass)
		if err != nil {
			log.Warn("SMTP fallback disabled: %v", err)
		} else {
			sender = smtpSender
		}
	}
	emailNotifier := notifications.NewEmailService(notifications.EmailConfig{
		BackendURL: cfg.Email.BackendURL,
		Timeout:    cfg.Email.Timeout,
		From:       cfg.Email.SMTPEmail,
	}, sender)
	pushNotifier := notifications.NewPushService(notifications.PushConfig{
		BackendURL: cfg.Notification.BackendURL,
		Timeout:    cfg.Notification.Timeout,
		ActorID:    cfg.Notification.ActorID,
		ActorName:  cfg.Notification.ActorName,
	})

	userRepo := usersRepository.NewPostgresUserRepository(pgClient)
	postRepo := postsRepository.NewPostgresPostRepository(pgClient)

	postService := postsServices.NewPostService(postRepo, cacheManager)
	userService := usersServices.NewUserService(userRepo, cacheManager)
	escalationService := usersServices.NewEscalationService(userRepo, emailNotifier, pushNotifier,
		usersServices.WithReportedPosts(postService, cfg.Escalation.ReportedPostsLimit),
		usersServices.WithStatsInvalidator(cacheManager),
		usersServices.WithNotificationTimeout(cfg.Escalation.NotificationTimeout),
	)
	dashboardService := dashboardServices.NewDashboardService(cacheManager, userRepo, postRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			log.ErrorWithContext(c.UserContext(), "path %s failed with %d: %v", c.Path(), code, err)
			if len(c.Response().Body()) > 0 {
				return nil
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(metrics.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.WebDomain,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pgClient.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	admin.RegisterRoutes(app, &admin.Handlers{
		Users: &users.UsersHandlers{
			UserHandler: usersHandlers.NewUserHandler(userService, escalationService),
		},
		Posts: &posts.PostsHandlers{
			PostHandler: postsHandlers.NewPostHandler(postService),
		},
		Dashboard: &dashboard.DashboardHandlers{
			DashboardHandler: dashboardHandlers.NewDashboardHandler(dashboardService),
		},
	}, admin.RouterConfig{
		BaseRoute: cfg.Server.BaseRoute,
		PublicKey: cfg.JWT.PublicKey,
		ClaimKey:  cfg.JWT.ClaimKey,
	})

	listenErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Info("console listening on %s (cache backend %s)", addr, cfg.Cache.Backend)
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
