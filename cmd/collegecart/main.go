package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"collegecart/internal/config"
	"collegecart/internal/http/handlers"
	applog "collegecart/internal/log"
	"collegecart/internal/repos"
	"collegecart/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(cfg.Production()),
	})
	app.Server().MaxRequestBodySize = 8 << 20 // listing photos

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.AttachUser(authSvc))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/media/")
		},
	}))

	// ---------- Media ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	log.Printf("[static] /media -> %s", mediaDir)

	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(mediaDir, clean), true)
	})

	// ---------- API ----------
	deps := handlers.NewDeps(db, cfg, authSvc, services.LogSink{})
	api := app.Group("/api/v1")
	requireUser := handlers.RequireUser(authSvc)

	// Auth (login throttled)
	auth := api.Group("/auth")
	auth.Post("/register", deps.AuthHandler.Register)
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)
	auth.Post("/logout", requireUser, deps.AuthHandler.Logout)
	auth.Get("/me", requireUser, deps.AuthHandler.Me)
	auth.Put("/me", requireUser, deps.AuthHandler.UpdateProfile)

	// Catalog
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/meta", deps.ProductHandler.Meta)
	api.Get("/products/mine", requireUser, deps.ProductHandler.Mine)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Post("/products", requireUser, deps.ProductHandler.Create)
	api.Put("/products/:id", requireUser, deps.ProductHandler.Update)
	api.Delete("/products/:id", requireUser, deps.ProductHandler.Delete)
	api.Post("/products/:id/images", requireUser, deps.ProductHandler.Upload)

	// Cart
	api.Get("/cart", requireUser, deps.CartHandler.View)
	api.Post("/cart", requireUser, deps.CartHandler.Add)
	api.Put("/cart/:productId", requireUser, deps.CartHandler.UpdateQty)
	api.Delete("/cart/:productId", requireUser, deps.CartHandler.Remove)
	api.Delete("/cart", requireUser, deps.CartHandler.Clear)

	// Orders
	api.Post("/orders", requireUser, deps.OrderHandler.Create)
	api.Post("/orders/verify", requireUser, deps.OrderHandler.Verify)
	api.Post("/orders/complete-delivery", requireUser, deps.OrderHandler.CompleteDelivery)
	api.Post("/orders/generate-otp", requireUser, deps.OrderHandler.RegenerateOTP)
	api.Get("/orders/buyer", requireUser, deps.OrderHandler.BuyerOrders)
	api.Get("/orders/seller", requireUser, deps.OrderHandler.SellerOrders)
	api.Get("/orders/pending-deliveries", requireUser, deps.OrderHandler.PendingDeliveries)
	api.Get("/orders/delivery-history", requireUser, deps.OrderHandler.DeliveryHistory)
	api.Get("/orders/stats", requireUser, deps.OrderHandler.Stats)

	// Reviews
	api.Post("/reviews", requireUser, deps.ReviewHandler.Create)
	api.Get("/reviews/product/:id", deps.ReviewHandler.ForProduct)
	api.Get("/reviews/seller/:id", deps.ReviewHandler.ForSeller)

	// Assistant (tight limit; upstream calls are not free)
	api.Post("/assistant", requireUser, limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
	}), deps.AssistantHandler.Ask)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
