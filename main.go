package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"taibah_backend/internals/configs"
	database "taibah_backend/internals/databases"
	"taibah_backend/internals/features/payment/payments/gateway"
	paymentService "taibah_backend/internals/features/payment/payments/service"
	middlewares "taibah_backend/internals/middlewares"
	routes "taibah_backend/internals/route"
	seeds "taibah_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 fast JSON
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"}, // narrow to the CDN's CIDRs when known
	})

	// ⚙️ base + performance middleware
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		// HTTP timeout guard (aligned with the DB statement_timeout)
		ctx, cancel := context.WithTimeout(c.Context(), 35*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		dur := time.Since(start)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("migrate error: %v", err)
	}
	database.WarmUpQueries()

	if configs.GetEnv("RUN_SEEDS") == "1" {
		seeds.RunAllSeeds(database.DB)
	}

	// ✅ PayTabs
	gw := gateway.NewHTTPClient(configs.Paytabs.BaseURL, configs.Paytabs.ServerKey)
	paySvc := paymentService.NewPaymentService(database.DB, gw, paymentService.Config{
		ProfileID:    configs.Paytabs.ProfileID,
		PaypageTTL:   configs.Paytabs.PaypageTTL,
		Enabled:      configs.Paytabs.PaytabsEnabled(),
		PublicOrigin: configs.PublicOrigin,
	})

	// ✅ Routes
	routes.SetupRoutes(app, database.DB, paySvc, configs.Paytabs.ServerKey)

	// 🔒 server connection timeouts
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 40 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + close DB pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
