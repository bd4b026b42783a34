// Package main is the entry point for the fitting-engine HTTP API.
//
// @title EVE Fitting Engine API
// @version 0.1.0
// @description REST API exposing the ship-fitting attribute resolution
// @description engine: submit a hull, modules, drones and skills and get
// @description back a fully resolved attribute set.
//
// @host localhost:8080
// @BasePath /
//
// @tag.name Fits
// @tag.description Ship-fit attribute calculation
package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/Sternrassler/eve-fitting-engine/internal/config"
	"github.com/Sternrassler/eve-fitting-engine/internal/handlers"
	"github.com/Sternrassler/eve-fitting-engine/internal/metrics"
	"github.com/Sternrassler/eve-fitting-engine/pkg/evedb/oracle/postgres"
	"github.com/Sternrassler/eve-fitting-engine/pkg/evedb/oracle/rediscache"
	"github.com/Sternrassler/eve-fitting-engine/pkg/evedb/oracle/sqlite"
	"github.com/Sternrassler/eve-fitting-engine/pkg/fitlog"
	"github.com/Sternrassler/eve-fitting-engine/pkg/fitting"
)

func main() {
	ctx := context.Background()
	appLogger := fitlog.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var oracle fitting.Oracle
	switch cfg.OracleBackend {
	case config.BackendPostgres:
		pgOracle, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("failed to connect postgres oracle: %v", err)
		}
		defer pgOracle.Close()
		oracle = pgOracle
	default:
		sqliteOracle, err := sqlite.Open(cfg.SDEPath)
		if err != nil {
			log.Fatalf("failed to open sqlite oracle: %v", err)
		}
		defer sqliteOracle.Close()
		oracle = sqliteOracle
	}

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("warning: redis connection failed, running uncached: %v", err)
		} else {
			oracle = rediscache.New(oracle, redisClient, cfg.RedisTTL)
			appLogger.Info("redis oracle cache enabled", "addr", cfg.RedisAddr)
		}
	}

	h := handlers.New(oracle, appLogger)

	app := fiber.New(fiber.Config{AppName: "eve-fitting-engine API v0.1.0"})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{AllowOrigins: "*"}))
	app.Use(rateLimitMiddleware(cfg.RateLimitPerSecond))

	api := app.Group("/api/v1")
	api.Post("/fits/calculate", h.CalculateFit)

	appLogger.Info("starting fitting engine API", "addr", cfg.ListenAddr)
	log.Fatal(app.Listen(cfg.ListenAddr))
}

// rateLimitMiddleware bounds inbound /calculate traffic with a
// golang.org/x/time/rate token bucket, turned inward to protect the
// CPU-bound calculation endpoint instead of an outbound client.
func rateLimitMiddleware(perSecond int) fiber.Handler {
	limiter := rate.NewLimiter(rate.Limit(perSecond), perSecond)
	return func(c *fiber.Ctx) error {
		if !limiter.AllowN(time.Now(), 1) {
			metrics.HTTPRateLimitedTotal.Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limited"})
		}
		return c.Next()
	}
}
