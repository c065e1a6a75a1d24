package main

import (
    "context"
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/lockerbay/locker-reservation/internal/config"
    "github.com/lockerbay/locker-reservation/internal/database"
    "github.com/lockerbay/locker-reservation/internal/engine"
    "github.com/lockerbay/locker-reservation/internal/handler"
    "github.com/lockerbay/locker-reservation/internal/middleware"
    "github.com/lockerbay/locker-reservation/internal/model"
    "github.com/lockerbay/locker-reservation/internal/queue"
    "github.com/lockerbay/locker-reservation/internal/repository"
    "github.com/lockerbay/locker-reservation/internal/router"
    queue_publisher "github.com/lockerbay/locker-reservation/internal/service"
)

// main wires the locker reservation service: storage, engine, HTTP layer,
// Redis-backed middleware and the RabbitMQ lifecycle consumer.
func main() {
    _ = godotenv.Load() // ignore error if .env file is missing

    cfg := config.Load()

    var store engine.Store
    switch cfg.StoreDriver {
    case "mysql":
        db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
        if err != nil {
            log.Fatalf("database connection failed: %v", err)
        }
        defer db.Close()
        if err := database.EnsureSchema(context.Background(), db); err != nil {
            log.Fatalf("schema setup failed: %v", err)
        }
        s := repository.NewStore(db)
        if err := s.SeedLockers(context.Background(), cfg.LockerCount); err != nil {
            log.Fatalf("locker seed failed: %v", err)
        }
        store = s
    case "memory":
        m := repository.NewMemory()
        if err := m.SeedLockers(context.Background(), cfg.LockerCount); err != nil {
            log.Fatalf("locker seed failed: %v", err)
        }
        store = m
    default:
        log.Fatalf("unknown STORE_DRIVER %q (want mysql or memory)", cfg.StoreDriver)
    }

    eng := engine.New(store, engine.NewCodeGenerator(cfg.CodeDigits), engine.Options{
        TTL:           cfg.CodeTTL,
        Profile:       model.Profile(cfg.CustomerProfile),
        QRBaseURL:     cfg.QRBaseURL,
        EnforceExpiry: cfg.EnforceExpiry,
    })

    h := handler.NewLockerHandler(eng, queue_publisher.New())

    e := echo.New()

    // Redis backs the status cache and the rate limiter; when it is not
    // reachable both middlewares degrade into pass-throughs.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; response cache and rate limiting disabled")
    }
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
    limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

    router.RegisterRoutes(e)
    router.RegisterLockers(e, h, cfg.APIKey, cache, limit)

    // Background consumer appends lifecycle events to logs/locker.log.
    go func() {
        if err := queue.StartLockerConsumer(); err != nil {
            log.Printf("locker consumer stopped: %v", err)
        }
    }()

    log.Printf("listening on :%s (env=%s, store=%s)", cfg.Port, cfg.Env, cfg.StoreDriver)
    if err := e.Start(":" + cfg.Port); err != nil {
        log.Fatalf("server stopped: %v", err)
    }
}
