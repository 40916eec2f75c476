package main // Entry point package

import (
    "log" // Logging library

    "github.com/joho/godotenv"    // .env loader for local development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/sports-court-booking/internal/config"
    "github.com/iliyamo/sports-court-booking/internal/database"
    "github.com/iliyamo/sports-court-booking/internal/handler"
    "github.com/iliyamo/sports-court-booking/internal/middleware"
    "github.com/iliyamo/sports-court-booking/internal/queue"
    "github.com/iliyamo/sports-court-booking/internal/repository"
    "github.com/iliyamo/sports-court-booking/internal/router"
    "github.com/iliyamo/sports-court-booking/internal/service"
)

func main() {
    // Load .env if present; real environments set variables directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis backs rate limiting and the public response cache.  A nil
    // client disables both rather than failing startup.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; rate limiting and response cache disabled")
    }

    // Repositories.
    students := repository.NewStudentRepo(db)
    staff := repository.NewStaffRepo(db)
    tokens := repository.NewTokenRepo(db)
    sports := repository.NewSportRepo(db)
    courts := repository.NewCourtRepo(db)
    slots := repository.NewSlotRepo(db)
    bookings := repository.NewBookingRepo(db)
    dashboard := repository.NewDashboardRepo(db)

    // The booking engine owns every slot/booking mutation.
    engine := service.NewBookingService(db, slots, bookings, courts)

    // Handlers.
    authH := handler.NewAuthHandler(students, staff, tokens, cfg)
    bookingH := handler.NewBookingHandler(engine, bookings)
    adminH := handler.NewAdminHandler(dashboard, bookings, engine)
    catalogH := handler.NewCatalogHandler(sports, courts, slots, staff, cfg)
    browseH := handler.NewBrowseHandler(sports, courts, slots)

    // Consume booking events in the background; the consumer keeps
    // reconnecting on broker failures and never stops the server.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterStudent(e, bookingH, cfg.JWTSecret)
    router.RegisterAdmin(e, adminH, catalogH, cfg.JWTSecret)
    router.RegisterPublic(e, browseH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
