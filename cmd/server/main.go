package main

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/config"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/database"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/handler"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/middleware"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/queue"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/repository"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/router"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/service"
)

func main() {
    // .env is a developer convenience; production sets real env vars.
    if err := godotenv.Load(); err == nil {
        log.Println("loaded .env")
    }

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    rdb := config.NewRedisClient() // nil when Redis is absent; middleware degrades to no-ops

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db, cfg.BcryptCost)
    restaurants := repository.NewRestaurantRepo(db)
    tables := repository.NewTableRepo(db)
    products := repository.NewProductRepo(db)
    orders := repository.NewOrderRepo(db)
    reservations := repository.NewReservationRepo(db)
    notifications := repository.NewNotificationRepo(db)

    auth := service.NewAuthService(users, tokens, cfg)

    go func() {
        if err := queue.StartOrderConsumer(notifications); err != nil {
            log.Printf("order-consumer: stopped: %v", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.Logger())
    e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
        AllowOrigins:     []string{cfg.FrontendURL},
        AllowCredentials: true,
    }))

    router.Register(e, router.Deps{
        JWTSecret:     cfg.JWTSecret,
        AuthLimiter:   middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
        Cache:         middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
        Auth:          handler.NewAuthHandler(cfg, auth),
        Users:         handler.NewUserHandler(users, cfg.BcryptCost),
        Restaurants:   handler.NewRestaurantHandler(restaurants),
        Tables:        handler.NewTableHandler(tables, restaurants),
        Products:      handler.NewProductHandler(products, restaurants),
        Orders:        handler.NewOrderHandler(orders, products, tables),
        Reservations:  handler.NewReservationHandler(reservations, tables),
        Notifications: handler.NewNotificationHandler(notifications, users),
    })

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
