package main // Entry point package

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/iliyamo/workshop-job-service/internal/config"
    "github.com/iliyamo/workshop-job-service/internal/database"
    "github.com/iliyamo/workshop-job-service/internal/handler"
    "github.com/iliyamo/workshop-job-service/internal/queue"
    "github.com/iliyamo/workshop-job-service/internal/repository"
    "github.com/iliyamo/workshop-job-service/internal/router"
    queuepublisher "github.com/iliyamo/workshop-job-service/internal/service"
    "github.com/iliyamo/workshop-job-service/internal/workshop"
)

func main() {
    // Load .env when present; real deployments set env vars directly.
    if err := godotenv.Load(); err != nil {
        log.Printf("no .env file loaded: %v", err)
    }
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis is optional; nil disables caching and rate limiting.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; cache and rate limiting disabled")
    }

    // Event publishing is optional too: without a broker the service
    // still runs, transitions just do not fan out.
    var events workshop.Publisher = workshop.NopPublisher{}
    if cfg.AMQPURL != "" {
        events = queuepublisher.New(cfg.AMQPURL)
        go func() {
            if err := queue.StartInvoicingConsumer(cfg.AMQPURL, cfg.InvoicingLog); err != nil {
                log.Printf("invoicing consumer stopped: %v", err)
            }
        }()
    }

    store := repository.NewWorkshopStore(db)
    jobReads := repository.NewJobRepository(db)
    boothReads := repository.NewBoothRepository(db)
    services := repository.NewServiceRepository(db)
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)

    h := router.Handlers{
        Auth:    handler.NewAuthHandler(cfg, users, tokens),
        Jobs:    handler.NewJobHandler(workshop.NewJobs(store, events), jobReads),
        Booths:  handler.NewBoothHandler(workshop.NewAllocator(store, events), boothReads, jobReads),
        Mixes:   handler.NewMixHandler(workshop.NewLedger(store), jobReads),
        QC:      handler.NewQCHandler(workshop.NewQualityGate(store, events), jobReads),
        Catalog: handler.NewCatalogHandler(services),
    }

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.Logger())
    router.Register(e, h, cfg, rdb, db)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
