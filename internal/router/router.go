// Package router wires the HTTP surface of the workshop job service.
// Routes are grouped by concern: open auth endpoints, the shared
// protected group, and manager-only administration. Role enforcement
// follows the shop-floor split: advisors own job cards and line items,
// technicians own booths, mixes and the quality gate, managers own
// booth administration and the service catalog.
package router

import (
    "database/sql"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/workshop-job-service/internal/config"
    "github.com/iliyamo/workshop-job-service/internal/handler"
    "github.com/iliyamo/workshop-job-service/internal/middleware"
    "github.com/iliyamo/workshop-job-service/internal/model"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
    Auth    *handler.AuthHandler
    Jobs    *handler.JobHandler
    Booths  *handler.BoothHandler
    Mixes   *handler.MixHandler
    QC      *handler.QCHandler
    Catalog *handler.CatalogHandler
}

// Register mounts all routes on the Echo instance. The Redis client
// may be nil, which disables caching and rate limiting gracefully.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client, db *sql.DB) {
    e.GET("/healthz", handler.Health(db))

    // Open auth endpoints.
    auth := e.Group("/v1/auth")
    auth.POST("/register", h.Auth.Register)
    auth.POST("/login", h.Auth.Login)
    auth.POST("/refresh", h.Auth.Refresh)
    auth.POST("/refresh-access", h.Auth.RefreshAccess)
    auth.POST("/logout", h.Auth.Logout)

    rate := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    // Everything under /v1 requires a valid access token.
    v1 := e.Group("/v1")
    v1.Use(middleware.JWTAuth(cfg.JWTSecret))
    v1.Use(middleware.RequireRole(model.RoleAdvisor, model.RoleTechnician, model.RoleManager))
    v1.Use(rate)

    v1.GET("/me", h.Auth.Me)

    // Job cards: advisors open and price them, any role reads them.
    v1.GET("/jobs", h.Jobs.List)
    v1.GET("/jobs/:id", h.Jobs.Get)
    v1.POST("/jobs", h.Jobs.Create, middleware.RequireRole(model.RoleAdvisor, model.RoleManager))
    v1.PATCH("/jobs/:id/line-items", h.Jobs.ReplaceLineItems, middleware.RequireRole(model.RoleAdvisor, model.RoleManager))
    v1.POST("/jobs/:id/transition", h.Jobs.Transition)
    v1.POST("/jobs/:id/redo", h.Jobs.Redo, middleware.RequireRole(model.RoleTechnician, model.RoleManager))

    // Booth board and allocation: technicians work booths.
    v1.GET("/booths", h.Booths.List, cache)
    v1.GET("/booths/:id", h.Booths.Get)
    v1.POST("/booths/:id/assign", h.Booths.Assign, middleware.RequireRole(model.RoleTechnician, model.RoleManager))
    v1.POST("/jobs/:id/release", h.Booths.Release, middleware.RequireRole(model.RoleTechnician, model.RoleManager))
    v1.PATCH("/booths/:id/telemetry", h.Booths.Telemetry, middleware.RequireRole(model.RoleTechnician, model.RoleManager))

    // Paint mix ledger and quality gate.
    v1.GET("/jobs/:id/mixes", h.Mixes.List)
    v1.POST("/jobs/:id/mixes", h.Mixes.Record, middleware.RequireRole(model.RoleTechnician, model.RoleManager))
    v1.POST("/jobs/:id/qc", h.QC.Evaluate, middleware.RequireRole(model.RoleTechnician, model.RoleManager))

    // Service catalog: cached reads, manager-only writes.
    v1.GET("/services", h.Catalog.List, cache)
    v1.GET("/services/:id", h.Catalog.Get)
    v1.POST("/services", h.Catalog.Create, middleware.RequireRole(model.RoleManager))

    // Booth administration is manager-only.
    v1.POST("/booths", h.Booths.Create, middleware.RequireRole(model.RoleManager))
    v1.DELETE("/booths/:id", h.Booths.Delete, middleware.RequireRole(model.RoleManager))
}
