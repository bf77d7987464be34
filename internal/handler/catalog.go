package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/repository"
)

// CatalogHandler serves the priced service catalog advisors build line
// items from. Listing is cached; only managers may add entries.
type CatalogHandler struct {
    Services *repository.ServiceRepository
}

func NewCatalogHandler(services *repository.ServiceRepository) *CatalogHandler {
    return &CatalogHandler{Services: services}
}

type createServiceReq struct {
    Name      string `json:"name"`
    PriceFils int64  `json:"price_fils"`
    Category  string `json:"category"`
}

type serviceResp struct {
    ID        uint64 `json:"id"`
    Name      string `json:"name"`
    PriceFils int64  `json:"price_fils"`
    Category  string `json:"category"`
}

// List returns the whole catalog. GET /v1/services
func (h *CatalogHandler) List(c echo.Context) error {
    items, err := h.Services.List(c.Request().Context())
    if err != nil {
        return domainError(c, err)
    }
    out := make([]serviceResp, 0, len(items))
    for _, it := range items {
        out = append(out, serviceResp{ID: it.ID, Name: it.Name, PriceFils: it.PriceFils, Category: it.Category})
    }
    return c.JSON(http.StatusOK, echo.Map{"services": out})
}

// Get returns one catalog entry. GET /v1/services/:id
func (h *CatalogHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    it, err := h.Services.GetByID(c.Request().Context(), id)
    if err != nil {
        return domainError(c, err)
    }
    return c.JSON(http.StatusOK, serviceResp{ID: it.ID, Name: it.Name, PriceFils: it.PriceFils, Category: it.Category})
}

// Create adds a catalog entry. Manager only. POST /v1/services
func (h *CatalogHandler) Create(c echo.Context) error {
    var req createServiceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }
    if req.PriceFils < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_fils must not be negative"})
    }
    item := &model.ServiceItem{Name: req.Name, PriceFils: req.PriceFils, Category: strings.TrimSpace(req.Category)}
    if err := h.Services.Create(c.Request().Context(), item); err != nil {
        return domainError(c, err)
    }
    return c.JSON(http.StatusCreated, serviceResp{ID: item.ID, Name: item.Name, PriceFils: item.PriceFils, Category: item.Category})
}
