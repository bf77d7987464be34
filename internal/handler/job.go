package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/workshop-job-service/internal/lifecycle"
    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/repository"
    "github.com/iliyamo/workshop-job-service/internal/workshop"
)

// JobHandler serves the job card endpoints. Mutations go through the
// workshop services; listings read directly from the repository.
type JobHandler struct {
    Jobs  *workshop.Jobs
    Reads *repository.JobRepository
}

func NewJobHandler(jobs *workshop.Jobs, reads *repository.JobRepository) *JobHandler {
    return &JobHandler{Jobs: jobs, Reads: reads}
}

// ----- DTOs -----

type lineItemReq struct {
    ServiceID     uint64 `json:"service_id"`
    UnitPriceFils int64  `json:"unit_price_fils"`
    Qty           int64  `json:"qty"`
    DiscountFils  int64  `json:"discount_fils"`
}

type createJobReq struct {
    LineItems []lineItemReq `json:"line_items"`
}

type replaceItemsReq struct {
    LineItems []lineItemReq `json:"line_items"`
}

type transitionReq struct {
    Target  string `json:"target_status"`
    Version uint64 `json:"expected_version"`
}

type lineItemResp struct {
    ServiceID     uint64 `json:"service_id"`
    UnitPriceFils int64  `json:"unit_price_fils"`
    Qty           int64  `json:"qty"`
    DiscountFils  int64  `json:"discount_fils"`
    Position      int    `json:"position"`
}

type jobResp struct {
    ID             uint64           `json:"id"`
    BranchID       uint64           `json:"branch_id"`
    Status         model.JobStatus  `json:"status"`
    PaintStage     model.PaintStage `json:"paint_stage"`
    LineItems      []lineItemResp   `json:"line_items"`
    SubtotalFils   int64            `json:"subtotal_fils"`
    VATFils        int64            `json:"vat_fils"`
    NetFils        int64            `json:"net_fils"`
    CurrentBoothID *uint64          `json:"current_booth_id"`
    RedoUsed       bool             `json:"redo_used"`
    Version        uint64           `json:"version"`
}

func toLineItems(in []lineItemReq) []model.LineItem {
    items := make([]model.LineItem, 0, len(in))
    for _, li := range in {
        items = append(items, model.LineItem{
            ServiceID:     li.ServiceID,
            UnitPriceFils: li.UnitPriceFils,
            Qty:           li.Qty,
            DiscountFils:  li.DiscountFils,
        })
    }
    return items
}

func toJobResp(job *model.JobCard) jobResp {
    items := make([]lineItemResp, 0, len(job.LineItems))
    for _, li := range job.LineItems {
        items = append(items, lineItemResp{
            ServiceID:     li.ServiceID,
            UnitPriceFils: li.UnitPriceFils,
            Qty:           li.Qty,
            DiscountFils:  li.DiscountFils,
            Position:      li.Position,
        })
    }
    return jobResp{
        ID:             job.ID,
        BranchID:       job.BranchID,
        Status:         job.Status,
        PaintStage:     job.PaintStage,
        LineItems:      items,
        SubtotalFils:   job.SubtotalFils,
        VATFils:        job.VATFils,
        NetFils:        job.NetFils,
        CurrentBoothID: job.CurrentBoothID,
        RedoUsed:       job.RedoUsed,
        Version:        job.Version,
    }
}

// branchScoped blocks access to a job card from another branch. The
// card still exists, but cross-branch staff should not learn about it,
// so the error is 404 rather than 403. Callers return the error as-is
// and Echo's error handler renders it.
func branchScoped(c echo.Context, job *model.JobCard) error {
    branch, ok := currentBranch(c)
    if !ok {
        return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
    }
    if job.BranchID != branch {
        return echo.NewHTTPError(http.StatusNotFound, workshop.ErrJobNotFound.Error())
    }
    return nil
}

// Create opens a job card in the caller's branch. POST /v1/jobs
func (h *JobHandler) Create(c echo.Context) error {
    branch, ok := currentBranch(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createJobReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    job, totals, err := h.Jobs.Create(c.Request().Context(), branch, toLineItems(req.LineItems))
    if err != nil {
        return domainError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "job":           toJobResp(job),
        "clamped_lines": totals.ClampedLines,
    })
}

// Get returns one job card. GET /v1/jobs/:id
func (h *JobHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    job, err := h.Reads.GetByID(c.Request().Context(), id)
    if err != nil {
        return domainError(c, err)
    }
    if err := branchScoped(c, job); err != nil {
        return err
    }
    return c.JSON(http.StatusOK, toJobResp(job))
}

// List returns the caller's branch job cards, optionally filtered by
// ?status=. GET /v1/jobs
func (h *JobHandler) List(c echo.Context) error {
    branch, ok := currentBranch(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
    if status != "" && !lifecycle.ValidStatus(model.JobStatus(status)) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
    }
    jobs, err := h.Reads.ListByBranch(c.Request().Context(), branch, status)
    if err != nil {
        return domainError(c, err)
    }
    out := make([]jobResp, 0, len(jobs))
    for i := range jobs {
        out = append(out, toJobResp(&jobs[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"jobs": out})
}

// ReplaceLineItems swaps the card's line items and returns the
// recomputed totals. PATCH /v1/jobs/:id/line-items
func (h *JobHandler) ReplaceLineItems(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    var req replaceItemsReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    current, err := h.Reads.GetByID(c.Request().Context(), id)
    if err != nil {
        return domainError(c, err)
    }
    if err := branchScoped(c, current); err != nil {
        return err
    }
    job, totals, err := h.Jobs.ReplaceLineItems(c.Request().Context(), id, toLineItems(req.LineItems))
    if err != nil {
        return domainError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "job":           toJobResp(job),
        "clamped_lines": totals.ClampedLines,
    })
}

// Transition advances the card's status with optimistic concurrency.
// POST /v1/jobs/:id/transition
func (h *JobHandler) Transition(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    var req transitionReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    target := model.JobStatus(strings.ToUpper(strings.TrimSpace(req.Target)))
    if !lifecycle.ValidStatus(target) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown target status"})
    }
    current, err := h.Reads.GetByID(c.Request().Context(), id)
    if err != nil {
        return domainError(c, err)
    }
    if err := branchScoped(c, current); err != nil {
        return err
    }
    job, err := h.Jobs.Transition(c.Request().Context(), id, target, req.Version)
    if err != nil {
        return domainError(c, err)
    }
    return c.JSON(http.StatusOK, toJobResp(job))
}

// Redo consumes the card's one-shot paint stage regression.
// POST /v1/jobs/:id/redo
func (h *JobHandler) Redo(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    current, err := h.Reads.GetByID(c.Request().Context(), id)
    if err != nil {
        return domainError(c, err)
    }
    if err := branchScoped(c, current); err != nil {
        return err
    }
    job, err := h.Jobs.Redo(c.Request().Context(), id)
    if err != nil {
        return domainError(c, err)
    }
    return c.JSON(http.StatusOK, toJobResp(job))
}
