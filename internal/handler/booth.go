package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/repository"
    "github.com/iliyamo/workshop-job-service/internal/workshop"
)

// BoothHandler serves paint booth endpoints: the branch board,
// manager-side booth administration, telemetry ingestion and the
// assign/release pair backed by the allocator.
type BoothHandler struct {
    Allocator *workshop.Allocator
    Reads     *repository.BoothRepository
    JobReads  *repository.JobRepository
}

func NewBoothHandler(alloc *workshop.Allocator, reads *repository.BoothRepository, jobReads *repository.JobRepository) *BoothHandler {
    return &BoothHandler{Allocator: alloc, Reads: reads, JobReads: jobReads}
}

// ----- DTOs -----

type createBoothReq struct {
    Name             string `json:"name"`
    EstimatedMinutes uint32 `json:"estimated_minutes"`
}

type assignReq struct {
    JobID            uint64 `json:"job_id"`
    Stage            string `json:"stage"`
    EstimatedMinutes uint32 `json:"estimated_minutes"`
}

type telemetryReq struct {
    TemperatureC float64 `json:"temperature_c"`
}

type boothResp struct {
    ID               uint64            `json:"id"`
    BranchID         uint64            `json:"branch_id"`
    Name             string            `json:"name"`
    Status           model.BoothStatus `json:"status"`
    CurrentJobID     *uint64           `json:"current_job_id"`
    EstimatedMinutes uint32            `json:"estimated_minutes"`
    TemperatureC     *float64          `json:"temperature_c"`
}

func toBoothResp(b *model.Booth) boothResp {
    return boothResp{
        ID:               b.ID,
        BranchID:         b.BranchID,
        Name:             b.Name,
        Status:           b.Status,
        CurrentJobID:     b.CurrentJobID,
        EstimatedMinutes: b.EstimatedMinutes,
        TemperatureC:     b.TemperatureC,
    }
}

// List returns the caller's branch booth board. GET /v1/booths
func (h *BoothHandler) List(c echo.Context) error {
    branch, ok := currentBranch(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    booths, err := h.Reads.ListByBranch(c.Request().Context(), branch)
    if err != nil {
        return domainError(c, err)
    }
    out := make([]boothResp, 0, len(booths))
    for i := range booths {
        out = append(out, toBoothResp(&booths[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"booths": out})
}

// Get returns one booth. GET /v1/booths/:id
func (h *BoothHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    booth, err := h.Reads.GetByID(c.Request().Context(), id)
    if err != nil {
        return domainError(c, err)
    }
    branch, ok := currentBranch(c)
    if !ok || booth.BranchID != branch {
        return c.JSON(http.StatusNotFound, echo.Map{"error": workshop.ErrBoothNotFound.Error()})
    }
    return c.JSON(http.StatusOK, toBoothResp(booth))
}

// Create adds a booth to the caller's branch. Manager only.
// POST /v1/booths
func (h *BoothHandler) Create(c echo.Context) error {
    branch, ok := currentBranch(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createBoothReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }
    booth := &model.Booth{BranchID: branch, Name: req.Name, EstimatedMinutes: req.EstimatedMinutes}
    if err := h.Reads.Create(c.Request().Context(), booth); err != nil {
        return domainError(c, err)
    }
    return c.JSON(http.StatusCreated, toBoothResp(booth))
}

// Delete removes an idle booth. Manager only. DELETE /v1/booths/:id
func (h *BoothHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    booth, err := h.Reads.GetByID(c.Request().Context(), id)
    if err != nil {
        return domainError(c, err)
    }
    branch, ok := currentBranch(c)
    if !ok || booth.BranchID != branch {
        return c.JSON(http.StatusNotFound, echo.Map{"error": workshop.ErrBoothNotFound.Error()})
    }
    if err := h.Reads.Delete(c.Request().Context(), id); err != nil {
        return domainError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Assign claims the booth for a job at a paint stage.
// POST /v1/booths/:id/assign
func (h *BoothHandler) Assign(c echo.Context) error {
    boothID, err := pathID(c, "id")
    if err != nil {
        return err
    }
    var req assignReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.JobID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "job_id required"})
    }
    job, err := h.JobReads.GetByID(c.Request().Context(), req.JobID)
    if err != nil {
        return domainError(c, err)
    }
    if err := branchScoped(c, job); err != nil {
        return err
    }
    res, err := h.Allocator.Assign(c.Request().Context(), workshop.AssignRequest{
        JobID:            req.JobID,
        BoothID:          boothID,
        Stage:            model.PaintStage(strings.ToUpper(strings.TrimSpace(req.Stage))),
        EstimatedMinutes: req.EstimatedMinutes,
    })
    if err != nil {
        return domainError(c, err)
    }
    return c.JSON(http.StatusOK, res)
}

// Release frees the booth a job holds without a quality verdict, e.g.
// when work is paused. Idempotent. POST /v1/jobs/:id/release
func (h *BoothHandler) Release(c echo.Context) error {
    jobID, err := pathID(c, "id")
    if err != nil {
        return err
    }
    job, err := h.JobReads.GetByID(c.Request().Context(), jobID)
    if err != nil {
        return domainError(c, err)
    }
    if err := branchScoped(c, job); err != nil {
        return err
    }
    if err := h.Allocator.Release(c.Request().Context(), jobID); err != nil {
        return domainError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Telemetry records the booth's latest cabin temperature reading.
// PATCH /v1/booths/:id/telemetry
func (h *BoothHandler) Telemetry(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    var req telemetryReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.TemperatureC < -50 || req.TemperatureC > 200 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "temperature_c out of range"})
    }
    booth, err := h.Reads.GetByID(c.Request().Context(), id)
    if err != nil {
        return domainError(c, err)
    }
    if err := boothBranchGuard(c, booth); err != nil {
        return domainError(c, err)
    }
    if err := h.Reads.UpdateTelemetry(c.Request().Context(), id, req.TemperatureC); err != nil {
        return domainError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
