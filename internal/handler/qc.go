package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/workshop-job-service/internal/repository"
    "github.com/iliyamo/workshop-job-service/internal/workshop"
)

// QCHandler serves the quality gate: a checklist verdict that, when
// every item passes, atomically frees the booth and moves the job
// toward invoicing.
type QCHandler struct {
    Gate     *workshop.QualityGate
    JobReads *repository.JobRepository
}

func NewQCHandler(gate *workshop.QualityGate, jobReads *repository.JobRepository) *QCHandler {
    return &QCHandler{Gate: gate, JobReads: jobReads}
}

type qcItemReq struct {
    Name   string `json:"name"`
    Passed bool   `json:"passed"`
}

type qcReq struct {
    Checklist   []qcItemReq `json:"checks"`
    FurtherWork bool        `json:"further_work"`
}

// Evaluate runs the checklist and on full pass performs the compound
// release. POST /v1/jobs/:id/qc
func (h *QCHandler) Evaluate(c echo.Context) error {
    jobID, err := pathID(c, "id")
    if err != nil {
        return err
    }
    var req qcReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    checks := make([]workshop.CheckResult, 0, len(req.Checklist))
    for _, item := range req.Checklist {
        name := strings.TrimSpace(item.Name)
        if name == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "checklist item name required"})
        }
        checks = append(checks, workshop.CheckResult{Name: name, Passed: item.Passed})
    }
    job, err := h.JobReads.GetByID(c.Request().Context(), jobID)
    if err != nil {
        return domainError(c, err)
    }
    if err := branchScoped(c, job); err != nil {
        return err
    }
    res, err := h.Gate.EvaluateAndRelease(c.Request().Context(), jobID, checks, req.FurtherWork)
    if err != nil {
        return domainError(c, err)
    }
    return c.JSON(http.StatusOK, res)
}
