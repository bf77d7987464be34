package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/repository"
    "github.com/iliyamo/workshop-job-service/internal/workshop"
)

// MixHandler serves the paint consumable ledger: technicians append
// mix records against their active booth allocation and anyone in the
// branch can read the job's ledger back.
type MixHandler struct {
    Ledger   *workshop.Ledger
    JobReads *repository.JobRepository
}

func NewMixHandler(ledger *workshop.Ledger, jobReads *repository.JobRepository) *MixHandler {
    return &MixHandler{Ledger: ledger, JobReads: jobReads}
}

type mixReq struct {
    PaintCode  string `json:"paint_code"`
    ColorName  string `json:"color_name"`
    QuantityML int64  `json:"quantity_ml"`
}

type mixResp struct {
    ID         uint64 `json:"id"`
    JobID      uint64 `json:"job_id"`
    BoothID    uint64 `json:"booth_id"`
    PaintCode  string `json:"paint_code"`
    ColorName  string `json:"color_name"`
    QuantityML int64  `json:"quantity_ml"`
    MixedBy    uint64 `json:"mixed_by"`
}

func toMixResp(m *model.PaintMix) mixResp {
    return mixResp{
        ID:         m.ID,
        JobID:      m.JobID,
        BoothID:    m.BoothID,
        PaintCode:  m.PaintCode,
        ColorName:  m.ColorName,
        QuantityML: m.QuantityML,
        MixedBy:    m.MixedBy,
    }
}

// Record appends a paint mix for the job's active allocation.
// POST /v1/jobs/:id/mixes
func (h *MixHandler) Record(c echo.Context) error {
    jobID, err := pathID(c, "id")
    if err != nil {
        return err
    }
    userID, ok := claimUint(c, "user_id")
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req mixReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    job, err := h.JobReads.GetByID(c.Request().Context(), jobID)
    if err != nil {
        return domainError(c, err)
    }
    if err := branchScoped(c, job); err != nil {
        return err
    }
    mix, err := h.Ledger.RecordMix(c.Request().Context(), workshop.MixRequest{
        JobID:      jobID,
        PaintCode:  req.PaintCode,
        ColorName:  req.ColorName,
        QuantityML: req.QuantityML,
        MixedBy:    userID,
    })
    if err != nil {
        return domainError(c, err)
    }
    return c.JSON(http.StatusCreated, toMixResp(mix))
}

// List returns the job's mix ledger oldest first. GET /v1/jobs/:id/mixes
func (h *MixHandler) List(c echo.Context) error {
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
    mixes, err := h.JobReads.MixesByJob(c.Request().Context(), jobID)
    if err != nil {
        return domainError(c, err)
    }
    out := make([]mixResp, 0, len(mixes))
    for i := range mixes {
        out = append(out, toMixResp(&mixes[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"mixes": out})
}
