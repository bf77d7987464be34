package workshop

import (
    "context"
    "log"

    "github.com/iliyamo/workshop-job-service/internal/lifecycle"
    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/pricing"
)

// Jobs implements job card operations: creation, line-item replacement
// with pricing recomputation, optimistic-version transitions and the
// one-shot redo regression.
type Jobs struct {
    store  Store
    events Publisher
}

// NewJobs constructs the job card service.  A nil events publisher is
// replaced with NopPublisher.
func NewJobs(store Store, events Publisher) *Jobs {
    if events == nil {
        events = NopPublisher{}
    }
    return &Jobs{store: store, events: events}
}

// Create opens a new job card in RECEIVED with paint stage NONE.
// Line items are optional at creation; totals are computed through the
// pricing engine either way so the stored amounts are never stale, and
// the totals are returned so callers can surface clamped lines.
func (s *Jobs) Create(ctx context.Context, branchID uint64, items []model.LineItem) (*model.JobCard, pricing.Totals, error) {
    if branchID == 0 {
        return nil, pricing.Totals{}, &ValidationError{Field: "branch_id", Reason: "required"}
    }
    normalizePositions(items)
    totals, err := pricing.ComputeTotals(items)
    if err != nil {
        return nil, pricing.Totals{}, err
    }
    job := &model.JobCard{
        BranchID:     branchID,
        Status:       model.StatusReceived,
        PaintStage:   model.StageNone,
        LineItems:    items,
        SubtotalFils: totals.SubtotalFils,
        VATFils:      totals.VATFils,
        NetFils:      totals.NetFils,
    }
    err = s.store.Atomically(ctx, func(tx Tx) error {
        return tx.CreateJob(ctx, job)
    })
    if err != nil {
        return nil, pricing.Totals{}, err
    }
    return job, totals, nil
}

// Get loads a job card by id.
func (s *Jobs) Get(ctx context.Context, id uint64) (*model.JobCard, error) {
    var job *model.JobCard
    err := s.store.Atomically(ctx, func(tx Tx) error {
        var err error
        job, err = tx.Job(ctx, id)
        return err
    })
    if err != nil {
        return nil, err
    }
    return job, nil
}

// ReplaceLineItems swaps the job's line items and recomputes totals in
// the same atomic unit.  Allowed while the card is RECEIVED or
// IN_PROGRESS; from READY onward the card is commercially frozen and
// the call fails with an invalid-transition error.
func (s *Jobs) ReplaceLineItems(ctx context.Context, jobID uint64, items []model.LineItem) (*model.JobCard, pricing.Totals, error) {
    normalizePositions(items)
    totals, err := pricing.ComputeTotals(items)
    if err != nil {
        return nil, pricing.Totals{}, err
    }
    var job *model.JobCard
    err = s.store.Atomically(ctx, func(tx Tx) error {
        var err error
        job, err = tx.Job(ctx, jobID)
        if err != nil {
            return err
        }
        if job.Status != model.StatusReceived && job.Status != model.StatusInProgress {
            return &lifecycle.InvalidTransitionError{
                From: job.Status, Target: job.Status,
                Reason: "line items are frozen once the job is ready for invoicing",
            }
        }
        job.LineItems = items
        job.SubtotalFils = totals.SubtotalFils
        job.VATFils = totals.VATFils
        job.NetFils = totals.NetFils
        return tx.SaveJob(ctx, job)
    })
    if err != nil {
        return nil, pricing.Totals{}, err
    }
    return job, totals, nil
}

// Transition advances the job's status.  The caller supplies the
// version it read; if another writer advanced the job first the call
// fails with lifecycle.ErrStaleVersion instead of overwriting.  A job
// still holding a booth cannot move to READY through this path – the
// quality gate owns that compound release.
func (s *Jobs) Transition(ctx context.Context, jobID uint64, target model.JobStatus, expectedVersion uint64) (*model.JobCard, error) {
    var (
        job       *model.JobCard
        statusWas model.JobStatus
    )
    err := s.store.Atomically(ctx, func(tx Tx) error {
        var err error
        job, err = tx.Job(ctx, jobID)
        if err != nil {
            return err
        }
        if job.Version != expectedVersion {
            return lifecycle.ErrStaleVersion
        }
        if target == model.StatusReady && job.CurrentBoothID != nil {
            return &lifecycle.InvalidTransitionError{
                From: job.Status, Target: target,
                Reason: "job still holds a booth; release through the quality gate",
            }
        }
        statusWas = job.Status
        if err := lifecycle.Transition(job, target); err != nil {
            return err
        }
        return tx.SaveJob(ctx, job)
    })
    if err != nil {
        return nil, err
    }
    if err := s.events.PublishJobStatusChanged(ctx, statusEvent(job, statusWas)); err != nil {
        log.Printf("jobs: publish status event for job %d failed: %v", job.ID, err)
    }
    return job, nil
}

// Redo consumes the job's single controlled paint-stage regression.
func (s *Jobs) Redo(ctx context.Context, jobID uint64) (*model.JobCard, error) {
    var job *model.JobCard
    err := s.store.Atomically(ctx, func(tx Tx) error {
        var err error
        job, err = tx.Job(ctx, jobID)
        if err != nil {
            return err
        }
        if err := lifecycle.Redo(job); err != nil {
            return err
        }
        return tx.SaveJob(ctx, job)
    })
    if err != nil {
        return nil, err
    }
    return job, nil
}

// normalizePositions renumbers line items in caller order so the
// stored ordering is always dense and zero-based.
func normalizePositions(items []model.LineItem) {
    for i := range items {
        items[i].Position = i
    }
}
