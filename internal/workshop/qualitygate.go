package workshop

import (
    "context"
    "log"
    "time"

    "github.com/iliyamo/workshop-job-service/internal/lifecycle"
    "github.com/iliyamo/workshop-job-service/internal/model"
)

// QualityGate evaluates the release checklist and, on an all-pass
// result, returns the booth to the pool and completes the paint stage
// as one atomic unit.  A rejection reports the failed items and
// mutates nothing.
type QualityGate struct {
    store  Store
    events Publisher
}

// NewQualityGate constructs a QualityGate.  A nil events publisher is
// replaced with NopPublisher.
func NewQualityGate(store Store, events Publisher) *QualityGate {
    if events == nil {
        events = NopPublisher{}
    }
    return &QualityGate{store: store, events: events}
}

// CheckResult is one named boolean item of the QC checklist.  The
// checklist is a parameter of the release call; it is never persisted.
type CheckResult struct {
    Name   string `json:"name"`
    Passed bool   `json:"passed"`
}

// ReleaseResult describes a committed quality-gate release.
type ReleaseResult struct {
    JobID      uint64           `json:"job_id"`
    BoothID    uint64           `json:"booth_id"`
    Status     model.JobStatus  `json:"status"`
    PaintStage model.PaintStage `json:"paint_stage"`
    JobVersion uint64           `json:"job_version"`
    ReleasedAt time.Time        `json:"released_at"`
}

// EvaluateAndRelease runs the checklist against the job's active
// allocation.  Any failed item returns *ChecklistRejectedError with
// the failed names and leaves booth and job untouched.  When every
// item passes, the booth is freed, paint_stage becomes COMPLETED and,
// unless furtherWork is set (more service stages remain), the job
// transitions IN_PROGRESS -> READY – all inside one transaction, so a
// crash can never leave the booth freed while the job still points at
// it, or vice versa.
func (g *QualityGate) EvaluateAndRelease(ctx context.Context, jobID uint64, checks []CheckResult, furtherWork bool) (ReleaseResult, error) {
    if len(checks) == 0 {
        return ReleaseResult{}, &ValidationError{Field: "checks", Reason: "checklist must not be empty"}
    }
    var failed []string
    for _, chk := range checks {
        if !chk.Passed {
            failed = append(failed, chk.Name)
        }
    }
    if len(failed) > 0 {
        return ReleaseResult{}, &ChecklistRejectedError{Failed: failed}
    }

    var (
        res       ReleaseResult
        statusWas model.JobStatus
        changed   bool
        eventJob  *model.JobCard
    )
    err := g.store.Atomically(ctx, func(tx Tx) error {
        job, err := tx.Job(ctx, jobID)
        if err != nil {
            return err
        }
        if job.CurrentBoothID == nil {
            return ErrNoActiveAllocation
        }
        booth, err := tx.Booth(ctx, *job.CurrentBoothID)
        if err != nil {
            return err
        }
        boothID := booth.ID

        freeBooth(booth)
        job.CurrentBoothID = nil
        job.PaintStage = model.StageCompleted
        statusWas = job.Status
        if !furtherWork {
            if err := lifecycle.Transition(job, model.StatusReady); err != nil {
                return err
            }
        }

        if err := tx.SaveBooth(ctx, booth); err != nil {
            return err
        }
        if err := tx.SaveJob(ctx, job); err != nil {
            return err
        }
        changed = job.Status != statusWas
        eventJob = job
        res = ReleaseResult{
            JobID:      job.ID,
            BoothID:    boothID,
            Status:     job.Status,
            PaintStage: job.PaintStage,
            JobVersion: job.Version,
            ReleasedAt: time.Now().UTC(),
        }
        return nil
    })
    if err != nil {
        return ReleaseResult{}, err
    }
    if changed {
        if err := g.events.PublishJobStatusChanged(ctx, statusEvent(eventJob, statusWas)); err != nil {
            log.Printf("qualitygate: publish status event for job %d failed: %v", eventJob.ID, err)
        }
    }
    return res, nil
}
