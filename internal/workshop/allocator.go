package workshop

import (
    "context"
    "log"
    "time"

    "github.com/iliyamo/workshop-job-service/internal/lifecycle"
    "github.com/iliyamo/workshop-job-service/internal/model"
)

// Allocator performs atomic booth assignment and release.  It is the
// only writer of the Booth/JobCard cross-reference: both halves of the
// pair change inside one Store transaction, so no observer ever sees a
// booth claimed by a job that does not point back at it.
type Allocator struct {
    store  Store
    events Publisher
}

// NewAllocator constructs an Allocator.  A nil events publisher is
// replaced with NopPublisher.
func NewAllocator(store Store, events Publisher) *Allocator {
    if events == nil {
        events = NopPublisher{}
    }
    return &Allocator{store: store, events: events}
}

// AssignRequest names the booth claim a caller attempts.
type AssignRequest struct {
    JobID            uint64
    BoothID          uint64
    Stage            model.PaintStage
    EstimatedMinutes uint32
}

// AllocationResult describes a committed assignment.
type AllocationResult struct {
    JobID            uint64           `json:"job_id"`
    BoothID          uint64           `json:"booth_id"`
    Stage            model.PaintStage `json:"stage"`
    EstimatedMinutes uint32           `json:"estimated_minutes"`
    JobStatus        model.JobStatus  `json:"job_status"`
    JobVersion       uint64           `json:"job_version"`
    AssignedAt       time.Time        `json:"assigned_at"`
}

// Assign claims the booth for the job at the given paint stage as one
// atomic unit: booth becomes ACTIVE pointing at the job, the job
// records the booth and stage, and a RECEIVED job advances to
// IN_PROGRESS.  The claim is a check-and-set: a booth that is not
// READY at the instant of the attempt yields ErrBoothUnavailable and
// the caller must retry or pick another booth – there is no waiting.
func (a *Allocator) Assign(ctx context.Context, req AssignRequest) (AllocationResult, error) {
    if !lifecycle.AssignableStage(req.Stage) {
        return AllocationResult{}, &ValidationError{Field: "stage", Reason: "not an assignable paint stage"}
    }
    var (
        res       AllocationResult
        statusWas model.JobStatus
        changed   bool
        eventJob  *model.JobCard
    )
    err := a.store.Atomically(ctx, func(tx Tx) error {
        job, err := tx.Job(ctx, req.JobID)
        if err != nil {
            return err
        }
        if job.CurrentBoothID != nil {
            return ErrJobAlreadyAllocated
        }
        if job.Status != model.StatusReceived && job.Status != model.StatusInProgress {
            return &lifecycle.InvalidTransitionError{
                From: job.Status, Target: model.StatusInProgress,
                Reason: "job is past active work",
            }
        }
        booth, err := tx.Booth(ctx, req.BoothID)
        if err != nil {
            return err
        }
        if booth.BranchID != job.BranchID {
            return &ValidationError{Field: "booth_id", Reason: "booth belongs to another branch"}
        }
        if booth.Status != model.BoothReady || booth.CurrentJobID != nil {
            return ErrBoothUnavailable
        }

        booth.Status = model.BoothActive
        booth.CurrentJobID = &job.ID
        booth.EstimatedMinutes = req.EstimatedMinutes

        job.CurrentBoothID = &booth.ID
        job.PaintStage = req.Stage
        statusWas = job.Status
        if job.Status == model.StatusReceived {
            if err := lifecycle.Transition(job, model.StatusInProgress); err != nil {
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
        res = AllocationResult{
            JobID:            job.ID,
            BoothID:          booth.ID,
            Stage:            req.Stage,
            EstimatedMinutes: req.EstimatedMinutes,
            JobStatus:        job.Status,
            JobVersion:       job.Version,
            AssignedAt:       time.Now().UTC(),
        }
        return nil
    })
    if err != nil {
        return AllocationResult{}, err
    }
    if changed {
        a.publish(ctx, eventJob, statusWas)
    }
    return res, nil
}

// Release frees whatever booth the job holds.  It is idempotent: a
// job with no allocation is a successful no-op, which tolerates
// duplicate release requests from a flaky client.  A bare release
// (without going through the quality gate) abandons the active paint
// stage back to NONE so the job never sits unallocated in an active
// stage.
func (a *Allocator) Release(ctx context.Context, jobID uint64) error {
    return a.store.Atomically(ctx, func(tx Tx) error {
        job, err := tx.Job(ctx, jobID)
        if err != nil {
            return err
        }
        if job.CurrentBoothID == nil {
            return nil // already released
        }
        booth, err := tx.Booth(ctx, *job.CurrentBoothID)
        if err != nil {
            return err
        }
        freeBooth(booth)
        job.CurrentBoothID = nil
        if lifecycle.AssignableStage(job.PaintStage) {
            job.PaintStage = model.StageNone
        }
        if err := tx.SaveBooth(ctx, booth); err != nil {
            return err
        }
        return tx.SaveJob(ctx, job)
    })
}

// freeBooth resets a booth to the unclaimed state.
func freeBooth(b *model.Booth) {
    b.Status = model.BoothReady
    b.CurrentJobID = nil
    b.EstimatedMinutes = 0
}

func (a *Allocator) publish(ctx context.Context, job *model.JobCard, from model.JobStatus) {
    if err := a.events.PublishJobStatusChanged(ctx, statusEvent(job, from)); err != nil {
        log.Printf("allocator: publish status event for job %d failed: %v", job.ID, err)
    }
}
