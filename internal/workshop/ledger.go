package workshop

import (
    "context"
    "strings"

    "github.com/iliyamo/workshop-job-service/internal/model"
)

// Ledger records paint consumption against active booth allocations.
// The ledger is append-only: a mis-mix is corrected by recording a new
// entry, never by editing the old one.
type Ledger struct {
    store Store
}

// NewLedger constructs a Ledger over the given store.
func NewLedger(store Store) *Ledger {
    return &Ledger{store: store}
}

// MixRequest describes one paint mix to record.
type MixRequest struct {
    JobID      uint64
    PaintCode  string
    ColorName  string
    QuantityML int64
    MixedBy    uint64
}

// RecordMix appends a mix record for the job.  The job must currently
// hold a booth (ErrNoActiveAllocation otherwise) so no consumable is
// ever orphaned; the record snapshots the booth id for audit after the
// release.  Mixes do not mutate job or booth state, so concurrent
// mixes for the same job all append – only the booth itself is the
// contended resource.
func (l *Ledger) RecordMix(ctx context.Context, req MixRequest) (*model.PaintMix, error) {
    if strings.TrimSpace(req.PaintCode) == "" {
        return nil, &ValidationError{Field: "paint_code", Reason: "required"}
    }
    if req.QuantityML <= 0 {
        return nil, &ValidationError{Field: "quantity_ml", Reason: "must be positive"}
    }
    if req.MixedBy == 0 {
        return nil, &ValidationError{Field: "mixed_by", Reason: "required"}
    }
    var mix *model.PaintMix
    err := l.store.Atomically(ctx, func(tx Tx) error {
        job, err := tx.Job(ctx, req.JobID)
        if err != nil {
            return err
        }
        if job.CurrentBoothID == nil {
            return ErrNoActiveAllocation
        }
        mix = &model.PaintMix{
            JobID:      job.ID,
            BoothID:    *job.CurrentBoothID,
            PaintCode:  strings.TrimSpace(req.PaintCode),
            ColorName:  strings.TrimSpace(req.ColorName),
            QuantityML: req.QuantityML,
            MixedBy:    req.MixedBy,
        }
        return tx.AppendMix(ctx, mix)
    })
    if err != nil {
        return nil, err
    }
    return mix, nil
}

// MixesForJob lists the job's mix records oldest-first.
func (l *Ledger) MixesForJob(ctx context.Context, jobID uint64) ([]model.PaintMix, error) {
    var out []model.PaintMix
    err := l.store.Atomically(ctx, func(tx Tx) error {
        if _, err := tx.Job(ctx, jobID); err != nil {
            return err
        }
        var err error
        out, err = tx.MixesByJob(ctx, jobID)
        return err
    })
    if err != nil {
        return nil, err
    }
    return out, nil
}
