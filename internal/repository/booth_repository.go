package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/workshop"
)

// BoothRepository serves paint booth reads and the manager-side
// maintenance operations that do not contend with allocation:
// creation, listing and telemetry updates. Assignment and release go
// through the allocator so they stay transactional with the job card.
type BoothRepository struct {
    db *sql.DB
}

// NewBoothRepository returns a BoothRepository bound to the database.
func NewBoothRepository(db *sql.DB) *BoothRepository { return &BoothRepository{db: db} }

// GetByID loads one booth without locking.
func (r *BoothRepository) GetByID(ctx context.Context, id uint64) (*model.Booth, error) {
    const q = `SELECT id, branch_id, name, status, current_job_id, estimated_minutes,
                      temperature_c, created_at, updated_at
               FROM booths WHERE id = ?`
    return scanBooth(r.db.QueryRowContext(ctx, q, id))
}

// ListByBranch returns the branch's booths ordered by name so the
// board renders stably.
func (r *BoothRepository) ListByBranch(ctx context.Context, branchID uint64) ([]model.Booth, error) {
    const q = `SELECT id, branch_id, name, status, current_job_id, estimated_minutes,
                      temperature_c, created_at, updated_at
               FROM booths WHERE branch_id = ? ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q, branchID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    booths := []model.Booth{}
    for rows.Next() {
        b, err := scanBooth(rows)
        if err != nil {
            return nil, err
        }
        booths = append(booths, *b)
    }
    return booths, rows.Err()
}

// Create inserts a new booth in READY state. Booth names are unique
// per branch; a duplicate surfaces as ErrConflict.
func (r *BoothRepository) Create(ctx context.Context, booth *model.Booth) error {
    var exists int
    err := r.db.QueryRowContext(ctx,
        `SELECT 1 FROM booths WHERE branch_id = ? AND name = ?`,
        booth.BranchID, booth.Name).Scan(&exists)
    if err == nil {
        return ErrConflict
    }
    if err != sql.ErrNoRows {
        return err
    }
    const q = `INSERT INTO booths (branch_id, name, status, estimated_minutes) VALUES (?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, booth.BranchID, booth.Name, model.BoothReady, booth.EstimatedMinutes)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    booth.ID = uint64(id)
    booth.Status = model.BoothReady
    const sel = `SELECT created_at, updated_at FROM booths WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, booth.ID).Scan(&booth.CreatedAt, &booth.UpdatedAt)
}

// UpdateTelemetry records the latest cabin temperature reading. Only
// the newest value is kept; history is out of scope for this service.
func (r *BoothRepository) UpdateTelemetry(ctx context.Context, id uint64, temperatureC float64) error {
    const q = `UPDATE booths SET temperature_c = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, temperatureC, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // RowsAffected can be zero for an identical reading, so check
        // existence before reporting not found.
        var exists int
        if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM booths WHERE id = ?`, id).Scan(&exists); err != nil {
            if err == sql.ErrNoRows {
                return workshop.ErrBoothNotFound
            }
            return err
        }
    }
    return nil
}

// Delete removes a booth that is not holding a job. Occupied booths
// surface ErrConflict so the caller can release the job first.
func (r *BoothRepository) Delete(ctx context.Context, id uint64) error {
    booth, err := r.GetByID(ctx, id)
    if err != nil {
        return err
    }
    if booth.CurrentJobID != nil {
        return ErrConflict
    }
    _, err = r.db.ExecContext(ctx, `DELETE FROM booths WHERE id = ?`, id)
    return err
}
