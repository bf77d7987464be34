package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/workshop"
)

// JobRepository serves non-transactional job card reads: single-card
// lookups for GET endpoints and branch listings for the advisor
// dashboard. All mutations go through WorkshopStore instead.
type JobRepository struct {
    db *sql.DB
}

// NewJobRepository returns a JobRepository bound to the database.
func NewJobRepository(db *sql.DB) *JobRepository { return &JobRepository{db: db} }

// GetByID loads one job card with its line items, without locking.
func (r *JobRepository) GetByID(ctx context.Context, id uint64) (*model.JobCard, error) {
    q := `SELECT ` + jobColumns + ` FROM job_cards WHERE id = ?`
    job, err := scanJob(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        return nil, err
    }
    items, err := loadLineItems(ctx, r.db, job.ID)
    if err != nil {
        return nil, err
    }
    job.LineItems = items
    return job, nil
}

// ListByBranch returns the branch's job cards newest first, optionally
// filtered by status. Line items are not loaded for listings; the
// stored totals are enough for the overview.
func (r *JobRepository) ListByBranch(ctx context.Context, branchID uint64, status string) ([]model.JobCard, error) {
    q := `SELECT ` + jobColumns + ` FROM job_cards WHERE branch_id = ?`
    args := []interface{}{branchID}
    if status != "" {
        q += ` AND status = ?`
        args = append(args, status)
    }
    q += ` ORDER BY id DESC`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    jobs := []model.JobCard{}
    for rows.Next() {
        job, err := scanJob(rows)
        if err != nil {
            return nil, err
        }
        jobs = append(jobs, *job)
    }
    return jobs, rows.Err()
}

// MixesByJob lists the append-only paint mix ledger for one job,
// oldest first.
func (r *JobRepository) MixesByJob(ctx context.Context, jobID uint64) ([]model.PaintMix, error) {
    // Confirm the job exists so handlers can return 404 instead of an
    // empty ledger for unknown ids.
    var exists int
    if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM job_cards WHERE id = ?`, jobID).Scan(&exists); err != nil {
        if err == sql.ErrNoRows {
            return nil, workshop.ErrJobNotFound
        }
        return nil, err
    }
    return queryMixes(ctx, r.db, jobID)
}
