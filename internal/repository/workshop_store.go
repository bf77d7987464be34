package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/workshop-job-service/internal/lifecycle"
    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/workshop"
)

// WorkshopStore is the production workshop.Store: every Atomically
// call maps onto one MySQL transaction.  Booth rows are read with
// SELECT ... FOR UPDATE so the check-and-set a caller performs between
// Booth() and SaveBooth() is atomic per booth row; job rows carry a
// version column and SaveJob refuses to overwrite a row whose version
// moved, surfacing lifecycle.ErrStaleVersion.  A failed callback rolls
// the whole transaction back, so compound operations (assign, QC
// release) can never leave booth and job card disagreeing.
type WorkshopStore struct {
    db *sql.DB
}

// NewWorkshopStore returns a WorkshopStore bound to the database.
func NewWorkshopStore(db *sql.DB) *WorkshopStore { return &WorkshopStore{db: db} }

// DB exposes the underlying handle for read-only repositories that
// share the connection pool.
func (s *WorkshopStore) DB() *sql.DB { return s.db }

// Atomically implements workshop.Store over one SQL transaction.
func (s *WorkshopStore) Atomically(ctx context.Context, fn func(tx workshop.Tx) error) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(&sqlTx{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// sqlTx adapts *sql.Tx to the workshop.Tx contract.
type sqlTx struct {
    tx *sql.Tx
}

const jobColumns = `id, branch_id, status, paint_stage, subtotal_fils, vat_fils, net_fils,
       current_booth_id, redo_used, version, created_at, updated_at`

func (t *sqlTx) Job(ctx context.Context, id uint64) (*model.JobCard, error) {
    // FOR UPDATE serializes writers touching the same job card.
    q := `SELECT ` + jobColumns + ` FROM job_cards WHERE id = ? FOR UPDATE`
    job, err := scanJob(t.tx.QueryRowContext(ctx, q, id))
    if err != nil {
        return nil, err
    }
    items, err := loadLineItems(ctx, t.tx, job.ID)
    if err != nil {
        return nil, err
    }
    job.LineItems = items
    return job, nil
}

func (t *sqlTx) Booth(ctx context.Context, id uint64) (*model.Booth, error) {
    // FOR UPDATE makes the caller's READY check-and-set atomic: a
    // concurrent assign on the same booth waits here and then observes
    // the first writer's committed status.
    const q = `SELECT id, branch_id, name, status, current_job_id, estimated_minutes,
                      temperature_c, created_at, updated_at
               FROM booths WHERE id = ? FOR UPDATE`
    return scanBooth(t.tx.QueryRowContext(ctx, q, id))
}

func (t *sqlTx) CreateJob(ctx context.Context, job *model.JobCard) error {
    const q = `INSERT INTO job_cards
               (branch_id, status, paint_stage, subtotal_fils, vat_fils, net_fils, redo_used, version)
               VALUES (?, ?, ?, ?, ?, ?, ?, 1)`
    res, err := t.tx.ExecContext(ctx, q,
        job.BranchID, job.Status, job.PaintStage,
        job.SubtotalFils, job.VATFils, job.NetFils, job.RedoUsed)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    job.ID = uint64(id)
    job.Version = 1
    if err := replaceLineItems(ctx, t.tx, job.ID, job.LineItems); err != nil {
        return err
    }
    // Query back DB-generated timestamps.
    const sel = `SELECT created_at, updated_at FROM job_cards WHERE id = ?`
    return t.tx.QueryRowContext(ctx, sel, job.ID).Scan(&job.CreatedAt, &job.UpdatedAt)
}

func (t *sqlTx) SaveJob(ctx context.Context, job *model.JobCard) error {
    const q = `UPDATE job_cards
               SET status = ?, paint_stage = ?, subtotal_fils = ?, vat_fils = ?, net_fils = ?,
                   current_booth_id = ?, redo_used = ?, version = version + 1, updated_at = UTC_TIMESTAMP()
               WHERE id = ? AND version = ?`
    var boothID interface{}
    if job.CurrentBoothID != nil {
        boothID = *job.CurrentBoothID
    }
    res, err := t.tx.ExecContext(ctx, q,
        job.Status, job.PaintStage, job.SubtotalFils, job.VATFils, job.NetFils,
        boothID, job.RedoUsed, job.ID, job.Version)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // Either the row vanished or another writer bumped the version.
        var exists int
        if err := t.tx.QueryRowContext(ctx, `SELECT 1 FROM job_cards WHERE id = ?`, job.ID).Scan(&exists); err != nil {
            if err == sql.ErrNoRows {
                return workshop.ErrJobNotFound
            }
            return err
        }
        return lifecycle.ErrStaleVersion
    }
    job.Version++
    if err := replaceLineItems(ctx, t.tx, job.ID, job.LineItems); err != nil {
        return err
    }
    const sel = `SELECT updated_at FROM job_cards WHERE id = ?`
    return t.tx.QueryRowContext(ctx, sel, job.ID).Scan(&job.UpdatedAt)
}

func (t *sqlTx) CreateBooth(ctx context.Context, booth *model.Booth) error {
    const q = `INSERT INTO booths (branch_id, name, status, estimated_minutes) VALUES (?, ?, ?, ?)`
    res, err := t.tx.ExecContext(ctx, q, booth.BranchID, booth.Name, booth.Status, booth.EstimatedMinutes)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    booth.ID = uint64(id)
    const sel = `SELECT created_at, updated_at FROM booths WHERE id = ?`
    return t.tx.QueryRowContext(ctx, sel, booth.ID).Scan(&booth.CreatedAt, &booth.UpdatedAt)
}

func (t *sqlTx) SaveBooth(ctx context.Context, booth *model.Booth) error {
    const q = `UPDATE booths
               SET status = ?, current_job_id = ?, estimated_minutes = ?, updated_at = UTC_TIMESTAMP()
               WHERE id = ?`
    var jobID interface{}
    if booth.CurrentJobID != nil {
        jobID = *booth.CurrentJobID
    }
    // Zero rows affected is fine: the row may already match.
    _, err := t.tx.ExecContext(ctx, q, booth.Status, jobID, booth.EstimatedMinutes, booth.ID)
    return err
}

func (t *sqlTx) AppendMix(ctx context.Context, mix *model.PaintMix) error {
    const q = `INSERT INTO paint_mixes (job_id, booth_id, paint_code, color_name, quantity_ml, mixed_by)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := t.tx.ExecContext(ctx, q,
        mix.JobID, mix.BoothID, mix.PaintCode, mix.ColorName, mix.QuantityML, mix.MixedBy)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    mix.ID = uint64(id)
    const sel = `SELECT created_at FROM paint_mixes WHERE id = ?`
    return t.tx.QueryRowContext(ctx, sel, mix.ID).Scan(&mix.CreatedAt)
}

func (t *sqlTx) MixesByJob(ctx context.Context, jobID uint64) ([]model.PaintMix, error) {
    return queryMixes(ctx, t.tx, jobID)
}

// row abstracts *sql.Row for the shared scan helpers.
type row interface {
    Scan(dest ...interface{}) error
}

// querier abstracts *sql.DB and *sql.Tx for shared read helpers.
type querier interface {
    QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
    ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func scanJob(r row) (*model.JobCard, error) {
    var (
        job     model.JobCard
        boothID sql.NullInt64
    )
    err := r.Scan(
        &job.ID, &job.BranchID, &job.Status, &job.PaintStage,
        &job.SubtotalFils, &job.VATFils, &job.NetFils,
        &boothID, &job.RedoUsed, &job.Version, &job.CreatedAt, &job.UpdatedAt,
    )
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, workshop.ErrJobNotFound
        }
        return nil, err
    }
    if boothID.Valid {
        id := uint64(boothID.Int64)
        job.CurrentBoothID = &id
    }
    return &job, nil
}

func scanBooth(r row) (*model.Booth, error) {
    var (
        booth model.Booth
        jobID sql.NullInt64
        temp  sql.NullFloat64
    )
    err := r.Scan(
        &booth.ID, &booth.BranchID, &booth.Name, &booth.Status,
        &jobID, &booth.EstimatedMinutes, &temp, &booth.CreatedAt, &booth.UpdatedAt,
    )
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, workshop.ErrBoothNotFound
        }
        return nil, err
    }
    if jobID.Valid {
        id := uint64(jobID.Int64)
        booth.CurrentJobID = &id
    }
    if temp.Valid {
        tc := temp.Float64
        booth.TemperatureC = &tc
    }
    return &booth, nil
}

func loadLineItems(ctx context.Context, q querier, jobID uint64) ([]model.LineItem, error) {
    const sel = `SELECT service_id, unit_price_fils, qty, discount_fils, position
                 FROM job_line_items WHERE job_id = ? ORDER BY position`
    rows, err := q.QueryContext(ctx, sel, jobID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var items []model.LineItem
    for rows.Next() {
        var it model.LineItem
        if err := rows.Scan(&it.ServiceID, &it.UnitPriceFils, &it.Qty, &it.DiscountFils, &it.Position); err != nil {
            return nil, err
        }
        items = append(items, it)
    }
    return items, rows.Err()
}

// replaceLineItems rewrites the job's line item rows in caller order.
func replaceLineItems(ctx context.Context, q querier, jobID uint64, items []model.LineItem) error {
    if _, err := q.ExecContext(ctx, `DELETE FROM job_line_items WHERE job_id = ?`, jobID); err != nil {
        return err
    }
    if len(items) == 0 {
        return nil
    }
    query := `INSERT INTO job_line_items (job_id, service_id, unit_price_fils, qty, discount_fils, position) VALUES `
    args := make([]interface{}, 0, len(items)*6)
    ph := make([]string, 0, len(items))
    for _, it := range items {
        ph = append(ph, "(?, ?, ?, ?, ?, ?)")
        args = append(args, jobID, it.ServiceID, it.UnitPriceFils, it.Qty, it.DiscountFils, it.Position)
    }
    _, err := q.ExecContext(ctx, query+strings.Join(ph, ","), args...)
    return err
}

func queryMixes(ctx context.Context, q querier, jobID uint64) ([]model.PaintMix, error) {
    const sel = `SELECT id, job_id, booth_id, paint_code, color_name, quantity_ml, mixed_by, created_at
                 FROM paint_mixes WHERE job_id = ? ORDER BY id`
    rows, err := q.QueryContext(ctx, sel, jobID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var mixes []model.PaintMix
    for rows.Next() {
        var m model.PaintMix
        if err := rows.Scan(&m.ID, &m.JobID, &m.BoothID, &m.PaintCode, &m.ColorName,
            &m.QuantityML, &m.MixedBy, &m.CreatedAt); err != nil {
            return nil, err
        }
        mixes = append(mixes, m)
    }
    return mixes, rows.Err()
}
