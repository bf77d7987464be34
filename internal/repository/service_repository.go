package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/workshop-job-service/internal/model"
)

// ServiceRepository serves the workshop's service catalog: the priced
// menu of labour and paint operations advisors pick line items from.
type ServiceRepository struct {
    db *sql.DB
}

// NewServiceRepository returns a ServiceRepository bound to the database.
func NewServiceRepository(db *sql.DB) *ServiceRepository { return &ServiceRepository{db: db} }

// List returns the full catalog ordered by category then name.
func (r *ServiceRepository) List(ctx context.Context) ([]model.ServiceItem, error) {
    const q = `SELECT id, name, price_fils, category, created_at
               FROM services ORDER BY category, name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    items := []model.ServiceItem{}
    for rows.Next() {
        var it model.ServiceItem
        if err := rows.Scan(&it.ID, &it.Name, &it.PriceFils, &it.Category, &it.CreatedAt); err != nil {
            return nil, err
        }
        items = append(items, it)
    }
    return items, rows.Err()
}

// GetByID loads one catalog entry.
func (r *ServiceRepository) GetByID(ctx context.Context, id uint64) (*model.ServiceItem, error) {
    const q = `SELECT id, name, price_fils, category, created_at FROM services WHERE id = ?`
    var it model.ServiceItem
    err := r.db.QueryRowContext(ctx, q, id).Scan(&it.ID, &it.Name, &it.PriceFils, &it.Category, &it.CreatedAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, ErrServiceNotFound
        }
        return nil, err
    }
    return &it, nil
}

// Create adds a catalog entry. Manager only; enforced at the router.
func (r *ServiceRepository) Create(ctx context.Context, item *model.ServiceItem) error {
    const q = `INSERT INTO services (name, price_fils, category) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, item.Name, item.PriceFils, item.Category)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    item.ID = uint64(id)
    const sel = `SELECT created_at FROM services WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, item.ID).Scan(&item.CreatedAt)
}
