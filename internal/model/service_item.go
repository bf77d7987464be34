package model

import "time"

// ServiceItem is one entry of the service/price master data.  It is
// read-only reference data consumed when advisors build line items;
// this service never mutates it outside the manager CRUD endpoints.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – service name shown to advisors.
//  PriceFils – list price in fils.
//  Category  – coarse grouping (e.g. "PAINT", "MECHANICAL").
//  CreatedAt – creation timestamp.
type ServiceItem struct {
    ID        uint64    `json:"id"`         // services.id
    Name      string    `json:"name"`       // services.name
    PriceFils int64     `json:"price_fils"` // services.price_fils
    Category  string    `json:"category"`   // services.category
    CreatedAt time.Time `json:"created_at"` // services.created_at
}
