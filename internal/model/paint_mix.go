package model

import "time"

// PaintMix records one consumption of mixed paint for a job.  Records
// are append-only: a mis-mix is corrected by adding a new record, never
// by editing or deleting an old one.  BoothID snapshots the booth the
// job occupied at mix time so the audit trail survives the release.
//
// Fields:
//  ID         – primary key identifier (auto-increment).
//  JobID      – job the mix was made for.
//  BoothID    – booth occupied when the mix was recorded.
//  PaintCode  – manufacturer paint code (e.g. "LC9A").
//  ColorName  – human-readable colour name.
//  QuantityML – mixed quantity in millilitres, always positive.
//  MixedBy    – user id of the technician who mixed.
//  CreatedAt  – creation timestamp, system-set.
type PaintMix struct {
    ID         uint64    `json:"id"`          // paint_mixes.id
    JobID      uint64    `json:"job_id"`      // paint_mixes.job_id
    BoothID    uint64    `json:"booth_id"`    // paint_mixes.booth_id
    PaintCode  string    `json:"paint_code"`  // paint_mixes.paint_code
    ColorName  string    `json:"color_name"`  // paint_mixes.color_name
    QuantityML int64     `json:"quantity_ml"` // paint_mixes.quantity_ml
    MixedBy    uint64    `json:"mixed_by"`    // paint_mixes.mixed_by
    CreatedAt  time.Time `json:"created_at"`  // paint_mixes.created_at
}
