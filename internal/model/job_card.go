package model

import "time"

// JobStatus enumerates the lifecycle states of a job card.  A job is
// created RECEIVED, moves to IN_PROGRESS when work (usually a booth
// assignment) starts, becomes READY once all work passed quality
// control, INVOICED when the billing collaborator confirms payment and
// CLOSED on delivery.  CLOSED is terminal and the card is immutable
// from then on.
type JobStatus string

const (
    StatusReceived   JobStatus = "RECEIVED"    // job card opened, no work started
    StatusInProgress JobStatus = "IN_PROGRESS" // work underway
    StatusReady      JobStatus = "READY"       // all work done, awaiting invoicing
    StatusInvoiced   JobStatus = "INVOICED"    // billing confirmed
    StatusClosed     JobStatus = "CLOSED"      // delivered; terminal
)

// PaintStage enumerates the sub-states of in-progress painting work.
// A job stays at NONE until its first booth assignment and reaches
// COMPLETED when the quality gate commits a release.
type PaintStage string

const (
    StageNone      PaintStage = "NONE"       // no paint work yet
    StagePrimer    PaintStage = "PRIMER"     // primer application
    StageBaseCoat  PaintStage = "BASE_COAT"  // base coat application
    StageClearCoat PaintStage = "CLEAR_COAT" // clear coat application
    StageBaking    PaintStage = "BAKING"     // curing in the booth oven
    StageCompleted PaintStage = "COMPLETED"  // paint work signed off by QC
)

// LineItem is one priced service on a job card.  Monetary values are
// integer fils (AED minor unit, two decimal places).  Position keeps
// the advisor-chosen ordering stable across replacements.
//
// Fields:
//  ServiceID     – reference into the service/price master data.
//  UnitPriceFils – price per unit in fils.
//  Qty           – positive integer quantity.
//  DiscountFils  – absolute discount applied to the whole line.
//  Position      – zero-based order of the line on the card.
type LineItem struct {
    ServiceID     uint64 `json:"service_id"`      // job_line_items.service_id
    UnitPriceFils int64  `json:"unit_price_fils"` // job_line_items.unit_price_fils
    Qty           int64  `json:"qty"`             // job_line_items.qty
    DiscountFils  int64  `json:"discount_fils"`   // job_line_items.discount_fils
    Position      int    `json:"position"`        // job_line_items.position
}

// JobCard is one vehicle's service order.  It owns the status and
// paint-stage state machine, the priced line items with their computed
// totals, and at most one booth allocation at a time.
//
// Invariants (enforced by the workshop services, never by callers):
//  - CurrentBoothID != nil implies PaintStage is one of PRIMER,
//    BASE_COAT, CLEAR_COAT or BAKING and the referenced booth points
//    back at this job.
//  - NetFils == SubtotalFils + VATFils at all times.
//  - Version increases by one on every persisted mutation; writers
//    carry the version they read and fail on mismatch.
//
// Fields:
//  ID              – primary key identifier.
//  BranchID        – branch the card belongs to; every request is
//                    scoped by it, there is no ambient current branch.
//  Status          – lifecycle state, see JobStatus.
//  PaintStage      – painting sub-state, see PaintStage.
//  LineItems       – ordered priced services.
//  SubtotalFils    – sum of line values in fils.
//  VATFils         – 5% VAT in fils, rounded half-up.
//  NetFils         – SubtotalFils + VATFils, exact.
//  CurrentBoothID  – booth currently allocated, nil when none.
//  RedoUsed        – whether the single controlled paint-stage
//                    regression has been consumed.
//  Version         – optimistic concurrency counter.
//  CreatedAt       – creation timestamp, system-set.
//  UpdatedAt       – last mutation timestamp, system-set.
type JobCard struct {
    ID             uint64     `json:"id"`                         // job_cards.id
    BranchID       uint64     `json:"branch_id"`                  // job_cards.branch_id
    Status         JobStatus  `json:"status"`                     // job_cards.status
    PaintStage     PaintStage `json:"paint_stage"`                // job_cards.paint_stage
    LineItems      []LineItem `json:"line_items"`                 // job_line_items rows
    SubtotalFils   int64      `json:"subtotal_fils"`              // job_cards.subtotal_fils
    VATFils        int64      `json:"vat_fils"`                   // job_cards.vat_fils
    NetFils        int64      `json:"net_fils"`                   // job_cards.net_fils
    CurrentBoothID *uint64    `json:"current_booth_id,omitempty"` // job_cards.current_booth_id (nullable)
    RedoUsed       bool       `json:"redo_used"`                  // job_cards.redo_used
    Version        uint64     `json:"version"`                    // job_cards.version
    CreatedAt      time.Time  `json:"created_at"`                 // job_cards.created_at
    UpdatedAt      time.Time  `json:"updated_at"`                 // job_cards.updated_at
}
