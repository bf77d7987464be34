package model

import "time"

// BoothStatus enumerates the states of a paint booth.  READY means the
// booth is free and claimable, ACTIVE means a job occupies it for paint
// work, QC marks a booth parked under quality inspection.
type BoothStatus string

const (
    BoothReady  BoothStatus = "READY"  // free, claimable
    BoothActive BoothStatus = "ACTIVE" // occupied by a job

    // BoothQC is reserved for inspections that park the booth while the
    // verdict is pending.  The current gate never parks: an accepted
    // checklist frees the booth in the same transaction, and a rejected
    // one leaves booth and job untouched so the technician can rework
    // in place.  The state stays in the enum (and the booths.status
    // column) for inspection flows that outlast the paint session.
    BoothQC BoothStatus = "QC"
)

// Booth is a physical paint bay, a mutually-exclusive resource.  The
// pair (Booth.CurrentJobID, JobCard.CurrentBoothID) always agrees; the
// allocator is the only writer of either side and commits both in one
// atomic unit.
//
// Invariants:
//  - CurrentJobID == nil if and only if Status == READY.
//  - At most one booth in the whole pool references a given job id.
//
// Fields:
//  ID               – primary key identifier.
//  BranchID         – branch the booth belongs to.
//  Name             – human-readable bay name.
//  Status           – see BoothStatus.
//  CurrentJobID     – occupying job, nil when free.
//  EstimatedMinutes – caller-supplied estimate for the active stage;
//                     zero when the booth is free.
//  TemperatureC     – latest telemetry reading; informational only,
//                     never a correctness input.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last mutation timestamp.
type Booth struct {
    ID               uint64      `json:"id"`                       // booths.id
    BranchID         uint64      `json:"branch_id"`                // booths.branch_id
    Name             string      `json:"name"`                     // booths.name
    Status           BoothStatus `json:"status"`                   // booths.status
    CurrentJobID     *uint64     `json:"current_job_id,omitempty"` // booths.current_job_id (nullable)
    EstimatedMinutes uint32      `json:"estimated_minutes"`        // booths.estimated_minutes
    TemperatureC     *float64    `json:"temperature_c,omitempty"`  // booths.temperature_c (nullable)
    CreatedAt        time.Time   `json:"created_at"`               // booths.created_at
    UpdatedAt        time.Time   `json:"updated_at"`               // booths.updated_at
}
