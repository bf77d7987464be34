// Package queue defines message payloads exchanged over the message broker.
package queue

// JobStatusChangedEvent is published whenever a job card's status
// advances.  It carries enough information for downstream consumers
// (invoicing, notifications, analytics) to act without querying the
// primary database.  EventID is a UUID so consumers can deduplicate
// redelivered messages.
type JobStatusChangedEvent struct {
    EventID    string `json:"event_id"`
    JobID      uint64 `json:"job_id"`
    BranchID   uint64 `json:"branch_id"`
    FromStatus string `json:"from_status"`
    ToStatus   string `json:"to_status"`
    PaintStage string `json:"paint_stage"`
    NetFils    int64  `json:"net_fils"`
    OccurredAt string `json:"occurred_at"`
}
