// Package lifecycle owns the job card status state machine and the
// paint-stage progression rules.  It validates moves; it never
// persists anything.  Persistence and versioning live in the store.
package lifecycle

import (
    "errors"
    "fmt"

    "github.com/iliyamo/workshop-job-service/internal/model"
)

// ErrStaleVersion is returned when a writer's expected job version no
// longer matches the stored one, meaning another writer advanced the
// job first.  Callers should refetch and retry.
var ErrStaleVersion = errors.New("stale job version")

// InvalidTransitionError reports an illegal state-machine move.  It is
// user-visible and non-retryable without changing the request.
type InvalidTransitionError struct {
    From   model.JobStatus
    Target model.JobStatus
    Reason string
}

func (e *InvalidTransitionError) Error() string {
    if e.Reason != "" {
        return fmt.Sprintf("invalid transition %s -> %s: %s", e.From, e.Target, e.Reason)
    }
    return fmt.Sprintf("invalid transition %s -> %s", e.From, e.Target)
}

// transitions is the legal move table.  RECEIVED is initial, CLOSED is
// terminal.  The IN_PROGRESS self-loop is the redo regression and is
// handled by Redo, not Transition.
var transitions = map[model.JobStatus]map[model.JobStatus]bool{
    model.StatusReceived:   {model.StatusInProgress: true},
    model.StatusInProgress: {model.StatusReady: true},
    model.StatusReady:      {model.StatusInvoiced: true},
    model.StatusInvoiced:   {model.StatusClosed: true},
    model.StatusClosed:     {},
}

// stageOrder gives each paint stage its position in the forward
// progression.  COMPLETED sits after BAKING; NONE precedes everything.
var stageOrder = map[model.PaintStage]int{
    model.StageNone:      0,
    model.StagePrimer:    1,
    model.StageBaseCoat:  2,
    model.StageClearCoat: 3,
    model.StageBaking:    4,
    model.StageCompleted: 5,
}

// ValidStatus reports whether s names a known job status.
func ValidStatus(s model.JobStatus) bool {
    _, ok := transitions[s]
    return ok
}

// CanTransition reports whether target is directly reachable from from
// per the legal move table.
func CanTransition(from, target model.JobStatus) bool {
    return transitions[from][target]
}

// Transition applies a status change to the job in memory.  It fails
// with *InvalidTransitionError when the move is illegal.  The caller
// commits the mutated job through the store, which enforces the
// optimistic version check and stamps updated_at.
func Transition(job *model.JobCard, target model.JobStatus) error {
    if !ValidStatus(target) {
        return &InvalidTransitionError{From: job.Status, Target: target, Reason: "unknown status"}
    }
    if !CanTransition(job.Status, target) {
        return &InvalidTransitionError{From: job.Status, Target: target}
    }
    job.Status = target
    return nil
}

// AssignableStage reports whether a booth may be claimed at the given
// paint stage.  Only the four active work stages qualify; NONE and
// COMPLETED never hold a booth.
func AssignableStage(s model.PaintStage) bool {
    switch s {
    case model.StagePrimer, model.StageBaseCoat, model.StageClearCoat, model.StageBaking:
        return true
    }
    return false
}

// Redo performs the single controlled paint-stage regression.  The job
// must be IN_PROGRESS, must not have consumed its redo yet, and must be
// at BASE_COAT or later (PRIMER has no earlier stage to regress to).
// On success the stage steps back exactly one position and the redo is
// marked consumed.
func Redo(job *model.JobCard) error {
    if job.Status != model.StatusInProgress {
        return &InvalidTransitionError{From: job.Status, Target: job.Status, Reason: "redo requires IN_PROGRESS"}
    }
    if job.RedoUsed {
        return &InvalidTransitionError{From: job.Status, Target: job.Status, Reason: "redo already consumed"}
    }
    pos, ok := stageOrder[job.PaintStage]
    if !ok || pos < stageOrder[model.StageBaseCoat] {
        return &InvalidTransitionError{From: job.Status, Target: job.Status, Reason: "paint stage cannot regress"}
    }
    for stage, p := range stageOrder {
        if p == pos-1 {
            job.PaintStage = stage
            break
        }
    }
    job.RedoUsed = true
    return nil
}
