// Package workshop implements the job lifecycle services: the booth
// allocator, the consumable ledger, the quality gate and the job card
// operations.  All compound mutations run through a Store transaction
// so booth and job card state never disagree, even under concurrent
// callers or a crash mid-operation.
package workshop

import (
    "errors"
    "fmt"
    "strings"
)

// ErrJobNotFound is returned when no job card exists for the given id.
var ErrJobNotFound = errors.New("job card not found")

// ErrBoothNotFound is returned when no booth exists for the given id.
var ErrBoothNotFound = errors.New("booth not found")

// ErrBoothUnavailable is returned when the booth is not READY at the
// instant of an assign attempt.  The caller should pick another booth
// or retry shortly; the allocator never blocks waiting.
var ErrBoothUnavailable = errors.New("booth unavailable")

// ErrJobAlreadyAllocated is returned when an assign targets a job that
// already holds a booth.  A job holds at most one booth at a time;
// this is a client logic error, not contention.
var ErrJobAlreadyAllocated = errors.New("job already holds a booth")

// ErrNoActiveAllocation is returned by operations that require the job
// to currently hold a booth (recording mixes, quality-gate release)
// when it does not.
var ErrNoActiveAllocation = errors.New("job holds no booth")

// ValidationError reports malformed input to a workshop operation.
type ValidationError struct {
    Field  string
    Reason string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ChecklistRejectedError is the business rejection of a quality-gate
// evaluation.  It lists the failed check names so the UI can surface
// them; no state was mutated.
type ChecklistRejectedError struct {
    Failed []string
}

func (e *ChecklistRejectedError) Error() string {
    return "checklist rejected: " + strings.Join(e.Failed, ", ")
}
