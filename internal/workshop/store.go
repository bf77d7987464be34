package workshop

import (
    "context"

    "github.com/iliyamo/workshop-job-service/internal/model"
)

// Tx exposes the reads and writes available inside one atomic unit.
// Entities returned by the getters are private copies; mutations only
// take effect through the Save/Create/Append calls and only if the
// enclosing Atomically callback returns nil.
//
// SaveJob enforces optimistic concurrency: the job's Version field
// must equal the stored version at write time or the save fails with
// lifecycle.ErrStaleVersion.  On success the version increments and
// updated_at is stamped by the store, never by the caller.
type Tx interface {
    // Job loads a job card by id.  Returns ErrJobNotFound.
    Job(ctx context.Context, id uint64) (*model.JobCard, error)
    // Booth loads a booth by id.  Returns ErrBoothNotFound.  The
    // production store locks the row for the rest of the transaction,
    // making the caller's check-and-set atomic per booth.
    Booth(ctx context.Context, id uint64) (*model.Booth, error)
    // CreateJob inserts a new job card, populating ID, Version and
    // timestamps on the passed value.
    CreateJob(ctx context.Context, job *model.JobCard) error
    // SaveJob persists a mutated job card under the optimistic
    // version check described above.
    SaveJob(ctx context.Context, job *model.JobCard) error
    // CreateBooth inserts a new booth, populating ID and timestamps.
    CreateBooth(ctx context.Context, booth *model.Booth) error
    // SaveBooth persists a mutated booth.
    SaveBooth(ctx context.Context, booth *model.Booth) error
    // AppendMix appends an immutable paint mix record, populating ID
    // and CreatedAt.  Existing records are never touched.
    AppendMix(ctx context.Context, mix *model.PaintMix) error
    // MixesByJob lists a job's mix records oldest-first.
    MixesByJob(ctx context.Context, jobID uint64) ([]model.PaintMix, error)
}

// Store runs workshop mutations atomically.  The production
// implementation wraps a MySQL transaction (repository package); the
// in-memory implementation wraps a single critical section.  Either
// way, all writes made through the Tx commit together or not at all.
type Store interface {
    Atomically(ctx context.Context, fn func(tx Tx) error) error
}
