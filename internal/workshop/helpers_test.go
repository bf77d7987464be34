package workshop_test

import (
    "context"
    "sync"
    "testing"

    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/queue"
    "github.com/iliyamo/workshop-job-service/internal/workshop"
)

// recorder captures published events for assertions.
type recorder struct {
    mu     sync.Mutex
    events []queue.JobStatusChangedEvent
}

func (r *recorder) PublishJobStatusChanged(ctx context.Context, ev queue.JobStatusChangedEvent) error {
    r.mu.Lock()
    defer r.mu.Unlock()
    r.events = append(r.events, ev)
    return nil
}

func (r *recorder) all() []queue.JobStatusChangedEvent {
    r.mu.Lock()
    defer r.mu.Unlock()
    return append([]queue.JobStatusChangedEvent(nil), r.events...)
}

func seedJob(t *testing.T, store *workshop.MemoryStore, branchID uint64) *model.JobCard {
    t.Helper()
    job := &model.JobCard{
        BranchID:   branchID,
        Status:     model.StatusReceived,
        PaintStage: model.StageNone,
    }
    if err := store.Atomically(context.Background(), func(tx workshop.Tx) error {
        return tx.CreateJob(context.Background(), job)
    }); err != nil {
        t.Fatalf("seed job: %v", err)
    }
    return job
}

func seedBooth(t *testing.T, store *workshop.MemoryStore, branchID uint64, name string) *model.Booth {
    t.Helper()
    booth := &model.Booth{
        BranchID: branchID,
        Name:     name,
        Status:   model.BoothReady,
    }
    if err := store.Atomically(context.Background(), func(tx workshop.Tx) error {
        return tx.CreateBooth(context.Background(), booth)
    }); err != nil {
        t.Fatalf("seed booth: %v", err)
    }
    return booth
}

func getJob(t *testing.T, store *workshop.MemoryStore, id uint64) *model.JobCard {
    t.Helper()
    var job *model.JobCard
    if err := store.Atomically(context.Background(), func(tx workshop.Tx) error {
        var err error
        job, err = tx.Job(context.Background(), id)
        return err
    }); err != nil {
        t.Fatalf("get job %d: %v", id, err)
    }
    return job
}

func getBooth(t *testing.T, store *workshop.MemoryStore, id uint64) *model.Booth {
    t.Helper()
    var booth *model.Booth
    if err := store.Atomically(context.Background(), func(tx workshop.Tx) error {
        var err error
        booth, err = tx.Booth(context.Background(), id)
        return err
    }); err != nil {
        t.Fatalf("get booth %d: %v", id, err)
    }
    return booth
}

// checkBoothInvariant asserts (current_job == nil) == (status == READY).
func checkBoothInvariant(t *testing.T, b *model.Booth) {
    t.Helper()
    free := b.CurrentJobID == nil
    if free != (b.Status == model.BoothReady) {
        t.Fatalf("booth %d invariant violated: status=%s current_job=%v", b.ID, b.Status, b.CurrentJobID)
    }
}

func allPass(names ...string) []workshop.CheckResult {
    out := make([]workshop.CheckResult, 0, len(names))
    for _, n := range names {
        out = append(out, workshop.CheckResult{Name: n, Passed: true})
    }
    return out
}
