package workshop_test

import (
    "context"
    "errors"
    "sync"
    "testing"

    "github.com/iliyamo/workshop-job-service/internal/lifecycle"
    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/workshop"
)

func TestAssignClaimsBoothAndAdvancesJob(t *testing.T) {
    store := workshop.NewMemoryStore()
    rec := &recorder{}
    alloc := workshop.NewAllocator(store, rec)
    job := seedJob(t, store, 1)
    booth := seedBooth(t, store, 1, "Bay 1")

    res, err := alloc.Assign(context.Background(), workshop.AssignRequest{
        JobID: job.ID, BoothID: booth.ID, Stage: model.StagePrimer, EstimatedMinutes: 45,
    })
    if err != nil {
        t.Fatalf("Assign returned error: %v", err)
    }
    if res.JobStatus != model.StatusInProgress {
        t.Fatalf("result status = %s, want IN_PROGRESS", res.JobStatus)
    }

    gotJob := getJob(t, store, job.ID)
    gotBooth := getBooth(t, store, booth.ID)
    if gotJob.Status != model.StatusInProgress || gotJob.PaintStage != model.StagePrimer {
        t.Fatalf("job = %s/%s, want IN_PROGRESS/PRIMER", gotJob.Status, gotJob.PaintStage)
    }
    if gotJob.CurrentBoothID == nil || *gotJob.CurrentBoothID != booth.ID {
        t.Fatalf("job booth ref = %v, want %d", gotJob.CurrentBoothID, booth.ID)
    }
    if gotBooth.Status != model.BoothActive || gotBooth.CurrentJobID == nil || *gotBooth.CurrentJobID != job.ID {
        t.Fatalf("booth = %s/%v, want ACTIVE/%d", gotBooth.Status, gotBooth.CurrentJobID, job.ID)
    }
    if gotBooth.EstimatedMinutes != 45 {
        t.Fatalf("estimated minutes = %d, want 45", gotBooth.EstimatedMinutes)
    }
    checkBoothInvariant(t, gotBooth)

    events := rec.all()
    if len(events) != 1 || events[0].ToStatus != string(model.StatusInProgress) {
        t.Fatalf("unexpected events: %+v", events)
    }
    if events[0].EventID == "" {
        t.Fatal("event id not set")
    }
}

func TestAssignRejectsOccupiedBooth(t *testing.T) {
    store := workshop.NewMemoryStore()
    alloc := workshop.NewAllocator(store, nil)
    j1 := seedJob(t, store, 1)
    j2 := seedJob(t, store, 1)
    booth := seedBooth(t, store, 1, "Bay 1")

    if _, err := alloc.Assign(context.Background(), workshop.AssignRequest{
        JobID: j1.ID, BoothID: booth.ID, Stage: model.StageBaseCoat,
    }); err != nil {
        t.Fatalf("first Assign returned error: %v", err)
    }
    _, err := alloc.Assign(context.Background(), workshop.AssignRequest{
        JobID: j2.ID, BoothID: booth.ID, Stage: model.StageBaseCoat,
    })
    if !errors.Is(err, workshop.ErrBoothUnavailable) {
        t.Fatalf("expected ErrBoothUnavailable, got %v", err)
    }
    // Loser left no trace on the job.
    gotJ2 := getJob(t, store, j2.ID)
    if gotJ2.CurrentBoothID != nil || gotJ2.Status != model.StatusReceived {
        t.Fatalf("loser job mutated: %+v", gotJ2)
    }
}

func TestAssignRejectsDoubleAllocation(t *testing.T) {
    store := workshop.NewMemoryStore()
    alloc := workshop.NewAllocator(store, nil)
    job := seedJob(t, store, 1)
    b1 := seedBooth(t, store, 1, "Bay 1")
    b2 := seedBooth(t, store, 1, "Bay 2")

    if _, err := alloc.Assign(context.Background(), workshop.AssignRequest{
        JobID: job.ID, BoothID: b1.ID, Stage: model.StagePrimer,
    }); err != nil {
        t.Fatalf("first Assign returned error: %v", err)
    }
    _, err := alloc.Assign(context.Background(), workshop.AssignRequest{
        JobID: job.ID, BoothID: b2.ID, Stage: model.StagePrimer,
    })
    if !errors.Is(err, workshop.ErrJobAlreadyAllocated) {
        t.Fatalf("expected ErrJobAlreadyAllocated, got %v", err)
    }
    // Second booth untouched.
    checkBoothInvariant(t, getBooth(t, store, b2.ID))
}

func TestAssignValidatesStageAndBranch(t *testing.T) {
    store := workshop.NewMemoryStore()
    alloc := workshop.NewAllocator(store, nil)
    job := seedJob(t, store, 1)
    booth := seedBooth(t, store, 2, "Other branch bay")

    var verr *workshop.ValidationError
    _, err := alloc.Assign(context.Background(), workshop.AssignRequest{
        JobID: job.ID, BoothID: booth.ID, Stage: model.StageCompleted,
    })
    if !errors.As(err, &verr) {
        t.Fatalf("expected ValidationError for stage, got %v", err)
    }
    _, err = alloc.Assign(context.Background(), workshop.AssignRequest{
        JobID: job.ID, BoothID: booth.ID, Stage: model.StagePrimer,
    })
    if !errors.As(err, &verr) {
        t.Fatalf("expected ValidationError for branch mismatch, got %v", err)
    }
}

func TestAssignRejectsFinishedJob(t *testing.T) {
    store := workshop.NewMemoryStore()
    alloc := workshop.NewAllocator(store, nil)
    gate := workshop.NewQualityGate(store, nil)
    job := seedJob(t, store, 1)
    booth := seedBooth(t, store, 1, "Bay 1")

    if _, err := alloc.Assign(context.Background(), workshop.AssignRequest{
        JobID: job.ID, BoothID: booth.ID, Stage: model.StageBaking,
    }); err != nil {
        t.Fatalf("Assign returned error: %v", err)
    }
    if _, err := gate.EvaluateAndRelease(context.Background(), job.ID, allPass("finish"), false); err != nil {
        t.Fatalf("EvaluateAndRelease returned error: %v", err)
    }
    // Job is READY now; a new assignment is an illegal move.
    var terr *lifecycle.InvalidTransitionError
    _, err := alloc.Assign(context.Background(), workshop.AssignRequest{
        JobID: job.ID, BoothID: booth.ID, Stage: model.StagePrimer,
    })
    if !errors.As(err, &terr) {
        t.Fatalf("expected InvalidTransitionError, got %v", err)
    }
}

func TestConcurrentAssignExactlyOneWinner(t *testing.T) {
    store := workshop.NewMemoryStore()
    alloc := workshop.NewAllocator(store, nil)
    booth := seedBooth(t, store, 1, "Bay 1")

    const n = 32
    jobs := make([]*model.JobCard, n)
    for i := range jobs {
        jobs[i] = seedJob(t, store, 1)
    }

    var (
        wg      sync.WaitGroup
        mu      sync.Mutex
        winners []uint64
        losers  int
    )
    start := make(chan struct{})
    for i := 0; i < n; i++ {
        wg.Add(1)
        go func(job *model.JobCard) {
            defer wg.Done()
            <-start
            _, err := alloc.Assign(context.Background(), workshop.AssignRequest{
                JobID: job.ID, BoothID: booth.ID, Stage: model.StagePrimer,
            })
            mu.Lock()
            defer mu.Unlock()
            switch {
            case err == nil:
                winners = append(winners, job.ID)
            case errors.Is(err, workshop.ErrBoothUnavailable):
                losers++
            default:
                t.Errorf("unexpected error: %v", err)
            }
        }(jobs[i])
    }
    close(start)
    wg.Wait()

    if len(winners) != 1 {
        t.Fatalf("winners = %v, want exactly one", winners)
    }
    if losers != n-1 {
        t.Fatalf("losers = %d, want %d", losers, n-1)
    }
    gotBooth := getBooth(t, store, booth.ID)
    if gotBooth.CurrentJobID == nil || *gotBooth.CurrentJobID != winners[0] {
        t.Fatalf("booth holds %v, want %d", gotBooth.CurrentJobID, winners[0])
    }
    // Pool-wide exclusivity: no other job believes it holds the booth.
    for _, job := range jobs {
        got := getJob(t, store, job.ID)
        if job.ID != winners[0] && got.CurrentBoothID != nil {
            t.Fatalf("job %d holds booth %d without winning", job.ID, *got.CurrentBoothID)
        }
    }
}

func TestReleaseIsIdempotent(t *testing.T) {
    store := workshop.NewMemoryStore()
    alloc := workshop.NewAllocator(store, nil)
    job := seedJob(t, store, 1)
    booth := seedBooth(t, store, 1, "Bay 1")

    if _, err := alloc.Assign(context.Background(), workshop.AssignRequest{
        JobID: job.ID, BoothID: booth.ID, Stage: model.StageClearCoat,
    }); err != nil {
        t.Fatalf("Assign returned error: %v", err)
    }
    if err := alloc.Release(context.Background(), job.ID); err != nil {
        t.Fatalf("first Release returned error: %v", err)
    }
    after := getJob(t, store, job.ID)
    if after.CurrentBoothID != nil {
        t.Fatalf("job still holds booth after release")
    }
    if after.PaintStage != model.StageNone {
        t.Fatalf("paint stage = %s after bare release, want NONE", after.PaintStage)
    }
    checkBoothInvariant(t, getBooth(t, store, booth.ID))

    // Second release is a no-op, not an error, and changes nothing.
    versionBefore := after.Version
    if err := alloc.Release(context.Background(), job.ID); err != nil {
        t.Fatalf("second Release returned error: %v", err)
    }
    again := getJob(t, store, job.ID)
    if again.Version != versionBefore {
        t.Fatalf("second release mutated job: version %d -> %d", versionBefore, again.Version)
    }
}

func TestReleaseUnknownJob(t *testing.T) {
    store := workshop.NewMemoryStore()
    alloc := workshop.NewAllocator(store, nil)
    if err := alloc.Release(context.Background(), 99); !errors.Is(err, workshop.ErrJobNotFound) {
        t.Fatalf("expected ErrJobNotFound, got %v", err)
    }
}
