package workshop_test

import (
    "context"
    "errors"
    "sync"
    "testing"

    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/workshop"
)

func TestRecordMixAppendsAgainstActiveAllocation(t *testing.T) {
    store := workshop.NewMemoryStore()
    alloc := workshop.NewAllocator(store, nil)
    ledger := workshop.NewLedger(store)
    job := seedJob(t, store, 1)
    booth := seedBooth(t, store, 1, "Bay 1")

    if _, err := alloc.Assign(context.Background(), workshop.AssignRequest{
        JobID: job.ID, BoothID: booth.ID, Stage: model.StageBaseCoat,
    }); err != nil {
        t.Fatalf("Assign returned error: %v", err)
    }

    mix, err := ledger.RecordMix(context.Background(), workshop.MixRequest{
        JobID: job.ID, PaintCode: "LC9A", ColorName: "Candy White", QuantityML: 500, MixedBy: 7,
    })
    if err != nil {
        t.Fatalf("RecordMix returned error: %v", err)
    }
    if mix.ID == 0 {
        t.Fatal("mix id not populated")
    }
    if mix.BoothID != booth.ID {
        t.Fatalf("mix booth snapshot = %d, want %d", mix.BoothID, booth.ID)
    }

    got, err := ledger.MixesForJob(context.Background(), job.ID)
    if err != nil {
        t.Fatalf("MixesForJob returned error: %v", err)
    }
    if len(got) != 1 || got[0].PaintCode != "LC9A" || got[0].QuantityML != 500 {
        t.Fatalf("unexpected ledger contents: %+v", got)
    }
}

func TestRecordMixRequiresAllocation(t *testing.T) {
    store := workshop.NewMemoryStore()
    ledger := workshop.NewLedger(store)
    job := seedJob(t, store, 1)

    _, err := ledger.RecordMix(context.Background(), workshop.MixRequest{
        JobID: job.ID, PaintCode: "LC9A", QuantityML: 250, MixedBy: 7,
    })
    if !errors.Is(err, workshop.ErrNoActiveAllocation) {
        t.Fatalf("expected ErrNoActiveAllocation, got %v", err)
    }
}

func TestRecordMixValidation(t *testing.T) {
    store := workshop.NewMemoryStore()
    ledger := workshop.NewLedger(store)
    cases := []struct {
        name string
        req  workshop.MixRequest
    }{
        {"missing paint code", workshop.MixRequest{JobID: 1, QuantityML: 100, MixedBy: 1}},
        {"zero quantity", workshop.MixRequest{JobID: 1, PaintCode: "X", QuantityML: 0, MixedBy: 1}},
        {"negative quantity", workshop.MixRequest{JobID: 1, PaintCode: "X", QuantityML: -5, MixedBy: 1}},
        {"missing mixer", workshop.MixRequest{JobID: 1, PaintCode: "X", QuantityML: 100}},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            var verr *workshop.ValidationError
            if _, err := ledger.RecordMix(context.Background(), tc.req); !errors.As(err, &verr) {
                t.Fatalf("expected ValidationError, got %v", err)
            }
        })
    }
}

func TestMixSurvivesRelease(t *testing.T) {
    store := workshop.NewMemoryStore()
    alloc := workshop.NewAllocator(store, nil)
    gate := workshop.NewQualityGate(store, nil)
    ledger := workshop.NewLedger(store)
    job := seedJob(t, store, 1)
    booth := seedBooth(t, store, 1, "Bay 1")

    if _, err := alloc.Assign(context.Background(), workshop.AssignRequest{
        JobID: job.ID, BoothID: booth.ID, Stage: model.StageBaseCoat,
    }); err != nil {
        t.Fatalf("Assign returned error: %v", err)
    }
    if _, err := ledger.RecordMix(context.Background(), workshop.MixRequest{
        JobID: job.ID, PaintCode: "LC9A", QuantityML: 500, MixedBy: 7,
    }); err != nil {
        t.Fatalf("RecordMix returned error: %v", err)
    }
    if _, err := gate.EvaluateAndRelease(context.Background(), job.ID, allPass("finish"), false); err != nil {
        t.Fatalf("EvaluateAndRelease returned error: %v", err)
    }

    got, err := ledger.MixesForJob(context.Background(), job.ID)
    if err != nil {
        t.Fatalf("MixesForJob returned error: %v", err)
    }
    if len(got) != 1 || got[0].BoothID != booth.ID {
        t.Fatalf("audit snapshot lost after release: %+v", got)
    }
}

func TestConcurrentMixesAllAppend(t *testing.T) {
    store := workshop.NewMemoryStore()
    alloc := workshop.NewAllocator(store, nil)
    ledger := workshop.NewLedger(store)
    job := seedJob(t, store, 1)
    booth := seedBooth(t, store, 1, "Bay 1")

    if _, err := alloc.Assign(context.Background(), workshop.AssignRequest{
        JobID: job.ID, BoothID: booth.ID, Stage: model.StageBaseCoat,
    }); err != nil {
        t.Fatalf("Assign returned error: %v", err)
    }

    const n = 16
    var wg sync.WaitGroup
    for i := 0; i < n; i++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            if _, err := ledger.RecordMix(context.Background(), workshop.MixRequest{
                JobID: job.ID, PaintCode: "LC9A", QuantityML: 100, MixedBy: 7,
            }); err != nil {
                t.Errorf("RecordMix returned error: %v", err)
            }
        }()
    }
    wg.Wait()

    got, err := ledger.MixesForJob(context.Background(), job.ID)
    if err != nil {
        t.Fatalf("MixesForJob returned error: %v", err)
    }
    if len(got) != n {
        t.Fatalf("ledger has %d entries, want %d", len(got), n)
    }
}
