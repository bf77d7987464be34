package lifecycle_test

import (
    "errors"
    "testing"

    "github.com/iliyamo/workshop-job-service/internal/lifecycle"
    "github.com/iliyamo/workshop-job-service/internal/model"
)

func TestCanTransitionTable(t *testing.T) {
    allowed := map[[2]model.JobStatus]bool{
        {model.StatusReceived, model.StatusInProgress}: true,
        {model.StatusInProgress, model.StatusReady}:    true,
        {model.StatusReady, model.StatusInvoiced}:      true,
        {model.StatusInvoiced, model.StatusClosed}:     true,
    }
    all := []model.JobStatus{
        model.StatusReceived, model.StatusInProgress, model.StatusReady,
        model.StatusInvoiced, model.StatusClosed,
    }
    for _, from := range all {
        for _, to := range all {
            want := allowed[[2]model.JobStatus{from, to}]
            if got := lifecycle.CanTransition(from, to); got != want {
                t.Fatalf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
            }
        }
    }
}

func TestTransitionMutatesJob(t *testing.T) {
    job := &model.JobCard{Status: model.StatusReceived}
    if err := lifecycle.Transition(job, model.StatusInProgress); err != nil {
        t.Fatalf("Transition returned error: %v", err)
    }
    if job.Status != model.StatusInProgress {
        t.Fatalf("status = %s, want IN_PROGRESS", job.Status)
    }
}

func TestTransitionRejectsIllegalMove(t *testing.T) {
    job := &model.JobCard{Status: model.StatusReceived}
    err := lifecycle.Transition(job, model.StatusClosed)
    var terr *lifecycle.InvalidTransitionError
    if !errors.As(err, &terr) {
        t.Fatalf("expected InvalidTransitionError, got %v", err)
    }
    if job.Status != model.StatusReceived {
        t.Fatalf("status mutated on rejected transition: %s", job.Status)
    }
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
    job := &model.JobCard{Status: model.StatusReceived}
    var terr *lifecycle.InvalidTransitionError
    if err := lifecycle.Transition(job, model.JobStatus("SCRAPPED")); !errors.As(err, &terr) {
        t.Fatalf("expected InvalidTransitionError, got %v", err)
    }
}

func TestClosedIsTerminal(t *testing.T) {
    targets := []model.JobStatus{
        model.StatusReceived, model.StatusInProgress, model.StatusReady,
        model.StatusInvoiced, model.StatusClosed,
    }
    for _, target := range targets {
        job := &model.JobCard{Status: model.StatusClosed}
        if err := lifecycle.Transition(job, target); err == nil {
            t.Fatalf("expected CLOSED -> %s to fail", target)
        }
    }
}

func TestAssignableStage(t *testing.T) {
    want := map[model.PaintStage]bool{
        model.StageNone:      false,
        model.StagePrimer:    true,
        model.StageBaseCoat:  true,
        model.StageClearCoat: true,
        model.StageBaking:    true,
        model.StageCompleted: false,
    }
    for stage, ok := range want {
        if got := lifecycle.AssignableStage(stage); got != ok {
            t.Fatalf("AssignableStage(%s) = %v, want %v", stage, got, ok)
        }
    }
}

func TestRedoRegressesOneStep(t *testing.T) {
    job := &model.JobCard{Status: model.StatusInProgress, PaintStage: model.StageClearCoat}
    if err := lifecycle.Redo(job); err != nil {
        t.Fatalf("Redo returned error: %v", err)
    }
    if job.PaintStage != model.StageBaseCoat {
        t.Fatalf("stage = %s, want BASE_COAT", job.PaintStage)
    }
    if !job.RedoUsed {
        t.Fatal("redo not marked consumed")
    }
}

func TestRedoConsumedOnce(t *testing.T) {
    job := &model.JobCard{Status: model.StatusInProgress, PaintStage: model.StageBaking}
    if err := lifecycle.Redo(job); err != nil {
        t.Fatalf("first Redo returned error: %v", err)
    }
    var terr *lifecycle.InvalidTransitionError
    if err := lifecycle.Redo(job); !errors.As(err, &terr) {
        t.Fatalf("expected second Redo to fail with InvalidTransitionError, got %v", err)
    }
    if job.PaintStage != model.StageClearCoat {
        t.Fatalf("stage = %s, want CLEAR_COAT after single regression", job.PaintStage)
    }
}

func TestRedoRequiresInProgress(t *testing.T) {
    job := &model.JobCard{Status: model.StatusReady, PaintStage: model.StageCompleted}
    if err := lifecycle.Redo(job); err == nil {
        t.Fatal("expected Redo to fail outside IN_PROGRESS")
    }
}

func TestRedoRejectsEarlyStages(t *testing.T) {
    for _, stage := range []model.PaintStage{model.StageNone, model.StagePrimer} {
        job := &model.JobCard{Status: model.StatusInProgress, PaintStage: stage}
        if err := lifecycle.Redo(job); err == nil {
            t.Fatalf("expected Redo at %s to fail", stage)
        }
    }
}

func TestRedoFromCompleted(t *testing.T) {
    // A job whose paint work completed but is still IN_PROGRESS (more
    // service stages pending) may regress back into BAKING for a redo.
    job := &model.JobCard{Status: model.StatusInProgress, PaintStage: model.StageCompleted}
    if err := lifecycle.Redo(job); err != nil {
        t.Fatalf("Redo returned error: %v", err)
    }
    if job.PaintStage != model.StageBaking {
        t.Fatalf("stage = %s, want BAKING", job.PaintStage)
    }
}
