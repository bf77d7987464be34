package handler

import (
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/workshop-job-service/internal/lifecycle"
    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/pricing"
    "github.com/iliyamo/workshop-job-service/internal/repository"
    "github.com/iliyamo/workshop-job-service/internal/workshop"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func TestDomainErrorStatusCodes(t *testing.T) {
    cases := []struct {
        name string
        err  error
        want int
    }{
        {"validation", &workshop.ValidationError{Field: "stage", Reason: "bad"}, http.StatusBadRequest},
        {"pricing", &pricing.ValidationError{Line: 2, Reason: "qty"}, http.StatusBadRequest},
        {"job missing", workshop.ErrJobNotFound, http.StatusNotFound},
        {"booth missing", workshop.ErrBoothNotFound, http.StatusNotFound},
        {"service missing", repository.ErrServiceNotFound, http.StatusNotFound},
        {"forbidden", repository.ErrForbidden, http.StatusForbidden},
        {"booth busy", workshop.ErrBoothUnavailable, http.StatusConflict},
        {"double alloc", workshop.ErrJobAlreadyAllocated, http.StatusConflict},
        {"no allocation", workshop.ErrNoActiveAllocation, http.StatusConflict},
        {"stale version", lifecycle.ErrStaleVersion, http.StatusConflict},
        {"bad transition", &lifecycle.InvalidTransitionError{From: model.StatusClosed, Target: model.StatusReceived}, http.StatusConflict},
        {"repo conflict", repository.ErrConflict, http.StatusConflict},
        {"qc rejected", &workshop.ChecklistRejectedError{Failed: []string{"gloss"}}, http.StatusUnprocessableEntity},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            c, rec := newTestContext(t)
            if err := domainError(c, tc.err); err != nil {
                t.Fatalf("domainError returned %v", err)
            }
            if rec.Code != tc.want {
                t.Fatalf("status = %d, want %d", rec.Code, tc.want)
            }
        })
    }
}

func TestDomainErrorQCBody(t *testing.T) {
    c, rec := newTestContext(t)
    err := domainError(c, &workshop.ChecklistRejectedError{Failed: []string{"gloss_level", "color_match"}})
    if err != nil {
        t.Fatalf("domainError returned %v", err)
    }
    var body struct {
        FailedItems []string `json:"failed_items"`
    }
    if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
        t.Fatalf("unmarshal body: %v", err)
    }
    if len(body.FailedItems) != 2 || body.FailedItems[0] != "gloss_level" {
        t.Fatalf("failed_items = %v", body.FailedItems)
    }
}

func TestClaimUintRepresentations(t *testing.T) {
    c, _ := newTestContext(t)
    c.Set("branch_id", float64(7)) // JWT numbers decode as float64
    if v, ok := claimUint(c, "branch_id"); !ok || v != 7 {
        t.Fatalf("float64 claim = %d, %v", v, ok)
    }
    c.Set("branch_id", uint64(9))
    if v, ok := claimUint(c, "branch_id"); !ok || v != 9 {
        t.Fatalf("uint64 claim = %d, %v", v, ok)
    }
    c.Set("branch_id", "12")
    if v, ok := claimUint(c, "branch_id"); !ok || v != 12 {
        t.Fatalf("string claim = %d, %v", v, ok)
    }
    c.Set("branch_id", nil)
    if _, ok := claimUint(c, "branch_id"); ok {
        t.Fatal("nil claim should not resolve")
    }
}

func TestPathIDRejectsGarbage(t *testing.T) {
    e := echo.New()
    for _, raw := range []string{"0", "-3", "abc", ""} {
        req := httptest.NewRequest(http.MethodGet, "/", nil)
        rec := httptest.NewRecorder()
        c := e.NewContext(req, rec)
        c.SetParamNames("id")
        c.SetParamValues(raw)
        if _, err := pathID(c, "id"); err == nil {
            t.Fatalf("pathID accepted %q", raw)
        }
    }
}

func TestBoothBranchGuardForbidsForeignBooths(t *testing.T) {
    c, _ := newTestContext(t)
    c.Set("branch_id", float64(1))

    if err := boothBranchGuard(c, &model.Booth{ID: 3, BranchID: 1}); err != nil {
        t.Fatalf("same branch should pass, got %v", err)
    }

    err := boothBranchGuard(c, &model.Booth{ID: 3, BranchID: 2})
    if !errors.Is(err, repository.ErrForbidden) {
        t.Fatalf("foreign booth should be forbidden, got %v", err)
    }
    rc, rec := newTestContext(t)
    if err := domainError(rc, err); err != nil {
        t.Fatalf("domainError returned %v", err)
    }
    if rec.Code != http.StatusForbidden {
        t.Fatalf("status = %d, want 403", rec.Code)
    }

    c.Set("branch_id", nil)
    err = boothBranchGuard(c, &model.Booth{ID: 3, BranchID: 1})
    var he *echo.HTTPError
    if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
        t.Fatalf("missing claim should yield 401, got %v", err)
    }
}

func TestDomainErrorPassesThroughHTTPErrors(t *testing.T) {
    c, _ := newTestContext(t)
    in := echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
    err := domainError(c, in)
    var he *echo.HTTPError
    if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
        t.Fatalf("expected the HTTP error back, got %v", err)
    }
}

func TestBranchScopedHidesForeignJobs(t *testing.T) {
    c, _ := newTestContext(t)
    c.Set("branch_id", float64(1))

    if err := branchScoped(c, &model.JobCard{ID: 5, BranchID: 1}); err != nil {
        t.Fatalf("same branch should pass, got %v", err)
    }

    err := branchScoped(c, &model.JobCard{ID: 5, BranchID: 2})
    var he *echo.HTTPError
    if !errors.As(err, &he) {
        t.Fatalf("foreign branch should yield an HTTP error, got %v", err)
    }
    if he.Code != http.StatusNotFound {
        t.Fatalf("status = %d, want 404 so foreign cards stay invisible", he.Code)
    }

    c.Set("branch_id", nil)
    err = branchScoped(c, &model.JobCard{ID: 5, BranchID: 1})
    if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
        t.Fatalf("missing claim should yield 401, got %v", err)
    }
}
