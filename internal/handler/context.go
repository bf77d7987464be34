// Package handler exposes the HTTP surface of the workshop job
// service: staff auth, job cards and their line items, booth
// allocation, the paint mix ledger, quality gate releases and the
// service catalog. Handlers translate domain errors into stable HTTP
// status codes and JSON bodies; all business rules live in the
// workshop, lifecycle and pricing packages.
package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/workshop-job-service/internal/lifecycle"
    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/pricing"
    "github.com/iliyamo/workshop-job-service/internal/repository"
    "github.com/iliyamo/workshop-job-service/internal/workshop"
)

// claimUint reads a numeric JWT claim stored by the auth middleware.
// JWT numbers decode as float64; tests may set native integers.
func claimUint(c echo.Context, key string) (uint64, bool) {
    switch v := c.Get(key).(type) {
    case float64:
        return uint64(v), true
    case uint64:
        return v, true
    case int:
        if v >= 0 {
            return uint64(v), true
        }
    case string:
        if n, err := strconv.ParseUint(v, 10, 64); err == nil {
            return n, true
        }
    }
    return 0, false
}

// currentBranch returns the caller's branch from the JWT claims.
func currentBranch(c echo.Context) (uint64, bool) {
    return claimUint(c, "branch_id")
}

// pathID parses a numeric path parameter, rejecting zero.
func pathID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
    }
    return id, nil
}

// boothBranchGuard rejects writes against a booth outside the
// caller's branch. Booths are not hidden the way job cards are: a
// temperature sensor or tablet posting against a foreign booth is a
// provisioning fault worth surfacing, so a mismatch is forbidden
// rather than invisible.
func boothBranchGuard(c echo.Context, booth *model.Booth) error {
    branch, ok := currentBranch(c)
    if !ok {
        return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
    }
    if booth.BranchID != branch {
        return repository.ErrForbidden
    }
    return nil
}

// domainError maps domain errors onto HTTP responses. Validation
// failures are 400, missing resources 404, state conflicts 409 and
// quality gate rejections 422 with the failed item names. Unknown
// errors fall through as 500 without leaking internals.
func domainError(c echo.Context, err error) error {
    var httpErr *echo.HTTPError
    if errors.As(err, &httpErr) {
        return httpErr
    }
    var (
        vErr  *workshop.ValidationError
        pErr  *pricing.ValidationError
        tErr  *lifecycle.InvalidTransitionError
        qcErr *workshop.ChecklistRejectedError
    )
    switch {
    case errors.As(err, &vErr):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Error(), "field": vErr.Field})
    case errors.As(err, &pErr):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": pErr.Error(), "line": pErr.Line})
    case errors.Is(err, workshop.ErrJobNotFound),
        errors.Is(err, workshop.ErrBoothNotFound),
        errors.Is(err, repository.ErrServiceNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.As(err, &qcErr):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{
            "error":        "quality checks failed",
            "failed_items": qcErr.Failed,
        })
    case errors.As(err, &tErr),
        errors.Is(err, workshop.ErrBoothUnavailable),
        errors.Is(err, workshop.ErrJobAlreadyAllocated),
        errors.Is(err, workshop.ErrNoActiveAllocation),
        errors.Is(err, lifecycle.ErrStaleVersion),
        errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    c.Logger().Errorf("unhandled error: %v", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
