// Package pricing computes the monetary totals of a job card from its
// line items.  It is the single place VAT arithmetic lives; callers
// must never recompute totals themselves.  All amounts are integer
// fils (AED minor unit) so results are exact and deterministic.
package pricing

import (
    "fmt"

    "github.com/iliyamo/workshop-job-service/internal/model"
)

// VATRatePercent is the UAE VAT rate applied to every job card.  It is
// a fixed external constant, not configurable per call or per branch.
const VATRatePercent = 5

// Totals carries the computed monetary summary of a set of line items.
// NetFils is always exactly SubtotalFils + VATFils; the two components
// are rounded once and never re-rounded against each other.
// ClampedLines lists the indexes of lines whose value went negative
// after discount and was clamped to zero, so callers can surface them.
type Totals struct {
    SubtotalFils int64 `json:"subtotal_fils"`
    VATFils      int64 `json:"vat_fils"`
    NetFils      int64 `json:"net_fils"`
    ClampedLines []int `json:"clamped_lines,omitempty"`
}

// ValidationError reports a malformed line item.  Line is the
// zero-based index of the offending item.
type ValidationError struct {
    Line   int
    Reason string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("line item %d: %s", e.Line, e.Reason)
}

// ComputeTotals derives subtotal, VAT and net amounts from the given
// line items.  Each line contributes qty*unit_price - discount; a
// negative result is clamped to zero and flagged.  VAT is 5% of the
// subtotal rounded half-up to whole fils.  The function is pure: no
// side effects, same input always yields the same output.
//
// It returns a *ValidationError when a line has a non-positive qty or
// a negative unit price or discount.
func ComputeTotals(items []model.LineItem) (Totals, error) {
    var t Totals
    for i, it := range items {
        if it.Qty <= 0 {
            return Totals{}, &ValidationError{Line: i, Reason: "qty must be a positive integer"}
        }
        if it.UnitPriceFils < 0 {
            return Totals{}, &ValidationError{Line: i, Reason: "unit price must be non-negative"}
        }
        if it.DiscountFils < 0 {
            return Totals{}, &ValidationError{Line: i, Reason: "discount must be non-negative"}
        }
        line := it.Qty*it.UnitPriceFils - it.DiscountFils
        if line < 0 {
            line = 0
            t.ClampedLines = append(t.ClampedLines, i)
        }
        t.SubtotalFils += line
    }
    t.VATFils = roundHalfUpPercent(t.SubtotalFils, VATRatePercent)
    // Net is defined as subtotal + VAT exactly; no independent rounding.
    t.NetFils = t.SubtotalFils + t.VATFils
    return t, nil
}

// roundHalfUpPercent returns pct% of amount in fils, rounded half-up.
// amount*pct is exact in hundredths of a fils, so adding 50 before the
// integer division implements round-half-up without floating point.
func roundHalfUpPercent(amount int64, pct int64) int64 {
    return (amount*pct + 50) / 100
}
