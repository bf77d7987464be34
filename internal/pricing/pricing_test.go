package pricing_test

import (
    "errors"
    "testing"

    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/pricing"
)

func item(price, qty, discount int64) model.LineItem {
    return model.LineItem{ServiceID: 1, UnitPriceFils: price, Qty: qty, DiscountFils: discount}
}

func TestComputeTotalsReferenceScenario(t *testing.T) {
    // Two services at 300.00 and 500.00 AED: subtotal 800.00,
    // VAT 40.00, net 840.00.
    got, err := pricing.ComputeTotals([]model.LineItem{
        item(30000, 1, 0),
        item(50000, 1, 0),
    })
    if err != nil {
        t.Fatalf("ComputeTotals returned error: %v", err)
    }
    if got.SubtotalFils != 80000 {
        t.Fatalf("subtotal = %d, want 80000", got.SubtotalFils)
    }
    if got.VATFils != 4000 {
        t.Fatalf("vat = %d, want 4000", got.VATFils)
    }
    if got.NetFils != 84000 {
        t.Fatalf("net = %d, want 84000", got.NetFils)
    }
    if len(got.ClampedLines) != 0 {
        t.Fatalf("unexpected clamped lines: %v", got.ClampedLines)
    }
}

func TestComputeTotalsEmptyItems(t *testing.T) {
    got, err := pricing.ComputeTotals(nil)
    if err != nil {
        t.Fatalf("ComputeTotals returned error: %v", err)
    }
    if got.SubtotalFils != 0 || got.VATFils != 0 || got.NetFils != 0 {
        t.Fatalf("expected zero totals, got %+v", got)
    }
}

func TestComputeTotalsVATRoundsHalfUp(t *testing.T) {
    cases := []struct {
        name     string
        subtotal int64 // single line producing this subtotal
        wantVAT  int64
    }{
        {"exact", 100, 5},
        {"round down", 129, 6},    // 6.45 -> 6
        {"half rounds up", 130, 7}, // 6.50 -> 7
        {"round up", 131, 7},      // 6.55 -> 7
        {"tiny", 9, 0},            // 0.45 -> 0
        {"tiny half", 10, 1},      // 0.50 -> 1
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            got, err := pricing.ComputeTotals([]model.LineItem{item(tc.subtotal, 1, 0)})
            if err != nil {
                t.Fatalf("ComputeTotals returned error: %v", err)
            }
            if got.VATFils != tc.wantVAT {
                t.Fatalf("vat for subtotal %d = %d, want %d", tc.subtotal, got.VATFils, tc.wantVAT)
            }
            if got.NetFils != got.SubtotalFils+got.VATFils {
                t.Fatalf("net %d != subtotal %d + vat %d", got.NetFils, got.SubtotalFils, got.VATFils)
            }
        })
    }
}

func TestComputeTotalsNetAlwaysSubtotalPlusVAT(t *testing.T) {
    // Sweep a range of subtotals; the identity must hold for every one.
    for sub := int64(0); sub < 1000; sub++ {
        items := []model.LineItem{item(sub, 1, 0)}
        got, err := pricing.ComputeTotals(items)
        if err != nil {
            t.Fatalf("ComputeTotals(%d) returned error: %v", sub, err)
        }
        if got.NetFils != got.SubtotalFils+got.VATFils {
            t.Fatalf("subtotal %d: net %d != %d + %d", sub, got.NetFils, got.SubtotalFils, got.VATFils)
        }
    }
}

func TestComputeTotalsClampsNegativeLines(t *testing.T) {
    got, err := pricing.ComputeTotals([]model.LineItem{
        item(1000, 2, 0),    // 2000
        item(500, 1, 800),   // -300 -> clamped to 0
        item(100, 3, 300),   // exactly 0, not clamped
    })
    if err != nil {
        t.Fatalf("ComputeTotals returned error: %v", err)
    }
    if got.SubtotalFils != 2000 {
        t.Fatalf("subtotal = %d, want 2000", got.SubtotalFils)
    }
    if len(got.ClampedLines) != 1 || got.ClampedLines[0] != 1 {
        t.Fatalf("clamped lines = %v, want [1]", got.ClampedLines)
    }
}

func TestComputeTotalsQuantityMultiplies(t *testing.T) {
    got, err := pricing.ComputeTotals([]model.LineItem{item(2500, 4, 1000)})
    if err != nil {
        t.Fatalf("ComputeTotals returned error: %v", err)
    }
    if got.SubtotalFils != 9000 {
        t.Fatalf("subtotal = %d, want 9000", got.SubtotalFils)
    }
}

func TestComputeTotalsRejectsMalformedLines(t *testing.T) {
    cases := []struct {
        name string
        it   model.LineItem
    }{
        {"zero qty", item(100, 0, 0)},
        {"negative qty", item(100, -1, 0)},
        {"negative price", item(-100, 1, 0)},
        {"negative discount", item(100, 1, -5)},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            _, err := pricing.ComputeTotals([]model.LineItem{item(100, 1, 0), tc.it})
            var verr *pricing.ValidationError
            if !errors.As(err, &verr) {
                t.Fatalf("expected ValidationError, got %v", err)
            }
            if verr.Line != 1 {
                t.Fatalf("error line = %d, want 1", verr.Line)
            }
        })
    }
}
