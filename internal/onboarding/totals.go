package onboarding

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals are derived from the lesson lines and the global discount. They are
// never stored; call ComputeTotals after every change to either input.
type Totals struct {
	TotalHours     decimal.Decimal
	Gross          decimal.Decimal
	DiscountAmount decimal.Decimal
	// Net is the precise total shown in the live preview.
	Net decimal.Decimal
	// Rounded is Net rounded to whole currency units. It is the value sent
	// to the automation service as calculatedTotalValue.
	Rounded int64
}

// ComputeTotals sums hours × price over every line and applies discountPercent.
// Non-finite inputs count as zero, matching an empty number input.
func ComputeTotals(lessons []LessonLine, discountPercent float64) Totals {
	hours := decimal.Zero
	gross := decimal.Zero
	for _, line := range lessons {
		h := amount(line.TotalHours)
		hours = hours.Add(h)
		gross = gross.Add(h.Mul(amount(line.PricePerHour)))
	}
	discountAmount := gross.Mul(amount(discountPercent)).Div(hundred)
	net := gross.Sub(discountAmount)
	return Totals{
		TotalHours:     hours,
		Gross:          gross,
		DiscountAmount: discountAmount,
		Net:            net,
		Rounded:        net.Round(0).IntPart(),
	}
}

// TotalsFor computes the totals of a draft.
func TotalsFor(d *Draft) Totals {
	if d == nil {
		return ComputeTotals(nil, 0)
	}
	return ComputeTotals(d.Lessons, d.Discount)
}

// HasPreview is false when nothing priced has been entered yet; the summary
// is hidden but zero stays a valid total.
func (t Totals) HasPreview() bool {
	return !t.Gross.IsZero()
}

// RoundingDelta is the difference between the submitted and the displayed total.
func (t Totals) RoundingDelta() decimal.Decimal {
	return decimal.NewFromInt(t.Rounded).Sub(t.Net)
}

// Preview is the JSON shape of the live totals summary.
type Preview struct {
	HasPreview      bool    `json:"hasPreview"`
	TotalHours      float64 `json:"totalHours"`
	Gross           string  `json:"gross"`
	DiscountPercent float64 `json:"discountPercent"`
	DiscountAmount  string  `json:"discountAmount"`
	Net             string  `json:"net"`
	Submitted       int64   `json:"submittedTotal"`
	Currency        string  `json:"currency"`
}

// Preview formats the totals with two decimals, the way the summary renders them.
func (t Totals) Preview(discountPercent float64, currency string) Preview {
	return Preview{
		HasPreview:      t.HasPreview(),
		TotalHours:      t.TotalHours.InexactFloat64(),
		Gross:           t.Gross.StringFixed(2),
		DiscountPercent: discountPercent,
		DiscountAmount:  t.DiscountAmount.StringFixed(2),
		Net:             t.Net.StringFixed(2),
		Submitted:       t.Rounded,
		Currency:        currency,
	}
}

func amount(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
