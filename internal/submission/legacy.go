package submission

import (
	"github.com/wolfman30/tuition-onboarding/internal/onboarding"
)

// LegacyInstallments keeps the numbered payment fields older automation
// flows read. Delete this file once every flow consumes Payload.Payments.
type LegacyInstallments struct {
	Pay1Date   string   `json:"pay1Date"`
	Pay1Amount *float64 `json:"pay1Amount,omitempty"`
	Pay2Date   string   `json:"pay2Date"`
	Pay2Amount *float64 `json:"pay2Amount,omitempty"`
	Pay3Date   string   `json:"pay3Date"`
	Pay3Amount *float64 `json:"pay3Amount,omitempty"`
}

// legacyInstallments maps the first three plan rows onto the numbered fields.
// An empty or zero first amount falls back to the calculated total so a
// single full payment needs no manual amount.
func legacyInstallments(payments []onboarding.Installment, total int64) LegacyInstallments {
	var rows [3]onboarding.Installment
	copy(rows[:], payments)

	out := LegacyInstallments{
		Pay1Date:   rows[0].Date,
		Pay1Amount: rows[0].Amount,
		Pay2Date:   rows[1].Date,
		Pay2Amount: rows[1].Amount,
		Pay3Date:   rows[2].Date,
		Pay3Amount: rows[2].Amount,
	}
	if out.Pay1Amount == nil || *out.Pay1Amount == 0 {
		fallback := float64(total)
		out.Pay1Amount = &fallback
	}
	return out
}
