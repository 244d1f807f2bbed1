// Package submission maps a completed contract draft onto the flat payload
// the contract automation expects and hands it to the relay.
package submission

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wolfman30/tuition-onboarding/internal/onboarding"
	"github.com/wolfman30/tuition-onboarding/internal/schedule"
)

// ErrNilDraft is returned when there is nothing to assemble.
var ErrNilDraft = errors.New("submission: draft required")

// DefaultCurrency is used when the assembler is built without one.
const DefaultCurrency = "CHF"

// Assembler builds payloads. It performs no network I/O.
type Assembler struct {
	currency string
	render   *renderer
}

// NewAssembler creates an assembler that labels amounts with currency.
func NewAssembler(currency string) *Assembler {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Assembler{currency: currency, render: newRenderer()}
}

// Currency returns the label used for amounts.
func (a *Assembler) Currency() string {
	return a.currency
}

// Assemble flattens d into the webhook envelope. The draft itself is not modified.
func (a *Assembler) Assemble(d *onboarding.Draft) (*Envelope, error) {
	if d == nil {
		return nil, ErrNilDraft
	}
	d = d.Clone()
	d.Normalize()

	totals := onboarding.TotalsFor(d)
	p := &Payload{
		DraftID:      d.ID,
		Language:     string(d.Settings.Language),
		Source:       string(d.Settings.Source),
		ContractDate: d.Settings.ContractDate,
		ClientType:   string(d.Settings.ClientType),

		FirstName: d.Client.FirstName,
		LastName:  d.Client.LastName,
		Email:     d.Client.Email,
		Phone:     d.Client.Phone,

		AddrStreet:  d.Client.Address.Street,
		AddrHouse:   d.Client.Address.House,
		AddrApt:     d.Client.Address.Apt,
		AddrCity:    d.Client.Address.City,
		AddrZip:     d.Client.Address.Zip,
		AddrState:   d.Client.Address.State,
		AddrCountry: d.Client.Address.Country,

		Program:    d.Course.Program,
		CourseLang: string(d.Course.Language),
		Level:      strings.Join(d.Course.Levels, ", "),
		Discount:   d.Discount,

		TotalHours:           totals.TotalHours.InexactFloat64(),
		GrossTotal:           totals.Gross.StringFixed(2),
		DiscountAmount:       totals.DiscountAmount.StringFixed(2),
		NetTotal:             totals.Net.StringFixed(2),
		CalculatedTotalValue: totals.Rounded,
		Currency:             a.currency,

		CourseStart: d.Billing.CourseStart,
		CourseEnd:   d.Billing.CourseEnd,
		ValidUntil:  d.Billing.ValidUntil,
	}

	address, err := a.render.render("address", addressTemplate, d.Client.Address)
	if err != nil {
		return nil, err
	}
	p.Address = address

	if d.IsBusiness() {
		p.CompanyName = d.Company.Name
		p.CompStreet = d.Company.Address.Street
		p.CompHouse = d.Company.Address.House
		p.CompApt = d.Company.Address.Apt
		p.CompCity = d.Company.Address.City
		p.CompZip = d.Company.Address.Zip
		p.CompState = d.Company.Address.State
		p.CompCountry = d.Company.Address.Country
		companyAddress, err := a.render.render("address", addressTemplate, d.Company.Address)
		if err != nil {
			return nil, err
		}
		p.CompanyAddress = companyAddress
	}

	if err := a.lessons(p, d.Lessons); err != nil {
		return nil, err
	}
	if err := a.payments(p, d.Billing.Payments, totals.Rounded); err != nil {
		return nil, err
	}
	p.LegacyInstallments = legacyInstallments(d.Billing.Payments, totals.Rounded)

	return &Envelope{Body: p}, nil
}

func (a *Assembler) lessons(p *Payload, lines []onboarding.LessonLine) error {
	p.Lessons = make([]LessonPayload, 0, len(lines))
	types := make([]string, 0, len(lines))
	formats := make([]string, 0, len(lines))
	scheduleLines := make([]string, 0, len(lines))

	for i, line := range lines {
		slots, err := schedule.Parse(line.Schedule)
		if err != nil {
			return fmt.Errorf("submission: lesson %d: %w", i+1, err)
		}
		encoded := schedule.Serialize(slots)
		lineTotal := decimal.NewFromFloat(line.TotalHours).Mul(decimal.NewFromFloat(line.PricePerHour))

		p.Lessons = append(p.Lessons, LessonPayload{
			Type:         string(line.Type),
			Format:       string(line.Format),
			TotalHours:   line.TotalHours,
			PricePerHour: line.PricePerHour,
			Schedule:     encoded,
			LineTotal:    lineTotal.InexactFloat64(),
		})
		types = append(types, string(line.Type))
		formats = append(formats, string(line.Format))

		text, err := a.render.render("schedule_line", scheduleLineTemplate, map[string]string{
			"Type":     string(line.Type),
			"Hours":    formatNumber(line.TotalHours),
			"Schedule": encoded,
		})
		if err != nil {
			return err
		}
		scheduleLines = append(scheduleLines, text)
	}

	p.LessonType = strings.Join(types, " + ")
	p.HoursPerLesson = strings.Join(formats, " / ")
	p.ScheduleText = strings.Join(scheduleLines, "\n")
	if len(lines) > 0 {
		p.PricePerHour = lines[0].PricePerHour
	}
	return nil
}

// payments lists the entered plan rows. The first row's amount falls back to
// the calculated total when left empty, like the numbered legacy field.
func (a *Assembler) payments(p *Payload, rows []onboarding.Installment, total int64) error {
	p.Payments = make([]InstallmentPayload, 0, len(rows))
	planLines := make([]string, 0, len(rows))
	paid := decimal.Zero

	for i, row := range rows {
		if !row.Entered() {
			continue
		}
		amount := decimal.Zero
		if row.Amount != nil {
			amount = decimal.NewFromFloat(*row.Amount)
		}
		if i == 0 && amount.IsZero() {
			amount = decimal.NewFromInt(total)
		}
		paid = paid.Add(amount)
		p.Payments = append(p.Payments, InstallmentPayload{Date: row.Date, Amount: amount.InexactFloat64()})

		line, err := a.render.render("installment", installmentTemplate, map[string]string{
			"Date":     row.Date,
			"Amount":   amount.StringFixed(2),
			"Currency": a.currency,
		})
		if err != nil {
			return err
		}
		planLines = append(planLines, line)
	}

	p.PaymentPlanString = strings.Join(planLines, "\n")
	p.RemainingAmount = decimal.NewFromInt(total).Sub(paid).InexactFloat64()
	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
