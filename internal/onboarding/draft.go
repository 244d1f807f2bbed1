// Package onboarding holds the contract draft collected by the multi-step
// onboarding form together with the rules that gate each step, the step
// controller, and the totals calculator.
package onboarding

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the ISO date format emitted by the form's date inputs.
const DateLayout = "2006-01-02"

type Language string

const (
	LanguageEnglish Language = "English"
	LanguageGerman  Language = "German"
)

func (l Language) Valid() bool { return l == LanguageEnglish || l == LanguageGerman }

type Source string

const (
	SourceWebsite        Source = "Website"
	SourceRecommendation Source = "Recommendation"
)

func (s Source) Valid() bool { return s == SourceWebsite || s == SourceRecommendation }

type ClientType string

const (
	ClientPrivate  ClientType = "private"
	ClientBusiness ClientType = "business"
)

func (c ClientType) Valid() bool { return c == ClientPrivate || c == ClientBusiness }

type CourseLanguage string

const (
	CourseGerman  CourseLanguage = "German"
	CourseSpanish CourseLanguage = "Spanish"
)

func (c CourseLanguage) Valid() bool { return c == CourseGerman || c == CourseSpanish }

type LessonType string

const (
	LessonOnline LessonType = "Online Lessons"
	LessonLive   LessonType = "Live Lessons"
)

func (t LessonType) Valid() bool { return t == LessonOnline || t == LessonLive }

// LessonFormat is the length of a single lesson in minutes, as offered by the form.
type LessonFormat string

const (
	Format45  LessonFormat = "45"
	Format60  LessonFormat = "60"
	Format90  LessonFormat = "90"
	Format120 LessonFormat = "120"
)

func (f LessonFormat) Valid() bool {
	switch f {
	case Format45, Format60, Format90, Format120:
		return true
	}
	return false
}

// Levels are the CEFR levels a course can cover.
var Levels = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

const (
	DefaultCountry = "Switzerland"
	DefaultProgram = "Private tuition"
)

type Address struct {
	Street  string `json:"street" validate:"notblank"`
	House   string `json:"house" validate:"notblank"`
	Apt     string `json:"apt,omitempty"`
	City    string `json:"city" validate:"notblank"`
	Zip     string `json:"zip" validate:"notblank"`
	State   string `json:"state" validate:"notblank"`
	Country string `json:"country" validate:"notblank"`
}

// Empty reports whether no part of the address was entered.
func (a Address) Empty() bool {
	return a.Street == "" && a.House == "" && a.Apt == "" && a.City == "" &&
		a.Zip == "" && a.State == "" && a.Country == ""
}

type Settings struct {
	Language     Language   `json:"language" validate:"enum"`
	Source       Source     `json:"source" validate:"enum"`
	ContractDate string     `json:"contractDate" validate:"notblank,isodate"`
	ClientType   ClientType `json:"clientType" validate:"enum"`
}

type Client struct {
	FirstName string  `json:"firstName" validate:"notblank"`
	LastName  string  `json:"lastName" validate:"notblank"`
	Email     string  `json:"email" validate:"email"`
	Phone     string  `json:"phone" validate:"notblank"`
	Address   Address `json:"address"`
}

// Company is only required for business clients. Its rules live in the
// struct-level validation so they can depend on the client type.
type Company struct {
	Name    string  `json:"name"`
	Address Address `json:"address" validate:"-"`
}

type Course struct {
	Language CourseLanguage `json:"courseLang" validate:"enum"`
	Levels   []string       `json:"levels" validate:"min=1,unique,dive,oneof=A1 A2 B1 B2 C1 C2"`
	Program  string         `json:"program"`
}

// LessonLine is one priced offering of the contract. Schedule holds the
// encoded slot list; decode it with schedule.Parse.
type LessonLine struct {
	Type         LessonType   `json:"type" validate:"enum"`
	Format       LessonFormat `json:"format" validate:"enum"`
	TotalHours   float64      `json:"totalHours" validate:"gte=1"`
	PricePerHour float64      `json:"pricePerHour" validate:"gte=1"`
	Schedule     string       `json:"schedule" validate:"notblank"`
}

// Installment is one row of the payment plan. A nil Amount was left empty.
type Installment struct {
	Date   string   `json:"date"`
	Amount *float64 `json:"amount,omitempty"`
}

// Entered reports whether either column of the row was filled in.
func (i Installment) Entered() bool {
	return strings.TrimSpace(i.Date) != "" || i.Amount != nil
}

type Billing struct {
	CourseStart string        `json:"courseStart" validate:"notblank,isodate"`
	CourseEnd   string        `json:"courseEnd" validate:"notblank,isodate"`
	ValidUntil  string        `json:"validUntil" validate:"notblank,isodate"`
	Payments    []Installment `json:"payments" validate:"min=1"`
}

// Draft is the in-progress contract form state for one form session.
type Draft struct {
	ID       string       `json:"id"`
	Settings Settings     `json:"settings"`
	Client   Client       `json:"client"`
	Company  Company      `json:"company"`
	Course   Course       `json:"course"`
	Lessons  []LessonLine `json:"lessons" validate:"min=1,dive"`
	Discount float64      `json:"discount" validate:"gte=0,lte=100"`
	Billing  Billing      `json:"billing"`
}

// NewDraft returns a draft with the defaults the form starts from.
func NewDraft(now time.Time) *Draft {
	return &Draft{
		ID: uuid.NewString(),
		Settings: Settings{
			Language:     LanguageEnglish,
			Source:       SourceWebsite,
			ContractDate: now.Format(DateLayout),
			ClientType:   ClientPrivate,
		},
		Client: Client{
			Address: Address{Country: DefaultCountry},
		},
		Course: Course{
			Language: CourseGerman,
			Levels:   []string{},
			Program:  DefaultProgram,
		},
		Lessons: []LessonLine{NewLessonLine()},
		Billing: Billing{
			Payments: make([]Installment, 3),
		},
	}
}

// NewLessonLine is the row appended by "Add another lesson type".
func NewLessonLine() LessonLine {
	return LessonLine{Type: LessonOnline, Format: Format60}
}

// IsBusiness reports whether company details are part of the draft.
func (d *Draft) IsBusiness() bool {
	return d.Settings.ClientType == ClientBusiness
}

// Normalize trims free text and removes repeated levels. It never drops entered data.
func (d *Draft) Normalize() {
	d.Settings.ContractDate = strings.TrimSpace(d.Settings.ContractDate)
	d.Client.FirstName = strings.TrimSpace(d.Client.FirstName)
	d.Client.LastName = strings.TrimSpace(d.Client.LastName)
	d.Client.Email = strings.TrimSpace(d.Client.Email)
	d.Client.Phone = strings.TrimSpace(d.Client.Phone)
	d.Client.Address = trimAddress(d.Client.Address)
	d.Company.Name = strings.TrimSpace(d.Company.Name)
	d.Company.Address = trimAddress(d.Company.Address)
	d.Course.Program = strings.TrimSpace(d.Course.Program)
	if d.Course.Program == "" {
		d.Course.Program = DefaultProgram
	}

	seen := make(map[string]bool, len(d.Course.Levels))
	levels := make([]string, 0, len(d.Course.Levels))
	for _, level := range d.Course.Levels {
		level = strings.ToUpper(strings.TrimSpace(level))
		if level == "" || seen[level] {
			continue
		}
		seen[level] = true
		levels = append(levels, level)
	}
	d.Course.Levels = levels

	for i := range d.Lessons {
		d.Lessons[i].Schedule = strings.TrimSpace(d.Lessons[i].Schedule)
	}
	d.Billing.CourseStart = strings.TrimSpace(d.Billing.CourseStart)
	d.Billing.CourseEnd = strings.TrimSpace(d.Billing.CourseEnd)
	d.Billing.ValidUntil = strings.TrimSpace(d.Billing.ValidUntil)
	for i := range d.Billing.Payments {
		d.Billing.Payments[i].Date = strings.TrimSpace(d.Billing.Payments[i].Date)
	}
}

func trimAddress(a Address) Address {
	return Address{
		Street:  strings.TrimSpace(a.Street),
		House:   strings.TrimSpace(a.House),
		Apt:     strings.TrimSpace(a.Apt),
		City:    strings.TrimSpace(a.City),
		Zip:     strings.TrimSpace(a.Zip),
		State:   strings.TrimSpace(a.State),
		Country: strings.TrimSpace(a.Country),
	}
}

// ParseDate parses a form date; ok is false for empty or invalid input.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Clone returns a deep copy so callers can normalize without touching the session draft.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	out := *d
	out.Course.Levels = append([]string(nil), d.Course.Levels...)
	out.Lessons = append([]LessonLine(nil), d.Lessons...)
	out.Billing.Payments = make([]Installment, len(d.Billing.Payments))
	for i, p := range d.Billing.Payments {
		out.Billing.Payments[i] = p
		if p.Amount != nil {
			amount := *p.Amount
			out.Billing.Payments[i].Amount = &amount
		}
	}
	return &out
}
