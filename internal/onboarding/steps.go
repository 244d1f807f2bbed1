package onboarding

import (
	"context"
	"errors"
)

// StepID is the stable identity of a form section. The active step is stored
// by identity so a changing sequence never silently moves the user.
type StepID string

const (
	StepSettings StepID = "settings"
	StepClient   StepID = "client"
	StepCompany  StepID = "company"
	StepCourse   StepID = "course"
	StepBilling  StepID = "billing"
)

var (
	// ErrNotLastStep is returned when submit is attempted before the final step.
	ErrNotLastStep = errors.New("onboarding: submit is only available on the last step")
	// ErrLastStep is returned by Next on the final step; use Submit instead.
	ErrLastStep = errors.New("onboarding: already on the last step")
	// ErrNoSubmitter is returned when Submit is called without a submitter.
	ErrNoSubmitter = errors.New("onboarding: submitter required")
)

// Step describes one section of the form.
type Step struct {
	ID          StepID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	include func(ClientType) bool
}

func always(ClientType) bool { return true }

func businessOnly(ct ClientType) bool { return ct == ClientBusiness }

var allSteps = []Step{
	{ID: StepSettings, Title: "Initial Settings", Description: "Language, source & client type", include: always},
	{ID: StepClient, Title: "Client Details", Description: "Personal information & address", include: always},
	{ID: StepCompany, Title: "Company Details", Description: "Company name & address", include: businessOnly},
	{ID: StepCourse, Title: "Course Details", Description: "Program & scheduling", include: always},
	{ID: StepBilling, Title: "Billing & Dates", Description: "Payments & validity", include: always},
}

// Steps returns the sections shown for the given client type, in order.
func Steps(ct ClientType) []Step {
	out := make([]Step, 0, len(allSteps))
	for _, step := range allSteps {
		if step.include(ct) {
			out = append(out, step)
		}
	}
	return out
}

// FieldsForStep returns the inputs that must validate before leaving step.
func FieldsForStep(step StepID, d *Draft) []FieldPath {
	switch step {
	case StepSettings:
		return []FieldPath{"settings.language", "settings.source", "settings.contractDate", "settings.clientType"}
	case StepClient:
		return []FieldPath{
			"client.firstName", "client.lastName", "client.email", "client.phone",
			"client.address.street", "client.address.house", "client.address.city",
			"client.address.zip", "client.address.state", "client.address.country",
		}
	case StepCompany:
		if d == nil || !d.IsBusiness() {
			return nil
		}
		return []FieldPath{
			"company.name", "company.address.street", "company.address.house",
			"company.address.city", "company.address.zip", "company.address.state",
			"company.address.country",
		}
	case StepCourse:
		return []FieldPath{"course.courseLang", "course.levels", "course.program", "discount", "lessons"}
	case StepBilling:
		return []FieldPath{"billing.courseStart", "billing.courseEnd", "billing.validUntil", "billing.payments"}
	}
	return nil
}

// Receipt is returned once the automation service accepted a submission.
type Receipt struct {
	DraftID string `json:"draftId"`
	Total   int64  `json:"calculatedTotalValue"`
}

// Submitter assembles and forwards a validated draft.
type Submitter interface {
	Submit(ctx context.Context, d *Draft) (*Receipt, error)
}

// Wizard is the step controller for one form session.
type Wizard struct {
	Draft  *Draft
	Active StepID
}

// NewWizard starts a session on the first step.
func NewWizard(d *Draft) *Wizard {
	w := &Wizard{Draft: d}
	w.Active = w.first()
	return w
}

// Resume restores a session on a previously active step. A step that is not
// part of the current sequence resets the session to the first step.
func Resume(d *Draft, active StepID) *Wizard {
	w := &Wizard{Draft: d, Active: active}
	if w.Index() < 0 {
		w.Active = w.first()
	}
	return w
}

// Sequence returns the steps included for the draft's current client type.
func (w *Wizard) Sequence() []Step {
	return Steps(w.clientType())
}

// Index is the position of the active step in the sequence, or -1.
func (w *Wizard) Index() int {
	for i, step := range w.Sequence() {
		if step.ID == w.Active {
			return i
		}
	}
	return -1
}

// Current returns the active step.
func (w *Wizard) Current() Step {
	seq := w.Sequence()
	if i := w.Index(); i >= 0 {
		return seq[i]
	}
	return seq[0]
}

// Position returns the 1-based number of the active step and the step count.
func (w *Wizard) Position() (int, int) {
	return w.Index() + 1, len(w.Sequence())
}

// IsLast reports whether the active step is the final included step.
func (w *Wizard) IsLast() bool {
	i := w.Index()
	return i >= 0 && i == len(w.Sequence())-1
}

// Next validates the active step and advances when it passes. On failure the
// session stays put and every failure of the step is returned.
func (w *Wizard) Next(rules *Rules) error {
	if failures := rules.ValidateStep(w.Draft, w.Active); len(failures) > 0 {
		return failures
	}
	if w.IsLast() {
		return ErrLastStep
	}
	w.Active = w.Sequence()[w.Index()+1].ID
	return nil
}

// Prev moves back one step without validation, stopping at the first step.
func (w *Wizard) Prev() {
	if i := w.Index(); i > 0 {
		w.Active = w.Sequence()[i-1].ID
	}
}

// SetClientType changes the client type. When the active step drops out of
// the new sequence the session restarts at the first step instead of
// clamping to a neighbour whose meaning differs.
func (w *Wizard) SetClientType(ct ClientType) {
	w.Draft.Settings.ClientType = ct
	if w.Index() < 0 {
		w.Active = w.first()
	}
}

// Submit validates the final step, then the whole draft, and hands it to s.
func (w *Wizard) Submit(ctx context.Context, rules *Rules, s Submitter) (*Receipt, error) {
	if !w.IsLast() {
		return nil, ErrNotLastStep
	}
	if s == nil {
		return nil, ErrNoSubmitter
	}
	if failures := rules.ValidateStep(w.Draft, w.Active); len(failures) > 0 {
		return nil, failures
	}
	if failures := rules.Validate(w.Draft); len(failures) > 0 {
		return nil, failures
	}
	return s.Submit(ctx, w.Draft)
}

func (w *Wizard) first() StepID {
	return w.Sequence()[0].ID
}

func (w *Wizard) clientType() ClientType {
	if w.Draft == nil {
		return ClientPrivate
	}
	return w.Draft.Settings.ClientType
}
