package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/tuition-onboarding/internal/observability/metrics"
	"github.com/wolfman30/tuition-onboarding/internal/onboarding"
	"github.com/wolfman30/tuition-onboarding/internal/relay"
	"github.com/wolfman30/tuition-onboarding/internal/schedule"
	"github.com/wolfman30/tuition-onboarding/pkg/logging"
)

// OnboardingHandler serves the form API. It keeps no session state; every
// request carries the draft it works on.
type OnboardingHandler struct {
	rules     *onboarding.Rules
	submitter onboarding.Submitter
	metrics   *metrics.OnboardingMetrics
	logger    *logging.Logger
	currency  string
	now       func() time.Time
}

// OnboardingConfig configures the form API handler.
type OnboardingConfig struct {
	Rules     *onboarding.Rules
	Submitter onboarding.Submitter
	Metrics   *metrics.OnboardingMetrics
	Logger    *logging.Logger
	Currency  string
	Now       func() time.Time
}

// NewOnboardingHandler creates the form API handler.
func NewOnboardingHandler(cfg OnboardingConfig) *OnboardingHandler {
	if cfg.Rules == nil {
		cfg.Rules = onboarding.NewRules()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		cfg.Currency = "CHF"
	}
	return &OnboardingHandler{
		rules:     cfg.Rules,
		submitter: cfg.Submitter,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		currency:  cfg.Currency,
		now:       cfg.Now,
	}
}

// SessionResponse describes where a form session stands.
type SessionResponse struct {
	Draft      *onboarding.Draft   `json:"draft"`
	ActiveStep onboarding.StepID   `json:"activeStep"`
	Position   int                 `json:"position"`
	StepCount  int                 `json:"stepCount"`
	IsLast     bool                `json:"isLast"`
	Steps      []onboarding.Step   `json:"steps"`
	Failures   onboarding.Failures `json:"failures"`
}

func sessionResponse(w *onboarding.Wizard, failures onboarding.Failures) SessionResponse {
	position, count := w.Position()
	if failures == nil {
		failures = onboarding.Failures{}
	}
	return SessionResponse{
		Draft:      w.Draft,
		ActiveStep: w.Active,
		Position:   position,
		StepCount:  count,
		IsLast:     w.IsLast(),
		Steps:      w.Sequence(),
		Failures:   failures,
	}
}

// NewDraft returns a default draft positioned on the first step.
// GET /api/onboarding/draft
func (h *OnboardingHandler) NewDraft(w http.ResponseWriter, r *http.Request) {
	wizard := onboarding.NewWizard(onboarding.NewDraft(h.now()))
	writeJSON(w, http.StatusOK, sessionResponse(wizard, nil))
}

type draftRequest struct {
	Draft *onboarding.Draft `json:"draft"`
}

// Steps lists the sections included for the draft's client type.
// POST /api/onboarding/steps
func (h *OnboardingHandler) Steps(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err.Error(), decodeStatus(err))
		return
	}
	ct := onboarding.ClientPrivate
	if req.Draft != nil {
		ct = req.Draft.Settings.ClientType
	}
	writeJSON(w, http.StatusOK, map[string]any{"steps": onboarding.Steps(ct)})
}

// NavigateRequest moves a session one step or changes its client type.
type NavigateRequest struct {
	Draft      *onboarding.Draft     `json:"draft"`
	ActiveStep onboarding.StepID     `json:"activeStep"`
	Action     string                `json:"action"`
	ClientType onboarding.ClientType `json:"clientType,omitempty"`
}

// Navigate applies next, prev or clientType to the session.
// POST /api/onboarding/navigate
func (h *OnboardingHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err.Error(), decodeStatus(err))
		return
	}
	if req.Draft == nil {
		jsonError(w, "draft is required", http.StatusBadRequest)
		return
	}

	wizard := onboarding.Resume(req.Draft, req.ActiveStep)
	switch req.Action {
	case "next":
		err := wizard.Next(h.rules)
		var failures onboarding.Failures
		switch {
		case errors.As(err, &failures):
			h.metrics.ObserveValidationFailure(string(wizard.Active))
			writeJSON(w, http.StatusUnprocessableEntity, sessionResponse(wizard, failures))
			return
		case errors.Is(err, onboarding.ErrLastStep):
			jsonError(w, err.Error(), http.StatusConflict)
			return
		}
	case "prev":
		wizard.Prev()
	case "clientType":
		if !req.ClientType.Valid() {
			jsonError(w, "clientType must be private or business", http.StatusBadRequest)
			return
		}
		wizard.SetClientType(req.ClientType)
	default:
		jsonError(w, "action must be next, prev or clientType", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(wizard, nil))
}

// ValidateRequest checks one step, or the whole draft when Step is empty.
type ValidateRequest struct {
	Draft *onboarding.Draft `json:"draft"`
	Step  onboarding.StepID `json:"step,omitempty"`
}

// Validate reports the failures of a step or of the whole draft.
// POST /api/onboarding/validate
func (h *OnboardingHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err.Error(), decodeStatus(err))
		return
	}
	if req.Draft == nil {
		jsonError(w, "draft is required", http.StatusBadRequest)
		return
	}

	var failures onboarding.Failures
	if req.Step != "" {
		failures = h.rules.ValidateStep(req.Draft, req.Step)
	} else {
		failures = h.rules.Validate(req.Draft)
	}
	if len(failures) > 0 {
		label := string(req.Step)
		if label == "" {
			label = "all"
		}
		h.metrics.ObserveValidationFailure(label)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"valid": false, "failures": failures})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "failures": onboarding.Failures{}})
}

// TotalsRequest carries the inputs of the live totals summary.
type TotalsRequest struct {
	Lessons  []onboarding.LessonLine `json:"lessons"`
	Discount float64                 `json:"discount"`
}

// Totals computes the live summary.
// POST /api/onboarding/totals
func (h *OnboardingHandler) Totals(w http.ResponseWriter, r *http.Request) {
	var req TotalsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err.Error(), decodeStatus(err))
		return
	}
	totals := onboarding.ComputeTotals(req.Lessons, req.Discount)
	writeJSON(w, http.StatusOK, totals.Preview(req.Discount, h.currency))
}

// AddSlotRequest appends a candidate slot to an encoded schedule.
type AddSlotRequest struct {
	Schedule  string             `json:"schedule"`
	Candidate schedule.Candidate `json:"candidate"`
}

// ScheduleResponse is an encoded schedule together with its decoded slots.
type ScheduleResponse struct {
	Schedule string          `json:"schedule"`
	Slots    []schedule.Slot `json:"slots"`
}

type slotRefusal struct {
	Reason   schedule.Reason `json:"reason"`
	Message  string          `json:"message"`
	Conflict string          `json:"conflict,omitempty"`
	Schedule string          `json:"schedule"`
}

func scheduleResponse(slots []schedule.Slot) ScheduleResponse {
	if slots == nil {
		slots = []schedule.Slot{}
	}
	return ScheduleResponse{Schedule: schedule.Serialize(slots), Slots: slots}
}

// AddSlot adds a slot unless it is invalid or overlaps an existing one.
// POST /api/onboarding/schedule/slots
func (h *OnboardingHandler) AddSlot(w http.ResponseWriter, r *http.Request) {
	var req AddSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err.Error(), decodeStatus(err))
		return
	}
	existing, err := schedule.Parse(req.Schedule)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	slots, err := schedule.Add(existing, req.Candidate)
	var slotErr *schedule.SlotError
	if errors.As(err, &slotErr) {
		refusal := slotRefusal{
			Reason:   slotErr.Reason,
			Message:  slotErr.Message(),
			Schedule: req.Schedule,
		}
		if slotErr.Reason == schedule.ReasonOverlap {
			refusal.Conflict = slotErr.Conflict.String()
		}
		writeJSON(w, http.StatusUnprocessableEntity, refusal)
		return
	}
	writeJSON(w, http.StatusOK, scheduleResponse(slots))
}

// RemoveSlotRequest removes the slot at Index from an encoded schedule.
type RemoveSlotRequest struct {
	Schedule string `json:"schedule"`
	Index    int    `json:"index"`
}

// RemoveSlot drops one slot; an out-of-range index changes nothing.
// POST /api/onboarding/schedule/slots/remove
func (h *OnboardingHandler) RemoveSlot(w http.ResponseWriter, r *http.Request) {
	var req RemoveSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err.Error(), decodeStatus(err))
		return
	}
	existing, err := schedule.Parse(req.Schedule)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, scheduleResponse(schedule.Remove(existing, req.Index)))
}

// SubmitRequest finalises a draft. ActiveStep defaults to the last step;
// SubmissionKey overrides the draft id used to detect duplicate submissions.
type SubmitRequest struct {
	Draft         *onboarding.Draft `json:"draft"`
	ActiveStep    onboarding.StepID `json:"activeStep,omitempty"`
	SubmissionKey string            `json:"submissionKey,omitempty"`
}

// Submit validates the whole draft and forwards it to the automation service.
// POST /api/onboarding/submit
func (h *OnboardingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err.Error(), decodeStatus(err))
		return
	}
	if req.Draft == nil {
		jsonError(w, "draft is required", http.StatusBadRequest)
		return
	}
	if key := strings.TrimSpace(req.SubmissionKey); key != "" {
		req.Draft.ID = key
	}

	wizard := onboarding.Resume(req.Draft, req.ActiveStep)
	if req.ActiveStep == "" {
		seq := wizard.Sequence()
		wizard.Active = seq[len(seq)-1].ID
	}

	receipt, err := wizard.Submit(r.Context(), h.rules, h.submitter)
	if err != nil {
		h.writeSubmitError(w, wizard, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "receipt": receipt})
}

func (h *OnboardingHandler) writeSubmitError(w http.ResponseWriter, wizard *onboarding.Wizard, err error) {
	var failures onboarding.Failures
	var upstream *relay.UpstreamError
	switch {
	case errors.As(err, &failures):
		h.metrics.ObserveValidationFailure(string(wizard.Active))
		writeJSON(w, http.StatusUnprocessableEntity, sessionResponse(wizard, failures))
	case errors.Is(err, onboarding.ErrNotLastStep):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, relay.ErrSubmissionInFlight):
		jsonError(w, "This contract is already being submitted.", http.StatusConflict)
	case errors.Is(err, relay.ErrNotConfigured), errors.Is(err, onboarding.ErrNoSubmitter):
		jsonError(w, "Server configuration error.", http.StatusInternalServerError)
	case errors.As(err, &upstream):
		jsonError(w, "Failed to submit to n8n.", http.StatusBadGateway)
	default:
		h.logger.Error("submission failed", "draft_id", wizard.Draft.ID, "error", err)
		jsonError(w, "Failed to submit to n8n.", http.StatusBadGateway)
	}
}
