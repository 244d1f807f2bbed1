package onboarding

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/wolfman30/tuition-onboarding/internal/schedule"
)

// Tags reported by the struct-level rules.
const (
	tagBusinessRequired = "business_required"
	tagAfterStart       = "after_course_start"
	tagAfterEnd         = "after_course_end"
	tagSchedule         = "schedule"
	tagInstallmentDate  = "installment_date"
	tagInstallmentAmt   = "installment_amount"
	tagNegativeAmount   = "installment_negative"
)

type validEnum interface {
	Valid() bool
}

// Rules is the declarative rule set for a Draft. It is safe for concurrent use.
type Rules struct {
	validate *validator.Validate
}

// NewRules builds the validator with the form's custom tags and cross-field rules.
func NewRules() *Rules {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "notblank", validators.NotBlank)
	// email is judged on the trimmed value, the same text Normalize submits.
	plain := validator.New()
	mustRegister(v, "email", func(fl validator.FieldLevel) bool {
		return plain.Var(strings.TrimSpace(fl.Field().String()), "email") == nil
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		_, ok := ParseDate(fl.Field().String())
		return ok
	})
	mustRegister(v, "enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(validEnum)
		return ok && e.Valid()
	})
	v.RegisterStructValidation(draftRules, Draft{})
	return &Rules{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("onboarding: register %s: %v", tag, err))
	}
}

// Validate checks the whole draft and returns the failures that fall under paths.
// With no paths every failure is returned. A nil result means valid.
func (r *Rules) Validate(d *Draft, paths ...FieldPath) Failures {
	if d == nil {
		return Failures{{Path: "", Message: "Form data is missing."}}
	}
	err := r.validate.Struct(d)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Failures{{Path: "", Message: err.Error()}}
	}
	failures := make(Failures, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := namespacePath(fe.Namespace())
		failures = append(failures, Failure{Path: path, Message: message(path, fe.Tag(), fe.Param())})
	}
	return failures.Within(paths)
}

// ValidateStep checks only the inputs shown on the given step.
func (r *Rules) ValidateStep(d *Draft, step StepID) Failures {
	return r.Validate(d, FieldsForStep(step, d)...)
}

// draftRules holds the invariants that span several fields.
func draftRules(sl validator.StructLevel) {
	d, ok := sl.Current().Interface().(Draft)
	if !ok {
		return
	}

	if d.IsBusiness() {
		required := []struct {
			value string
			path  string
		}{
			{d.Company.Name, "company.name"},
			{d.Company.Address.Street, "company.address.street"},
			{d.Company.Address.House, "company.address.house"},
			{d.Company.Address.City, "company.address.city"},
			{d.Company.Address.Zip, "company.address.zip"},
			{d.Company.Address.Country, "company.address.country"},
		}
		for _, field := range required {
			if strings.TrimSpace(field.value) == "" {
				sl.ReportError(field.value, field.path, field.path, tagBusinessRequired, "")
			}
		}
	}

	start, startOK := ParseDate(d.Billing.CourseStart)
	end, endOK := ParseDate(d.Billing.CourseEnd)
	if startOK && endOK && !end.After(start) {
		sl.ReportError(d.Billing.CourseEnd, "billing.courseEnd", "CourseEnd", tagAfterStart, "")
	}
	validUntil, validOK := ParseDate(d.Billing.ValidUntil)
	if endOK && validOK && !validUntil.After(end) {
		sl.ReportError(d.Billing.ValidUntil, "billing.validUntil", "ValidUntil", tagAfterEnd, "")
	}

	for i, line := range d.Lessons {
		if strings.TrimSpace(line.Schedule) == "" {
			continue
		}
		slots, err := schedule.Parse(line.Schedule)
		if err == nil {
			err = schedule.Check(slots)
		}
		if err != nil {
			path := fmt.Sprintf("lessons[%d].schedule", i)
			sl.ReportError(line.Schedule, path, "Schedule", tagSchedule, scheduleParam(err))
		}
	}

	for i, payment := range d.Billing.Payments {
		datePath := fmt.Sprintf("billing.payments[%d].date", i)
		amountPath := fmt.Sprintf("billing.payments[%d].amount", i)
		if i == 0 || payment.Amount != nil {
			if strings.TrimSpace(payment.Date) == "" {
				sl.ReportError(payment.Date, datePath, "Date", tagInstallmentDate, "")
			}
		}
		if payment.Date != "" {
			if _, ok := ParseDate(payment.Date); !ok {
				sl.ReportError(payment.Date, datePath, "Date", "isodate", "")
			}
		}
		switch {
		case i == 0 && (payment.Amount == nil || *payment.Amount < 1):
			sl.ReportError(payment.Amount, amountPath, "Amount", tagInstallmentAmt, "")
		case payment.Amount != nil && *payment.Amount < 0:
			sl.ReportError(payment.Amount, amountPath, "Amount", tagNegativeAmount, "")
		}
	}
}

func scheduleParam(err error) string {
	if reason, ok := schedule.ReasonOf(err); ok {
		return string(reason)
	}
	return "malformed"
}

// namespacePath turns "Draft.client.address.zip" into "client.address.zip".
func namespacePath(ns string) FieldPath {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return FieldPath(ns)
	}
	return FieldPath(rest)
}
