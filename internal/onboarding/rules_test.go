package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesCompleteDraftIsValid(t *testing.T) {
	rules := NewRules()
	assert.Nil(t, rules.Validate(completeDraft()))
	assert.Nil(t, rules.Validate(businessDraft()))
}

func TestRulesNilDraft(t *testing.T) {
	failures := NewRules().Validate(nil, "client.email")
	require.Len(t, failures, 1)
}

func TestRulesRequiredStrings(t *testing.T) {
	d := completeDraft()
	d.Client.FirstName = "   "
	d.Client.Address.Zip = ""

	failures := NewRules().Validate(d)
	assert.Equal(t, []string{"First name is required."}, failures.ByPath()["client.firstName"])
	assert.Equal(t, []string{"Zip code is required."}, failures.ByPath()["client.address.zip"])
	assert.False(t, failures.Has("client.address.apt"))
}

func TestRulesEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"anna@example.test", true},
		{"anna.muster+tuition@example.co.uk", true},
		{"anna@", false},
		{"not-an-email", false},
		{" anna@example.test ", true},
		{"\tanna@example.test\n", true},
		{"   ", false},
		{"", false},
	}
	rules := NewRules()
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			d := completeDraft()
			d.Client.Email = tt.email
			failures := rules.Validate(d, "client.email")
			if tt.valid {
				assert.Empty(t, failures)
				return
			}
			require.Len(t, failures, 1)
			assert.Equal(t, "Invalid email address.", failures[0].Message)
		})
	}
}

func TestRulesCourseEndMustFollowStart(t *testing.T) {
	d := completeDraft()
	d.Billing.CourseStart = "2025-01-01"
	d.Billing.CourseEnd = "2025-01-01"
	d.Billing.ValidUntil = "2025-03-01"

	failures := NewRules().Validate(d)
	require.True(t, failures.Has("billing.courseEnd"))
	assert.Equal(t, []string{"Course end date must be after the start date."}, failures.ByPath()["billing.courseEnd"])
	assert.False(t, failures.Has("billing.courseStart"))
}

func TestRulesValidUntilMustFollowEnd(t *testing.T) {
	d := completeDraft()
	d.Billing.CourseStart = "2025-01-01"
	d.Billing.CourseEnd = "2025-06-01"
	d.Billing.ValidUntil = "2025-06-01"

	failures := NewRules().Validate(d)
	assert.Equal(t, []string{`"Valid until" date must be after the course end date.`}, failures.ByPath()["billing.validUntil"])
	assert.False(t, failures.Has("billing.courseEnd"))
}

func TestRulesDateOrderSkippedWhenMissing(t *testing.T) {
	d := completeDraft()
	d.Billing.CourseStart = ""
	d.Billing.CourseEnd = "2025-01-01"

	failures := NewRules().Validate(d)
	assert.Equal(t, []string{"Course start date is required."}, failures.ByPath()["billing.courseStart"])
	assert.False(t, failures.Has("billing.courseEnd"))
}

func TestRulesBusinessRequiresEachCompanyField(t *testing.T) {
	d := completeDraft()
	d.Settings.ClientType = ClientBusiness

	failures := NewRules().Validate(d, "company")
	require.Len(t, failures, 6)
	for _, path := range []FieldPath{
		"company.name",
		"company.address.street",
		"company.address.house",
		"company.address.city",
		"company.address.zip",
		"company.address.country",
	} {
		assert.True(t, failures.Has(path), "expected failure on %s", path)
	}
	assert.Equal(t, []string{"Company name is required."}, failures.ByPath()["company.name"])
	assert.False(t, failures.Has("company.address.state"))
	assert.False(t, failures.Has("company.address.apt"))
}

func TestRulesPrivateIgnoresCompany(t *testing.T) {
	d := completeDraft()
	d.Company = Company{}
	assert.Empty(t, NewRules().Validate(d, "company"))
}

func TestRulesLevels(t *testing.T) {
	rules := NewRules()

	d := completeDraft()
	d.Course.Levels = nil
	assert.Equal(t, []string{"Select at least one level."}, rules.Validate(d).ByPath()["course.levels"])

	d = completeDraft()
	d.Course.Levels = []string{"B1", "D9"}
	assert.Equal(t, []string{"Unknown level."}, rules.Validate(d).ByPath()["course.levels[1]"])
}

func TestRulesLessons(t *testing.T) {
	rules := NewRules()

	d := completeDraft()
	d.Lessons = nil
	assert.Equal(t, []string{"Add at least one lesson type."}, rules.Validate(d).ByPath()["lessons"])

	d = completeDraft()
	d.Lessons[1].TotalHours = 0
	d.Lessons[1].PricePerHour = 0.5
	d.Lessons[1].Schedule = ""
	byPath := rules.Validate(d).ByPath()
	assert.Equal(t, []string{"Hours required"}, byPath["lessons[1].totalHours"])
	assert.Equal(t, []string{"Price required"}, byPath["lessons[1].pricePerHour"])
	assert.Equal(t, []string{"Schedule required"}, byPath["lessons[1].schedule"])
	assert.Empty(t, byPath["lessons[0].totalHours"])
}

func TestRulesLessonScheduleInvariants(t *testing.T) {
	rules := NewRules()

	d := completeDraft()
	d.Lessons[0].Schedule = "Monday 09:00-10:00, Monday 09:30-10:30"
	assert.Equal(t, []string{"Schedule slots must not overlap."}, rules.Validate(d).ByPath()["lessons[0].schedule"])

	d = completeDraft()
	d.Lessons[0].Schedule = "Monday nine to ten"
	assert.Equal(t, []string{"Schedule could not be read."}, rules.Validate(d).ByPath()["lessons[0].schedule"])
}

func TestRulesDiscount(t *testing.T) {
	rules := NewRules()

	d := completeDraft()
	d.Discount = -5
	assert.Equal(t, []string{"Discount cannot be negative."}, rules.Validate(d).ByPath()["discount"])

	d.Discount = 150
	assert.Equal(t, []string{"Discount cannot exceed 100%."}, rules.Validate(d).ByPath()["discount"])

	d.Discount = 0
	assert.False(t, rules.Validate(d).Has("discount"))
}

func TestRulesPayments(t *testing.T) {
	rules := NewRules()

	d := completeDraft()
	d.Billing.Payments = nil
	assert.Equal(t, []string{"Add at least one payment."}, rules.Validate(d).ByPath()["billing.payments"])

	d = completeDraft()
	d.Billing.Payments[0] = Installment{}
	byPath := rules.Validate(d).ByPath()
	assert.Equal(t, []string{"Payment 1 date is required."}, byPath["billing.payments[0].date"])
	assert.Equal(t, []string{"Payment 1 amount is required."}, byPath["billing.payments[0].amount"])

	d = completeDraft()
	d.Billing.Payments[1] = Installment{Amount: floatPtr(-10)}
	byPath = rules.Validate(d).ByPath()
	assert.Equal(t, []string{"Payment 2 date is required."}, byPath["billing.payments[1].date"])
	assert.Equal(t, []string{"Amount cannot be negative."}, byPath["billing.payments[1].amount"])

	d = completeDraft()
	d.Billing.Payments[2] = Installment{Date: "2025-04-01", Amount: floatPtr(0)}
	assert.Empty(t, rules.Validate(d, "billing.payments"))
}

func TestRulesFailuresDoNotTouchDraft(t *testing.T) {
	d := completeDraft()
	d.Client.Email = "broken"
	before := *d
	_ = NewRules().Validate(d)
	assert.Equal(t, before.Client, d.Client)
	assert.Equal(t, before.Lessons, d.Lessons)
}

func TestFailuresError(t *testing.T) {
	failures := Failures{{Path: "client.email", Message: "Invalid email address."}}
	assert.Contains(t, failures.Error(), "client.email: Invalid email address.")

	var err error = failures
	var target Failures
	require.ErrorAs(t, err, &target)
	assert.Len(t, target, 1)
}

func TestFieldPathCovers(t *testing.T) {
	assert.True(t, FieldPath("lessons").Covers("lessons[2].schedule"))
	assert.True(t, FieldPath("billing.payments").Covers("billing.payments[0].date"))
	assert.True(t, FieldPath("client.email").Covers("client.email"))
	assert.False(t, FieldPath("client.email").Covers("client.emailConfirm"))
	assert.False(t, FieldPath("company").Covers("companyName"))
}
