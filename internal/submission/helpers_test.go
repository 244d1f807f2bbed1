package submission

import (
	"time"

	"github.com/wolfman30/tuition-onboarding/internal/onboarding"
)

func floatPtr(v float64) *float64 { return &v }

func privateDraft() *onboarding.Draft {
	d := onboarding.NewDraft(time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC))
	d.ID = "draft-123"
	d.Client = onboarding.Client{
		FirstName: "Anna",
		LastName:  "Muster",
		Email:     "anna@example.test",
		Phone:     "+41 79 123 45 67",
		Address: onboarding.Address{
			Street:  "Bahnhofstrasse",
			House:   "12",
			City:    "Zürich",
			Zip:     "8001",
			State:   "ZH",
			Country: "Switzerland",
		},
	}
	d.Course.Levels = []string{"A2", "B1"}
	d.Lessons = []onboarding.LessonLine{
		{Type: onboarding.LessonOnline, Format: onboarding.Format60, TotalHours: 10, PricePerHour: 20, Schedule: "Monday 09:00-10:00"},
		{Type: onboarding.LessonLive, Format: onboarding.Format90, TotalHours: 5, PricePerHour: 30, Schedule: "Wednesday 18:00-19:30, Friday 18:00-19:30"},
	}
	d.Billing = onboarding.Billing{
		CourseStart: "2025-02-01",
		CourseEnd:   "2025-06-30",
		ValidUntil:  "2025-07-31",
		Payments: []onboarding.Installment{
			{Date: "2025-02-01", Amount: floatPtr(350)},
			{},
			{},
		},
	}
	return d
}

func companyDraft() *onboarding.Draft {
	d := privateDraft()
	d.Settings.ClientType = onboarding.ClientBusiness
	d.Company = onboarding.Company{
		Name: "Muster AG",
		Address: onboarding.Address{
			Street:  "Seestrasse",
			House:   "1",
			Apt:     "3",
			City:    "Zug",
			Zip:     "6300",
			State:   "ZG",
			Country: "Switzerland",
		},
	}
	return d
}
