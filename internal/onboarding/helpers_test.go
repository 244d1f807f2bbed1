package onboarding

import (
	"time"
)

func floatPtr(v float64) *float64 { return &v }

// completeDraft returns a private-client draft that passes every rule.
func completeDraft() *Draft {
	d := NewDraft(time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC))
	d.Client = Client{
		FirstName: "Anna",
		LastName:  "Muster",
		Email:     "anna@example.test",
		Phone:     "+41 79 123 45 67",
		Address: Address{
			Street:  "Bahnhofstrasse",
			House:   "12",
			City:    "Zürich",
			Zip:     "8001",
			State:   "ZH",
			Country: "Switzerland",
		},
	}
	d.Course.Levels = []string{"A2", "B1"}
	d.Lessons = []LessonLine{
		{Type: LessonOnline, Format: Format60, TotalHours: 10, PricePerHour: 20, Schedule: "Monday 09:00-10:00"},
		{Type: LessonLive, Format: Format90, TotalHours: 5, PricePerHour: 30, Schedule: "Wednesday 18:00-19:30, Friday 18:00-19:30"},
	}
	d.Billing = Billing{
		CourseStart: "2025-02-01",
		CourseEnd:   "2025-06-30",
		ValidUntil:  "2025-07-31",
		Payments: []Installment{
			{Date: "2025-02-01", Amount: floatPtr(350)},
			{},
			{},
		},
	}
	return d
}

func businessDraft() *Draft {
	d := completeDraft()
	d.Settings.ClientType = ClientBusiness
	d.Company = Company{
		Name: "Muster AG",
		Address: Address{
			Street:  "Seestrasse",
			House:   "1",
			City:    "Zug",
			Zip:     "6300",
			Country: "Switzerland",
		},
	}
	return d
}
