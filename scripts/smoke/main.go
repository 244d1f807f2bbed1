// Package main walks a running onboarding API through a complete form session.
//
// It fetches a fresh draft, fills every step, moves through the sequence with
// the navigate endpoint, checks the totals preview and the schedule builder,
// and optionally submits the contract.
//
// Usage:
//
//	go run ./scripts/smoke --api=http://localhost:8080 [--token=INVITE] [--submit]
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/wolfman30/tuition-onboarding/internal/onboarding"
)

var (
	flagAPI    string
	flagToken  string
	flagSubmit bool
	client     = &http.Client{Timeout: 30 * time.Second}
)

func init() {
	flag.StringVar(&flagAPI, "api", "http://localhost:8080", "API base URL")
	flag.StringVar(&flagToken, "token", os.Getenv("ONBOARDING_TOKEN"), "Onboarding invite token")
	flag.BoolVar(&flagSubmit, "submit", false, "Also submit the contract to the configured webhook")
}

type check struct {
	name   string
	pass   bool
	detail string
}

var results []check

func record(name string, pass bool, format string, args ...any) {
	results = append(results, check{name: name, pass: pass, detail: fmt.Sprintf(format, args...)})
}

func call(method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, flagAPI+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if flagToken != "" {
		req.Header.Set("X-Onboarding-Token", flagToken)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return resp.StatusCode, nil
}

type session struct {
	Draft      *onboarding.Draft   `json:"draft"`
	ActiveStep onboarding.StepID   `json:"activeStep"`
	Position   int                 `json:"position"`
	StepCount  int                 `json:"stepCount"`
	Failures   onboarding.Failures `json:"failures"`
}

func fill(d *onboarding.Draft) {
	amount := 350.0
	d.Client = onboarding.Client{
		FirstName: "Smoke", LastName: "Test", Email: "smoke@example.test", Phone: "+41 79 000 00 00",
		Address: onboarding.Address{Street: "Teststrasse", House: "1", City: "Bern", Zip: "3000", State: "BE", Country: onboarding.DefaultCountry},
	}
	d.Course.Levels = []string{"A1"}
	d.Lessons = []onboarding.LessonLine{
		{Type: onboarding.LessonOnline, Format: onboarding.Format60, TotalHours: 10, PricePerHour: 20, Schedule: "Monday 09:00-10:00"},
		{Type: onboarding.LessonLive, Format: onboarding.Format90, TotalHours: 5, PricePerHour: 30, Schedule: "Thursday 17:00-18:30"},
	}
	start := time.Now().AddDate(0, 0, 14)
	d.Billing = onboarding.Billing{
		CourseStart: start.Format(onboarding.DateLayout),
		CourseEnd:   start.AddDate(0, 4, 0).Format(onboarding.DateLayout),
		ValidUntil:  start.AddDate(0, 5, 0).Format(onboarding.DateLayout),
		Payments:    []onboarding.Installment{{Date: start.Format(onboarding.DateLayout), Amount: &amount}, {}, {}},
	}
}

func run() {
	var s session
	status, err := call(http.MethodGet, "/api/onboarding/draft", nil, &s)
	if err != nil || status != http.StatusOK || s.Draft == nil {
		record("draft", false, "status=%d err=%v", status, err)
		return
	}
	record("draft", true, "draft %s on %s (%d/%d)", s.Draft.ID, s.ActiveStep, s.Position, s.StepCount)

	var blocked session
	status, err = call(http.MethodPost, "/api/onboarding/navigate", map[string]any{
		"draft": s.Draft, "activeStep": onboarding.StepClient, "action": "next",
	}, &blocked)
	record("empty client step blocks", err == nil && status == http.StatusUnprocessableEntity && len(blocked.Failures) > 0,
		"status=%d failures=%d", status, len(blocked.Failures))

	fill(s.Draft)
	for s.Position < s.StepCount {
		from := s.ActiveStep
		var next session
		status, err = call(http.MethodPost, "/api/onboarding/navigate", map[string]any{
			"draft": s.Draft, "activeStep": s.ActiveStep, "action": "next",
		}, &next)
		if err != nil || status != http.StatusOK {
			record("next from "+string(from), false, "status=%d err=%v failures=%v", status, err, next.Failures)
			return
		}
		record("next from "+string(from), true, "now on %s", next.ActiveStep)
		s = next
	}

	var totals onboarding.Preview
	status, err = call(http.MethodPost, "/api/onboarding/totals", map[string]any{
		"lessons": s.Draft.Lessons, "discount": 10,
	}, &totals)
	record("totals", err == nil && status == http.StatusOK && totals.Submitted == 315,
		"net=%s submitted=%d", totals.Net, totals.Submitted)

	var refusal map[string]string
	status, err = call(http.MethodPost, "/api/onboarding/schedule/slots", map[string]any{
		"schedule":  "Monday 09:00-10:00",
		"candidate": map[string]string{"day": "Monday", "start": "09:30", "end": "10:30"},
	}, &refusal)
	record("overlap refused", err == nil && status == http.StatusUnprocessableEntity && refusal["reason"] == "overlap",
		"status=%d reason=%s", status, refusal["reason"])

	if !flagSubmit {
		return
	}
	var receipt map[string]any
	status, err = call(http.MethodPost, "/api/onboarding/submit", map[string]any{"draft": s.Draft}, &receipt)
	record("submit", err == nil && status == http.StatusOK, "status=%d body=%v", status, receipt)
}

func main() {
	flag.Parse()
	fmt.Printf("Smoke testing %s\n\n", flagAPI)
	run()

	failed := 0
	for _, r := range results {
		mark := "PASS"
		if !r.pass {
			mark = "FAIL"
			failed++
		}
		fmt.Printf("  [%s] %-28s %s\n", mark, r.name, r.detail)
	}
	fmt.Printf("\n%d checks, %d failed\n", len(results), failed)
	if failed > 0 {
		os.Exit(1)
	}
}
