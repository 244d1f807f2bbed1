package onboarding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var labels = map[string]string{
	"language":     "Language",
	"source":       "Source",
	"contractDate": "Contract date",
	"clientType":   "Client type",
	"firstName":    "First name",
	"lastName":     "Last name",
	"email":        "Email",
	"phone":        "Phone number",
	"street":       "Street",
	"house":        "House number",
	"city":         "City",
	"zip":          "Zip code",
	"state":        "State",
	"country":      "Country",
	"name":         "Company name",
	"courseLang":   "Course language",
	"type":         "Lesson type",
	"format":       "Lesson format",
	"courseStart":  "Course start date",
	"courseEnd":    "Course end date",
	"validUntil":   "Validity date",
}

var scheduleMessages = map[string]string{
	"invalid_range": "Every slot must end after it starts.",
	"overlap":       "Schedule slots must not overlap.",
	"malformed":     "Schedule could not be read.",
}

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// message renders the user-facing text for a failed rule.
func message(path FieldPath, tag, param string) string {
	leaf := leafName(path)
	label, ok := labels[leaf]
	if !ok {
		label = leaf
	}

	switch tag {
	case "notblank", "required", tagBusinessRequired:
		if leaf == "schedule" {
			return "Schedule required"
		}
		return label + " is required."
	case "email":
		return "Invalid email address."
	case "isodate":
		return label + " must be a valid date."
	case "enum":
		return label + " has an unsupported value."
	case "min":
		switch leaf {
		case "levels":
			return "Select at least one level."
		case "lessons":
			return "Add at least one lesson type."
		case "payments":
			return "Add at least one payment."
		}
	case "gte":
		switch leaf {
		case "totalHours":
			return "Hours required"
		case "pricePerHour":
			return "Price required"
		case "discount":
			return "Discount cannot be negative."
		}
	case "lte":
		if leaf == "discount" {
			return "Discount cannot exceed 100%."
		}
	case "oneof":
		return "Unknown level."
	case "unique":
		return "Levels must not repeat."
	case tagAfterStart:
		return "Course end date must be after the start date."
	case tagAfterEnd:
		return `"Valid until" date must be after the course end date.`
	case tagSchedule:
		if msg, ok := scheduleMessages[param]; ok {
			return msg
		}
		return scheduleMessages["malformed"]
	case tagInstallmentDate:
		return fmt.Sprintf("Payment %d date is required.", installmentNumber(path))
	case tagInstallmentAmt:
		return fmt.Sprintf("Payment %d amount is required.", installmentNumber(path))
	case tagNegativeAmount:
		return "Amount cannot be negative."
	}
	return fmt.Sprintf("%s failed %s.", label, tag)
}

func leafName(path FieldPath) string {
	s := string(path)
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, "["); i >= 0 {
		s = s[:i]
	}
	return s
}

func installmentNumber(path FieldPath) int {
	m := indexPattern.FindStringSubmatch(string(path))
	if len(m) < 2 {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 1
	}
	return n + 1
}
