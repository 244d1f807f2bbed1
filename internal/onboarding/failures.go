package onboarding

import (
	"strings"
)

// FieldPath addresses one input of the draft using its JSON names,
// for example "client.address.zip" or "lessons[1].pricePerHour".
type FieldPath string

// Covers reports whether other is p itself or nested below it.
func (p FieldPath) Covers(other FieldPath) bool {
	if p == other {
		return true
	}
	rest, ok := strings.CutPrefix(string(other), string(p))
	if !ok {
		return false
	}
	return strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, "[")
}

// Failure is one advisory validation problem attached to one input.
type Failure struct {
	Path    FieldPath `json:"path"`
	Message string    `json:"message"`
}

// Failures blocks step advancement. It never modifies the draft.
type Failures []Failure

func (f Failures) Error() string {
	if len(f) == 0 {
		return "onboarding: no failures"
	}
	parts := make([]string, len(f))
	for i, failure := range f {
		parts[i] = string(failure.Path) + ": " + failure.Message
	}
	return "onboarding: validation failed: " + strings.Join(parts, "; ")
}

// ByPath groups messages by input so every offending field can be flagged at once.
func (f Failures) ByPath() map[FieldPath][]string {
	out := make(map[FieldPath][]string, len(f))
	for _, failure := range f {
		out[failure.Path] = append(out[failure.Path], failure.Message)
	}
	return out
}

// Has reports whether any failure is attached to path.
func (f Failures) Has(path FieldPath) bool {
	for _, failure := range f {
		if failure.Path == path {
			return true
		}
	}
	return false
}

// Within keeps the failures covered by any of the given paths.
func (f Failures) Within(paths []FieldPath) Failures {
	if len(paths) == 0 {
		return f
	}
	var out Failures
	for _, failure := range f {
		for _, p := range paths {
			if p.Covers(failure.Path) {
				out = append(out, failure)
				break
			}
		}
	}
	return out
}
