package router

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const onboardingTokenHeader = "X-Onboarding-Token"
const onboardingTokenQuery = "onboarding_token"

// requireOnboardingToken restricts the form API to holders of the invite
// token. When expected is empty, the middleware is a no-op. Preflight
// requests pass so CORS can answer them.
func requireOnboardingToken(expected string) func(http.Handler) http.Handler {
	expected = strings.TrimSpace(expected)
	return func(next http.Handler) http.Handler {
		if expected == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			token := strings.TrimSpace(r.Header.Get(onboardingTokenHeader))
			if token == "" {
				token = strings.TrimSpace(r.URL.Query().Get(onboardingTokenQuery))
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid onboarding token"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
