package conversation

import "strings"

const (
	QuotaGuidance    = "You've exceeded the daily limit for the AI model. Please check your plan and billing details, then try again later."
	OverloadGuidance = "The AI model is currently overloaded. Please wait a moment and try your request again."
)

// Guidance turns an upstream model failure into a user-facing hint. It matches on
// the message because the status is all collaborators reliably report.
func Guidance(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429"):
		return QuotaGuidance, true
	case strings.Contains(msg, "503"):
		return OverloadGuidance, true
	}
	return "", false
}
