package rsvpflow

import (
	"fmt"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
)

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// SubmitError reports a submission that stopped at a failing member update. Members in
// Succeeded were written; Failed and everything after it were not.
type SubmitError struct {
	Succeeded []domain.IndividualID
	Failed    domain.IndividualID
	Err       error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("rsvp submit: %d member(s) saved, failed at %s: %v", len(e.Succeeded), e.Failed, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// AsError renders the failure as a 500 PARTIAL_WRITE.
func (e *SubmitError) AsError() *Error {
	succeeded := make([]string, 0, len(e.Succeeded))
	for _, id := range e.Succeeded {
		succeeded = append(succeeded, string(id))
	}
	return &Error{
		Status:  500,
		Code:    "PARTIAL_WRITE",
		Message: "Your response was only partially saved. Please try again.",
		Details: map[string]any{
			"succeeded": succeeded,
			"failed":    string(e.Failed),
		},
	}
}
