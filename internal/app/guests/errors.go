package guests

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

func validationError(message string, details map[string]any) *Error {
	return &Error{
		Status:  422,
		Code:    "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}
}

func individualNotFound(id domain.IndividualID) *Error {
	return &Error{
		Status:  404,
		Code:    "INDIVIDUAL_NOT_FOUND",
		Message: "No individual exists with the given id.",
		Details: map[string]any{"id": string(id)},
	}
}

func invitationNotFound(code domain.InvitationCode) *Error {
	return &Error{
		Status:  404,
		Code:    "INVITATION_NOT_FOUND",
		Message: "No group exists for the given invitation code.",
		Details: map[string]any{"invitationCode": string(code)},
	}
}

// BatchError reports a group creation that stopped part way through. The members in
// Inserted were written before the failing insert; nothing after it was attempted.
type BatchError struct {
	Code        domain.InvitationCode
	Inserted    []domain.IndividualID
	FailedIndex int
	Err         error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("group %s: inserted %d member(s) before failing at index %d: %v", e.Code, len(e.Inserted), e.FailedIndex, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// AsError renders the batch failure as a 500 PARTIAL_WRITE.
func (e *BatchError) AsError() *Error {
	succeeded := make([]string, 0, len(e.Inserted))
	for _, id := range e.Inserted {
		succeeded = append(succeeded, string(id))
	}
	return &Error{
		Status:  500,
		Code:    "PARTIAL_WRITE",
		Message: "The group was only partially created.",
		Details: map[string]any{
			"invitationCode": string(e.Code),
			"succeeded":      succeeded,
			"failedIndex":    e.FailedIndex,
		},
	}
}
