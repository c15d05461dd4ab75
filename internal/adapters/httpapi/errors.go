package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"
	"github.com/rs/zerolog"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/guests"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/rsvpflow"
)

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestId nullable.Nullable[string]         `json:"requestId,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestId = nullable.NewNullableWithValue(rid)
	}
	writeJSON(w, status, er)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeAppError renders err using the app-layer taxonomy. Anything unrecognised is a 500
// INTERNAL and is logged with the request.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ge *guests.Error
		re *rsvpflow.Error
		be *guests.BatchError
		se *rsvpflow.SubmitError
	)
	switch {
	case errors.As(err, &be):
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("group create stopped part way")
		ge = be.AsError()
		writeError(w, r, ge.Status, ge.Code, ge.Message, ge.Details)
	case errors.As(err, &se):
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("rsvp submit stopped part way")
		if len(se.Succeeded) == 0 && errors.As(se.Err, &re) {
			writeError(w, r, re.Status, re.Code, re.Message, re.Details)
			return
		}
		re = se.AsError()
		writeError(w, r, re.Status, re.Code, re.Message, re.Details)
	case errors.As(err, &ge):
		writeError(w, r, ge.Status, ge.Code, ge.Message, ge.Details)
	case errors.As(err, &re):
		writeError(w, r, re.Status, re.Code, re.Message, re.Details)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
}
