package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/guests"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/rsvpflow"
	clockport "github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/idempotency"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Server holds the HTTP handlers. Idem may be nil, which disables Idempotency-Key replay.
type Server struct {
	Guests *guests.Service
	RSVP   *rsvpflow.Service
	Idem   idempotency.Store
	Clock  clockport.Clock
}

func NewServer(guestsSvc *guests.Service, rsvpSvc *rsvpflow.Service, idem idempotency.Store, clk clockport.Clock) *Server {
	return &Server{
		Guests: guestsSvc,
		RSVP:   rsvpSvc,
		Idem:   idem,
		Clock:  clk,
	}
}

// decodeJSON reads a single JSON object into dst. Failures are written as 422 and reported
// with ok=false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "missing request body", nil)
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "missing request body", nil)
		default:
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid JSON body", map[string]any{"body": err.Error()})
		}
		return false
	}
	if dec.More() {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "request body must be a single JSON object", nil)
		return false
	}
	return true
}

func writeInvalidEmail(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid email", map[string]any{"email": "must be a valid email address"})
}

func idempotencyKey(r *http.Request) idempotency.Key {
	return idempotency.Key(strings.TrimSpace(r.Header.Get("Idempotency-Key")))
}
