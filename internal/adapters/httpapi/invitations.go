package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/rsvpflow"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
)

// GetInvitation resolves a guest-entered code to its group, with every member unanswered.
//
//	@Summary	Look up an invitation
//	@Tags		Guests
//	@Produce	json
//	@Param		code	path		string	true	"Invitation code (case-insensitive)"
//	@Success	200		{object}	InvitationResponse
//	@Failure	404		{object}	ErrorResponse	"INVITATION_NOT_FOUND"
//	@Failure	429		{object}	ErrorResponse	"RATE_LIMITED"
//	@Failure	503		{object}	ErrorResponse	"INVITATION_LOOKUP_UNAVAILABLE"
//	@Router		/invitations/{code} [get]
func (s *Server) GetInvitation(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "code")
	f, err := s.RSVP.Lookup(r.Context(), rsvpflow.New(), raw)
	if err != nil {
		if writeLookupUnavailable(w, r, f, err) {
			return
		}
		writeAppError(w, r, err)
		return
	}
	if f.Stage != rsvpflow.StageGroupResponse {
		writeError(w, r, http.StatusNotFound, "INVITATION_NOT_FOUND", f.LastError, map[string]any{
			"invitationCode": string(domain.NormalizeInvitationCode(raw)),
		})
		return
	}
	writeJSON(w, http.StatusOK, InvitationResponse{Invitation: invitationFromFlow(f)})
}

// SubmitRSVP records a yes/no answer for every member of the group.
//
// Members missing from responses count as unanswered and block the submission. Dietary
// restrictions and comments are only kept for members who attend.
//
//	@Summary	Submit a group's RSVP
//	@Tags		Guests
//	@Accept		json
//	@Produce	json
//	@Param		code	path		string				true	"Invitation code (case-insensitive)"
//	@Param		request	body		SubmitRSVPRequest	true	"One answer per member"
//	@Success	200		{object}	InvitationResponse
//	@Failure	404		{object}	ErrorResponse	"INVITATION_NOT_FOUND"
//	@Failure	422		{object}	ErrorResponse	"RSVP_INCOMPLETE or VALIDATION_ERROR"
//	@Failure	429		{object}	ErrorResponse	"RATE_LIMITED"
//	@Failure	500		{object}	ErrorResponse	"PARTIAL_WRITE"
//	@Failure	503		{object}	ErrorResponse	"INVITATION_LOOKUP_UNAVAILABLE"
//	@Router		/invitations/{code}/rsvp [post]
func (s *Server) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	var body SubmitRSVPRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	f, err := s.RSVP.Respond(r.Context(), chi.URLParam(r, "code"), answersFromRequest(body))
	if err != nil {
		if writeLookupUnavailable(w, r, f, err) {
			return
		}
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, InvitationResponse{Invitation: invitationFromFlow(f)})
}

// writeLookupUnavailable handles a store failure while resolving a code. The flow is back in
// code entry with its retry message, which is what the guest sees.
func writeLookupUnavailable(w http.ResponseWriter, r *http.Request, f rsvpflow.Flow, err error) bool {
	var re *rsvpflow.Error
	if errors.As(err, &re) || f.Stage != rsvpflow.StageCodeEntry || f.LastError == "" {
		return false
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("invitation lookup unavailable")
	writeError(w, r, http.StatusServiceUnavailable, "INVITATION_LOOKUP_UNAVAILABLE", f.LastError, nil)
	return true
}
