package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
)

// ListIndividuals returns every guest, newest first.
//
//	@Summary	List every guest
//	@Tags		Individuals
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	ListIndividualsResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/individuals [get]
func (s *Server) ListIndividuals(w http.ResponseWriter, r *http.Request) {
	ins, err := s.Guests.ListIndividuals(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListIndividualsResponse{Individuals: individualsFromDomain(ins)})
}

// UpdateIndividual edits one guest.
//
//	@Summary	Edit a guest
//	@Tags		Individuals
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Individual id"
//	@Param		request	body		UpdateIndividualRequest	true	"Fields to change"
//	@Success	200		{object}	IndividualResponse
//	@Failure	404		{object}	ErrorResponse	"INDIVIDUAL_NOT_FOUND"
//	@Failure	422		{object}	ErrorResponse	"VALIDATION_ERROR"
//	@Router		/individuals/{id} [patch]
func (s *Server) UpdateIndividual(w http.ResponseWriter, r *http.Request) {
	var body UpdateIndividualRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.checkEmail() != nil {
		writeInvalidEmail(w, r)
		return
	}
	id := domain.IndividualID(chi.URLParam(r, "id"))
	out, err := s.Guests.UpdateIndividual(r.Context(), id, updateIndividualInputFromRequest(body))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, IndividualResponse{Individual: individualFromDomain(out)})
}

// DeleteIndividual removes one guest and returns the removed record.
//
//	@Summary	Delete a guest
//	@Tags		Individuals
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Individual id"
//	@Success	200	{object}	IndividualResponse
//	@Failure	404	{object}	ErrorResponse	"INDIVIDUAL_NOT_FOUND"
//	@Router		/individuals/{id} [delete]
func (s *Server) DeleteIndividual(w http.ResponseWriter, r *http.Request) {
	out, err := s.Guests.DeleteIndividual(r.Context(), domain.IndividualID(chi.URLParam(r, "id")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, IndividualResponse{Individual: individualFromDomain(out)})
}

// ListDietaryRestrictions returns the fixed dietary vocabulary.
//
//	@Summary	Dietary restriction vocabulary
//	@Tags		Guests
//	@Produce	json
//	@Success	200	{object}	DietaryRestrictionsResponse
//	@Router		/dietary-restrictions [get]
func (s *Server) ListDietaryRestrictions(w http.ResponseWriter, _ *http.Request) {
	out := make([]string, 0, len(domain.DietaryRestrictions))
	for _, d := range domain.DietaryRestrictions {
		out = append(out, string(d))
	}
	writeJSON(w, http.StatusOK, DietaryRestrictionsResponse{DietaryRestrictions: out})
}
