package httpapi

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/guests"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/idempotency"
)

// Dashboard returns the aggregated groups and status totals.
//
// The view state travels in the query string: q is the search term and expanded a
// comma-separated list of open groups. Each action parameter is applied in order:
// setQuery (reads query), clearQuery, toggle (reads code), expandAll (reads codes, or
// every visible group when empty) and collapseAll. The response echoes the resulting view.
//
//	@Summary	Dashboard groups and totals
//	@Tags		Groups
//	@Produce	json
//	@Security	BearerAuth
//	@Param		q			query		string		false	"Search term"
//	@Param		expanded	query		string		false	"Comma-separated expanded invitation codes"
//	@Param		action		query		[]string	false	"View actions"	Enums(setQuery, clearQuery, toggle, expandAll, collapseAll)	collectionFormat(multi)
//	@Param		query		query		string		false	"New search term for setQuery"
//	@Param		code		query		string		false	"Invitation code for toggle"
//	@Param		codes		query		string		false	"Comma-separated codes for expandAll"
//	@Success	200			{object}	DashboardResponse
//	@Failure	422			{object}	ErrorResponse	"VALIDATION_ERROR"
//	@Router		/groups [get]
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := guests.ParseViewState(q.Get("q"), q.Get("expanded"))

	actions := make([]guests.ViewAction, 0, len(q["action"]))
	for _, a := range q["action"] {
		switch strings.TrimSpace(a) {
		case "setQuery":
			actions = append(actions, guests.SetQuery(q.Get("query")))
		case "clearQuery":
			actions = append(actions, guests.ClearQuery())
		case "toggle":
			code := domain.NormalizeInvitationCode(q.Get("code"))
			if code == "" {
				writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "toggle needs a code", map[string]any{"code": "required"})
				return
			}
			actions = append(actions, guests.ToggleGroup(code))
		case "expandAll":
			actions = append(actions, guests.ExpandAll(guests.ParseViewState("", q.Get("codes")).ExpandedCodes()))
		case "collapseAll":
			actions = append(actions, guests.CollapseAll())
		default:
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown action", map[string]any{"action": a})
			return
		}
	}

	d, err := s.Guests.Dashboard(r.Context(), view, actions...)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardFromApp(d))
}

// CreateGroup issues a new invitation code and adds every member under it.
//
// A repeated Idempotency-Key with the same body replays the first 201; with a different
// body it is rejected with 409.
//
//	@Summary	Create an invitation group
//	@Tags		Groups
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		Idempotency-Key	header		string				false	"Replay protection key"
//	@Param		request			body		CreateGroupRequest	true	"Group name and members"
//	@Success	201				{object}	GroupResponse
//	@Failure	409				{object}	ErrorResponse	"IDEMPOTENCY_KEY_REUSE"
//	@Failure	422				{object}	ErrorResponse	"VALIDATION_ERROR"
//	@Failure	500				{object}	ErrorResponse	"PARTIAL_WRITE or CODE_SPACE_EXHAUSTED"
//	@Router		/groups [post]
func (s *Server) CreateGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var body CreateGroupRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.checkEmails() != nil {
		writeInvalidEmail(w, r)
		return
	}

	key := idempotencyKey(r)
	var respFP idempotency.Fingerprint
	if s.Idem != nil && key != "" {
		sub, _ := SubjectFromContext(ctx)
		bodyHash, err := hashCreateGroupBody(body)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		// Idempotency handling:
		// - Replay if same subject+key+route+bodyHash
		// - Reject if same subject+key+route with different bodyHash (409)
		metaFP := idempotency.Fingerprint{
			Key:     key,
			Subject: domain.SubjectID(sub),
			Method:  http.MethodPost,
			Route:   "/groups",
		}
		respFP = metaFP
		respFP.BodyHash = bodyHash

		replayed, err := s.checkIdempotency(ctx, metaFP, respFP, w)
		if err != nil {
			if errors.Is(err, errKeyReuse) {
				writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
				return
			}
			writeAppError(w, r, err)
			return
		}
		if replayed {
			zerolog.Ctx(ctx).Info().Str("idempotency_key", string(key)).Msg("replayed create group")
			return
		}
	}

	g, err := s.Guests.CreateGroup(ctx, createGroupInputFromRequest(body))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	resp := GroupResponse{Group: groupFromApp(g)}

	if respFP.Key != "" {
		if b, err := json.Marshal(resp); err == nil {
			if err := s.Idem.Put(ctx, respFP, idempotency.Record{
				StatusCode:  http.StatusCreated,
				ContentType: "application/json",
				Body:        b,
				CreatedAt:   s.Clock.Now(),
			}); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("idempotency record not stored")
			}
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

var errKeyReuse = errors.New("idempotency key reuse")

// checkIdempotency remembers which body a key was first used with and replays a stored
// response for an identical retry. It reports whether the response was already written.
func (s *Server) checkIdempotency(ctx context.Context, metaFP, respFP idempotency.Fingerprint, w http.ResponseWriter) (bool, error) {
	meta, ok, err := s.Idem.Get(ctx, metaFP)
	if err != nil {
		return false, err
	}
	if ok {
		if string(meta.Body) != respFP.BodyHash {
			return false, errKeyReuse
		}
	} else if err := s.Idem.Put(ctx, metaFP, idempotency.Record{
		ContentType: "text/plain",
		Body:        []byte(respFP.BodyHash),
		CreatedAt:   s.Clock.Now(),
	}); err != nil {
		return false, err
	}

	rec, ok, err := s.Idem.Get(ctx, respFP)
	if err != nil {
		return false, err
	}
	if !ok || rec.StatusCode != http.StatusCreated || !strings.HasPrefix(rec.ContentType, "application/json") {
		return false, nil
	}
	w.Header().Set("Content-Type", rec.ContentType)
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(rec.StatusCode)
	_, _ = w.Write(rec.Body)
	return true, nil
}

// hashCreateGroupBody hashes the request after the same normalization the service applies,
// so retries that differ only in name whitespace still match.
func hashCreateGroupBody(b CreateGroupRequest) (string, error) {
	canon := CreateGroupRequest{
		GroupName: domain.NormalizeHumanName(b.GroupName),
		Members:   make([]NewMemberRequest, 0, len(b.Members)),
	}
	for _, m := range b.Members {
		canon.Members = append(canon.Members, NewMemberRequest{
			FirstName: domain.NormalizeHumanName(m.FirstName),
			LastName:  domain.NormalizeHumanName(m.LastName),
			Email:     trimmedEmail(m.Email),
		})
	}
	raw, err := json.Marshal(canon)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// GetGroup returns one group with its members in the order they were added.
//
//	@Summary	Get an invitation group
//	@Tags		Groups
//	@Produce	json
//	@Security	BearerAuth
//	@Param		code	path		string	true	"Invitation code"
//	@Success	200		{object}	GroupResponse
//	@Failure	404		{object}	ErrorResponse	"INVITATION_NOT_FOUND"
//	@Router		/groups/{code} [get]
func (s *Server) GetGroup(w http.ResponseWriter, r *http.Request) {
	g, err := s.Guests.GetGroup(r.Context(), domain.InvitationCode(chi.URLParam(r, "code")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GroupResponse{Group: groupFromApp(g)})
}

// UpdateGroup renames a group or sets every member's status.
//
//	@Summary	Update every member of a group
//	@Tags		Groups
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		code	path		string				true	"Invitation code"
//	@Param		request	body		UpdateGroupRequest	true	"groupName and/or rsvpStatus"
//	@Success	200		{object}	GroupChangeResponse
//	@Failure	404		{object}	ErrorResponse	"INVITATION_NOT_FOUND"
//	@Failure	422		{object}	ErrorResponse	"VALIDATION_ERROR"
//	@Router		/groups/{code} [patch]
func (s *Server) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var body UpdateGroupRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	code := domain.NormalizeInvitationCode(chi.URLParam(r, "code"))
	n, err := s.Guests.UpdateGroup(r.Context(), code, guests.UpdateGroupInput{
		GroupName:  optionalFromNullable(body.GroupName),
		RSVPStatus: optionalFromNullable(body.RsvpStatus),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GroupChangeResponse{InvitationCode: string(code), Count: n})
}

// DeleteGroup removes every member of a group.
//
//	@Summary	Delete an invitation group
//	@Tags		Groups
//	@Produce	json
//	@Security	BearerAuth
//	@Param		code	path		string	true	"Invitation code"
//	@Success	200		{object}	GroupChangeResponse
//	@Failure	404		{object}	ErrorResponse	"INVITATION_NOT_FOUND"
//	@Router		/groups/{code} [delete]
func (s *Server) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	code := domain.NormalizeInvitationCode(chi.URLParam(r, "code"))
	n, err := s.Guests.DeleteGroup(r.Context(), code)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GroupChangeResponse{InvitationCode: string(code), Count: n})
}

// AddMember adds one guest to an existing group.
//
//	@Summary	Add a member to a group
//	@Tags		Groups
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		code	path		string				true	"Invitation code"
//	@Param		request	body		NewMemberRequest	true	"New member"
//	@Success	201		{object}	IndividualResponse
//	@Failure	404		{object}	ErrorResponse	"INVITATION_NOT_FOUND"
//	@Failure	422		{object}	ErrorResponse	"VALIDATION_ERROR"
//	@Router		/groups/{code}/members [post]
func (s *Server) AddMember(w http.ResponseWriter, r *http.Request) {
	var body NewMemberRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.checkEmail() != nil {
		writeInvalidEmail(w, r)
		return
	}
	out, err := s.Guests.AddMember(r.Context(), domain.InvitationCode(chi.URLParam(r, "code")), newMemberInput(body))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, IndividualResponse{Individual: individualFromDomain(out)})
}

// ExportCSV downloads every guest as a spreadsheet.
//
//	@Summary	Export guests as CSV
//	@Tags		Groups
//	@Produce	text/csv
//	@Security	BearerAuth
//	@Success	200	{string}	string	"CSV with a header row"
//	@Router		/export.csv [get]
func (s *Server) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.Guests.ExportCSV(r.Context(), &buf); err != nil {
		writeAppError(w, r, err)
		return
	}
	name := fmt.Sprintf("wedding-rsvps-%s.csv", s.Clock.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
