package rsvpflow

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
	clockport "github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/individualrepo"
)

type Service struct {
	repo individualrepo.Repository
	clk  clockport.Clock
}

func NewService(repo individualrepo.Repository, clk clockport.Clock) *Service {
	return &Service{repo: repo, clk: clk}
}

// Lookup resolves a guest-entered code. The returned flow is always usable: on any failure
// it is back in code entry with LookupFailedMessage. The error is non-nil only when the
// store itself failed.
func (s *Service) Lookup(ctx context.Context, f Flow, raw string) (Flow, error) {
	code := domain.NormalizeInvitationCode(raw)
	if len(code) != domain.InvitationCodeLength {
		return f.LookupFailed(), nil
	}
	members, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("invitation_code", string(code)).Msg("invitation lookup failed")
		return f.LookupFailed(), err
	}
	return f.EnterCode(code, members), nil
}

// Submit writes every member's answer, one update at a time, and confirms the flow.
//
// The first failing update stops the loop with a *SubmitError and the flow stays in the
// group response stage. Every write sets absolute values, so resubmitting the same answers
// is safe.
func (s *Service) Submit(ctx context.Context, f Flow) (Flow, error) {
	switch f.Stage {
	case StageConfirmation:
		return f, nil
	case StageGroupResponse:
	default:
		return f, &Error{
			Status:  409,
			Code:    "RSVP_NOT_STARTED",
			Message: "Enter your invitation code first.",
		}
	}
	if !f.CanSubmit() {
		ids := make([]string, 0)
		for _, id := range f.Unanswered() {
			ids = append(ids, string(id))
		}
		return f, &Error{
			Status:  422,
			Code:    "RSVP_INCOMPLETE",
			Message: "Please answer for every guest.",
			Details: map[string]any{"unanswered": ids},
		}
	}

	succeeded := make([]domain.IndividualID, 0, len(f.Members))
	for _, m := range f.Members {
		if _, err := s.repo.UpdateByID(ctx, m.ID, patchFor(m, s.clk)); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).
				Str("invitation_code", string(f.Code)).
				Str("individual_id", string(m.ID)).
				Int("saved", len(succeeded)).
				Msg("rsvp submit stopped part way")
			if errors.Is(err, individualrepo.ErrNotFound) {
				err = &Error{
					Status:  404,
					Code:    "INDIVIDUAL_NOT_FOUND",
					Message: "A guest on this invitation no longer exists.",
					Details: map[string]any{"id": string(m.ID)},
				}
			}
			return f, &SubmitError{Succeeded: succeeded, Failed: m.ID, Err: err}
		}
		succeeded = append(succeeded, m.ID)
	}

	zerolog.Ctx(ctx).Info().
		Str("invitation_code", string(f.Code)).
		Int("members", len(succeeded)).
		Msg("rsvp submitted")
	return f.confirmed(), nil
}

func patchFor(m MemberResponse, clk clockport.Clock) individualrepo.Patch {
	status := domain.RSVPStatusDeclined
	dietary := []domain.DietaryRestriction{}
	var comments *string
	if m.Attendance == Attending {
		status = domain.RSVPStatusAccepted
		dietary = append(dietary, m.DietaryRestrictions...)
		if m.Comments != "" {
			c := m.Comments
			comments = &c
		}
	}
	return individualrepo.Patch{
		RSVPStatus:          &status,
		DietaryRestrictions: &dietary,
		Comments:            &comments,
		UpdatedAt:           clk.Now(),
	}
}

// Answer is one member's response as sent by a stateless client.
type Answer struct {
	ID                  domain.IndividualID
	Attendance          Attendance
	DietaryRestrictions []string
	Comments            string
}

// Respond rebuilds the flow for code from the store, replays answers through the flow's
// transitions and submits. Dietary and comment input for members not attending is dropped.
// Members without an answer stay unanswered, which blocks the submission.
func (s *Service) Respond(ctx context.Context, raw string, answers []Answer) (Flow, error) {
	f, err := s.Lookup(ctx, New(), raw)
	if err != nil {
		return f, err
	}
	if f.Stage != StageGroupResponse {
		code := domain.NormalizeInvitationCode(raw)
		return f, &Error{
			Status:  404,
			Code:    "INVITATION_NOT_FOUND",
			Message: LookupFailedMessage,
			Details: map[string]any{"invitationCode": string(code)},
		}
	}

	for i, a := range answers {
		next, err := f.SetAttendance(a.ID, a.Attendance)
		if err != nil {
			return f, answerError(i, a, err)
		}
		if a.Attendance == Attending {
			ds, err := domain.ParseDietaryRestrictions(a.DietaryRestrictions)
			if err != nil {
				return f, answerError(i, a, err)
			}
			if next, err = next.SetDietary(a.ID, ds); err != nil {
				return f, answerError(i, a, err)
			}
			if next, err = next.SetComments(a.ID, a.Comments); err != nil {
				return f, answerError(i, a, err)
			}
		}
		f = next
	}
	return s.Submit(ctx, f)
}

func answerError(i int, a Answer, err error) *Error {
	return &Error{
		Status:  422,
		Code:    "VALIDATION_ERROR",
		Message: "invalid response",
		Details: map[string]any{
			"index": i,
			"id":    string(a.ID),
			"error": err.Error(),
		},
	}
}
