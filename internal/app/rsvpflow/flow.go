// Package rsvpflow models the guest RSVP interaction: enter a code, answer for every member
// of the group, confirm.
package rsvpflow

import (
	"errors"
	"sort"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
)

type Stage string

const (
	StageCodeEntry     Stage = "code_entry"
	StageGroupResponse Stage = "group_response"
	StageConfirmation  Stage = "confirmation"
)

// Attendance is the guest's answer for one member. Unanswered is distinct from a stored
// Pending status: it only exists until the guest picks yes or no.
type Attendance string

const (
	Unanswered   Attendance = ""
	Attending    Attendance = "yes"
	NotAttending Attendance = "no"
)

func (a Attendance) Valid() bool {
	switch a {
	case Unanswered, Attending, NotAttending:
		return true
	default:
		return false
	}
}

// LookupFailedMessage is shown in the code entry stage for any failed lookup.
const LookupFailedMessage = "We couldn't find your invitation. Please check your code and try again."

var (
	ErrWrongStage    = errors.New("action not allowed in the current stage")
	ErrUnknownMember = errors.New("member is not part of this invitation")
	ErrNotAttending  = errors.New("dietary restrictions and comments need the member to be attending")
	ErrBadAttendance = errors.New("attendance must be yes or no")
)

type MemberResponse struct {
	ID        domain.IndividualID
	FirstName string
	LastName  string

	Attendance          Attendance
	DietaryRestrictions []domain.DietaryRestriction
	Comments            string
}

func (m MemberResponse) clone() MemberResponse {
	out := m
	out.DietaryRestrictions = append([]domain.DietaryRestriction{}, m.DietaryRestrictions...)
	return out
}

// Flow is the whole client-side state of one RSVP session. Transitions return a new Flow
// and leave the receiver untouched.
type Flow struct {
	Stage     Stage
	Code      domain.InvitationCode
	GroupName string
	Members   []MemberResponse
	LastError string
}

func New() Flow {
	return Flow{Stage: StageCodeEntry}
}

func (f Flow) clone() Flow {
	out := f
	out.Members = make([]MemberResponse, 0, len(f.Members))
	for _, m := range f.Members {
		out.Members = append(out.Members, m.clone())
	}
	return out
}

// EnterCode applies a lookup result. At least one member moves the flow to the group
// response stage with every member unanswered; anything else stays in code entry with
// LookupFailedMessage.
func (f Flow) EnterCode(code domain.InvitationCode, members []domain.Individual) Flow {
	if f.Stage == StageConfirmation {
		return f.clone()
	}
	if len(members) == 0 {
		return f.LookupFailed()
	}

	ordered := append([]domain.Individual{}, members...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	out := Flow{
		Stage:     StageGroupResponse,
		Code:      code,
		GroupName: ordered[0].GroupName,
		Members:   make([]MemberResponse, 0, len(ordered)),
	}
	for _, m := range ordered {
		out.Members = append(out.Members, MemberResponse{
			ID:                  m.ID,
			FirstName:           m.FirstName,
			LastName:            m.LastName,
			DietaryRestrictions: []domain.DietaryRestriction{},
		})
	}
	return out
}

// LookupFailed returns the flow to code entry with the generic retry message.
func (f Flow) LookupFailed() Flow {
	if f.Stage == StageConfirmation {
		return f.clone()
	}
	return Flow{Stage: StageCodeEntry, LastError: LookupFailedMessage}
}

// SetAttendance records a yes/no answer. NotAttending discards the member's dietary and
// comment input.
func (f Flow) SetAttendance(id domain.IndividualID, a Attendance) (Flow, error) {
	return f.updateMember(id, func(m *MemberResponse) error {
		if !a.Valid() {
			return ErrBadAttendance
		}
		m.Attendance = a
		if a != Attending {
			m.DietaryRestrictions = []domain.DietaryRestriction{}
			m.Comments = ""
		}
		return nil
	})
}

func (f Flow) SetDietary(id domain.IndividualID, ds []domain.DietaryRestriction) (Flow, error) {
	return f.updateMember(id, func(m *MemberResponse) error {
		if m.Attendance != Attending {
			return ErrNotAttending
		}
		m.DietaryRestrictions = append([]domain.DietaryRestriction{}, ds...)
		return nil
	})
}

func (f Flow) SetComments(id domain.IndividualID, c string) (Flow, error) {
	return f.updateMember(id, func(m *MemberResponse) error {
		if m.Attendance != Attending {
			return ErrNotAttending
		}
		m.Comments = c
		return nil
	})
}

func (f Flow) updateMember(id domain.IndividualID, fn func(*MemberResponse) error) (Flow, error) {
	switch f.Stage {
	case StageConfirmation:
		return f.clone(), nil
	case StageGroupResponse:
	default:
		return f, ErrWrongStage
	}
	out := f.clone()
	for i := range out.Members {
		if out.Members[i].ID != id {
			continue
		}
		if err := fn(&out.Members[i]); err != nil {
			return f, err
		}
		return out, nil
	}
	return f, ErrUnknownMember
}

// Unanswered lists members still waiting for a yes/no answer.
func (f Flow) Unanswered() []domain.IndividualID {
	out := make([]domain.IndividualID, 0)
	for _, m := range f.Members {
		if m.Attendance == Unanswered {
			out = append(out, m.ID)
		}
	}
	return out
}

func (f Flow) CanSubmit() bool {
	return f.Stage == StageGroupResponse && len(f.Members) > 0 && len(f.Unanswered()) == 0
}

func (f Flow) confirmed() Flow {
	out := f.clone()
	out.Stage = StageConfirmation
	out.LastError = ""
	return out
}
