package httpapi

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/guests"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/rsvpflow"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
)

type Individual struct {
	Id                  string                    `json:"id"`
	InvitationCode      string                    `json:"invitationCode"`
	FirstName           string                    `json:"firstName"`
	LastName            string                    `json:"lastName"`
	GroupName           string                    `json:"groupName"`
	Email               nullable.Nullable[string] `json:"email" swaggertype:"string"`
	RsvpStatus          string                    `json:"rsvpStatus" enums:"Accepted,Declined,Pending,No Response"`
	DietaryRestrictions []string                  `json:"dietaryRestrictions"`
	Comments            nullable.Nullable[string] `json:"comments" swaggertype:"string"`
	CreatedAt           time.Time                 `json:"createdAt"`
	UpdatedAt           time.Time                 `json:"updatedAt"`
}

type IndividualResponse struct {
	Individual Individual `json:"individual"`
}

type ListIndividualsResponse struct {
	Individuals []Individual `json:"individuals"`
}

// UpdateIndividualRequest is a partial update: absent fields are left alone, null clears
// email or comments.
type UpdateIndividualRequest struct {
	FirstName           nullable.Nullable[string]   `json:"firstName,omitempty" swaggertype:"string"`
	LastName            nullable.Nullable[string]   `json:"lastName,omitempty" swaggertype:"string"`
	Email               nullable.Nullable[string]   `json:"email,omitempty" swaggertype:"string" format:"email"`
	RsvpStatus          nullable.Nullable[string]   `json:"rsvpStatus,omitempty" swaggertype:"string"`
	DietaryRestrictions nullable.Nullable[[]string] `json:"dietaryRestrictions,omitempty" swaggertype:"array,string"`
	Comments            nullable.Nullable[string]   `json:"comments,omitempty" swaggertype:"string"`
}

type NewMemberRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     *string `json:"email,omitempty" format:"email"`
}

type CreateGroupRequest struct {
	GroupName string             `json:"groupName"`
	Members   []NewMemberRequest `json:"members"`
}

type UpdateGroupRequest struct {
	GroupName  nullable.Nullable[string] `json:"groupName,omitempty" swaggertype:"string"`
	RsvpStatus nullable.Nullable[string] `json:"rsvpStatus,omitempty" swaggertype:"string"`
}

type Group struct {
	InvitationCode string       `json:"invitationCode"`
	GroupName      string       `json:"groupName"`
	Members        []Individual `json:"members"`
}

type GroupResponse struct {
	Group Group `json:"group"`
}

// GroupChangeResponse reports how many members a bulk group operation touched.
type GroupChangeResponse struct {
	InvitationCode string `json:"invitationCode"`
	Count          int    `json:"count"`
}

type DashboardView struct {
	Query    string   `json:"q"`
	Expanded []string `json:"expanded"`
}

type StatusTotals struct {
	Total      int `json:"total"`
	Accepted   int `json:"accepted"`
	Declined   int `json:"declined"`
	Pending    int `json:"pending"`
	NoResponse int `json:"noResponse"`
}

type DashboardGroup struct {
	InvitationCode    string       `json:"invitationCode"`
	GroupName         string       `json:"groupName"`
	Expanded          bool         `json:"expanded"`
	Total             int          `json:"total"`
	Accepted          int          `json:"accepted"`
	Declined          int          `json:"declined"`
	Pending           int          `json:"pending"`
	EarliestCreatedAt time.Time    `json:"earliestCreatedAt"`
	LatestUpdatedAt   time.Time    `json:"latestUpdatedAt"`
	Members           []Individual `json:"members"`
}

type DashboardResponse struct {
	View   DashboardView    `json:"view"`
	Totals StatusTotals     `json:"totals"`
	Groups []DashboardGroup `json:"groups"`
}

type DietaryRestrictionsResponse struct {
	DietaryRestrictions []string `json:"dietaryRestrictions"`
}

type InvitationMember struct {
	Id                  string                    `json:"id"`
	FirstName           string                    `json:"firstName"`
	LastName            string                    `json:"lastName"`
	Attendance          nullable.Nullable[string] `json:"attendance" swaggertype:"string" enums:"yes,no"`
	DietaryRestrictions []string                  `json:"dietaryRestrictions"`
	Comments            string                    `json:"comments"`
}

// Invitation is the guest-facing view of one RSVP flow.
type Invitation struct {
	InvitationCode string             `json:"invitationCode"`
	GroupName      string             `json:"groupName"`
	Stage          string             `json:"stage" enums:"code_entry,group_response,confirmation"`
	Members        []InvitationMember `json:"members"`
}

type InvitationResponse struct {
	Invitation Invitation `json:"invitation"`
}

type RSVPAnswer struct {
	IndividualId        string   `json:"individualId"`
	Attendance          string   `json:"attendance" enums:"yes,no"`
	DietaryRestrictions []string `json:"dietaryRestrictions,omitempty"`
	Comments            string   `json:"comments,omitempty"`
}

type SubmitRSVPRequest struct {
	Responses []RSVPAnswer `json:"responses"`
}

func nullableString(p *string) nullable.Nullable[string] {
	var out nullable.Nullable[string]
	if p == nil {
		out.SetNull()
	} else {
		out.Set(*p)
	}
	return out
}

func individualFromDomain(in domain.Individual) Individual {
	ds := make([]string, 0, len(in.DietaryRestrictions))
	for _, d := range in.DietaryRestrictions {
		ds = append(ds, string(d))
	}
	return Individual{
		Id:                  string(in.ID),
		InvitationCode:      string(in.InvitationCode),
		FirstName:           in.FirstName,
		LastName:            in.LastName,
		GroupName:           in.GroupName,
		Email:               nullableString(in.Email),
		RsvpStatus:          string(in.RSVPStatus),
		DietaryRestrictions: ds,
		Comments:            nullableString(in.Comments),
		CreatedAt:           in.CreatedAt.UTC(),
		UpdatedAt:           in.UpdatedAt.UTC(),
	}
}

func individualsFromDomain(ins []domain.Individual) []Individual {
	out := make([]Individual, 0, len(ins))
	for _, in := range ins {
		out = append(out, individualFromDomain(in))
	}
	return out
}

func groupFromApp(g guests.Group) Group {
	return Group{
		InvitationCode: string(g.InvitationCode),
		GroupName:      g.GroupName,
		Members:        individualsFromDomain(g.Members),
	}
}

func dashboardFromApp(d guests.Dashboard) DashboardResponse {
	expanded := make([]string, 0, len(d.View.Expanded))
	for _, c := range d.View.ExpandedCodes() {
		expanded = append(expanded, string(c))
	}
	out := DashboardResponse{
		View: DashboardView{Query: d.View.Query, Expanded: expanded},
		Totals: StatusTotals{
			Total:      d.Totals.Total,
			Accepted:   d.Totals.Accepted,
			Declined:   d.Totals.Declined,
			Pending:    d.Totals.Pending,
			NoResponse: d.Totals.NoResponse,
		},
		Groups: make([]DashboardGroup, 0, len(d.Groups)),
	}
	for _, g := range d.Groups {
		out.Groups = append(out.Groups, DashboardGroup{
			InvitationCode:    string(g.InvitationCode),
			GroupName:         g.GroupName,
			Expanded:          g.Expanded,
			Total:             g.Total,
			Accepted:          g.Accepted,
			Declined:          g.Declined,
			Pending:           g.Pending,
			EarliestCreatedAt: g.EarliestCreatedAt.UTC(),
			LatestUpdatedAt:   g.LatestUpdatedAt.UTC(),
			Members:           individualsFromDomain(g.Members),
		})
	}
	return out
}

func invitationFromFlow(f rsvpflow.Flow) Invitation {
	out := Invitation{
		InvitationCode: string(f.Code),
		GroupName:      f.GroupName,
		Stage:          string(f.Stage),
		Members:        make([]InvitationMember, 0, len(f.Members)),
	}
	for _, m := range f.Members {
		var att nullable.Nullable[string]
		if m.Attendance == rsvpflow.Unanswered {
			att.SetNull()
		} else {
			att.Set(string(m.Attendance))
		}
		ds := make([]string, 0, len(m.DietaryRestrictions))
		for _, d := range m.DietaryRestrictions {
			ds = append(ds, string(d))
		}
		out.Members = append(out.Members, InvitationMember{
			Id:                  string(m.ID),
			FirstName:           m.FirstName,
			LastName:            m.LastName,
			Attendance:          att,
			DietaryRestrictions: ds,
			Comments:            m.Comments,
		})
	}
	return out
}

func optionalFromNullable[T any](n nullable.Nullable[T]) guests.Optional[T] {
	if !n.IsSpecified() {
		return guests.Unspecified[T]()
	}
	if n.IsNull() {
		return guests.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return guests.Unspecified[T]()
	}
	return guests.Some(v)
}

func updateIndividualInputFromRequest(b UpdateIndividualRequest) guests.UpdateIndividualInput {
	in := guests.UpdateIndividualInput{
		FirstName:           optionalFromNullable(b.FirstName),
		LastName:            optionalFromNullable(b.LastName),
		RSVPStatus:          optionalFromNullable(b.RsvpStatus),
		DietaryRestrictions: optionalFromNullable(b.DietaryRestrictions),
		Comments:            optionalFromNullable(b.Comments),
	}
	switch {
	case !b.Email.IsSpecified():
	case b.Email.IsNull():
		in.Email = guests.Null[string]()
	default:
		if v, err := b.Email.Get(); err == nil {
			if e := trimmedEmail(&v); e != nil {
				in.Email = guests.Some(*e)
			} else {
				in.Email = guests.Null[string]()
			}
		}
	}
	return in
}

func newMemberInput(m NewMemberRequest) guests.NewMemberInput {
	return guests.NewMemberInput{FirstName: m.FirstName, LastName: m.LastName, Email: trimmedEmail(m.Email)}
}

// trimmedEmail treats a blank email as no email.
func trimmedEmail(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// checkEmail accepts a blank email or one that passes openapi_types.Email validation.
func checkEmail(p *string) error {
	v := trimmedEmail(p)
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(*v)
	if err != nil {
		return err
	}
	var e openapi_types.Email
	return e.UnmarshalJSON(raw)
}

func (m NewMemberRequest) checkEmail() error { return checkEmail(m.Email) }

func (b CreateGroupRequest) checkEmails() error {
	for _, m := range b.Members {
		if err := m.checkEmail(); err != nil {
			return err
		}
	}
	return nil
}

func (b UpdateIndividualRequest) checkEmail() error {
	v, err := b.Email.Get()
	if err != nil {
		return nil
	}
	return checkEmail(&v)
}

func createGroupInputFromRequest(b CreateGroupRequest) guests.CreateGroupInput {
	in := guests.CreateGroupInput{GroupName: b.GroupName, Members: make([]guests.NewMemberInput, 0, len(b.Members))}
	for _, m := range b.Members {
		in.Members = append(in.Members, newMemberInput(m))
	}
	return in
}

func answersFromRequest(b SubmitRSVPRequest) []rsvpflow.Answer {
	out := make([]rsvpflow.Answer, 0, len(b.Responses))
	for _, a := range b.Responses {
		out = append(out, rsvpflow.Answer{
			ID:                  domain.IndividualID(a.IndividualId),
			Attendance:          rsvpflow.Attendance(a.Attendance),
			DietaryRestrictions: a.DietaryRestrictions,
			Comments:            a.Comments,
		})
	}
	return out
}
