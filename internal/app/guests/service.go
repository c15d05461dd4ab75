package guests

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/platform/idgen"
	clockport "github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/individualrepo"
)

// Service implements the hosts' dashboard operations.
type Service struct {
	repo  individualrepo.Repository
	clk   clockport.Clock
	codes *CodeGenerator

	newIndividualID func() domain.IndividualID
}

func NewService(repo individualrepo.Repository, clk clockport.Clock) *Service {
	ids := idgen.NewGenerator()
	s := &Service{
		repo:  repo,
		clk:   clk,
		codes: NewCodeGenerator(nil),
	}
	s.newIndividualID = func() domain.IndividualID {
		return domain.IndividualID(ids.NewAt(s.clk.Now()))
	}
	return s
}

func (s *Service) SetNewIndividualIDForTest(fn func() domain.IndividualID) {
	if fn != nil {
		s.newIndividualID = fn
	}
}

func (s *Service) SetCodeGeneratorForTest(g *CodeGenerator) {
	if g != nil {
		s.codes = g
	}
}

func (s *Service) ListIndividuals(ctx context.Context) ([]domain.Individual, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) UpdateIndividual(ctx context.Context, id domain.IndividualID, in UpdateIndividualInput) (domain.Individual, error) {
	p := individualrepo.Patch{}

	if in.FirstName.IsSpecified() {
		v, err := requiredName("firstName", in.FirstName)
		if err != nil {
			return domain.Individual{}, err
		}
		p.FirstName = &v
	}
	if in.LastName.IsSpecified() {
		v, err := requiredName("lastName", in.LastName)
		if err != nil {
			return domain.Individual{}, err
		}
		p.LastName = &v
	}
	if in.Email.IsSpecified() {
		email := optionalText(in.Email)
		p.Email = &email
	}
	if in.RSVPStatus.IsSpecified() {
		if in.RSVPStatus.IsNull() {
			return domain.Individual{}, validationError("invalid rsvpStatus", map[string]any{"rsvpStatus": "cannot be null"})
		}
		st, err := parseStatus(in.RSVPStatus.Value())
		if err != nil {
			return domain.Individual{}, err
		}
		p.RSVPStatus = &st
	}
	if in.DietaryRestrictions.IsSpecified() {
		var raw []string
		if !in.DietaryRestrictions.IsNull() {
			raw = in.DietaryRestrictions.Value()
		}
		ds, err := domain.ParseDietaryRestrictions(raw)
		if err != nil {
			return domain.Individual{}, validationError("invalid dietaryRestrictions", map[string]any{"dietaryRestrictions": err.Error()})
		}
		p.DietaryRestrictions = &ds
	}
	if in.Comments.IsSpecified() {
		comments := optionalText(in.Comments)
		p.Comments = &comments
	}

	p.UpdatedAt = s.clk.Now()
	out, err := s.repo.UpdateByID(ctx, id, p)
	if err != nil {
		if errors.Is(err, individualrepo.ErrNotFound) {
			return domain.Individual{}, individualNotFound(id)
		}
		return domain.Individual{}, err
	}
	return out, nil
}

func (s *Service) DeleteIndividual(ctx context.Context, id domain.IndividualID) (domain.Individual, error) {
	out, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, individualrepo.ErrNotFound) {
			return domain.Individual{}, individualNotFound(id)
		}
		return domain.Individual{}, err
	}
	zerolog.Ctx(ctx).Info().
		Str("individual_id", string(id)).
		Str("invitation_code", string(out.InvitationCode)).
		Msg("individual deleted")
	return out, nil
}

// AddMember appends a guest to an existing group, copying the group's name.
func (s *Service) AddMember(ctx context.Context, code domain.InvitationCode, in AddMemberInput) (domain.Individual, error) {
	code = domain.NormalizeInvitationCode(string(code))
	first, last, details := normalizeMemberNames("", in)
	if len(details) > 0 {
		return domain.Individual{}, validationError("invalid member", details)
	}

	members, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return domain.Individual{}, err
	}
	if len(members) == 0 {
		return domain.Individual{}, invitationNotFound(code)
	}

	created, err := s.repo.Insert(ctx, s.newIndividual(code, members[0].GroupName, first, last, in.Email))
	if err != nil {
		return domain.Individual{}, err
	}
	zerolog.Ctx(ctx).Info().
		Str("invitation_code", string(code)).
		Str("individual_id", string(created.ID)).
		Msg("member added")
	return created, nil
}

// CreateGroup issues a fresh invitation code and inserts every member under it, one at a
// time. The first failing insert stops the batch; see BatchError.
func (s *Service) CreateGroup(ctx context.Context, in CreateGroupInput) (Group, error) {
	groupName := domain.NormalizeHumanName(in.GroupName)
	details := map[string]any{}
	if groupName == "" {
		details["groupName"] = "must be non-empty"
	}
	if len(in.Members) == 0 {
		details["members"] = "must contain at least one member"
	}
	type name struct{ first, last string }
	names := make([]name, len(in.Members))
	for i, m := range in.Members {
		first, last, d := normalizeMemberNames(fmt.Sprintf("members[%d].", i), m)
		for k, v := range d {
			details[k] = v
		}
		names[i] = name{first, last}
	}
	if len(details) > 0 {
		return Group{}, validationError("invalid group", details)
	}

	code, err := s.issueCode(ctx)
	if err != nil {
		if errors.Is(err, ErrCodeSpaceExhausted) {
			return Group{}, &Error{
				Status:  500,
				Code:    "CODE_SPACE_EXHAUSTED",
				Message: "Could not find an unused invitation code.",
			}
		}
		return Group{}, err
	}

	out := Group{InvitationCode: code, GroupName: groupName, Members: make([]domain.Individual, 0, len(in.Members))}
	for i, m := range in.Members {
		created, err := s.repo.Insert(ctx, s.newIndividual(code, groupName, names[i].first, names[i].last, m.Email))
		if err != nil {
			if len(out.Members) == 0 {
				return Group{}, err
			}
			inserted := make([]domain.IndividualID, 0, len(out.Members))
			for _, c := range out.Members {
				inserted = append(inserted, c.ID)
			}
			zerolog.Ctx(ctx).Error().Err(err).
				Str("invitation_code", string(code)).
				Int("inserted", len(inserted)).
				Int("failed_index", i).
				Msg("group creation stopped part way")
			return Group{}, &BatchError{Code: code, Inserted: inserted, FailedIndex: i, Err: err}
		}
		out.Members = append(out.Members, created)
	}

	zerolog.Ctx(ctx).Info().
		Str("invitation_code", string(code)).
		Int("members", len(out.Members)).
		Msg("group created")
	return out, nil
}

func (s *Service) GetGroup(ctx context.Context, code domain.InvitationCode) (Group, error) {
	code = domain.NormalizeInvitationCode(string(code))
	members, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return Group{}, err
	}
	if len(members) == 0 {
		return Group{}, invitationNotFound(code)
	}
	sortOldestFirst(members)
	return Group{InvitationCode: code, GroupName: groupNameOf(members), Members: members}, nil
}

// UpdateGroup renames a group and/or sets every member's status. It returns how many
// members were modified.
func (s *Service) UpdateGroup(ctx context.Context, code domain.InvitationCode, in UpdateGroupInput) (int, error) {
	code = domain.NormalizeInvitationCode(string(code))
	if !in.GroupName.IsSpecified() && !in.RSVPStatus.IsSpecified() {
		return 0, validationError("nothing to update", map[string]any{"body": "must set groupName or rsvpStatus"})
	}

	p := individualrepo.Patch{}
	if in.GroupName.IsSpecified() {
		v, err := requiredName("groupName", in.GroupName)
		if err != nil {
			return 0, err
		}
		p.GroupName = &v
	}
	if in.RSVPStatus.IsSpecified() {
		if in.RSVPStatus.IsNull() {
			return 0, validationError("invalid rsvpStatus", map[string]any{"rsvpStatus": "cannot be null"})
		}
		st, err := parseStatus(in.RSVPStatus.Value())
		if err != nil {
			return 0, err
		}
		p.RSVPStatus = &st
	}

	p.UpdatedAt = s.clk.Now()
	n, err := s.repo.UpdateByCode(ctx, code, p)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, invitationNotFound(code)
	}
	return n, nil
}

func (s *Service) DeleteGroup(ctx context.Context, code domain.InvitationCode) (int, error) {
	code = domain.NormalizeInvitationCode(string(code))
	n, err := s.repo.DeleteByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, invitationNotFound(code)
	}
	zerolog.Ctx(ctx).Info().
		Str("invitation_code", string(code)).
		Int("deleted", n).
		Msg("group deleted")
	return n, nil
}

// Dashboard applies actions to view, then aggregates the whole collection under the
// resulting query. Totals always cover the unfiltered collection. An ExpandAll action
// without codes expands every group visible under the query.
func (s *Service) Dashboard(ctx context.Context, view ViewState, actions ...ViewAction) (Dashboard, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	for _, a := range actions {
		if a.Kind == ActionExpandAll && len(a.Codes) == 0 {
			for _, g := range Aggregate(all, view.Query) {
				a.Codes = append(a.Codes, g.InvitationCode)
			}
		}
		view = Reduce(view, a)
	}

	groups := Aggregate(all, view.Query)
	out := Dashboard{
		View:   view,
		Groups: make([]DashboardGroup, 0, len(groups)),
		Totals: Summarize(all),
	}
	for _, g := range groups {
		out.Groups = append(out.Groups, DashboardGroup{GroupView: g, Expanded: view.IsExpanded(g.InvitationCode)})
	}
	return out, nil
}

// issueCode finds a code no individual uses and reserves it in the store's registry.
// Losing a reservation race counts as a collision.
func (s *Service) issueCode(ctx context.Context) (domain.InvitationCode, error) {
	return s.codes.Generate(ctx, func(ctx context.Context, code domain.InvitationCode) (bool, error) {
		members, err := s.repo.FindByCode(ctx, code)
		if err != nil {
			return false, err
		}
		if len(members) > 0 {
			zerolog.Ctx(ctx).Debug().Str("invitation_code", string(code)).Msg("invitation code in use")
			return true, nil
		}
		if err := s.repo.ReserveCode(ctx, code, s.clk.Now()); err != nil {
			if errors.Is(err, individualrepo.ErrCodeTaken) {
				zerolog.Ctx(ctx).Debug().Str("invitation_code", string(code)).Msg("invitation code already issued")
				return true, nil
			}
			return false, err
		}
		return false, nil
	})
}

func (s *Service) newIndividual(code domain.InvitationCode, groupName, first, last string, email *string) domain.Individual {
	now := s.clk.Now()
	return domain.Individual{
		ID:                  s.newIndividualID(),
		InvitationCode:      code,
		FirstName:           first,
		LastName:            last,
		GroupName:           groupName,
		Email:               trimmedOrNil(email),
		RSVPStatus:          domain.RSVPStatusPending,
		DietaryRestrictions: []domain.DietaryRestriction{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func normalizeMemberNames(prefix string, in NewMemberInput) (string, string, map[string]any) {
	details := map[string]any{}
	first := domain.NormalizeHumanName(in.FirstName)
	last := domain.NormalizeHumanName(in.LastName)
	if first == "" {
		details[prefix+"firstName"] = "must be non-empty"
	}
	if last == "" {
		details[prefix+"lastName"] = "must be non-empty"
	}
	return first, last, details
}

func requiredName(field string, o Optional[string]) (string, error) {
	if o.IsNull() {
		return "", validationError("invalid "+field, map[string]any{field: "cannot be null"})
	}
	v := domain.NormalizeHumanName(o.Value())
	if v == "" {
		return "", validationError("invalid "+field, map[string]any{field: "must be non-empty"})
	}
	return v, nil
}

func parseStatus(s string) (domain.RSVPStatus, error) {
	st, err := domain.ParseRSVPStatus(s)
	if err != nil {
		return "", validationError("invalid rsvpStatus", map[string]any{"rsvpStatus": err.Error()})
	}
	return st, nil
}

// optionalText maps null and blank values to nil.
func optionalText(o Optional[string]) *string {
	if o.IsNull() {
		return nil
	}
	v := o.Value()
	return trimmedOrNil(&v)
}

func trimmedOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func sortOldestFirst(ins []domain.Individual) {
	sort.SliceStable(ins, func(i, j int) bool {
		if ins[i].CreatedAt.Equal(ins[j].CreatedAt) {
			return ins[i].ID < ins[j].ID
		}
		return ins[i].CreatedAt.Before(ins[j].CreatedAt)
	})
}
