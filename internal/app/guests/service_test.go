package guests_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memclock "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/memory/clock"
	memindividualrepo "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/memory/individualrepo"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/guests"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/individualrepo"
)

// flakyRepo fails the nth Insert (1-based) and passes everything else through.
type flakyRepo struct {
	individualrepo.Repository
	failInsertAt int
	inserts      int
}

func (r *flakyRepo) Insert(ctx context.Context, in domain.Individual) (domain.Individual, error) {
	r.inserts++
	if r.inserts == r.failInsertAt {
		return domain.Individual{}, errors.New("connection reset")
	}
	return r.Repository.Insert(ctx, in)
}

func newService(t *testing.T) (*guests.Service, *memindividualrepo.Repo, *memclock.ManualClock) {
	t.Helper()
	repo := memindividualrepo.NewRepo()
	clk := memclock.NewManualClock(t0)
	svc := guests.NewService(repo, clk)
	n := 0
	svc.SetNewIndividualIDForTest(func() domain.IndividualID {
		n++
		return domain.IndividualID(fmt.Sprintf("ind-%02d", n))
	})
	return svc, repo, clk
}

func requireAppError(t *testing.T, err error, status int, code string) *guests.Error {
	t.Helper()
	var ae *guests.Error
	require.True(t, errors.As(err, &ae), "err=%v", err)
	require.Equal(t, status, ae.Status)
	require.Equal(t, code, ae.Code)
	return ae
}

func doeFamily() guests.CreateGroupInput {
	return guests.CreateGroupInput{
		GroupName: "Doe Family",
		Members: []guests.NewMemberInput{
			{FirstName: "John", LastName: "Doe"},
			{FirstName: "Jane", LastName: "Doe"},
		},
	}
}

func TestService_CreateGroup_DoeFamily(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, repo, _ := newService(t)

	g, err := svc.CreateGroup(ctx, doeFamily())
	require.NoError(t, err)
	require.Len(t, string(g.InvitationCode), 5)
	require.True(t, domain.ValidInvitationCode(g.InvitationCode))

	members, err := repo.FindByCode(ctx, g.InvitationCode)
	require.NoError(t, err)
	require.Len(t, members, 2)
	for _, m := range members {
		assert.Equal(t, "Doe Family", m.GroupName)
		assert.Equal(t, domain.RSVPStatusPending, m.RSVPStatus)
		assert.Empty(t, m.DietaryRestrictions)
		assert.Equal(t, t0, m.CreatedAt)
	}
}

func TestService_CreateGroup_NormalizesInput(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	email := "  john@example.com "
	blank := "   "
	g, err := svc.CreateGroup(context.Background(), guests.CreateGroupInput{
		GroupName: "  The   Does ",
		Members: []guests.NewMemberInput{
			{FirstName: " John ", LastName: "Doe", Email: &email},
			{FirstName: "Jane", LastName: " Doe", Email: &blank},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "The Does", g.GroupName)
	require.Len(t, g.Members, 2)
	assert.Equal(t, "John", g.Members[0].FirstName)
	require.NotNil(t, g.Members[0].Email)
	assert.Equal(t, "john@example.com", *g.Members[0].Email)
	assert.Nil(t, g.Members[1].Email)
}

func TestService_CreateGroup_Validation(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newService(t)

	_, err := svc.CreateGroup(context.Background(), guests.CreateGroupInput{
		GroupName: " ",
		Members: []guests.NewMemberInput{
			{FirstName: "John", LastName: "Doe"},
			{FirstName: "", LastName: "Doe"},
		},
	})
	ae := requireAppError(t, err, 422, "VALIDATION_ERROR")
	assert.Contains(t, ae.Details, "groupName")
	assert.Contains(t, ae.Details, "members[1].firstName")
	assert.NotContains(t, ae.Details, "members[0].firstName")

	_, err = svc.CreateGroup(context.Background(), guests.CreateGroupInput{GroupName: "Empty"})
	ae = requireAppError(t, err, 422, "VALIDATION_ERROR")
	assert.Contains(t, ae.Details, "members")

	all, _ := repo.FindAll(context.Background())
	assert.Empty(t, all, "validation failures write nothing")
}

func TestService_CreateGroup_AbortsOnFirstFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mem := memindividualrepo.NewRepo()
	repo := &flakyRepo{Repository: mem, failInsertAt: 2}
	svc := guests.NewService(repo, memclock.NewManualClock(t0))

	in := doeFamily()
	in.Members = append(in.Members, guests.NewMemberInput{FirstName: "Jimmy", LastName: "Doe"})

	_, err := svc.CreateGroup(ctx, in)
	var be *guests.BatchError
	require.True(t, errors.As(err, &be), "err=%v", err)
	require.Len(t, be.Inserted, 1)
	assert.Equal(t, 1, be.FailedIndex)
	assert.Equal(t, 2, repo.inserts, "nothing after the failure is attempted")

	members, err := mem.FindByCode(ctx, be.Code)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, be.Inserted[0], members[0].ID)

	ae := be.AsError()
	assert.Equal(t, 500, ae.Status)
	assert.Equal(t, "PARTIAL_WRITE", ae.Code)
	assert.Equal(t, []string{string(be.Inserted[0])}, ae.Details["succeeded"])
}

func TestService_CreateGroup_FirstInsertFailureIsPlainError(t *testing.T) {
	t.Parallel()

	repo := &flakyRepo{Repository: memindividualrepo.NewRepo(), failInsertAt: 1}
	svc := guests.NewService(repo, memclock.NewManualClock(t0))

	_, err := svc.CreateGroup(context.Background(), doeFamily())
	require.Error(t, err)
	var be *guests.BatchError
	assert.False(t, errors.As(err, &be))
}

func TestService_CreateGroup_SkipsIssuedCodes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, repo, _ := newService(t)

	// AAAAA is used by a member, BBBBB was issued but its insert never landed.
	_, err := repo.Insert(ctx, person("old", "AAAAA", "Old", "Guest", "Old Group", domain.RSVPStatusPending, 0))
	require.NoError(t, err)
	require.NoError(t, repo.ReserveCode(ctx, "BBBBB", t0))
	svc.SetCodeGeneratorForTest(guests.NewCodeGenerator(fixedBytes(0, 1, 2)))

	g, err := svc.CreateGroup(ctx, doeFamily())
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationCode("CCCCC"), g.InvitationCode)
}

func TestService_AddMember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, clk := newService(t)

	g, err := svc.CreateGroup(ctx, doeFamily())
	require.NoError(t, err)

	clk.Advance(time.Minute)
	added, err := svc.AddMember(ctx, domain.InvitationCode(" "+string(g.InvitationCode)+" "), guests.AddMemberInput{FirstName: "Jimmy", LastName: "Doe"})
	require.NoError(t, err)
	assert.Equal(t, g.InvitationCode, added.InvitationCode)
	assert.Equal(t, "Doe Family", added.GroupName)
	assert.Equal(t, domain.RSVPStatusPending, added.RSVPStatus)
	assert.Equal(t, t0.Add(time.Minute), added.CreatedAt)

	got, err := svc.GetGroup(ctx, g.InvitationCode)
	require.NoError(t, err)
	require.Len(t, got.Members, 3)
	assert.Equal(t, "Jimmy", got.Members[2].FirstName, "members are listed in the order they were added")
}

func TestService_AddMember_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.AddMember(ctx, "NOPE1", guests.AddMemberInput{FirstName: "A", LastName: "B"})
	requireAppError(t, err, 404, "INVITATION_NOT_FOUND")

	g, err := svc.CreateGroup(ctx, doeFamily())
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, g.InvitationCode, guests.AddMemberInput{FirstName: "A"})
	ae := requireAppError(t, err, 422, "VALIDATION_ERROR")
	assert.Contains(t, ae.Details, "lastName")
}

func TestService_UpdateIndividual(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, clk := newService(t)

	g, err := svc.CreateGroup(ctx, doeFamily())
	require.NoError(t, err)
	id := g.Members[0].ID

	clk.Advance(time.Hour)
	updated, err := svc.UpdateIndividual(ctx, id, guests.UpdateIndividualInput{
		FirstName:           guests.Some("Johnny"),
		RSVPStatus:          guests.Some("Accepted"),
		DietaryRestrictions: guests.Some([]string{"Vegan", "Kosher", "Vegan"}),
		Comments:            guests.Some("Can't wait"),
		Email:               guests.Some("johnny@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Johnny", updated.FirstName)
	assert.Equal(t, "Doe", updated.LastName)
	assert.Equal(t, domain.RSVPStatusAccepted, updated.RSVPStatus)
	assert.Equal(t, []domain.DietaryRestriction{domain.DietaryVegan, domain.DietaryKosher}, updated.DietaryRestrictions)
	require.NotNil(t, updated.Comments)
	assert.Equal(t, "Can't wait", *updated.Comments)
	assert.Equal(t, t0.Add(time.Hour), updated.UpdatedAt)
	assert.Equal(t, t0, updated.CreatedAt)

	cleared, err := svc.UpdateIndividual(ctx, id, guests.UpdateIndividualInput{
		Email:               guests.Null[string](),
		Comments:            guests.Null[string](),
		DietaryRestrictions: guests.Null[[]string](),
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.Email)
	assert.Nil(t, cleared.Comments)
	assert.Empty(t, cleared.DietaryRestrictions)
	assert.Equal(t, "Johnny", cleared.FirstName)
}

func TestService_UpdateIndividual_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newService(t)

	g, err := svc.CreateGroup(ctx, doeFamily())
	require.NoError(t, err)
	id := g.Members[0].ID

	cases := []struct {
		name  string
		in    guests.UpdateIndividualInput
		field string
	}{
		{"null first name", guests.UpdateIndividualInput{FirstName: guests.Null[string]()}, "firstName"},
		{"blank last name", guests.UpdateIndividualInput{LastName: guests.Some("  ")}, "lastName"},
		{"unknown status", guests.UpdateIndividualInput{RSVPStatus: guests.Some("Maybe")}, "rsvpStatus"},
		{"empty status", guests.UpdateIndividualInput{RSVPStatus: guests.Some("")}, "rsvpStatus"},
		{"null status", guests.UpdateIndividualInput{RSVPStatus: guests.Null[string]()}, "rsvpStatus"},
		{"unknown dietary", guests.UpdateIndividualInput{DietaryRestrictions: guests.Some([]string{"Carnivore"})}, "dietaryRestrictions"},
	}
	for _, tc := range cases {
		_, err := svc.UpdateIndividual(ctx, id, tc.in)
		ae := requireAppError(t, err, 422, "VALIDATION_ERROR")
		assert.Contains(t, ae.Details, tc.field, tc.name)
	}

	_, err = svc.UpdateIndividual(ctx, "missing", guests.UpdateIndividualInput{FirstName: guests.Some("X")})
	requireAppError(t, err, 404, "INDIVIDUAL_NOT_FOUND")
}

func TestService_DeleteIndividual_ShrinksGroup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newService(t)

	g, err := svc.CreateGroup(ctx, doeFamily())
	require.NoError(t, err)

	deleted, err := svc.DeleteIndividual(ctx, g.Members[0].ID)
	require.NoError(t, err)
	assert.Equal(t, g.Members[0].ID, deleted.ID)

	got, err := svc.GetGroup(ctx, g.InvitationCode)
	require.NoError(t, err)
	assert.Len(t, got.Members, 1)

	_, err = svc.DeleteIndividual(ctx, g.Members[1].ID)
	require.NoError(t, err)
	_, err = svc.GetGroup(ctx, g.InvitationCode)
	requireAppError(t, err, 404, "INVITATION_NOT_FOUND")

	_, err = svc.DeleteIndividual(ctx, g.Members[1].ID)
	requireAppError(t, err, 404, "INDIVIDUAL_NOT_FOUND")
}

func TestService_UpdateGroup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, repo, clk := newService(t)

	g, err := svc.CreateGroup(ctx, doeFamily())
	require.NoError(t, err)

	clk.Advance(time.Hour)
	n, err := svc.UpdateGroup(ctx, g.InvitationCode, guests.UpdateGroupInput{
		GroupName:  guests.Some(" The  Does "),
		RSVPStatus: guests.Some("No Response"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	members, err := repo.FindByCode(ctx, g.InvitationCode)
	require.NoError(t, err)
	for _, m := range members {
		assert.Equal(t, "The Does", m.GroupName)
		assert.Equal(t, domain.RSVPStatusNoResponse, m.RSVPStatus)
		assert.Equal(t, t0.Add(time.Hour), m.UpdatedAt)
	}

	_, err = svc.UpdateGroup(ctx, g.InvitationCode, guests.UpdateGroupInput{})
	requireAppError(t, err, 422, "VALIDATION_ERROR")
	_, err = svc.UpdateGroup(ctx, g.InvitationCode, guests.UpdateGroupInput{GroupName: guests.Some("")})
	requireAppError(t, err, 422, "VALIDATION_ERROR")

	// An empty status is not a reset to Pending.
	_, err = svc.UpdateGroup(ctx, g.InvitationCode, guests.UpdateGroupInput{RSVPStatus: guests.Some("")})
	requireAppError(t, err, 422, "VALIDATION_ERROR")
	members, err = repo.FindByCode(ctx, g.InvitationCode)
	require.NoError(t, err)
	for _, m := range members {
		assert.Equal(t, domain.RSVPStatusNoResponse, m.RSVPStatus)
	}
	_, err = svc.UpdateGroup(ctx, "NONE0", guests.UpdateGroupInput{GroupName: guests.Some("X")})
	requireAppError(t, err, 404, "INVITATION_NOT_FOUND")
}

func TestService_DeleteGroup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newService(t)

	g, err := svc.CreateGroup(ctx, doeFamily())
	require.NoError(t, err)

	n, err := svc.DeleteGroup(ctx, g.InvitationCode)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.DeleteGroup(ctx, g.InvitationCode)
	requireAppError(t, err, 404, "INVITATION_NOT_FOUND")
}

func TestService_Dashboard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, clk := newService(t)
	svc.SetCodeGeneratorForTest(guests.NewCodeGenerator(fixedBytes(0, 1)))

	doe, err := svc.CreateGroup(ctx, doeFamily())
	require.NoError(t, err)
	clk.Advance(time.Minute)
	smith, err := svc.CreateGroup(ctx, guests.CreateGroupInput{
		GroupName: "Smith Cousins",
		Members:   []guests.NewMemberInput{{FirstName: "Ann", LastName: "Smith"}},
	})
	require.NoError(t, err)
	_, err = svc.UpdateIndividual(ctx, doe.Members[0].ID, guests.UpdateIndividualInput{RSVPStatus: guests.Some("Accepted")})
	require.NoError(t, err)

	d, err := svc.Dashboard(ctx, guests.ParseViewState("", ""))
	require.NoError(t, err)
	require.Len(t, d.Groups, 2)
	assert.Equal(t, smith.InvitationCode, d.Groups[0].InvitationCode, "newest group first")
	assert.Equal(t, guests.StatusTotals{Total: 3, Accepted: 1, Pending: 2}, d.Totals)

	d, err = svc.Dashboard(ctx, guests.ParseViewState("", ""), guests.SetQuery("ann"), guests.ToggleGroup(smith.InvitationCode))
	require.NoError(t, err)
	require.Len(t, d.Groups, 1)
	assert.True(t, d.Groups[0].Expanded)
	assert.Equal(t, "ann", d.View.Query)
	assert.Equal(t, 3, d.Totals.Total, "totals ignore the query")

	d, err = svc.Dashboard(ctx, d.View, guests.ClearQuery(), guests.ExpandAll(nil))
	require.NoError(t, err)
	require.Len(t, d.Groups, 2)
	for _, g := range d.Groups {
		assert.True(t, g.Expanded, "group %s", g.InvitationCode)
	}
}
