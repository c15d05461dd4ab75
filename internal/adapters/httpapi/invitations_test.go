package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memindividualrepo "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/memory/individualrepo"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/rsvpflow"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/platform/config"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/individualrepo"
)

func TestGetInvitation(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t, RouterOptions{})
	g := f.createDoeFamily()

	rec := f.do(http.MethodGet, "/invitations/"+strings.ToLower(g.InvitationCode)+"%20", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	inv := decode[InvitationResponse](t, rec).Invitation
	assert.Equal(t, g.InvitationCode, inv.InvitationCode)
	assert.Equal(t, "Doe Family", inv.GroupName)
	assert.Equal(t, "group_response", inv.Stage)
	require.Len(t, inv.Members, 2)
	assert.Equal(t, "John", inv.Members[0].FirstName)
	for _, m := range inv.Members {
		assert.True(t, m.Attendance.IsNull(), "members start unanswered")
		assert.Empty(t, m.DietaryRestrictions)
	}
}

func TestGetInvitation_NotFound(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t, RouterOptions{})
	f.createDoeFamily()

	for _, code := range []string{"ZZZZZ", "abc", "TOOLONG1"} {
		body := requireError(t, f.do(http.MethodGet, "/invitations/"+code, nil), http.StatusNotFound, "INVITATION_NOT_FOUND")
		assert.Equal(t, rsvpflow.LookupFailedMessage, body.Message)
		assert.Equal(t, strings.ToUpper(code), errorDetails(t, body)["invitationCode"])
	}
}

func TestSubmitRSVP(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t, RouterOptions{})
	g := f.createDoeFamily()
	john, jane := g.Members[0].Id, g.Members[1].Id
	f.clk.Advance(24 * time.Hour)

	rec := f.do(http.MethodPost, "/invitations/"+g.InvitationCode+"/rsvp", SubmitRSVPRequest{Responses: []RSVPAnswer{
		{IndividualId: john, Attendance: "yes", DietaryRestrictions: []string{"Vegan", "Nut-free", "Vegan"}, Comments: "Can't wait!"},
		{IndividualId: jane, Attendance: "no", DietaryRestrictions: []string{"Kosher"}, Comments: "ignored"},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	inv := decode[InvitationResponse](t, rec).Invitation
	assert.Equal(t, "confirmation", inv.Stage)

	got := decode[GroupResponse](t, f.do(http.MethodGet, "/groups/"+g.InvitationCode, nil)).Group
	require.Len(t, got.Members, 2)

	assert.Equal(t, "Accepted", got.Members[0].RsvpStatus)
	assert.Equal(t, []string{"Vegan", "Nut-free"}, got.Members[0].DietaryRestrictions)
	comments, err := got.Members[0].Comments.Get()
	require.NoError(t, err)
	assert.Equal(t, "Can't wait!", comments)
	assert.True(t, got.Members[0].UpdatedAt.Equal(t0.Add(24*time.Hour)))

	assert.Equal(t, "Declined", got.Members[1].RsvpStatus)
	assert.Empty(t, got.Members[1].DietaryRestrictions)
	assert.True(t, got.Members[1].Comments.IsNull())

	// Resubmitting overwrites with the new answers.
	rec = f.do(http.MethodPost, "/invitations/"+g.InvitationCode+"/rsvp", SubmitRSVPRequest{Responses: []RSVPAnswer{
		{IndividualId: john, Attendance: "no"},
		{IndividualId: jane, Attendance: "no"},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	d := decode[DashboardResponse](t, f.do(http.MethodGet, "/groups", nil))
	assert.Equal(t, StatusTotals{Total: 2, Declined: 2}, d.Totals)
}

func TestSubmitRSVP_Rejections(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t, RouterOptions{})
	g := f.createDoeFamily()
	john := g.Members[0].Id
	path := "/invitations/" + g.InvitationCode + "/rsvp"

	body := requireError(t, f.do(http.MethodPost, path, SubmitRSVPRequest{Responses: []RSVPAnswer{
		{IndividualId: john, Attendance: "yes"},
	}}), http.StatusUnprocessableEntity, "RSVP_INCOMPLETE")
	assert.Equal(t, []any{g.Members[1].Id}, errorDetails(t, body)["unanswered"])

	requireError(t, f.do(http.MethodPost, path, SubmitRSVPRequest{Responses: []RSVPAnswer{
		{IndividualId: john, Attendance: "maybe"},
	}}), http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	requireError(t, f.do(http.MethodPost, path, SubmitRSVPRequest{Responses: []RSVPAnswer{
		{IndividualId: "someone-else", Attendance: "yes"},
	}}), http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	requireError(t, f.do(http.MethodPost, path, SubmitRSVPRequest{Responses: []RSVPAnswer{
		{IndividualId: john, Attendance: "yes", DietaryRestrictions: []string{"Carnivore"}},
	}}), http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	requireError(t, f.do(http.MethodPost, "/invitations/ZZZZZ/rsvp", SubmitRSVPRequest{}), http.StatusNotFound, "INVITATION_NOT_FOUND")

	// Nothing was written.
	got := decode[GroupResponse](t, f.do(http.MethodGet, "/groups/"+g.InvitationCode, nil)).Group
	for _, m := range got.Members {
		assert.Equal(t, "Pending", m.RsvpStatus)
	}
}

// failingUpdateRepo fails the nth UpdateByID (1-based).
type failingUpdateRepo struct {
	individualrepo.Repository
	failAt  int
	updates int
}

func (r *failingUpdateRepo) UpdateByID(ctx context.Context, id domain.IndividualID, p individualrepo.Patch) (domain.Individual, error) {
	r.updates++
	if r.updates == r.failAt {
		return domain.Individual{}, errors.New("connection reset")
	}
	return r.Repository.UpdateByID(ctx, id, p)
}

func TestSubmitRSVP_PartialWrite(t *testing.T) {
	t.Parallel()
	mem := memindividualrepo.NewRepo()
	f := newAPIFixtureWithRepo(t, mem, &failingUpdateRepo{Repository: mem, failAt: 2}, RouterOptions{})
	g := f.createDoeFamily()

	body := requireError(t, f.do(http.MethodPost, "/invitations/"+g.InvitationCode+"/rsvp", SubmitRSVPRequest{Responses: []RSVPAnswer{
		{IndividualId: g.Members[0].Id, Attendance: "yes"},
		{IndividualId: g.Members[1].Id, Attendance: "yes"},
	}}), http.StatusInternalServerError, "PARTIAL_WRITE")
	d := errorDetails(t, body)
	assert.Equal(t, []any{g.Members[0].Id}, d["succeeded"])
	assert.Equal(t, g.Members[1].Id, d["failed"])

	// The next attempt writes everything.
	rec := f.do(http.MethodPost, "/invitations/"+g.InvitationCode+"/rsvp", SubmitRSVPRequest{Responses: []RSVPAnswer{
		{IndividualId: g.Members[0].Id, Attendance: "yes"},
		{IndividualId: g.Members[1].Id, Attendance: "yes"},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

type failingLookupRepo struct {
	individualrepo.Repository
}

func (failingLookupRepo) FindByCode(context.Context, domain.InvitationCode) ([]domain.Individual, error) {
	return nil, errors.New("store down")
}

func TestGuestRoutes_StoreDownShowsRetryMessage(t *testing.T) {
	t.Parallel()
	mem := memindividualrepo.NewRepo()
	f := newAPIFixtureWithRepo(t, mem, failingLookupRepo{Repository: mem}, RouterOptions{})

	body := requireError(t, f.do(http.MethodGet, "/invitations/ABCDE", nil), http.StatusServiceUnavailable, "INVITATION_LOOKUP_UNAVAILABLE")
	assert.Equal(t, rsvpflow.LookupFailedMessage, body.Message)

	body = requireError(t, f.do(http.MethodPost, "/invitations/ABCDE/rsvp", SubmitRSVPRequest{Responses: []RSVPAnswer{
		{IndividualId: "ind-01", Attendance: "yes"},
	}}), http.StatusServiceUnavailable, "INVITATION_LOOKUP_UNAVAILABLE")
	assert.Equal(t, rsvpflow.LookupFailedMessage, body.Message)

	// A malformed code never reaches the store and stays a plain miss.
	requireError(t, f.do(http.MethodGet, "/invitations/abc", nil), http.StatusNotFound, "INVITATION_NOT_FOUND")
}

func TestGuestRoutes_RateLimited(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t, RouterOptions{
		GuestRateLimit: NewIPRateLimitMiddleware(config.RateLimitConfig{Requests: 2, Window: time.Hour, Burst: 2}),
	})

	for i := 0; i < 2; i++ {
		requireError(t, f.do(http.MethodGet, "/invitations/ZZZZZ", nil), http.StatusNotFound, "INVITATION_NOT_FOUND")
	}
	rec := f.do(http.MethodGet, "/invitations/ZZZZZ", nil)
	body := requireError(t, rec, http.StatusTooManyRequests, "RATE_LIMITED")
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, errorDetails(t, body), "retryAfterSeconds")

	// Each client address has its own bucket.
	rec = f.do(http.MethodGet, "/invitations/ZZZZZ", nil, "X-Forwarded-For", "203.0.113.9")
	requireError(t, rec, http.StatusNotFound, "INVITATION_NOT_FOUND")

	// Dashboard and health routes are not limited.
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/individuals", nil).Code)
}
