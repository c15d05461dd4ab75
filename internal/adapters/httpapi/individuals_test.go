package httpapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIndividuals_NewestFirst(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t, RouterOptions{})

	rec := f.do(http.MethodGet, "/individuals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"individuals":[]}`, rec.Body.String())

	f.createDoeFamily()
	f.clk.Advance(time.Minute)
	rec = f.do(http.MethodPost, "/groups", CreateGroupRequest{GroupName: "Smith", Members: []NewMemberRequest{{FirstName: "Ann", LastName: "Smith"}}})
	require.Equal(t, http.StatusCreated, rec.Code)

	got := decode[ListIndividualsResponse](t, f.do(http.MethodGet, "/individuals", nil)).Individuals
	require.Len(t, got, 3)
	assert.Equal(t, "Ann", got[0].FirstName)
}

func TestUpdateIndividual(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t, RouterOptions{})
	g := f.createDoeFamily()
	id := g.Members[0].Id
	f.clk.Advance(time.Hour)

	rec := f.do(http.MethodPatch, "/individuals/"+id, `{"firstName":"  Johnny ","email":"john@example.com","rsvpStatus":"Accepted","dietaryRestrictions":["Halal"],"comments":"  "}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	in := decode[IndividualResponse](t, rec).Individual
	assert.Equal(t, "Johnny", in.FirstName)
	assert.Equal(t, "Doe", in.LastName)
	email, err := in.Email.Get()
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", email)
	assert.Equal(t, "Accepted", in.RsvpStatus)
	assert.Equal(t, []string{"Halal"}, in.DietaryRestrictions)
	assert.True(t, in.Comments.IsNull(), "blank comments are stored as null")
	assert.True(t, in.CreatedAt.Equal(t0))
	assert.True(t, in.UpdatedAt.Equal(t0.Add(time.Hour)))

	// null clears; absent fields are untouched.
	rec = f.do(http.MethodPatch, "/individuals/"+id, `{"email":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	in = decode[IndividualResponse](t, rec).Individual
	assert.True(t, in.Email.IsNull())
	assert.Equal(t, "Accepted", in.RsvpStatus)
	assert.Equal(t, "Johnny", in.FirstName)
}

func TestUpdateIndividual_BlankEmailClears(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t, RouterOptions{})
	g := f.createDoeFamily()
	path := "/individuals/" + g.Members[0].Id

	rec := f.do(http.MethodPatch, path, `{"email":"john@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decode[IndividualResponse](t, rec).Individual.Email.IsNull())

	rec = f.do(http.MethodPatch, path, `{"email":""}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	in := decode[IndividualResponse](t, rec).Individual
	assert.True(t, in.Email.IsNull())
	assert.Equal(t, "John", in.FirstName)
}

func TestUpdateIndividual_Rejections(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t, RouterOptions{})
	g := f.createDoeFamily()
	path := "/individuals/" + g.Members[0].Id

	cases := map[string]string{
		"blank first name": `{"firstName":"   "}`,
		"null last name":   `{"lastName":null}`,
		"unknown status":   `{"rsvpStatus":"Maybe"}`,
		"blank status":     `{"rsvpStatus":""}`,
		"unknown dietary":  `{"dietaryRestrictions":["Carnivore"]}`,
		"invalid email":    `{"email":"nope"}`,
		"wrong field type": `{"firstName":42}`,
		"read-only field":  `{"invitationCode":"ABCDE"}`,
	}
	for name, body := range cases {
		rec := f.do(http.MethodPatch, path, body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, name)
	}

	requireError(t, f.do(http.MethodPatch, "/individuals/missing", `{"firstName":"X"}`), http.StatusNotFound, "INDIVIDUAL_NOT_FOUND")
}

func TestDeleteIndividual(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t, RouterOptions{})
	g := f.createDoeFamily()

	rec := f.do(http.MethodDelete, "/individuals/"+g.Members[1].Id, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Jane", decode[IndividualResponse](t, rec).Individual.FirstName)

	body := requireError(t, f.do(http.MethodDelete, "/individuals/"+g.Members[1].Id, nil), http.StatusNotFound, "INDIVIDUAL_NOT_FOUND")
	assert.Equal(t, g.Members[1].Id, errorDetails(t, body)["id"])

	got := decode[GroupResponse](t, f.do(http.MethodGet, "/groups/"+g.InvitationCode, nil)).Group
	require.Len(t, got.Members, 1)
	assert.Equal(t, "John", got.Members[0].FirstName)
}
