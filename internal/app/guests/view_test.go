package guests_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/guests"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
)

func TestReduce_Actions(t *testing.T) {
	t.Parallel()

	s := guests.ParseViewState("", "")
	s = guests.Reduce(s, guests.SetQuery("doe"))
	assert.Equal(t, "doe", s.Query)

	s = guests.Reduce(s, guests.ToggleGroup("DOE01"))
	assert.True(t, s.IsExpanded("DOE01"))
	s = guests.Reduce(s, guests.ToggleGroup("DOE01"))
	assert.False(t, s.IsExpanded("DOE01"))

	s = guests.Reduce(s, guests.ExpandAll([]domain.InvitationCode{"B0000", "A0000"}))
	assert.Equal(t, []domain.InvitationCode{"A0000", "B0000"}, s.ExpandedCodes())

	s = guests.Reduce(s, guests.ClearQuery())
	assert.Empty(t, s.Query)
	assert.Len(t, s.ExpandedCodes(), 2, "clearing the query keeps expansion")

	s = guests.Reduce(s, guests.CollapseAll())
	assert.Empty(t, s.ExpandedCodes())
}

func TestReduce_DoesNotMutatePreviousState(t *testing.T) {
	t.Parallel()

	prev := guests.ParseViewState("x", "AAAAA")
	next := guests.Reduce(prev, guests.ToggleGroup("BBBBB"))

	assert.True(t, next.IsExpanded("BBBBB"))
	assert.False(t, prev.IsExpanded("BBBBB"))
	assert.Equal(t, []domain.InvitationCode{"AAAAA"}, prev.ExpandedCodes())
}

func TestParseViewState_NormalizesCodes(t *testing.T) {
	t.Parallel()

	s := guests.ParseViewState("smith", " abcde, ,FGHIJ,")
	assert.Equal(t, "smith", s.Query)
	assert.Equal(t, []domain.InvitationCode{"ABCDE", "FGHIJ"}, s.ExpandedCodes())
}
