package guests_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/guests"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
)

func TestWriteCSV_ColumnsAndQuoting(t *testing.T) {
	t.Parallel()

	comment := `Running late, "probably"`
	in := person("i1", "DOE01", "John", "Doe", "Doe, Family", domain.RSVPStatusAccepted, 0)
	in.DietaryRestrictions = []domain.DietaryRestriction{domain.DietaryVegan, domain.DietaryNutFree}
	in.Comments = &comment
	in.UpdatedAt = time.Date(2025, 7, 4, 23, 59, 0, 0, time.UTC)

	plain := person("i2", "SMI22", "Ann", "Smith", "Smith Cousins", domain.RSVPStatusNoResponse, 0)

	var buf bytes.Buffer
	require.NoError(t, guests.WriteCSV(&buf, []domain.Individual{in, plain}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Invitation Code,Group Name,First Name,Last Name,RSVP Status,Dietary Restrictions,Comments,Created At,Updated At", lines[0])
	assert.Equal(t, `DOE01,"Doe, Family",John,Doe,Accepted,Vegan; Nut-free,"Running late, ""probably""",2025-06-01,2025-07-04`, lines[1])
	assert.Equal(t, "SMI22,Smith Cousins,Ann,Smith,No Response,,,2025-06-01,2025-06-01", lines[2])

	// The output parses back into the same fields.
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "Doe, Family", records[1][1])
	assert.Equal(t, comment, records[1][6])
}

func TestService_ExportCSV_NewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, clk := newService(t)

	_, err := svc.CreateGroup(ctx, guests.CreateGroupInput{GroupName: "First", Members: []guests.NewMemberInput{{FirstName: "A", LastName: "A"}}})
	require.NoError(t, err)
	clk.Advance(48 * time.Hour)
	_, err = svc.CreateGroup(ctx, guests.CreateGroupInput{GroupName: "Second", Members: []guests.NewMemberInput{{FirstName: "B", LastName: "B"}}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Second", records[1][1])
	assert.Equal(t, "2025-06-03", records[1][7])
	assert.Equal(t, "First", records[2][1])
}
