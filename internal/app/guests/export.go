package guests

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
)

const exportDateLayout = "2006-01-02"

var exportHeader = []string{
	"Invitation Code",
	"Group Name",
	"First Name",
	"Last Name",
	"RSVP Status",
	"Dietary Restrictions",
	"Comments",
	"Created At",
	"Updated At",
}

// ExportCSV writes every individual, newest first, as CSV with a header row.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}
	return WriteCSV(w, all)
}

// WriteCSV writes one row per individual. Fields containing a comma, quote or line break
// are quoted with inner quotes doubled.
func WriteCSV(w io.Writer, individuals []domain.Individual) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, in := range individuals {
		if err := cw.Write(exportRow(in)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportRow(in domain.Individual) []string {
	dietary := make([]string, 0, len(in.DietaryRestrictions))
	for _, d := range in.DietaryRestrictions {
		dietary = append(dietary, string(d))
	}
	comments := ""
	if in.Comments != nil {
		comments = *in.Comments
	}
	return []string{
		string(in.InvitationCode),
		in.GroupName,
		in.FirstName,
		in.LastName,
		string(in.RSVPStatus),
		strings.Join(dietary, "; "),
		comments,
		in.CreatedAt.UTC().Format(exportDateLayout),
		in.UpdatedAt.UTC().Format(exportDateLayout),
	}
}
