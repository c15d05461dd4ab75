package guests

import (
	"strings"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
)

// Aggregate groups individuals by invitation code, keeping the order in which codes first
// appear in the input. It never mutates its input.
//
// With a non-blank query, a group whose code contains the query (case-insensitively) is kept
// whole; otherwise only members whose first, last or group name contains it are kept, and
// groups left with no members are dropped.
func Aggregate(individuals []domain.Individual, query string) []GroupView {
	order := make([]domain.InvitationCode, 0)
	byCode := make(map[domain.InvitationCode][]domain.Individual)
	for _, in := range individuals {
		if _, ok := byCode[in.InvitationCode]; !ok {
			order = append(order, in.InvitationCode)
		}
		byCode[in.InvitationCode] = append(byCode[in.InvitationCode], in)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]GroupView, 0, len(order))
	for _, code := range order {
		members := byCode[code]
		if q != "" && !strings.Contains(strings.ToLower(string(code)), q) {
			members = matchingMembers(members, q)
		}
		if len(members) == 0 {
			continue
		}
		out = append(out, summarizeGroup(code, members))
	}
	return out
}

func matchingMembers(members []domain.Individual, q string) []domain.Individual {
	out := make([]domain.Individual, 0, len(members))
	for _, m := range members {
		if containsFold(m.FirstName, q) || containsFold(m.LastName, q) || containsFold(m.GroupName, q) {
			out = append(out, m)
		}
	}
	return out
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

func summarizeGroup(code domain.InvitationCode, members []domain.Individual) GroupView {
	gv := GroupView{
		InvitationCode: code,
		GroupName:      groupNameOf(members),
		Members:        make([]domain.Individual, 0, len(members)),
		Total:          len(members),
	}
	for i, m := range members {
		gv.Members = append(gv.Members, m.Clone())
		switch m.RSVPStatus {
		case domain.RSVPStatusAccepted:
			gv.Accepted++
		case domain.RSVPStatusDeclined:
			gv.Declined++
		case domain.RSVPStatusPending:
			gv.Pending++
		}
		if i == 0 || m.CreatedAt.Before(gv.EarliestCreatedAt) {
			gv.EarliestCreatedAt = m.CreatedAt
		}
		if i == 0 || m.UpdatedAt.After(gv.LatestUpdatedAt) {
			gv.LatestUpdatedAt = m.UpdatedAt
		}
	}
	return gv
}

func groupNameOf(members []domain.Individual) string {
	for _, m := range members {
		if m.GroupName != "" {
			return m.GroupName
		}
	}
	return domain.UnknownGroupName
}

// Summarize counts every status across the whole collection, including No Response.
func Summarize(individuals []domain.Individual) StatusTotals {
	t := StatusTotals{Total: len(individuals)}
	for _, in := range individuals {
		switch in.RSVPStatus {
		case domain.RSVPStatusAccepted:
			t.Accepted++
		case domain.RSVPStatusDeclined:
			t.Declined++
		case domain.RSVPStatusPending:
			t.Pending++
		case domain.RSVPStatusNoResponse:
			t.NoResponse++
		}
	}
	return t
}
