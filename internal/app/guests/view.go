package guests

import (
	"sort"
	"strings"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
)

// ViewState is the dashboard's client-side state: the search term and which groups are
// expanded. It is a plain value; Reduce returns a new one for every action.
type ViewState struct {
	Query    string
	Expanded map[domain.InvitationCode]bool
}

type ViewActionKind string

const (
	ActionSetQuery    ViewActionKind = "setQuery"
	ActionClearQuery  ViewActionKind = "clearQuery"
	ActionToggleGroup ViewActionKind = "toggleGroup"
	ActionExpandAll   ViewActionKind = "expandAll"
	ActionCollapseAll ViewActionKind = "collapseAll"
)

type ViewAction struct {
	Kind ViewActionKind

	// Query is used by ActionSetQuery.
	Query string
	// Code is used by ActionToggleGroup.
	Code domain.InvitationCode
	// Codes is used by ActionExpandAll.
	Codes []domain.InvitationCode
}

func SetQuery(q string) ViewAction { return ViewAction{Kind: ActionSetQuery, Query: q} }

func ClearQuery() ViewAction { return ViewAction{Kind: ActionClearQuery} }

func ToggleGroup(c domain.InvitationCode) ViewAction {
	return ViewAction{Kind: ActionToggleGroup, Code: c}
}

func ExpandAll(cs []domain.InvitationCode) ViewAction {
	return ViewAction{Kind: ActionExpandAll, Codes: cs}
}

func CollapseAll() ViewAction { return ViewAction{Kind: ActionCollapseAll} }

// Reduce applies a to s. s is left untouched; unknown actions return a copy of s.
func Reduce(s ViewState, a ViewAction) ViewState {
	next := ViewState{Query: s.Query, Expanded: make(map[domain.InvitationCode]bool, len(s.Expanded))}
	for c, open := range s.Expanded {
		if open {
			next.Expanded[c] = true
		}
	}

	switch a.Kind {
	case ActionSetQuery:
		next.Query = a.Query
	case ActionClearQuery:
		next.Query = ""
	case ActionToggleGroup:
		if next.Expanded[a.Code] {
			delete(next.Expanded, a.Code)
		} else {
			next.Expanded[a.Code] = true
		}
	case ActionExpandAll:
		for _, c := range a.Codes {
			next.Expanded[c] = true
		}
	case ActionCollapseAll:
		next.Expanded = make(map[domain.InvitationCode]bool)
	}
	return next
}

func (s ViewState) IsExpanded(c domain.InvitationCode) bool { return s.Expanded[c] }

// ExpandedCodes returns the expanded codes sorted, for serialization.
func (s ViewState) ExpandedCodes() []domain.InvitationCode {
	out := make([]domain.InvitationCode, 0, len(s.Expanded))
	for c, open := range s.Expanded {
		if open {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseViewState rebuilds a ViewState from its serialized form: the query plus a
// comma-separated list of expanded codes.
func ParseViewState(query, expanded string) ViewState {
	s := ViewState{Query: query, Expanded: make(map[domain.InvitationCode]bool)}
	for _, part := range strings.Split(expanded, ",") {
		c := domain.NormalizeInvitationCode(part)
		if c == "" {
			continue
		}
		s.Expanded[c] = true
	}
	return s
}
