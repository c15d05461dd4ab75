package guests

import (
	"time"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
)

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

type NewMemberInput struct {
	FirstName string
	LastName  string
	Email     *string
}

type CreateGroupInput struct {
	GroupName string
	Members   []NewMemberInput
}

type AddMemberInput = NewMemberInput

// UpdateIndividualInput carries raw wire values; the service validates them.
type UpdateIndividualInput struct {
	FirstName           Optional[string] // cannot be null
	LastName            Optional[string] // cannot be null
	Email               Optional[string] // may be null
	RSVPStatus          Optional[string] // cannot be null
	DietaryRestrictions Optional[[]string]
	Comments            Optional[string] // may be null
}

type UpdateGroupInput struct {
	GroupName  Optional[string]
	RSVPStatus Optional[string]
}

// Group is one invitation group with its members in the order they were added.
type Group struct {
	InvitationCode domain.InvitationCode
	GroupName      string
	Members        []domain.Individual
}

// GroupView is the dashboard's derived view of one group.
type GroupView struct {
	InvitationCode domain.InvitationCode
	GroupName      string
	Members        []domain.Individual

	Total    int
	Accepted int
	Declined int
	Pending  int

	EarliestCreatedAt time.Time
	LatestUpdatedAt   time.Time
}

// StatusTotals counts statuses across a whole collection.
type StatusTotals struct {
	Total      int
	Accepted   int
	Declined   int
	Pending    int
	NoResponse int
}

type DashboardGroup struct {
	GroupView
	Expanded bool
}

type Dashboard struct {
	View   ViewState
	Groups []DashboardGroup
	Totals StatusTotals
}
