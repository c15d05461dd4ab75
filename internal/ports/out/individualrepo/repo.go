package individualrepo

import (
	"context"
	"time"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
)

// Patch is a partial update. Nil fields are left unchanged; UpdatedAt is always written.
//
// Email and Comments are double pointers so a caller can distinguish "leave alone" (nil)
// from "clear" (pointer to nil).
type Patch struct {
	FirstName           *string
	LastName            *string
	GroupName           *string
	Email               **string
	RSVPStatus          *domain.RSVPStatus
	DietaryRestrictions *[]domain.DietaryRestriction
	Comments            **string

	UpdatedAt time.Time
}

// Apply returns a copy of in with the patch applied.
func (p Patch) Apply(in domain.Individual) domain.Individual {
	out := in.Clone()
	if p.FirstName != nil {
		out.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		out.LastName = *p.LastName
	}
	if p.GroupName != nil {
		out.GroupName = *p.GroupName
	}
	if p.Email != nil {
		out.Email = cloneStringPtr(*p.Email)
	}
	if p.RSVPStatus != nil {
		out.RSVPStatus = *p.RSVPStatus
	}
	if p.DietaryRestrictions != nil {
		out.DietaryRestrictions = append([]domain.DietaryRestriction{}, (*p.DietaryRestrictions)...)
	}
	if p.Comments != nil {
		out.Comments = cloneStringPtr(*p.Comments)
	}
	out.UpdatedAt = p.UpdatedAt
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Repository provides access to persisted individuals.
//
// Every call is atomic for the records it touches. Nothing spans calls: batch callers
// issue writes sequentially and handle partial completion themselves.
type Repository interface {
	Insert(ctx context.Context, in domain.Individual) (domain.Individual, error)

	FindByID(ctx context.Context, id domain.IndividualID) (domain.Individual, error)
	// FindByCode returns every member of a group. An empty slice means the code is not in use.
	FindByCode(ctx context.Context, code domain.InvitationCode) ([]domain.Individual, error)
	// FindAll returns every individual, newest-created first (ties broken by ID descending).
	FindAll(ctx context.Context) ([]domain.Individual, error)

	UpdateByID(ctx context.Context, id domain.IndividualID, p Patch) (domain.Individual, error)
	DeleteByID(ctx context.Context, id domain.IndividualID) (domain.Individual, error)

	// UpdateByCode applies p to every member of a group and returns how many were modified.
	UpdateByCode(ctx context.Context, code domain.InvitationCode, p Patch) (int, error)
	// DeleteByCode removes every member of a group and returns how many were deleted.
	DeleteByCode(ctx context.Context, code domain.InvitationCode) (int, error)

	// ReserveCode records code as issued. It returns ErrCodeTaken if it was issued before,
	// even if every member of that group has since been deleted.
	ReserveCode(ctx context.Context, code domain.InvitationCode, at time.Time) error
}
