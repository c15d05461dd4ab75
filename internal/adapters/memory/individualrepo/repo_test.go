package individualrepo

import (
	"context"
	"testing"
	"time"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/individualrepo"
)

func TestRepo_ReturnsCopies(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	now := time.Unix(100, 0).UTC()
	in := domain.Individual{
		ID:                  "i1",
		InvitationCode:      "ABCDE",
		FirstName:           "Ada",
		LastName:            "Lovelace",
		GroupName:           "Lovelace",
		RSVPStatus:          domain.RSVPStatusPending,
		DietaryRestrictions: []domain.DietaryRestriction{domain.DietaryVegan},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if _, err := r.Insert(context.Background(), in); err != nil {
		t.Fatalf("Insert() err=%v", err)
	}

	// Mutating the caller's slice must not leak into the store.
	in.DietaryRestrictions[0] = domain.DietaryKeto

	got, err := r.FindByID(context.Background(), "i1")
	if err != nil {
		t.Fatalf("FindByID() err=%v", err)
	}
	if got.DietaryRestrictions[0] != domain.DietaryVegan {
		t.Fatalf("stored dietary=%v, want [Vegan]", got.DietaryRestrictions)
	}

	got.DietaryRestrictions[0] = domain.DietaryHalal
	again, _ := r.FindByID(context.Background(), "i1")
	if again.DietaryRestrictions[0] != domain.DietaryVegan {
		t.Fatalf("FindByID returned shared slice")
	}
}

func TestRepo_InsertRejectsEmptyID(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	if _, err := r.Insert(context.Background(), domain.Individual{}); err != individualrepo.ErrAlreadyExists {
		t.Fatalf("Insert() err=%v, want %v", err, individualrepo.ErrAlreadyExists)
	}
}

func TestRepo_FindAllTieBreaksByIDDescending(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	now := time.Unix(100, 0).UTC()
	for _, id := range []domain.IndividualID{"a", "c", "b"} {
		if _, err := r.Insert(context.Background(), domain.Individual{ID: id, CreatedAt: now, UpdatedAt: now}); err != nil {
			t.Fatalf("Insert(%s) err=%v", id, err)
		}
	}
	all, err := r.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll() err=%v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[1].ID != "b" || all[2].ID != "a" {
		t.Fatalf("FindAll() order=%v", []domain.IndividualID{all[0].ID, all[1].ID, all[2].ID})
	}
}
