package domain

import (
	"fmt"
	"time"
)

// InvitationCodeLength is the fixed length of every invitation code.
const InvitationCodeLength = 5

// InvitationCodeAlphabet is the set of symbols an invitation code is drawn from.
const InvitationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// UnknownGroupName is shown for groups whose members carry no group name.
const UnknownGroupName = "Unknown Group"

// RSVPStatus is the stored response state of one individual.
type RSVPStatus string

const (
	RSVPStatusAccepted   RSVPStatus = "Accepted"
	RSVPStatusDeclined   RSVPStatus = "Declined"
	RSVPStatusPending    RSVPStatus = "Pending"
	RSVPStatusNoResponse RSVPStatus = "No Response"
)

// RSVPStatuses lists every status in display order.
var RSVPStatuses = []RSVPStatus{
	RSVPStatusAccepted,
	RSVPStatusDeclined,
	RSVPStatusPending,
	RSVPStatusNoResponse,
}

func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPStatusAccepted, RSVPStatusDeclined, RSVPStatusPending, RSVPStatusNoResponse:
		return true
	default:
		return false
	}
}

// ParseRSVPStatus validates a wire value. New individuals start as Pending without going
// through here, so an empty value is rejected like any other unknown status.
func ParseRSVPStatus(s string) (RSVPStatus, error) {
	st := RSVPStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown rsvp status %q", s)
	}
	return st, nil
}

// DietaryRestriction is one entry of the fixed dietary vocabulary.
type DietaryRestriction string

const (
	DietaryDairyFree         DietaryRestriction = "Dairy-free"
	DietaryDiabetic          DietaryRestriction = "Diabetic"
	DietaryEggFree           DietaryRestriction = "Egg-free"
	DietaryGlutenFree        DietaryRestriction = "Gluten-free"
	DietaryHalal             DietaryRestriction = "Halal"
	DietaryKeto              DietaryRestriction = "Keto"
	DietaryKosher            DietaryRestriction = "Kosher"
	DietaryLactoseIntolerant DietaryRestriction = "Lactose intolerant"
	DietaryNoSpicyFood       DietaryRestriction = "No spicy food"
	DietaryNutFree           DietaryRestriction = "Nut-free"
	DietaryShellfishFree     DietaryRestriction = "Shellfish-free"
	DietarySoyFree           DietaryRestriction = "Soy-free"
	DietaryVegan             DietaryRestriction = "Vegan"
	DietaryVegetarian        DietaryRestriction = "Vegetarian"
)

// DietaryRestrictions is the full vocabulary in alphabetical order.
var DietaryRestrictions = []DietaryRestriction{
	DietaryDairyFree,
	DietaryDiabetic,
	DietaryEggFree,
	DietaryGlutenFree,
	DietaryHalal,
	DietaryKeto,
	DietaryKosher,
	DietaryLactoseIntolerant,
	DietaryNoSpicyFood,
	DietaryNutFree,
	DietaryShellfishFree,
	DietarySoyFree,
	DietaryVegan,
	DietaryVegetarian,
}

func (d DietaryRestriction) Valid() bool {
	for _, v := range DietaryRestrictions {
		if v == d {
			return true
		}
	}
	return false
}

// ParseDietaryRestrictions validates each value against the vocabulary and drops duplicates,
// keeping first-seen order. A nil or empty input yields an empty, non-nil slice.
func ParseDietaryRestrictions(in []string) ([]DietaryRestriction, error) {
	out := make([]DietaryRestriction, 0, len(in))
	seen := make(map[DietaryRestriction]bool, len(in))
	for _, s := range in {
		d := DietaryRestriction(s)
		if !d.Valid() {
			return nil, fmt.Errorf("unknown dietary restriction %q", s)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out, nil
}

// ValidInvitationCode reports whether c has the exact length and alphabet of an issued code.
func ValidInvitationCode(c InvitationCode) bool {
	if len(c) != InvitationCodeLength {
		return false
	}
	for i := 0; i < len(c); i++ {
		ch := c[i]
		if !(ch >= 'A' && ch <= 'Z') && !(ch >= '0' && ch <= '9') {
			return false
		}
	}
	return true
}

// Individual is one guest.
type Individual struct {
	ID             IndividualID
	InvitationCode InvitationCode

	FirstName string
	LastName  string
	GroupName string

	// Email is optional; nil means unset.
	Email *string

	RSVPStatus          RSVPStatus
	DietaryRestrictions []DietaryRestriction

	// Comments is optional free text; nil means unset.
	Comments *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so callers can't mutate shared slices or pointers.
func (i Individual) Clone() Individual {
	out := i
	if i.Email != nil {
		v := *i.Email
		out.Email = &v
	}
	if i.Comments != nil {
		v := *i.Comments
		out.Comments = &v
	}
	out.DietaryRestrictions = append([]DietaryRestriction{}, i.DietaryRestrictions...)
	return out
}
