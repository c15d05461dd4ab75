package individualrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/sqlite/testutil"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
)

func TestRepo_PreservesSubSecondTimestamps(t *testing.T) {
	t.Parallel()

	repo := NewRepo(testutil.OpenMigratedDB(t))
	at := time.Date(2025, 9, 20, 15, 4, 5, 123456789, time.UTC)

	_, err := repo.Insert(context.Background(), domain.Individual{
		ID:             "01J0000000000000000000000A",
		InvitationCode: "QWERT",
		FirstName:      "Grace",
		LastName:       "Hopper",
		GroupName:      "Hopper",
		RSVPStatus:     domain.RSVPStatusPending,
		CreatedAt:      at,
		UpdatedAt:      at,
	})
	require.NoError(t, err)

	got, err := repo.FindByID(context.Background(), "01J0000000000000000000000A")
	require.NoError(t, err)
	require.True(t, got.CreatedAt.Equal(at), "createdAt=%v", got.CreatedAt)
	require.NotNil(t, got.DietaryRestrictions)
	require.Empty(t, got.DietaryRestrictions)
	require.Nil(t, got.Email)
}

func TestRepo_RejectsUnknownStatusAtSchemaLevel(t *testing.T) {
	t.Parallel()

	repo := NewRepo(testutil.OpenMigratedDB(t))
	now := time.Unix(10, 0).UTC()
	_, err := repo.Insert(context.Background(), domain.Individual{
		ID:             "01J0000000000000000000000B",
		InvitationCode: "QWERT",
		FirstName:      "A",
		LastName:       "B",
		GroupName:      "C",
		RSVPStatus:     domain.RSVPStatus("Maybe"),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	require.Error(t, err)
}
