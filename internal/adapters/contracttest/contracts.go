package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/platform/idgen"
	idempotencyport "github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/idempotency"
	individualrepoport "github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/individualrepo"
)

type CleanupFunc = func()

type IndividualRepoFactory func(t *testing.T) (individualrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

var ids = idgen.NewGenerator()

// uniqueCode returns a valid invitation code that is very unlikely to collide with rows
// left behind by earlier runs against a shared database.
func uniqueCode() domain.InvitationCode {
	s := ids.NewAt(time.Now())
	// ULID entropy is Crockford base32, a subset of [A-Z0-9].
	return domain.InvitationCode(s[len(s)-domain.InvitationCodeLength:])
}

func strPtr(s string) *string { return &s }

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("k-" + ids.NewAt(time.Now())),
		Subject:  domain.SubjectID("host-1"),
		Method:   "POST",
		Route:    "/groups",
		BodyHash: "",
	}
	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}

	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Fingerprints differing only by body hash are independent.
	respFP := fp
	respFP.BodyHash = "hash-def"
	if _, ok, err := store.Get(ctx, respFP); err != nil || ok {
		t.Fatalf("Get response fp before Put: ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, respFP, idempotencyport.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"invitationCode":"ABCDE"}`),
		CreatedAt:   time.Unix(124, 0).UTC(),
	}); err != nil {
		t.Fatalf("Put response: %v", err)
	}
	got, ok, err = store.Get(ctx, respFP)
	if err != nil || !ok || got.StatusCode != 201 {
		t.Fatalf("expected stored response, got ok=%v err=%v rec=%+v", ok, err, got)
	}
}

func RunIndividualRepo(t *testing.T, newRepo IndividualRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	code := uniqueCode()
	t0 := time.Unix(1_700_000_000, 0).UTC()

	mk := func(first string, createdAt time.Time) domain.Individual {
		return domain.Individual{
			ID:                  domain.IndividualID(ids.NewAt(createdAt)),
			InvitationCode:      code,
			FirstName:           first,
			LastName:            "Doe",
			GroupName:           "Doe Family",
			RSVPStatus:          domain.RSVPStatusPending,
			DietaryRestrictions: []domain.DietaryRestriction{},
			CreatedAt:           createdAt,
			UpdatedAt:           createdAt,
		}
	}

	// Insert + FindByID round trip, including optional fields.
	john := mk("John", t0)
	john.Email = strPtr("john@example.com")
	john.Comments = strPtr("see you there, finally")
	john.DietaryRestrictions = []domain.DietaryRestriction{domain.DietaryVegan, domain.DietaryNutFree}
	stored, err := repo.Insert(ctx, john)
	if err != nil {
		t.Fatalf("Insert john: %v", err)
	}
	if stored.ID != john.ID {
		t.Fatalf("Insert returned id=%q want %q", stored.ID, john.ID)
	}
	got, err := repo.FindByID(ctx, john.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.FirstName != "John" || got.GroupName != "Doe Family" || got.InvitationCode != code {
		t.Fatalf("FindByID()=%+v", got)
	}
	if got.Email == nil || *got.Email != "john@example.com" {
		t.Fatalf("email not persisted: %+v", got.Email)
	}
	if got.Comments == nil || *got.Comments != "see you there, finally" {
		t.Fatalf("comments not persisted: %+v", got.Comments)
	}
	if len(got.DietaryRestrictions) != 2 || got.DietaryRestrictions[0] != domain.DietaryVegan || got.DietaryRestrictions[1] != domain.DietaryNutFree {
		t.Fatalf("dietary restrictions not persisted in order: %v", got.DietaryRestrictions)
	}
	if !got.CreatedAt.Equal(t0) {
		t.Fatalf("createdAt=%v want %v", got.CreatedAt, t0)
	}

	// Duplicate ID.
	if _, err := repo.Insert(ctx, john); !errors.Is(err, individualrepoport.ErrAlreadyExists) {
		t.Fatalf("Insert duplicate err=%v, want ErrAlreadyExists", err)
	}

	// Unknown ID.
	if _, err := repo.FindByID(ctx, domain.IndividualID(ids.NewAt(t0))); !errors.Is(err, individualrepoport.ErrNotFound) {
		t.Fatalf("FindByID unknown err=%v, want ErrNotFound", err)
	}

	jane := mk("Jane", t0.Add(time.Minute))
	if _, err := repo.Insert(ctx, jane); err != nil {
		t.Fatalf("Insert jane: %v", err)
	}

	// FindByCode returns the whole group; unused code returns an empty slice.
	members, err := repo.FindByCode(ctx, code)
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("FindByCode len=%d want 2", len(members))
	}
	none, err := repo.FindByCode(ctx, uniqueCode())
	if err != nil {
		t.Fatalf("FindByCode unused: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("FindByCode unused=%v, want empty non-nil slice", none)
	}

	// FindAll is newest-created first.
	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	janeIdx, johnIdx := -1, -1
	for i, in := range all {
		switch in.ID {
		case jane.ID:
			janeIdx = i
		case john.ID:
			johnIdx = i
		}
	}
	if janeIdx < 0 || johnIdx < 0 || janeIdx > johnIdx {
		t.Fatalf("FindAll ordering: jane at %d, john at %d (want jane first)", janeIdx, johnIdx)
	}

	// UpdateByID applies only the provided fields and refreshes updatedAt.
	t1 := t0.Add(time.Hour)
	accepted := domain.RSVPStatusAccepted
	diet := []domain.DietaryRestriction{domain.DietaryKosher}
	var clearEmail *string
	updated, err := repo.UpdateByID(ctx, john.ID, individualrepoport.Patch{
		RSVPStatus:          &accepted,
		DietaryRestrictions: &diet,
		Email:               &clearEmail,
		UpdatedAt:           t1,
	})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if updated.RSVPStatus != domain.RSVPStatusAccepted || updated.FirstName != "John" {
		t.Fatalf("UpdateByID()=%+v", updated)
	}
	if updated.Email != nil {
		t.Fatalf("expected email cleared, got %q", *updated.Email)
	}
	if updated.Comments == nil || *updated.Comments != "see you there, finally" {
		t.Fatalf("expected comments untouched, got %+v", updated.Comments)
	}
	if len(updated.DietaryRestrictions) != 1 || updated.DietaryRestrictions[0] != domain.DietaryKosher {
		t.Fatalf("dietary=%v", updated.DietaryRestrictions)
	}
	if !updated.UpdatedAt.Equal(t1) || !updated.CreatedAt.Equal(t0) {
		t.Fatalf("timestamps created=%v updated=%v", updated.CreatedAt, updated.UpdatedAt)
	}
	if _, err := repo.UpdateByID(ctx, domain.IndividualID(ids.NewAt(t0)), individualrepoport.Patch{UpdatedAt: t1}); !errors.Is(err, individualrepoport.ErrNotFound) {
		t.Fatalf("UpdateByID unknown err=%v, want ErrNotFound", err)
	}

	// UpdateByCode touches every member and reports the count.
	t2 := t1.Add(time.Hour)
	renamed := "The Does"
	n, err := repo.UpdateByCode(ctx, code, individualrepoport.Patch{GroupName: &renamed, UpdatedAt: t2})
	if err != nil {
		t.Fatalf("UpdateByCode: %v", err)
	}
	if n != 2 {
		t.Fatalf("UpdateByCode n=%d want 2", n)
	}
	members, _ = repo.FindByCode(ctx, code)
	for _, m := range members {
		if m.GroupName != renamed || !m.UpdatedAt.Equal(t2) {
			t.Fatalf("member not renamed: %+v", m)
		}
	}
	if n, err := repo.UpdateByCode(ctx, uniqueCode(), individualrepoport.Patch{GroupName: &renamed, UpdatedAt: t2}); err != nil || n != 0 {
		t.Fatalf("UpdateByCode unused n=%d err=%v", n, err)
	}

	// DeleteByID returns the deleted record.
	deleted, err := repo.DeleteByID(ctx, john.ID)
	if err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if deleted.ID != john.ID {
		t.Fatalf("DeleteByID returned %q", deleted.ID)
	}
	if _, err := repo.DeleteByID(ctx, john.ID); !errors.Is(err, individualrepoport.ErrNotFound) {
		t.Fatalf("DeleteByID twice err=%v, want ErrNotFound", err)
	}

	// DeleteByCode removes the rest.
	n, err = repo.DeleteByCode(ctx, code)
	if err != nil || n != 1 {
		t.Fatalf("DeleteByCode n=%d err=%v", n, err)
	}
	if members, _ := repo.FindByCode(ctx, code); len(members) != 0 {
		t.Fatalf("expected group gone, got %d members", len(members))
	}
	if n, err := repo.DeleteByCode(ctx, code); err != nil || n != 0 {
		t.Fatalf("DeleteByCode empty n=%d err=%v", n, err)
	}

	// Code registry.
	reserved := uniqueCode()
	if err := repo.ReserveCode(ctx, reserved, t0); err != nil {
		t.Fatalf("ReserveCode: %v", err)
	}
	if err := repo.ReserveCode(ctx, reserved, t1); !errors.Is(err, individualrepoport.ErrCodeTaken) {
		t.Fatalf("ReserveCode twice err=%v, want ErrCodeTaken", err)
	}
}
