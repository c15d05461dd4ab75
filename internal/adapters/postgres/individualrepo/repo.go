package individualrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/individualrepo"
)

const selectColumns = `
	id,
	invitation_code,
	first_name,
	last_name,
	group_name,
	email,
	rsvp_status,
	dietary_restrictions,
	comments,
	created_at,
	updated_at
`

// Repo is a Postgres implementation of individualrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Insert(ctx context.Context, in domain.Individual) (domain.Individual, error) {
	if r.pool == nil {
		return domain.Individual{}, errors.New("nil postgres pool")
	}
	if in.ID == "" {
		return domain.Individual{}, individualrepo.ErrAlreadyExists
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO individuals (
			id,
			invitation_code,
			first_name,
			last_name,
			group_name,
			email,
			rsvp_status,
			dietary_restrictions,
			comments,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+selectColumns,
		string(in.ID),
		string(in.InvitationCode),
		in.FirstName,
		in.LastName,
		in.GroupName,
		in.Email,
		string(in.RSVPStatus),
		dietaryToStrings(in.DietaryRestrictions),
		in.Comments,
		in.CreatedAt.UTC(),
		in.UpdatedAt.UTC(),
	)
	out, err := scanIndividual(row)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return domain.Individual{}, individualrepo.ErrAlreadyExists
		}
		return domain.Individual{}, err
	}
	return out, nil
}

func (r *Repo) FindByID(ctx context.Context, id domain.IndividualID) (domain.Individual, error) {
	if r.pool == nil {
		return domain.Individual{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM individuals WHERE id = $1`, string(id))
	return scanIndividual(row)
}

func (r *Repo) FindByCode(ctx context.Context, code domain.InvitationCode) ([]domain.Individual, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	return r.query(ctx, `
		SELECT `+selectColumns+`
		FROM individuals
		WHERE invitation_code = $1
		ORDER BY created_at DESC, id DESC
	`, string(code))
}

func (r *Repo) FindAll(ctx context.Context) ([]domain.Individual, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	return r.query(ctx, `
		SELECT `+selectColumns+`
		FROM individuals
		ORDER BY created_at DESC, id DESC
	`)
}

func (r *Repo) UpdateByID(ctx context.Context, id domain.IndividualID, p individualrepo.Patch) (domain.Individual, error) {
	if r.pool == nil {
		return domain.Individual{}, errors.New("nil postgres pool")
	}
	set, args := patchAssignments(p)
	args = append(args, string(id))
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE individuals
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, set, len(args), selectColumns), args...)
	return scanIndividual(row)
}

func (r *Repo) DeleteByID(ctx context.Context, id domain.IndividualID) (domain.Individual, error) {
	if r.pool == nil {
		return domain.Individual{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `DELETE FROM individuals WHERE id = $1 RETURNING `+selectColumns, string(id))
	return scanIndividual(row)
}

func (r *Repo) UpdateByCode(ctx context.Context, code domain.InvitationCode, p individualrepo.Patch) (int, error) {
	if r.pool == nil {
		return 0, errors.New("nil postgres pool")
	}
	set, args := patchAssignments(p)
	args = append(args, string(code))
	ct, err := r.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE individuals
		SET %s
		WHERE invitation_code = $%d
	`, set, len(args)), args...)
	if err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}

func (r *Repo) DeleteByCode(ctx context.Context, code domain.InvitationCode) (int, error) {
	if r.pool == nil {
		return 0, errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM individuals WHERE invitation_code = $1`, string(code))
	if err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}

func (r *Repo) ReserveCode(ctx context.Context, code domain.InvitationCode, at time.Time) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO invitation_codes (code, issued_at) VALUES ($1, $2)
	`, string(code), at.UTC())
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return individualrepo.ErrCodeTaken
		}
		return err
	}
	return nil
}

// --- helpers ---

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]domain.Individual, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Individual, 0)
	for rows.Next() {
		in, err := scanIndividual(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// patchAssignments renders the SET clause for p. updated_at is always the first assignment.
func patchAssignments(p individualrepo.Patch) (string, []any) {
	sets := []string{"updated_at = $1"}
	args := []any{p.UpdatedAt.UTC()}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.FirstName != nil {
		add("first_name", *p.FirstName)
	}
	if p.LastName != nil {
		add("last_name", *p.LastName)
	}
	if p.GroupName != nil {
		add("group_name", *p.GroupName)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.RSVPStatus != nil {
		add("rsvp_status", string(*p.RSVPStatus))
	}
	if p.DietaryRestrictions != nil {
		add("dietary_restrictions", dietaryToStrings(*p.DietaryRestrictions))
	}
	if p.Comments != nil {
		add("comments", *p.Comments)
	}
	return strings.Join(sets, ", "), args
}

func dietaryToStrings(ds []domain.DietaryRestriction) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, string(d))
	}
	return out
}

func scanIndividual(row interface {
	Scan(dest ...any) error
}) (domain.Individual, error) {
	var (
		id        string
		code      string
		first     string
		last      string
		group     string
		email     *string
		status    string
		dietary   []string
		comments  *string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(
		&id,
		&code,
		&first,
		&last,
		&group,
		&email,
		&status,
		&dietary,
		&comments,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Individual{}, individualrepo.ErrNotFound
		}
		return domain.Individual{}, err
	}
	ds := make([]domain.DietaryRestriction, 0, len(dietary))
	for _, d := range dietary {
		ds = append(ds, domain.DietaryRestriction(d))
	}
	return domain.Individual{
		ID:                  domain.IndividualID(id),
		InvitationCode:      domain.InvitationCode(code),
		FirstName:           first,
		LastName:            last,
		GroupName:           group,
		Email:               email,
		RSVPStatus:          domain.RSVPStatus(status),
		DietaryRestrictions: ds,
		Comments:            comments,
		CreatedAt:           createdAt.UTC(),
		UpdatedAt:           updatedAt.UTC(),
	}, nil
}
