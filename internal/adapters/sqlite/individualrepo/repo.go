package individualrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/sqlite"
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

// Repo is a SQLite implementation of individualrepo.Repository.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Insert(ctx context.Context, in domain.Individual) (domain.Individual, error) {
	if r.db == nil {
		return domain.Individual{}, errors.New("nil sqlite db")
	}
	if in.ID == "" {
		return domain.Individual{}, individualrepo.ErrAlreadyExists
	}
	dietary, err := encodeDietary(in.DietaryRestrictions)
	if err != nil {
		return domain.Individual{}, err
	}

	row := r.db.QueryRowContext(ctx, `
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
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+selectColumns,
		string(in.ID),
		string(in.InvitationCode),
		in.FirstName,
		in.LastName,
		in.GroupName,
		nullString(in.Email),
		string(in.RSVPStatus),
		dietary,
		nullString(in.Comments),
		in.CreatedAt.UTC().UnixNano(),
		in.UpdatedAt.UTC().UnixNano(),
	)
	out, err := scanIndividual(row)
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return domain.Individual{}, individualrepo.ErrAlreadyExists
		}
		return domain.Individual{}, err
	}
	return out, nil
}

func (r *Repo) FindByID(ctx context.Context, id domain.IndividualID) (domain.Individual, error) {
	if r.db == nil {
		return domain.Individual{}, errors.New("nil sqlite db")
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM individuals WHERE id = ?`, string(id))
	return scanIndividual(row)
}

func (r *Repo) FindByCode(ctx context.Context, code domain.InvitationCode) ([]domain.Individual, error) {
	if r.db == nil {
		return nil, errors.New("nil sqlite db")
	}
	return r.query(ctx, `
		SELECT `+selectColumns+`
		FROM individuals
		WHERE invitation_code = ?
		ORDER BY created_at DESC, id DESC
	`, string(code))
}

func (r *Repo) FindAll(ctx context.Context) ([]domain.Individual, error) {
	if r.db == nil {
		return nil, errors.New("nil sqlite db")
	}
	return r.query(ctx, `
		SELECT `+selectColumns+`
		FROM individuals
		ORDER BY created_at DESC, id DESC
	`)
}

func (r *Repo) UpdateByID(ctx context.Context, id domain.IndividualID, p individualrepo.Patch) (domain.Individual, error) {
	if r.db == nil {
		return domain.Individual{}, errors.New("nil sqlite db")
	}
	set, args, err := patchAssignments(p)
	if err != nil {
		return domain.Individual{}, err
	}
	args = append(args, string(id))
	row := r.db.QueryRowContext(ctx, `
		UPDATE individuals
		SET `+set+`
		WHERE id = ?
		RETURNING `+selectColumns, args...)
	return scanIndividual(row)
}

func (r *Repo) DeleteByID(ctx context.Context, id domain.IndividualID) (domain.Individual, error) {
	if r.db == nil {
		return domain.Individual{}, errors.New("nil sqlite db")
	}
	row := r.db.QueryRowContext(ctx, `DELETE FROM individuals WHERE id = ? RETURNING `+selectColumns, string(id))
	return scanIndividual(row)
}

func (r *Repo) UpdateByCode(ctx context.Context, code domain.InvitationCode, p individualrepo.Patch) (int, error) {
	if r.db == nil {
		return 0, errors.New("nil sqlite db")
	}
	set, args, err := patchAssignments(p)
	if err != nil {
		return 0, err
	}
	args = append(args, string(code))
	res, err := r.db.ExecContext(ctx, `UPDATE individuals SET `+set+` WHERE invitation_code = ?`, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *Repo) DeleteByCode(ctx context.Context, code domain.InvitationCode) (int, error) {
	if r.db == nil {
		return 0, errors.New("nil sqlite db")
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM individuals WHERE invitation_code = ?`, string(code))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *Repo) ReserveCode(ctx context.Context, code domain.InvitationCode, at time.Time) error {
	if r.db == nil {
		return errors.New("nil sqlite db")
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO invitation_codes (code, issued_at) VALUES (?, ?)`, string(code), at.UTC().UnixNano())
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return individualrepo.ErrCodeTaken
		}
		return err
	}
	return nil
}

// --- helpers ---

func (r *Repo) query(ctx context.Context, q string, args ...any) ([]domain.Individual, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
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

func patchAssignments(p individualrepo.Patch) (string, []any, error) {
	sets := []string{"updated_at = ?"}
	args := []any{p.UpdatedAt.UTC().UnixNano()}
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
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
		add("email", nullString(*p.Email))
	}
	if p.RSVPStatus != nil {
		add("rsvp_status", string(*p.RSVPStatus))
	}
	if p.DietaryRestrictions != nil {
		enc, err := encodeDietary(*p.DietaryRestrictions)
		if err != nil {
			return "", nil, err
		}
		add("dietary_restrictions", enc)
	}
	if p.Comments != nil {
		add("comments", nullString(*p.Comments))
	}
	return strings.Join(sets, ", "), args, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func encodeDietary(ds []domain.DietaryRestriction) (string, error) {
	if ds == nil {
		ds = []domain.DietaryRestriction{}
	}
	b, err := json.Marshal(ds)
	if err != nil {
		return "", fmt.Errorf("encode dietary restrictions: %w", err)
	}
	return string(b), nil
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
		email     sql.NullString
		status    string
		dietary   string
		comments  sql.NullString
		createdAt int64
		updatedAt int64
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
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Individual{}, individualrepo.ErrNotFound
		}
		return domain.Individual{}, err
	}
	ds := make([]domain.DietaryRestriction, 0)
	if err := json.Unmarshal([]byte(dietary), &ds); err != nil {
		return domain.Individual{}, fmt.Errorf("decode dietary restrictions for %s: %w", id, err)
	}
	out := domain.Individual{
		ID:                  domain.IndividualID(id),
		InvitationCode:      domain.InvitationCode(code),
		FirstName:           first,
		LastName:            last,
		GroupName:           group,
		RSVPStatus:          domain.RSVPStatus(status),
		DietaryRestrictions: ds,
		CreatedAt:           time.Unix(0, createdAt).UTC(),
		UpdatedAt:           time.Unix(0, updatedAt).UTC(),
	}
	if email.Valid {
		v := email.String
		out.Email = &v
	}
	if comments.Valid {
		v := comments.String
		out.Comments = &v
	}
	return out, nil
}
