package individualrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/domain"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/individualrepo"
)

// Repo is an in-memory implementation of individualrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID   map[domain.IndividualID]domain.Individual
	issued map[domain.InvitationCode]time.Time
}

func NewRepo() *Repo {
	return &Repo{
		byID:   make(map[domain.IndividualID]domain.Individual),
		issued: make(map[domain.InvitationCode]time.Time),
	}
}

func (r *Repo) Insert(ctx context.Context, in domain.Individual) (domain.Individual, error) {
	_ = ctx
	if in.ID == "" {
		return domain.Individual{}, individualrepo.ErrAlreadyExists // empty ID is never valid; the app assigns one
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[in.ID]; ok {
		return domain.Individual{}, individualrepo.ErrAlreadyExists
	}
	stored := in.Clone()
	r.byID[in.ID] = stored
	return stored.Clone(), nil
}

func (r *Repo) FindByID(ctx context.Context, id domain.IndividualID) (domain.Individual, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	in, ok := r.byID[id]
	if !ok {
		return domain.Individual{}, individualrepo.ErrNotFound
	}
	return in.Clone(), nil
}

func (r *Repo) FindByCode(ctx context.Context, code domain.InvitationCode) ([]domain.Individual, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Individual, 0)
	for _, in := range r.byID {
		if in.InvitationCode == code {
			out = append(out, in.Clone())
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *Repo) FindAll(ctx context.Context) ([]domain.Individual, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Individual, 0, len(r.byID))
	for _, in := range r.byID {
		out = append(out, in.Clone())
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *Repo) UpdateByID(ctx context.Context, id domain.IndividualID, p individualrepo.Patch) (domain.Individual, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	in, ok := r.byID[id]
	if !ok {
		return domain.Individual{}, individualrepo.ErrNotFound
	}
	updated := p.Apply(in)
	r.byID[id] = updated
	return updated.Clone(), nil
}

func (r *Repo) DeleteByID(ctx context.Context, id domain.IndividualID) (domain.Individual, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	in, ok := r.byID[id]
	if !ok {
		return domain.Individual{}, individualrepo.ErrNotFound
	}
	delete(r.byID, id)
	return in, nil
}

func (r *Repo) UpdateByCode(ctx context.Context, code domain.InvitationCode, p individualrepo.Patch) (int, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, in := range r.byID {
		if in.InvitationCode != code {
			continue
		}
		r.byID[id] = p.Apply(in)
		n++
	}
	return n, nil
}

func (r *Repo) DeleteByCode(ctx context.Context, code domain.InvitationCode) (int, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, in := range r.byID {
		if in.InvitationCode == code {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

func (r *Repo) ReserveCode(ctx context.Context, code domain.InvitationCode, at time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.issued[code]; ok {
		return individualrepo.ErrCodeTaken
	}
	r.issued[code] = at.UTC()
	return nil
}

func sortNewestFirst(ins []domain.Individual) {
	sort.Slice(ins, func(i, j int) bool {
		if ins[i].CreatedAt.Equal(ins[j].CreatedAt) {
			return ins[i].ID > ins[j].ID
		}
		return ins[i].CreatedAt.After(ins[j].CreatedAt)
	})
}
