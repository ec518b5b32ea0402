package rest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"formpulse/internal/model"
	"formpulse/internal/repository"
)

// memStore backs every repository interface with maps
type memStore struct {
	mu        sync.Mutex
	forms     map[string]*model.Form
	responses []*model.Response
	users     map[string]*model.User
	seq       int
	clock     time.Time
}

func newMemStore() *memStore {
	return &memStore{
		forms: make(map[string]*model.Form),
		users: make(map[string]*model.User),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%03d", prefix, s.seq)
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type memFormRepo struct{ *memStore }

func (r memFormRepo) Create(ctx context.Context, form *model.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	form.ID = r.nextID("form")
	if form.PublicSlug == "" {
		form.PublicSlug = form.ID
	}
	form.CreatedAt = r.tick()
	form.UpdatedAt = form.CreatedAt
	cp := *form
	r.forms[form.ID] = &cp
	return nil
}

func (r memFormRepo) GetByID(ctx context.Context, id string) (*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.forms[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, nil
}

func (r memFormRepo) GetBySlug(ctx context.Context, slug string) (*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.forms {
		if f.PublicSlug == slug {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memFormRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Form
	for _, f := range r.forms {
		if f.OwnerID == ownerID {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memFormRepo) Update(ctx context.Context, form *model.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *form
	r.forms[form.ID] = &cp
	return nil
}

func (r memFormRepo) DeleteWithResponses(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[id]; !ok {
		return false, nil
	}
	kept := r.responses[:0]
	for _, resp := range r.responses {
		if resp.FormID != id {
			kept = append(kept, resp)
		}
	}
	r.responses = kept
	delete(r.forms, id)
	return true, nil
}

type memResponseRepo struct{ *memStore }

func (r memResponseRepo) Create(ctx context.Context, response *model.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	response.ID = r.nextID("resp")
	cp := *response
	r.responses = append(r.responses, &cp)
	return nil
}

func (r memResponseRepo) ListByForm(ctx context.Context, formID string) ([]*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Response
	for i := len(r.responses) - 1; i >= 0; i-- {
		if r.responses[i].FormID == formID {
			out = append(out, r.responses[i])
		}
	}
	return out, nil
}

func (r memResponseRepo) CountByForm(ctx context.Context, formID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, resp := range r.responses {
		if resp.FormID == formID {
			n++
		}
	}
	return n, nil
}

type memUserRepo struct{ *memStore }

func (r memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	user.ID = r.nextID("user")
	user.CreatedAt = r.tick()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r memUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// noCache always misses
type noCache struct{}

func (noCache) Get(ctx context.Context, slug string) (*model.Form, bool, error) {
	return nil, false, nil
}
func (noCache) Set(ctx context.Context, form *model.Form) error     { return nil }
func (noCache) Replace(ctx context.Context, form *model.Form) error { return nil }
func (noCache) Tombstone(ctx context.Context, slug string) error    { return nil }

// countingLimiter allows limit attempts per (slug, address)
type countingLimiter struct {
	mu     sync.Mutex
	limit  int
	counts map[string]int
}

func (l *countingLimiter) Allow(ctx context.Context, slug, address string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts == nil {
		l.counts = make(map[string]int)
	}
	l.counts[slug+"|"+address]++
	return l.counts[slug+"|"+address] <= l.limit, nil
}
