package service

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

type fakeFormRepo struct {
	mu    sync.Mutex
	forms map[string]*model.Form
	// responses is shared with fakeResponseRepo for the cascade
	responses *fakeResponseRepo
	seq       int
}

func newFakeFormRepo(responses *fakeResponseRepo) *fakeFormRepo {
	return &fakeFormRepo{forms: make(map[string]*model.Form), responses: responses}
}

func (r *fakeFormRepo) Create(ctx context.Context, form *model.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	form.ID = fmt.Sprintf("form%02d", r.seq)
	if form.PublicSlug == "" {
		form.PublicSlug = form.ID
	}
	form.CreatedAt = time.Date(2026, 1, 1, 0, 0, r.seq, 0, time.UTC)
	form.UpdatedAt = form.CreatedAt
	cp := *form
	r.forms[form.ID] = &cp
	return nil
}

func (r *fakeFormRepo) GetByID(ctx context.Context, id string) (*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.forms[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeFormRepo) GetBySlug(ctx context.Context, slug string) (*model.Form, error) {
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

func (r *fakeFormRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Form, error) {
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

func (r *fakeFormRepo) Update(ctx context.Context, form *model.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[form.ID]; !ok {
		return fmt.Errorf("form %s not found", form.ID)
	}
	cp := *form
	r.forms[form.ID] = &cp
	return nil
}

func (r *fakeFormRepo) DeleteWithResponses(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[id]; !ok {
		return false, nil
	}
	r.responses.deleteForm(id)
	delete(r.forms, id)
	return true, nil
}

type fakeResponseRepo struct {
	mu        sync.Mutex
	responses []*model.Response
	seq       int
	createErr error
}

func (r *fakeResponseRepo) Create(ctx context.Context, response *model.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	response.ID = fmt.Sprintf("resp%02d", r.seq)
	cp := *response
	r.responses = append(r.responses, &cp)
	return nil
}

func (r *fakeResponseRepo) ListByForm(ctx context.Context, formID string) ([]*model.Response, error) {
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

func (r *fakeResponseRepo) CountByForm(ctx context.Context, formID string) (int64, error) {
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

func (r *fakeResponseRepo) deleteForm(formID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.responses[:0]
	for _, resp := range r.responses {
		if resp.FormID != formID {
			kept = append(kept, resp)
		}
	}
	r.responses = kept
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user%02d", r.seq)
	user.CreatedAt = time.Now().UTC()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeFormCache struct {
	mu         sync.Mutex
	forms      map[string]*model.Form
	tombstones map[string]bool
	getErr     error
}

func newFakeFormCache() *fakeFormCache {
	return &fakeFormCache{forms: make(map[string]*model.Form), tombstones: make(map[string]bool)}
}

func (c *fakeFormCache) Get(ctx context.Context, slug string) (*model.Form, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	if c.tombstones[slug] {
		return nil, true, nil
	}
	if f, ok := c.forms[slug]; ok {
		cp := *f
		return &cp, false, nil
	}
	return nil, false, nil
}

func (c *fakeFormCache) Set(ctx context.Context, form *model.Form) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.forms[form.PublicSlug]; ok || c.tombstones[form.PublicSlug] {
		return nil
	}
	cp := *form
	c.forms[form.PublicSlug] = &cp
	return nil
}

func (c *fakeFormCache) Replace(ctx context.Context, form *model.Form) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tombstones, form.PublicSlug)
	cp := *form
	c.forms[form.PublicSlug] = &cp
	return nil
}

func (c *fakeFormCache) Tombstone(ctx context.Context, slug string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.forms, slug)
	c.tombstones[slug] = true
	return nil
}

// pausingSlugRepo holds a GetBySlug caller after its read until release
// is closed, so a write can land between the read and the cache fill.
// Only the first call pauses.
type pausingSlugRepo struct {
	*fakeFormRepo
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func newPausingSlugRepo(forms *fakeFormRepo) *pausingSlugRepo {
	return &pausingSlugRepo{fakeFormRepo: forms, read: make(chan struct{}), release: make(chan struct{})}
}

func (r *pausingSlugRepo) GetBySlug(ctx context.Context, slug string) (*model.Form, error) {
	form, err := r.fakeFormRepo.GetBySlug(ctx, slug)
	paused := false
	r.once.Do(func() {
		close(r.read)
		paused = true
	})
	if paused {
		<-r.release
	}
	return form, err
}

type fakeLimiter struct {
	allow bool
	err   error
	calls int
}

func (l *fakeLimiter) Allow(ctx context.Context, slug, address string) (bool, error) {
	l.calls++
	return l.allow, l.err
}

type event struct {
	FormID  string
	Type    string
	Payload interface{}
}

type recordingBroadcaster struct {
	mu           sync.Mutex
	events       []event
	disconnected []string
}

func (b *recordingBroadcaster) BroadcastToForm(formID string, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event{FormID: formID, Type: msgType, Payload: payload})
}

func (b *recordingBroadcaster) DisconnectForm(formID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected = append(b.disconnected, formID)
}

type fixture struct {
	forms       *fakeFormRepo
	responses   *fakeResponseRepo
	cache       *fakeFormCache
	limiter     *fakeLimiter
	broadcaster *recordingBroadcaster
	formSvc     *FormService
	responseSvc *ResponseService
}

func newFixture() *fixture {
	f := &fixture{
		responses:   &fakeResponseRepo{},
		cache:       newFakeFormCache(),
		limiter:     &fakeLimiter{allow: true},
		broadcaster: &recordingBroadcaster{},
	}
	f.forms = newFakeFormRepo(f.responses)
	f.formSvc = NewFormService(f.forms, f.responses, f.cache)
	f.responseSvc = NewResponseService(f.formSvc, f.responses, f.limiter)
	f.formSvc.SetBroadcaster(f.broadcaster)
	f.responseSvc.SetBroadcaster(f.broadcaster)
	return f
}

func boolPtr(b bool) *bool { return &b }

func sampleInput() FormInput {
	return FormInput{
		Title:       "  Team Retro  ",
		Description: "Sprint 12",
		Questions: []QuestionInput{
			{Text: "Q1", Type: model.QuestionTypeMultipleChoice, Options: []string{"yes", "no", "  "}},
			{Text: "Q2", Type: model.QuestionTypeText},
			{Text: "Q3", Type: model.QuestionTypeText, Required: boolPtr(false), Options: []string{"ignored"}},
		},
	}
}
