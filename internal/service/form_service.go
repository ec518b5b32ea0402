package service

import (
	"context"
	"fmt"

	"formpulse/internal/cache"
	"formpulse/internal/log"
	"formpulse/internal/model"
	"formpulse/internal/repository"
)

// FormService handles form CRUD for creators and form lookup for respondents
type FormService struct {
	formRepo     repository.FormRepo
	responseRepo repository.ResponseRepo
	formCache    cache.PublicFormCache
	broadcaster  Broadcaster
}

// NewFormService creates a new form service
func NewFormService(formRepo repository.FormRepo, responseRepo repository.ResponseRepo, formCache cache.PublicFormCache) *FormService {
	return &FormService{
		formRepo:     formRepo,
		responseRepo: responseRepo,
		formCache:    formCache,
		broadcaster:  noopBroadcaster{},
	}
}

// SetBroadcaster sets the broadcaster for live events
func (s *FormService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create validates and stores a new form for ownerID
func (s *FormService) Create(ctx context.Context, ownerID string, in FormInput) (*model.Form, error) {
	if err := validateFormInput(&in); err != nil {
		return nil, err
	}

	form := &model.Form{
		Title:       in.Title,
		Description: in.Description,
		Questions:   buildQuestions(in.Questions, nil),
		OwnerID:     ownerID,
		IsActive:    true,
	}
	if in.IsActive != nil {
		form.IsActive = *in.IsActive
	}

	if err := s.formRepo.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("create form: %w", err)
	}
	return form, nil
}

// List returns the owner's forms, newest first, with response counts
func (s *FormService) List(ctx context.Context, ownerID string) ([]*model.FormWithStats, error) {
	forms, err := s.formRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}

	result := make([]*model.FormWithStats, 0, len(forms))
	for _, f := range forms {
		withStats, err := s.withStats(ctx, f)
		if err != nil {
			return nil, err
		}
		result = append(result, withStats)
	}
	return result, nil
}

// Get returns one of the owner's forms
func (s *FormService) Get(ctx context.Context, ownerID, id string) (*model.FormWithStats, error) {
	form, err := s.Owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.withStats(ctx, form)
}

// Owned fetches a form and checks ownership. Absent forms and forms owned by
// someone else both report ErrFormNotFound.
func (s *FormService) Owned(ctx context.Context, ownerID, id string) (*model.Form, error) {
	form, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get form: %w", err)
	}
	if form == nil || form.OwnerID != ownerID {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// Update re-validates and replaces title, description, questions and the active flag
func (s *FormService) Update(ctx context.Context, ownerID, id string, in FormInput) (*model.Form, error) {
	form, err := s.Owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := validateFormInput(&in); err != nil {
		return nil, err
	}

	form.Title = in.Title
	form.Description = in.Description
	form.Questions = buildQuestions(in.Questions, form.Questions)
	if in.IsActive != nil {
		form.IsActive = *in.IsActive
	}

	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, fmt.Errorf("update form: %w", err)
	}
	s.refreshCache(ctx, form)
	s.broadcaster.BroadcastToForm(form.ID, EventFormUpdated, map[string]interface{}{
		"formId":   form.ID,
		"isActive": form.IsActive,
	})
	return form, nil
}

// Delete removes the form together with all of its responses
func (s *FormService) Delete(ctx context.Context, ownerID, id string) error {
	form, err := s.Owned(ctx, ownerID, id)
	if err != nil {
		return err
	}

	// the public path stops accepting submissions before any response is removed
	s.tombstone(ctx, form.PublicSlug)

	deleted, err := s.formRepo.DeleteWithResponses(ctx, form.ID)
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	if !deleted {
		return ErrFormNotFound
	}

	s.broadcaster.BroadcastToForm(form.ID, EventFormDeleted, map[string]string{"formId": form.ID})
	s.broadcaster.DisconnectForm(form.ID)
	return nil
}

// GetPublic returns an active form by public slug; inactive forms are not found
func (s *FormService) GetPublic(ctx context.Context, slug string) (*model.Form, error) {
	if slug == "" {
		return nil, ErrFormNotFound
	}

	cached, gone, err := s.formCache.Get(ctx, slug)
	if err != nil {
		log.Warnf("form cache get %s: %v", slug, err)
	}
	if gone {
		return nil, ErrFormNotFound
	}
	if cached != nil && cached.IsActive {
		return cached, nil
	}

	form, err := s.formRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get form by slug: %w", err)
	}
	if form == nil || !form.IsActive {
		return nil, ErrFormNotFound
	}

	if err := s.formCache.Set(ctx, form); err != nil {
		log.Warnf("form cache set %s: %v", slug, err)
	}
	return form, nil
}

func (s *FormService) withStats(ctx context.Context, form *model.Form) (*model.FormWithStats, error) {
	count, err := s.responseRepo.CountByForm(ctx, form.ID)
	if err != nil {
		return nil, fmt.Errorf("count responses: %w", err)
	}
	return &model.FormWithStats{Form: *form, ResponseCount: count}, nil
}

// refreshCache writes an updated form through to the public cache, or
// tombstones it when it is no longer accepting submissions
func (s *FormService) refreshCache(ctx context.Context, form *model.Form) {
	if !form.IsActive {
		s.tombstone(ctx, form.PublicSlug)
		return
	}
	if err := s.formCache.Replace(ctx, form); err != nil {
		log.Warnf("form cache replace %s: %v", form.PublicSlug, err)
	}
}

func (s *FormService) tombstone(ctx context.Context, slug string) {
	if err := s.formCache.Tombstone(ctx, slug); err != nil {
		log.Warnf("form cache tombstone %s: %v", slug, err)
	}
}
