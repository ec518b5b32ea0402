package service

import (
	"context"
	"fmt"
	"time"

	"formpulse/internal/cache"
	"formpulse/internal/log"
	"formpulse/internal/model"
	"formpulse/internal/repository"
)

// ResponseService accepts public submissions and serves results to creators
type ResponseService struct {
	forms        *FormService
	responseRepo repository.ResponseRepo
	limiter      cache.SubmissionLimiter
	broadcaster  Broadcaster
	now          func() time.Time
}

// NewResponseService creates a new response service
func NewResponseService(forms *FormService, responseRepo repository.ResponseRepo, limiter cache.SubmissionLimiter) *ResponseService {
	return &ResponseService{
		forms:        forms,
		responseRepo: responseRepo,
		limiter:      limiter,
		broadcaster:  noopBroadcaster{},
		now:          time.Now,
	}
}

// SetBroadcaster sets the broadcaster for live events
func (s *ResponseService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Submit validates raw answers against the public form and stores one response
func (s *ResponseService) Submit(ctx context.Context, slug string, raw []model.RawAnswer, sourceAddress string) (*model.Response, error) {
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, slug, sourceAddress)
		if err != nil {
			log.Warnf("submit limiter %s: %v", slug, err)
		} else if !allowed {
			return nil, ErrRateLimited
		}
	}

	form, err := s.forms.GetPublic(ctx, slug)
	if err != nil {
		return nil, err
	}

	answers, err := ValidateSubmission(form, raw)
	if err != nil {
		return nil, err
	}

	response := &model.Response{
		FormID:        form.ID,
		Answers:       answers,
		SubmittedAt:   s.now().UTC(),
		SourceAddress: sourceAddress,
	}
	if err := s.responseRepo.Create(ctx, response); err != nil {
		return nil, fmt.Errorf("store response: %w", err)
	}

	s.notifySubmitted(ctx, response)
	return response, nil
}

func (s *ResponseService) notifySubmitted(ctx context.Context, response *model.Response) {
	payload := map[string]interface{}{
		"formId":      response.FormID,
		"responseId":  response.ID,
		"submittedAt": response.SubmittedAt,
	}
	count, err := s.responseRepo.CountByForm(ctx, response.FormID)
	if err != nil {
		log.Warnf("count responses for %s: %v", response.FormID, err)
	} else {
		payload["responseCount"] = count
	}
	s.broadcaster.BroadcastToForm(response.FormID, EventResponseSubmitted, payload)
}

// List returns the form's responses, most recent first
func (s *ResponseService) List(ctx context.Context, ownerID, formID string) ([]*model.Response, error) {
	form, err := s.forms.Owned(ctx, ownerID, formID)
	if err != nil {
		return nil, err
	}
	return s.responses(ctx, form)
}

// Summary tallies the form's multiple-choice questions
func (s *ResponseService) Summary(ctx context.Context, ownerID, formID string) (*model.FormSummary, error) {
	form, err := s.forms.Owned(ctx, ownerID, formID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses(ctx, form)
	if err != nil {
		return nil, err
	}
	return &model.FormSummary{
		FormID:         form.ID,
		TotalResponses: len(responses),
		Questions:      Summarize(form, responses),
	}, nil
}

// Export renders the form's responses as CSV and suggests a file name
func (s *ResponseService) Export(ctx context.Context, ownerID, formID string) ([]byte, string, error) {
	form, err := s.forms.Owned(ctx, ownerID, formID)
	if err != nil {
		return nil, "", err
	}
	responses, err := s.responses(ctx, form)
	if err != nil {
		return nil, "", err
	}
	data, err := ExportCSV(form, responses)
	if err != nil {
		return nil, "", err
	}
	return data, ExportFilename(form), nil
}

func (s *ResponseService) responses(ctx context.Context, form *model.Form) ([]*model.Response, error) {
	responses, err := s.responseRepo.ListByForm(ctx, form.ID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return responses, nil
}
