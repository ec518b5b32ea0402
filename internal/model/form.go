package model

import "time"

// Form is a feedback form owned by a creator
type Form struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Questions   []Question `json:"questions" bson:"questions"`
	OwnerID     string     `json:"ownerId" bson:"ownerId"`
	IsActive    bool       `json:"isActive" bson:"isActive"`
	PublicSlug  string     `json:"publicSlug" bson:"publicSlug"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// FormWithStats is the creator-facing view of a form
type FormWithStats struct {
	Form          `bson:",inline"`
	ResponseCount int64 `json:"responseCount" bson:"-"`
}

// PublicForm is what respondents see; it never carries the owner
type PublicForm struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
	PublicSlug  string     `json:"publicSlug"`
}

// Public strips creator-only fields
func (f *Form) Public() *PublicForm {
	return &PublicForm{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Questions:   f.Questions,
		PublicSlug:  f.PublicSlug,
	}
}

// Question looks up a question by id
func (f *Form) Question(id string) (Question, bool) {
	for _, q := range f.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
