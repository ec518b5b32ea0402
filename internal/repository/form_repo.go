package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formpulse/internal/model"
)

// ErrDuplicateKey is returned when a unique index rejects a write
var ErrDuplicateKey = errors.New("duplicate key")

// mongo IllegalOperation: transactions on a standalone server
const codeIllegalOperation = 20

// FormRepo handles MongoDB operations for forms
type FormRepo interface {
	Create(ctx context.Context, form *model.Form) error
	GetByID(ctx context.Context, id string) (*model.Form, error)
	GetBySlug(ctx context.Context, slug string) (*model.Form, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Form, error)
	Update(ctx context.Context, form *model.Form) error
	DeleteWithResponses(ctx context.Context, id string) (bool, error)
}

type formRepo struct {
	client    *mongo.Client
	forms     *mongo.Collection
	responses *mongo.Collection
}

// NewFormRepo creates a new form repository
func NewFormRepo(db *mongo.Database) FormRepo {
	return &formRepo{
		client:    db.Client(),
		forms:     db.Collection(formsCollection),
		responses: db.Collection(responsesCollection),
	}
}

// Create assigns the id and, when empty, derives the public slug from it
func (r *formRepo) Create(ctx context.Context, form *model.Form) error {
	if form.ID == "" {
		form.ID = primitive.NewObjectID().Hex()
	}
	if form.PublicSlug == "" {
		form.PublicSlug = form.ID
	}
	now := time.Now().UTC()
	form.CreatedAt = now
	form.UpdatedAt = now

	_, err := r.forms.InsertOne(ctx, form)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r *formRepo) GetByID(ctx context.Context, id string) (*model.Form, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *formRepo) GetBySlug(ctx context.Context, slug string) (*model.Form, error) {
	return r.findOne(ctx, bson.M{"publicSlug": slug})
}

func (r *formRepo) findOne(ctx context.Context, filter bson.M) (*model.Form, error) {
	var form model.Form
	err := r.forms.FindOne(ctx, filter).Decode(&form)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Form, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.forms.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	forms := []*model.Form{}
	if err := cursor.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// Update replaces the mutable fields; id, owner, slug and createdAt are left alone
func (r *formRepo) Update(ctx context.Context, form *model.Form) error {
	form.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"title":       form.Title,
		"description": form.Description,
		"questions":   form.Questions,
		"isActive":    form.IsActive,
		"updatedAt":   form.UpdatedAt,
	}}
	_, err := r.forms.UpdateOne(ctx, bson.M{"_id": form.ID}, update)
	return err
}

// DeleteWithResponses removes the form and every response to it. It runs as a
// transaction when the deployment supports one; on a standalone server it
// deactivates the form first so no submission can land between the two deletes.
func (r *formRepo) DeleteWithResponses(ctx context.Context, id string) (bool, error) {
	deleted, err := r.deleteInTransaction(ctx, id)
	var se mongo.ServerError
	if err != nil && errors.As(err, &se) && se.HasErrorCode(codeIllegalOperation) {
		return r.deleteSequentially(ctx, id)
	}
	return deleted, err
}

func (r *formRepo) deleteInTransaction(ctx context.Context, id string) (bool, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return false, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.responses.DeleteMany(sc, bson.M{"formId": id}); err != nil {
			return false, err
		}
		res, err := r.forms.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return false, err
		}
		return res.DeletedCount > 0, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (r *formRepo) deleteSequentially(ctx context.Context, id string) (bool, error) {
	_, err := r.forms.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": false}})
	if err != nil {
		return false, fmt.Errorf("deactivate form: %w", err)
	}
	if _, err := r.responses.DeleteMany(ctx, bson.M{"formId": id}); err != nil {
		return false, fmt.Errorf("delete responses: %w", err)
	}
	res, err := r.forms.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete form: %w", err)
	}
	return res.DeletedCount > 0, nil
}
