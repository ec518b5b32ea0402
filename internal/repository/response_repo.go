package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formpulse/internal/model"
)

// ResponseRepo handles MongoDB operations for responses
type ResponseRepo interface {
	Create(ctx context.Context, response *model.Response) error
	ListByForm(ctx context.Context, formID string) ([]*model.Response, error)
	CountByForm(ctx context.Context, formID string) (int64, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection(responsesCollection),
	}
}

func (r *responseRepo) Create(ctx context.Context, response *model.Response) error {
	if response.ID == "" {
		response.ID = primitive.NewObjectID().Hex()
	}
	if response.SubmittedAt.IsZero() {
		response.SubmittedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, response)
	return err
}

// ListByForm returns the form's responses, most recent first
func (r *responseRepo) ListByForm(ctx context.Context, formID string) ([]*model.Response, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "submittedAt", Value: -1},
		{Key: "_id", Value: -1},
	})
	cursor, err := r.collection.Find(ctx, bson.M{"formId": formID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	responses := []*model.Response{}
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) CountByForm(ctx context.Context, formID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"formId": formID})
}
