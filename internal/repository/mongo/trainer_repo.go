package mongo

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoTrainerRepository implements repository.TrainerRepository.
type mongoTrainerRepository struct {
	collection *mongo.Collection
}

func NewMongoTrainerRepository(db *mongo.Database) repository.TrainerRepository {
	return &mongoTrainerRepository{
		collection: db.Collection(trainerCollectionName),
	}
}

// GetOrCreateBySubject upserts on subject, so concurrent first logins converge on one record.
func (r *mongoTrainerRepository) GetOrCreateBySubject(ctx context.Context, subject, email, name string) (*domain.Trainer, error) {
	now := time.Now().UTC()
	filter := bson.M{"subject": subject}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":       uuid.NewString(),
			"subject":   subject,
			"email":     email,
			"name":      name,
			"createdAt": now,
			"updatedAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc trainerDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// Two upserts raced on the unique subject index; the loser re-reads.
		err = r.collection.FindOne(ctx, filter).Decode(&doc)
	}
	if err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(), nil
}

func (r *mongoTrainerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trainer, error) {
	var doc trainerDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(), nil
}
