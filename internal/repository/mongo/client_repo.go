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

// mongoClientRepository implements repository.ClientRepository.
type mongoClientRepository struct {
	collection *mongo.Collection
}

func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, toClientDocument(client))
	return translate(err)
}

func (r *mongoClientRepository) GetOwned(ctx context.Context, id, trainerID uuid.UUID) (*domain.Client, error) {
	var doc clientDocument
	filter := bson.M{"_id": id.String(), "trainerId": trainerID.String()}
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	c := doc.toDomain()
	return &c, nil
}

func (r *mongoClientRepository) ListByTrainer(ctx context.Context, trainerID uuid.UUID) ([]domain.Client, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"trainerId": trainerID.String()}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []clientDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	clients := make([]domain.Client, 0, len(docs))
	for i := range docs {
		clients = append(clients, docs[i].toDomain())
	}
	return clients, nil
}

func (r *mongoClientRepository) Update(ctx context.Context, client *domain.Client) error {
	client.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": client.ID.String(), "trainerId": client.TrainerID.String()}
	update := bson.M{
		"$set": bson.M{
			"name":        client.Name,
			"email":       client.Email,
			"notes":       client.Notes,
			"injuryFlags": client.InjuryFlags,
			"updatedAt":   client.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoClientRepository) Delete(ctx context.Context, id, trainerID uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String(), "trainerId": trainerID.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
