package mongo

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoWorkoutRepository implements repository.WorkoutRepository.
// Blocks and sets live inside the workout document.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == uuid.Nil {
		workout.ID = uuid.New()
	}
	if workout.Version == 0 {
		workout.Version = 1
	}
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, toWorkoutDocument(workout))
	return translate(err)
}

func (r *mongoWorkoutRepository) GetOwned(ctx context.Context, id, trainerID uuid.UUID) (*domain.Workout, error) {
	var doc workoutDocument
	filter := bson.M{"_id": id.String(), "trainerId": trainerID.String()}
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	w := doc.toDomain()
	return &w, nil
}

func (r *mongoWorkoutRepository) ListByTrainer(ctx context.Context, trainerID uuid.UUID, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	query := bson.M{"trainerId": trainerID.String()}
	if s := strings.TrimSpace(filter.Query); s != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
	}
	if filter.ClientID != nil {
		query["clientId"] = filter.ClientID.String()
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	findOptions := options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []workoutDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	workouts := make([]domain.Workout, 0, len(docs))
	for i := range docs {
		workouts = append(workouts, docs[i].toDomain())
	}
	return workouts, nil
}

func (r *mongoWorkoutRepository) UpdateMetadata(ctx context.Context, workout *domain.Workout) error {
	workout.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": workout.ID.String(), "trainerId": workout.TrainerID.String()}
	update := bson.M{
		"$set": bson.M{
			"clientId":    optionalIDString(workout.ClientID),
			"title":       workout.Title,
			"date":        workout.Date,
			"status":      string(workout.Status),
			"notes":       workout.Notes,
			"freeformLog": workout.FreeformLog,
			"updatedAt":   workout.UpdatedAt,
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

// ReplaceBlocks swaps the embedded subtree in one document update, so readers
// see either the old plan or the new one.
func (r *mongoWorkoutRepository) ReplaceBlocks(ctx context.Context, workoutID, trainerID uuid.UUID, blocks []domain.Block, expectedVersion *int) (int, error) {
	filter := bson.M{"_id": workoutID.String(), "trainerId": trainerID.String()}
	if expectedVersion != nil {
		filter["version"] = *expectedVersion
	}
	update := bson.M{
		"$set": bson.M{
			"blocks":    toBlockDocuments(blocks),
			"updatedAt": time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"version": 1})

	var out struct {
		Version int `bson:"version"`
	}
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	if err == nil {
		return out.Version, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) || expectedVersion == nil {
		return 0, translate(err)
	}

	// The versioned filter missed: tell a stale version apart from a missing workout.
	n, cerr := r.collection.CountDocuments(ctx, bson.M{"_id": workoutID.String(), "trainerId": trainerID.String()})
	if cerr != nil {
		return 0, cerr
	}
	if n == 0 {
		return 0, repository.ErrNotFound
	}
	return 0, repository.ErrVersionMismatch
}

func (r *mongoWorkoutRepository) Delete(ctx context.Context, id, trainerID uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String(), "trainerId": trainerID.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutRepository) DetachClient(ctx context.Context, trainerID, clientID uuid.UUID) error {
	filter := bson.M{"trainerId": trainerID.String(), "clientId": clientID.String()}
	update := bson.M{"$set": bson.M{"clientId": nil, "updatedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

func (r *mongoWorkoutRepository) CountSetsByExercise(ctx context.Context, exerciseID uuid.UUID) (int64, error) {
	id := exerciseID.String()
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"blocks.sets.exerciseId": id}}},
		{{Key: "$unwind", Value: "$blocks"}},
		{{Key: "$unwind", Value: "$blocks.sets"}},
		{{Key: "$match", Value: bson.M{"blocks.sets.exerciseId": id}}},
		{{Key: "$count", Value: "n"}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		N int64 `bson:"n"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].N, nil
}
