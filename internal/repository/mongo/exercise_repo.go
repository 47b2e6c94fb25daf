package mongo

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// visibleTo matches global exercises plus those owned by trainerID.
// A null match also covers documents without the field.
func visibleTo(trainerID uuid.UUID) bson.M {
	return bson.M{"trainerId": bson.M{"$in": bson.A{nil, trainerID.String()}}}
}

// Create inserts a new exercise. A name already taken in the same scope yields ErrDuplicate.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == uuid.Nil {
		exercise.ID = uuid.New()
	}
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, toExerciseDocument(exercise))
	return translate(err)
}

func (r *mongoExerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	var doc exerciseDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	e := doc.toDomain()
	return &e, nil
}

// GetByIDForUpdate is a plain read: Mongo transactions detect write conflicts, not read locks.
func (r *mongoExerciseRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	return r.GetByID(ctx, id)
}

func (r *mongoExerciseRepository) ListVisible(ctx context.Context, trainerID uuid.UUID, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	query := visibleTo(trainerID)
	if s := strings.TrimSpace(filter.Query); s != "" {
		query["nameKey"] = primitive.Regex{Pattern: regexp.QuoteMeta(domain.NameKey(s))}
	}
	if filter.PrimaryMuscle != "" {
		query["primaryMuscle"] = filter.PrimaryMuscle
	}
	if filter.MovementPattern != "" {
		query["movementPattern"] = filter.MovementPattern
	}
	if filter.Equipment != "" {
		query["equipment"] = filter.Equipment
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []exerciseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	exercises := make([]domain.Exercise, 0, len(docs))
	for i := range docs {
		exercises = append(exercises, docs[i].toDomain())
	}
	return exercises, nil
}

func (r *mongoExerciseRepository) VisibleIDs(ctx context.Context, trainerID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := visibleTo(trainerID)
	query["_id"] = bson.M{"$in": idStrings(ids)}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		out = append(out, parseID(row.ID))
	}
	return out, nil
}

func (r *mongoExerciseRepository) ListGlobalNames(ctx context.Context) ([]string, error) {
	findOptions := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"scope": domain.GlobalScope}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Name string `bson:"name"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}

// Update modifies an owned exercise. The filter pins trainerId, so global rows
// and other trainers' rows never match. The owner itself is never rewritten.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.TrainerID == nil {
		return repository.ErrNotFound
	}
	exercise.UpdatedAt = time.Now().UTC()
	doc := toExerciseDocument(exercise)

	filter := bson.M{"_id": doc.ID, "trainerId": *doc.TrainerID}
	update := bson.M{
		"$set": bson.M{
			"name":            doc.Name,
			"nameKey":         doc.NameKey,
			"primaryMuscle":   doc.PrimaryMuscle,
			"movementPattern": doc.MovementPattern,
			"equipment":       doc.Equipment,
			"skillLevel":      doc.SkillLevel,
			"unilateral":      doc.Unilateral,
			"isActive":        doc.IsActive,
			"notes":           doc.Notes,
			"tags":            doc.Tags,
			"mediaKey":        doc.MediaKey,
			"updatedAt":       doc.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an exercise, ensuring it belongs to the specified trainer.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id, trainerID uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String(), "trainerId": trainerID.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Missing and foreign look the same to the caller.
		return repository.ErrNotFound
	}
	return nil
}
