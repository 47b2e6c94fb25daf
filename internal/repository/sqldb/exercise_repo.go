package sqldb

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type exerciseRepository struct {
	db *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) repository.ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	now := time.Now().UTC()
	if exercise.ID == uuid.Nil {
		exercise.ID = uuid.New()
	}
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	return translate(conn(ctx, r.db).Create(toExerciseModel(exercise)).Error)
}

func (r *exerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	return r.get(conn(ctx, r.db), id)
}

func (r *exerciseRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	db := conn(ctx, r.db)
	if inTransaction(ctx) && supportsRowLocks(r.db) {
		db = db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	return r.get(db, id)
}

func (r *exerciseRepository) get(db *gorm.DB, id uuid.UUID) (*domain.Exercise, error) {
	var m exerciseModel
	if err := db.Where("id = ?", id.String()).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	e := m.toDomain()
	return &e, nil
}

func (r *exerciseRepository) ListVisible(ctx context.Context, trainerID uuid.UUID, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	q := conn(ctx, r.db).Where("(trainer_id IS NULL OR trainer_id = ?)", trainerID.String())
	if s := strings.TrimSpace(filter.Query); s != "" {
		q = q.Where("name_key LIKE ?", "%"+domain.NameKey(s)+"%")
	}
	if filter.PrimaryMuscle != "" {
		q = q.Where("primary_muscle = ?", filter.PrimaryMuscle)
	}
	if filter.MovementPattern != "" {
		q = q.Where("movement_pattern = ?", filter.MovementPattern)
	}
	if filter.Equipment != "" {
		q = q.Where("equipment = ?", filter.Equipment)
	}

	var rows []exerciseModel
	if err := q.Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	exercises := make([]domain.Exercise, 0, len(rows))
	for i := range rows {
		exercises = append(exercises, rows[i].toDomain())
	}
	return exercises, nil
}

func (r *exerciseRepository) VisibleIDs(ctx context.Context, trainerID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := conn(ctx, r.db).Model(&exerciseModel{})
	if inTransaction(ctx) && supportsRowLocks(r.db) {
		// Blocks a concurrent delete of a referenced exercise until this plan commits.
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthShare})
	}
	var found []string
	err := q.
		Where("id IN ?", idStrings(ids)).
		Where("(trainer_id IS NULL OR trainer_id = ?)", trainerID.String()).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, 0, len(found))
	for _, s := range found {
		out = append(out, parseID(s))
	}
	return out, nil
}

func (r *exerciseRepository) ListGlobalNames(ctx context.Context) ([]string, error) {
	var names []string
	err := conn(ctx, r.db).Model(&exerciseModel{}).
		Where("trainer_id IS NULL").
		Order("name ASC").
		Pluck("name", &names).Error
	return names, err
}

func (r *exerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.TrainerID == nil {
		return repository.ErrNotFound
	}
	exercise.UpdatedAt = time.Now().UTC()
	m := toExerciseModel(exercise)
	res := conn(ctx, r.db).Model(&exerciseModel{}).
		Where("id = ? AND trainer_id = ?", m.ID, *m.TrainerID).
		Select("name", "name_key", "primary_muscle", "movement_pattern", "equipment", "skill_level",
			"unilateral", "is_active", "notes", "tags", "media_key", "updated_at").
		Updates(m)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *exerciseRepository) Delete(ctx context.Context, id, trainerID uuid.UUID) error {
	res := conn(ctx, r.db).
		Where("id = ? AND trainer_id = ?", id.String(), trainerID.String()).
		Delete(&exerciseModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
