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

type workoutRepository struct {
	db *gorm.DB
	tx repository.Transactor
}

func NewWorkoutRepository(db *gorm.DB) repository.WorkoutRepository {
	return &workoutRepository{db: db, tx: NewTransactor(db)}
}

func withTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Blocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_index ASC")
		}).
		Preload("Blocks.Sets", func(db *gorm.DB) *gorm.DB {
			return db.Order("set_index ASC")
		})
}

// insertTree writes block and set rows. Callers must already hold a transaction.
func insertTree(db *gorm.DB, workoutID uuid.UUID, blocks []domain.Block) error {
	blockRows, setRows := toBlockModels(workoutID, blocks)
	if len(blockRows) > 0 {
		if err := db.Omit(clause.Associations).Create(&blockRows).Error; err != nil {
			return err
		}
	}
	if len(setRows) > 0 {
		if err := db.Create(&setRows).Error; err != nil {
			return err
		}
	}
	return nil
}

// deleteTree removes every block and set of the workout.
func deleteTree(db *gorm.DB, workoutID string) error {
	blockIDs := db.Model(&blockModel{}).Select("id").Where("workout_id = ?", workoutID)
	if err := db.Where("block_id IN (?)", blockIDs).Delete(&setModel{}).Error; err != nil {
		return err
	}
	return db.Where("workout_id = ?", workoutID).Delete(&blockModel{}).Error
}

func (r *workoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	now := time.Now().UTC()
	if workout.ID == uuid.Nil {
		workout.ID = uuid.New()
	}
	if workout.Version == 0 {
		workout.Version = 1
	}
	workout.CreatedAt = now
	workout.UpdatedAt = now

	return r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		db := conn(ctx, r.db)
		if err := db.Omit(clause.Associations).Create(toWorkoutModel(workout)).Error; err != nil {
			return translate(err)
		}
		return insertTree(db, workout.ID, workout.Blocks)
	})
}

func (r *workoutRepository) GetOwned(ctx context.Context, id, trainerID uuid.UUID) (*domain.Workout, error) {
	var m workoutModel
	err := withTree(conn(ctx, r.db)).
		Where("id = ? AND trainer_id = ?", id.String(), trainerID.String()).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	w := m.toDomain()
	return &w, nil
}

func (r *workoutRepository) ListByTrainer(ctx context.Context, trainerID uuid.UUID, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	q := withTree(conn(ctx, r.db)).Where("trainer_id = ?", trainerID.String())
	if s := strings.TrimSpace(filter.Query); s != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if filter.ClientID != nil {
		q = q.Where("client_id = ?", filter.ClientID.String())
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}

	var rows []workoutModel
	if err := q.Order("date DESC, created_at DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	workouts := make([]domain.Workout, 0, len(rows))
	for i := range rows {
		workouts = append(workouts, rows[i].toDomain())
	}
	return workouts, nil
}

func (r *workoutRepository) UpdateMetadata(ctx context.Context, workout *domain.Workout) error {
	workout.UpdatedAt = time.Now().UTC()
	m := toWorkoutModel(workout)
	res := conn(ctx, r.db).Model(&workoutModel{}).
		Where("id = ? AND trainer_id = ?", m.ID, m.TrainerID).
		Select("client_id", "title", "date", "status", "notes", "freeform_log", "updated_at").
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *workoutRepository) ReplaceBlocks(ctx context.Context, workoutID, trainerID uuid.UUID, blocks []domain.Block, expectedVersion *int) (int, error) {
	var version int
	err := r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		db := conn(ctx, r.db)

		lookup := db.Select("id", "version")
		if supportsRowLocks(r.db) {
			lookup = lookup.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
		}
		var current workoutModel
		err := lookup.
			Where("id = ? AND trainer_id = ?", workoutID.String(), trainerID.String()).
			First(&current).Error
		if err != nil {
			return translate(err)
		}
		if expectedVersion != nil && *expectedVersion != current.Version {
			return repository.ErrVersionMismatch
		}

		if err := deleteTree(db, current.ID); err != nil {
			return err
		}
		if err := insertTree(db, workoutID, blocks); err != nil {
			return err
		}

		version = current.Version + 1
		return db.Model(&workoutModel{}).
			Where("id = ?", current.ID).
			Updates(map[string]any{"version": version, "updated_at": time.Now().UTC()}).Error
	})
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (r *workoutRepository) Delete(ctx context.Context, id, trainerID uuid.UUID) error {
	return r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		db := conn(ctx, r.db)
		res := db.Where("id = ? AND trainer_id = ?", id.String(), trainerID.String()).Delete(&workoutModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return deleteTree(db, id.String())
	})
}

func (r *workoutRepository) DetachClient(ctx context.Context, trainerID, clientID uuid.UUID) error {
	return conn(ctx, r.db).Model(&workoutModel{}).
		Where("trainer_id = ? AND client_id = ?", trainerID.String(), clientID.String()).
		Updates(map[string]any{"client_id": nil, "updated_at": time.Now().UTC()}).Error
}

func (r *workoutRepository) CountSetsByExercise(ctx context.Context, exerciseID uuid.UUID) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&setModel{}).Where("exercise_id = ?", exerciseID.String()).Count(&n).Error
	return n, err
}
