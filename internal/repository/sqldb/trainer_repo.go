package sqldb

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type trainerRepository struct {
	db *gorm.DB
}

func NewTrainerRepository(db *gorm.DB) repository.TrainerRepository {
	return &trainerRepository{db: db}
}

func (r *trainerRepository) GetOrCreateBySubject(ctx context.Context, subject, email, name string) (*domain.Trainer, error) {
	var m trainerModel
	err := conn(ctx, r.db).Where("subject = ?", subject).First(&m).Error
	if err == nil {
		return m.toDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	trainer := &domain.Trainer{
		ID:        uuid.New(),
		Subject:   subject,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := conn(ctx, r.db).Create(toTrainerModel(trainer)).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// Lost a first-login race; the other request provisioned it.
		if err := conn(ctx, r.db).Where("subject = ?", subject).First(&m).Error; err != nil {
			return nil, translate(err)
		}
		return m.toDomain(), nil
	}
	return trainer, nil
}

func (r *trainerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trainer, error) {
	var m trainerModel
	if err := conn(ctx, r.db).Where("id = ?", id.String()).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.toDomain(), nil
}
