package sqldb

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	now := time.Now().UTC()
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	client.CreatedAt = now
	client.UpdatedAt = now
	return translate(conn(ctx, r.db).Create(toClientModel(client)).Error)
}

func (r *clientRepository) GetOwned(ctx context.Context, id, trainerID uuid.UUID) (*domain.Client, error) {
	var m clientModel
	err := conn(ctx, r.db).
		Where("id = ? AND trainer_id = ?", id.String(), trainerID.String()).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	c := m.toDomain()
	return &c, nil
}

func (r *clientRepository) ListByTrainer(ctx context.Context, trainerID uuid.UUID) ([]domain.Client, error) {
	var rows []clientModel
	err := conn(ctx, r.db).
		Where("trainer_id = ?", trainerID.String()).
		Order("name ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	clients := make([]domain.Client, 0, len(rows))
	for i := range rows {
		clients = append(clients, rows[i].toDomain())
	}
	return clients, nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	client.UpdatedAt = time.Now().UTC()
	m := toClientModel(client)
	res := conn(ctx, r.db).Model(&clientModel{}).
		Where("id = ? AND trainer_id = ?", m.ID, m.TrainerID).
		Select("name", "email", "notes", "injury_flags", "updated_at").
		Updates(m)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id, trainerID uuid.UUID) error {
	res := conn(ctx, r.db).
		Where("id = ? AND trainer_id = ?", id.String(), trainerID.String()).
		Delete(&clientModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
