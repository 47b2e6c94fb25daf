package service

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

// ClientInput is the body of a client create request.
type ClientInput struct {
	Name        string
	Email       string
	Notes       string
	InjuryFlags []string
}

// ClientPatch is a partial client update. Nil fields are left alone.
type ClientPatch struct {
	Name        *string
	Email       *string
	Notes       *string
	InjuryFlags []string // nil leaves flags alone, empty clears them
}

type ClientService interface {
	CreateClient(ctx context.Context, trainerID uuid.UUID, in ClientInput) (*domain.Client, error)
	ListClients(ctx context.Context, trainerID uuid.UUID) ([]domain.Client, error)
	GetClient(ctx context.Context, trainerID, clientID uuid.UUID) (*domain.Client, error)
	UpdateClient(ctx context.Context, trainerID, clientID uuid.UUID, patch ClientPatch) (*domain.Client, error)
	// DeleteClient removes the client and clears it from the trainer's workouts.
	DeleteClient(ctx context.Context, trainerID, clientID uuid.UUID) error
}

type clientService struct {
	store    repository.Store
	resolver Resolver
	log      *logger.Logger
}

func NewClientService(store repository.Store, resolver Resolver, log *logger.Logger) ClientService {
	return &clientService{store: store, resolver: resolver, log: log}
}

func (s *clientService) CreateClient(ctx context.Context, trainerID uuid.UUID, in ClientInput) (*domain.Client, error) {
	client := &domain.Client{
		TrainerID:   trainerID,
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Notes:       in.Notes,
		InjuryFlags: in.InjuryFlags,
	}
	if err := validateClient(client); err != nil {
		return nil, err
	}
	if err := s.store.Clients.Create(ctx, client); err != nil {
		return nil, err
	}
	s.log.Info("Client created", "clientID", client.ID, "trainerID", trainerID)
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context, trainerID uuid.UUID) ([]domain.Client, error) {
	return s.store.Clients.ListByTrainer(ctx, trainerID)
}

func (s *clientService) GetClient(ctx context.Context, trainerID, clientID uuid.UUID) (*domain.Client, error) {
	c, ok, err := s.resolver.GetOwnedClient(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *clientService) UpdateClient(ctx context.Context, trainerID, clientID uuid.UUID, patch ClientPatch) (*domain.Client, error) {
	c, err := s.GetClient(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		c.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}
	if patch.InjuryFlags != nil {
		c.InjuryFlags = patch.InjuryFlags
	}
	if err := validateClient(c); err != nil {
		return nil, err
	}
	if err := s.store.Clients.Update(ctx, c); err != nil {
		return nil, mapRepoErr(err)
	}
	return c, nil
}

func (s *clientService) DeleteClient(ctx context.Context, trainerID, clientID uuid.UUID) error {
	err := s.store.Transactor.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Clients.Delete(ctx, clientID, trainerID); err != nil {
			return err
		}
		return s.store.Workouts.DetachClient(ctx, trainerID, clientID)
	})
	if err != nil {
		return mapRepoErr(err)
	}
	s.log.Info("Client deleted", "clientID", clientID, "trainerID", trainerID)
	return nil
}

func validateClient(c *domain.Client) error {
	if c.Name == "" {
		return invalid("name", "is required")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return invalid("email", "is not a valid address")
		}
	}
	return nil
}
