package service

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/generator"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/proposal"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Generator produces a raw proposal for a conversation.
type Generator interface {
	Generate(ctx context.Context, messages []generator.Message) ([]byte, error)
}

// GenerateRequest is what a trainer asks the generator for.
type GenerateRequest struct {
	FocusSubsets         []string
	SessionLengthMinutes int
	EquipmentAvailable   []string
	Notes                string
	ClientID             *uuid.UUID
	Date                 time.Time
}

type GenerationService interface {
	// GenerateWorkout asks the external generator for a plan and returns it
	// as a validated draft. Nothing is persisted.
	GenerateWorkout(ctx context.Context, trainerID uuid.UUID, req GenerateRequest) (*domain.WorkoutDraft, error)
	// AcceptProposal validates a raw proposal and creates the workout from it.
	AcceptProposal(ctx context.Context, trainerID uuid.UUID, raw []byte, opts proposal.Options, planOpts PlanOptions) (*domain.Workout, error)
}

type generationService struct {
	resolver   Resolver
	workouts   WorkoutService
	gen        Generator
	limits     proposal.Limits
	maxRetries int
	log        *logger.Logger
}

// NewGenerationService wires proposal handling. gen may be nil, in which case
// GenerateWorkout fails with ErrGeneratorUnavailable and AcceptProposal still works.
func NewGenerationService(resolver Resolver, workouts WorkoutService, gen Generator, limits proposal.Limits, maxRetries int, log *logger.Logger) GenerationService {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &generationService{
		resolver:   resolver,
		workouts:   workouts,
		gen:        gen,
		limits:     limits,
		maxRetries: maxRetries,
		log:        log.With("component", "generation"),
	}
}

func (s *generationService) GenerateWorkout(ctx context.Context, trainerID uuid.UUID, req GenerateRequest) (*domain.WorkoutDraft, error) {
	if s.gen == nil {
		return nil, ErrGeneratorUnavailable
	}

	var client *domain.Client
	if req.ClientID != nil {
		c, ok, err := s.resolver.GetOwnedClient(ctx, trainerID, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, invalid("client_id", "client %s is not available", *req.ClientID)
		}
		client = c
	}

	exercises, err := s.resolver.ListVisibleExercises(ctx, trainerID, repository.ExerciseFilter{})
	if err != nil {
		return nil, err
	}
	visible := proposal.NewVisibleSet(exercises)
	opts := proposal.Options{Date: req.Date, ClientID: req.ClientID}

	messages := generator.BuildMessages(generator.Request{
		FocusSubsets:         req.FocusSubsets,
		SessionLengthMinutes: req.SessionLengthMinutes,
		EquipmentAvailable:   req.EquipmentAvailable,
		Notes:                req.Notes,
		Client:               client,
	}, exercises)

	for attempt := 0; ; attempt++ {
		raw, err := s.gen.Generate(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGeneratorFailed, err)
		}
		draft, err := proposal.Transform(raw, visible, s.limits, opts)
		if err == nil {
			s.log.Info("Workout generated", "trainerID", trainerID, "attempts", attempt+1, "blocks", len(draft.Blocks))
			return draft, nil
		}

		var rejection proposal.Rejection
		if !errors.As(err, &rejection) || !rejection.Retryable() || attempt >= s.maxRetries {
			s.log.Warn("Generated workout rejected", "trainerID", trainerID, "attempts", attempt+1, "code", codeOf(err), "error", err)
			return nil, err
		}
		s.log.Info("Retrying workout generation", "trainerID", trainerID, "attempt", attempt+1, "code", rejection.Code())
		messages = generator.CorrectionMessages(messages, raw, err)
	}
}

func (s *generationService) AcceptProposal(ctx context.Context, trainerID uuid.UUID, raw []byte, opts proposal.Options, planOpts PlanOptions) (*domain.Workout, error) {
	exercises, err := s.resolver.ListVisibleExercises(ctx, trainerID, repository.ExerciseFilter{})
	if err != nil {
		return nil, err
	}
	draft, err := proposal.Transform(raw, proposal.NewVisibleSet(exercises), s.limits, opts)
	if err != nil {
		return nil, err
	}
	return s.workouts.CreateWorkout(ctx, trainerID, *draft, planOpts)
}

func codeOf(err error) string {
	var rejection proposal.Rejection
	if errors.As(err, &rejection) {
		return rejection.Code()
	}
	return ""
}
