package service

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/repository"
	"alcyxob/trainer-planner/internal/storage"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ExerciseInput is the body of an exercise create request.
type ExerciseInput struct {
	Name            string
	PrimaryMuscle   string
	MovementPattern string
	Equipment       string
	SkillLevel      string
	Unilateral      bool
	Notes           string
	Tags            []string
}

// ExercisePatch is a partial exercise update. Nil fields are left alone.
type ExercisePatch struct {
	Name            *string
	PrimaryMuscle   *string
	MovementPattern *string
	Equipment       *string
	SkillLevel      *string
	Unilateral      *bool
	IsActive        *bool
	Notes           *string
	Tags            []string // nil leaves tags alone, empty clears them
}

// MediaUpload is a presigned PUT target for an exercise demo file.
type MediaUpload struct {
	UploadURL string
	ObjectKey string
}

// --- Service Interface ---
type ExerciseService interface {
	CreateExercise(ctx context.Context, trainerID uuid.UUID, in ExerciseInput) (*domain.Exercise, error)
	ListExercises(ctx context.Context, trainerID uuid.UUID, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, trainerID, exerciseID uuid.UUID) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, trainerID, exerciseID uuid.UUID, patch ExercisePatch) (*domain.Exercise, error)
	// DeleteExercise fails with ErrExerciseInUse while any set references the exercise.
	DeleteExercise(ctx context.Context, trainerID, exerciseID uuid.UUID) error
	RequestMediaUpload(ctx context.Context, trainerID, exerciseID uuid.UUID, fileName, contentType string) (*MediaUpload, error)
	MediaURL(ctx context.Context, trainerID, exerciseID uuid.UUID) (string, error)
}

// --- Service Implementation ---

type exerciseService struct {
	store    repository.Store
	resolver Resolver
	files    storage.FileStorage
	log      *logger.Logger
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(store repository.Store, resolver Resolver, files storage.FileStorage, log *logger.Logger) ExerciseService {
	return &exerciseService{store: store, resolver: resolver, files: files, log: log}
}

func (s *exerciseService) CreateExercise(ctx context.Context, trainerID uuid.UUID, in ExerciseInput) (*domain.Exercise, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	owner := trainerID
	exercise := &domain.Exercise{
		TrainerID:       &owner,
		Name:            name,
		PrimaryMuscle:   strings.TrimSpace(in.PrimaryMuscle),
		MovementPattern: strings.TrimSpace(in.MovementPattern),
		Equipment:       strings.TrimSpace(in.Equipment),
		SkillLevel:      strings.TrimSpace(in.SkillLevel),
		Unilateral:      in.Unilateral,
		IsActive:        true,
		Notes:           in.Notes,
		Tags:            in.Tags,
	}
	if err := s.store.Exercises.Create(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExerciseNameTaken
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) ListExercises(ctx context.Context, trainerID uuid.UUID, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	return s.resolver.ListVisibleExercises(ctx, trainerID, filter)
}

func (s *exerciseService) GetExercise(ctx context.Context, trainerID, exerciseID uuid.UUID) (*domain.Exercise, error) {
	e, ok, err := s.resolver.GetVisibleExercise(ctx, trainerID, exerciseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *exerciseService) UpdateExercise(ctx context.Context, trainerID, exerciseID uuid.UUID, patch ExercisePatch) (*domain.Exercise, error) {
	e, err := s.owned(ctx, trainerID, exerciseID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid("name", "cannot be empty")
		}
		e.Name = name
	}
	setTrimmed(&e.PrimaryMuscle, patch.PrimaryMuscle)
	setTrimmed(&e.MovementPattern, patch.MovementPattern)
	setTrimmed(&e.Equipment, patch.Equipment)
	setTrimmed(&e.SkillLevel, patch.SkillLevel)
	if patch.Unilateral != nil {
		e.Unilateral = *patch.Unilateral
	}
	if patch.IsActive != nil {
		e.IsActive = *patch.IsActive
	}
	if patch.Notes != nil {
		e.Notes = *patch.Notes
	}
	if patch.Tags != nil {
		e.Tags = patch.Tags
	}

	if err := s.store.Exercises.Update(ctx, e); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExerciseNameTaken
		}
		return nil, mapRepoErr(err)
	}
	return e, nil
}

func (s *exerciseService) DeleteExercise(ctx context.Context, trainerID, exerciseID uuid.UUID) error {
	var mediaKey string
	err := s.store.Transactor.WithTransaction(ctx, func(ctx context.Context) error {
		e, ok, err := s.resolver.LockOwnedExercise(ctx, trainerID, exerciseID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		n, err := s.store.Workouts.CountSetsByExercise(ctx, exerciseID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrExerciseInUse
		}
		mediaKey = e.MediaKey
		return s.store.Exercises.Delete(ctx, exerciseID, trainerID)
	})
	if err != nil {
		return mapRepoErr(err)
	}
	if mediaKey != "" {
		if err := s.files.DeleteObject(ctx, mediaKey); err != nil && !errors.Is(err, storage.ErrDisabled) {
			s.log.Warn("Failed to delete exercise media", "exerciseID", exerciseID, "key", mediaKey, "error", err)
		}
	}
	s.log.Info("Exercise deleted", "exerciseID", exerciseID, "trainerID", trainerID)
	return nil
}

// --- Media ---

func (s *exerciseService) RequestMediaUpload(ctx context.Context, trainerID, exerciseID uuid.UUID, fileName, contentType string) (*MediaUpload, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, invalid("file_name", "is required")
	}
	if !strings.HasPrefix(contentType, "video/") && !strings.HasPrefix(contentType, "image/") {
		return nil, invalid("content_type", "must be a video or image type")
	}
	e, err := s.owned(ctx, trainerID, exerciseID)
	if err != nil {
		return nil, err
	}

	key := storage.ExerciseMediaKey(trainerID, exerciseID, fileName)
	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	previous := e.MediaKey
	e.MediaKey = key
	if err := s.store.Exercises.Update(ctx, e); err != nil {
		return nil, mapRepoErr(err)
	}
	if previous != "" {
		if err := s.files.DeleteObject(ctx, previous); err != nil {
			s.log.Warn("Failed to delete replaced exercise media", "exerciseID", exerciseID, "key", previous, "error", err)
		}
	}
	return &MediaUpload{UploadURL: url, ObjectKey: key}, nil
}

func (s *exerciseService) MediaURL(ctx context.Context, trainerID, exerciseID uuid.UUID) (string, error) {
	e, err := s.GetExercise(ctx, trainerID, exerciseID)
	if err != nil {
		return "", err
	}
	if e.MediaKey == "" {
		return "", ErrNotFound
	}
	return s.files.GeneratePresignedDownloadURL(ctx, e.MediaKey, storage.DefaultPresignedURLExpiry)
}

func (s *exerciseService) owned(ctx context.Context, trainerID, exerciseID uuid.UUID) (*domain.Exercise, error) {
	e, ok, err := s.resolver.GetOwnedExercise(ctx, trainerID, exerciseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
