package service

import (
	"alcyxob/trainer-planner/internal/catalog"
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"errors"
	"strings"
)

// SeedResult reports what a seeding run did.
type SeedResult struct {
	Created int
	Skipped int
}

// PlanGlobalSeed returns the global exercises to insert so that every entry
// of desired exists once. Names compare case-insensitively after trimming.
// Entries already seeded, repeated within desired, or lacking a primary
// muscle are left out. An empty result means there is nothing to write.
func PlanGlobalSeed(existingNames []string, desired []catalog.Entry) []domain.Exercise {
	seen := make(map[string]struct{}, len(existingNames)+len(desired))
	for _, n := range existingNames {
		seen[domain.NameKey(n)] = struct{}{}
	}
	var rows []domain.Exercise
	for _, e := range desired {
		name := strings.TrimSpace(e.Name)
		key := domain.NameKey(name)
		if key == "" || strings.TrimSpace(e.PrimaryMuscle) == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, domain.Exercise{
			Name:            name,
			PrimaryMuscle:   strings.TrimSpace(e.PrimaryMuscle),
			MovementPattern: e.MovementPattern,
			Equipment:       e.Equipment,
			SkillLevel:      e.SkillLevel,
			Unilateral:      e.Unilateral,
			IsActive:        true,
			Notes:           e.Notes,
			Tags:            e.Tags,
		})
	}
	return rows
}

// SeedGlobalExercises inserts the missing part of desired into the global
// catalog. Existing rows are never modified, so repeated runs are no-ops.
func SeedGlobalExercises(ctx context.Context, exercises repository.ExerciseRepository, desired []catalog.Entry, log *logger.Logger) (SeedResult, error) {
	var result SeedResult
	existing, err := exercises.ListGlobalNames(ctx)
	if err != nil {
		return result, err
	}
	rows := PlanGlobalSeed(existing, desired)
	result.Skipped = len(desired) - len(rows)

	for i := range rows {
		err := exercises.Create(ctx, &rows[i])
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, repository.ErrDuplicate):
			result.Skipped++
		default:
			log.Error("Global exercise seeding failed", "name", rows[i].Name, "created", result.Created, "error", err)
			return result, err
		}
	}
	log.Info("Global exercise catalog seeded", "created", result.Created, "skipped", result.Skipped)
	return result, nil
}
