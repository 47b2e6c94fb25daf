package backend

import (
	"alcyxob/trainer-planner/internal/config"
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/logger"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	store, closeFn, err := Open(ctx, config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, logger.Nop())
	require.NoError(t, err)
	defer closeFn()

	ex := &domain.Exercise{Name: "Plank", PrimaryMuscle: "core"}
	require.NoError(t, store.Exercises.Create(ctx, ex))
	names, err := store.Exercises.ListGlobalNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Plank"}, names)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"}, logger.Nop())
	assert.Error(t, err)
}
