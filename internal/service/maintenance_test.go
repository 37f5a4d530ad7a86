package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/mileage-tracker/internal/service"
)

func TestMaintenanceService_ClearAll(t *testing.T) {
	cleared := false
	repo := &mockMaintenanceRepo{
		clearAll: func(_ context.Context) error {
			cleared = true
			return nil
		},
	}
	svc := service.NewMaintenanceService(repo)

	require.NoError(t, svc.ClearAll(context.Background()))
	assert.True(t, cleared)
}

func TestMaintenanceService_ClearAll_Error(t *testing.T) {
	boom := errors.New("truncate failed")
	repo := &mockMaintenanceRepo{
		clearAll: func(_ context.Context) error { return boom },
	}
	svc := service.NewMaintenanceService(repo)

	err := svc.ClearAll(context.Background())

	assert.ErrorIs(t, err, boom)
}
