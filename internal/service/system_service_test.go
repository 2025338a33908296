package service_test

import (
	"context"
	"testing"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/testutil"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemService(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSystemService(t, db)

	require.NoError(t, svc.CheckHealth(ctx))

	info, err := svc.GetVersionInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, version.Version, info.AppVersion)
	assert.Equal(t, "1", info.DbVersion)
	assert.False(t, info.MigrationNeeded)
	assert.Nil(t, info.MigrationMessage)
	assert.True(t, info.Features["snapshots"])

	db.Close()
	assert.Error(t, svc.CheckHealth(ctx))
}
