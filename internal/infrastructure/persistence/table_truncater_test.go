package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	importapp "github.com/lojacrm/backend/internal/application/import"
	"github.com/lojacrm/backend/internal/domain/partner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTableTruncater_DeleteAll(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clients := NewGormClientRepository(db)
	prefs := NewGormPreferenceRepository(db)
	brands := NewGormBrandRepository(db)
	truncater := NewGormTableTruncater(db)

	for _, name := range []string{"Ana", "Bia", "Carla"} {
		c := newClient(t, name, "")
		require.NoError(t, clients.Create(ctx, c))
		require.NoError(t, prefs.LinkBrands(ctx, []partner.ClientBrandPreference{{ClientID: c.ID, BrandID: uuid.New()}}))
	}
	_, err := brands.UpsertNames(ctx, []string{"Farm"})
	require.NoError(t, err)

	for _, table := range importapp.PurgeOrder {
		_, err := truncater.DeleteAll(ctx, table)
		require.NoError(t, err, "table %s", table)
	}

	count, err := clients.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Counts come from the statement, so a second pass deletes nothing
	deleted, err := truncater.DeleteAll(ctx, importapp.PurgeClients)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestGormTableTruncater_ReportsDeletedRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clients := NewGormClientRepository(db)
	truncater := NewGormTableTruncater(db)

	require.NoError(t, clients.Create(ctx, newClient(t, "Ana", "")))
	require.NoError(t, clients.Create(ctx, newClient(t, "Bia", "")))

	deleted, err := truncater.DeleteAll(ctx, importapp.PurgeClients)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestGormTableTruncater_RejectsUnmanagedTable(t *testing.T) {
	truncater := NewGormTableTruncater(newTestDB(t))

	_, err := truncater.DeleteAll(context.Background(), importapp.PurgeTable("import_histories"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not managed")
}
