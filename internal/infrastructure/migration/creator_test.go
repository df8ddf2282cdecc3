package migration

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add purchase count", "add_purchase_count"},
		{"Add-Purchase-Count", "add_purchase_count"},
		{"ADD__PURCHASE__COUNT", "add_purchase_count"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("-- test"), 0o644))
	}
}

func TestCreateMigration_NumbersAfterHighestVersion(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"000001_init_schema.up.sql", "000001_init_schema.down.sql",
		"000002_sales_purchase_count.up.sql", "000002_sales_purchase_count.down.sql",
	)

	mf, err := CreateMigration(dir, "add client notes index", "Speeds up note search")
	require.NoError(t, err)

	assert.Equal(t, uint(3), mf.Version)
	assert.Equal(t, "000003_add_client_notes_index.up.sql", filepath.Base(mf.UpPath))
	assert.Equal(t, "000003_add_client_notes_index.down.sql", filepath.Base(mf.DownPath))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Speeds up note search")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
}

func TestCreateMigration_EmptyDirectoryStartsAtOne(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(dir, "init", "")
	require.NoError(t, err)
	assert.Equal(t, uint(1), mf.Version)
	assert.True(t, strings.HasPrefix(filepath.Base(mf.UpPath), "000001_init"))
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"000010_later.up.sql", "000010_later.down.sql",
		"000002_second.up.sql", "000002_second.down.sql",
		"README.md", "notes.up.sql",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, uint(2), migrations[0].Version)
	assert.Equal(t, "second", migrations[0].Name)
	assert.Equal(t, uint(10), migrations[1].Version)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	migrations, err := ListMigrations("/nonexistent/path/to/migrations")
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

// The shipped schema must stay a gapless sequence of complete pairs
func TestShippedMigrations(t *testing.T) {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	dir := filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i, m := range migrations {
		assert.Equal(t, uint(i+1), m.Version, m.Name)
		_, err := os.Stat(m.DownPath)
		assert.NoError(t, err, "missing down migration for %s", m.Name)
	}

	initSQL, err := os.ReadFile(migrations[0].UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(initSQL), "WHERE tax_id IS NOT NULL")
	assert.Contains(t, string(initSQL), "ON DELETE SET NULL")
}
