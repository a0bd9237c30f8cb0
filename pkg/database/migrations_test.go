package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "test.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func writeMigration(t *testing.T, dir, name, sql string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(sql), 0644))
}

func TestNewCreatesDatabaseDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "app.db")
	db, err := New(Config{Path: path}, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}

func TestRunMigrationsAppliesInOrder(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	writeMigration(t, dir, "001_create.sql", `CREATE TABLE itens (id INTEGER PRIMARY KEY, nome TEXT)`)
	writeMigration(t, dir, "002_seed.sql", `INSERT INTO itens (nome) VALUES ('primeiro')`)

	migrator := NewMigrator(db, zap.NewNop())
	require.NoError(t, migrator.RunMigrations(dir))

	var nome string
	require.NoError(t, db.QueryRow(`SELECT nome FROM itens`).Scan(&nome))
	assert.Equal(t, "primeiro", nome)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	writeMigration(t, dir, "001_create.sql", `CREATE TABLE itens (id INTEGER PRIMARY KEY)`)
	writeMigration(t, dir, "002_seed.sql", `INSERT INTO itens DEFAULT VALUES`)

	migrator := NewMigrator(db, zap.NewNop())
	require.NoError(t, migrator.RunMigrations(dir))
	require.NoError(t, migrator.RunMigrations(dir))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM itens`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRunMigrationsRejectsBadFilename(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	writeMigration(t, dir, "notaversion.sql", `SELECT 1`)

	migrator := NewMigrator(db, zap.NewNop())
	assert.Error(t, migrator.RunMigrations(dir))
}
