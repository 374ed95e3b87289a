package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"productapi/internal/database"
	"productapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	cases := map[string]string{
		"sqlite:///db.sqlite":                    "sqlite",
		"sqlite://data/db.sqlite":                "sqlite",
		"db.sqlite":                              "sqlite",
		"file::memory:?cache=shared":             "sqlite",
		"postgres://u:p@localhost:5432/products": "postgres",
		"postgresql://u:p@localhost/products":    "postgres",
		"host=127.0.0.1 user=postgres dbname=p":  "postgres",
	}
	for dsn, want := range cases {
		d, err := database.Dialector(dsn)
		require.NoError(t, err, dsn)
		assert.Equal(t, want, d.Name(), dsn)
	}
}

func TestDialector_Rejects(t *testing.T) {
	for _, dsn := range []string{"", "  ", database.MemoryDSN} {
		_, err := database.Dialector(dsn)
		assert.Error(t, err, dsn)
	}
}

func TestOpen_CreatesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.sqlite")

	db, err := database.Open("sqlite:///"+path, false)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	assert.True(t, db.Migrator().HasTable("product"))
	assert.True(t, db.Migrator().HasIndex(&models.Product{}, "Name"))
	assert.NoError(t, database.Ping(context.Background(), db))

	// Opening an existing file keeps its rows.
	require.NoError(t, db.Create(&models.Product{Name: "Widget", Description: "A widget", Price: 9.99, Qty: 5}).Error)
	require.NoError(t, database.Close(db))

	reopened, err := database.Open("sqlite:///"+path, true)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(reopened) })

	var count int64
	require.NoError(t, reopened.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
