package repositories_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"productapi/internal/models"
	"productapi/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteRepository opens a private in-memory SQLite database for one test.
func newSQLiteRepository(t *testing.T) repositories.ProductRepository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return repositories.NewGORMProductRepository(db)
}

func forEachRepository(t *testing.T, run func(t *testing.T, repo repositories.ProductRepository)) {
	t.Run("gorm", func(t *testing.T) { run(t, newSQLiteRepository(t)) })
	t.Run("memory", func(t *testing.T) { run(t, repositories.NewMemoryProductRepository()) })
}

func TestProductRepository_CreateAssignsFreshIDs(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		seen := map[uint]bool{}
		for i := 0; i < 5; i++ {
			p, err := repo.Create(ctx, fmt.Sprintf("Product %d", i), "desc", 1.5, i)
			require.NoError(t, err)
			assert.NotZero(t, p.ID)
			assert.False(t, seen[p.ID], "ID %d reused", p.ID)
			seen[p.ID] = true
		}
	})
}

func TestProductRepository_CreateDuplicateName(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		_, err := repo.Create(ctx, "Widget", "A widget", 9.99, 5)
		require.NoError(t, err)

		_, err = repo.Create(ctx, "Widget", "Another widget", 1.00, 1)
		assert.ErrorIs(t, err, repositories.ErrDuplicateName)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestProductRepository_MissingIDs(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()

		_, err := repo.GetByID(ctx, 42)
		assert.ErrorIs(t, err, repositories.ErrProductNotFound)

		_, err = repo.Update(ctx, 42, "x", "y", 1, 1)
		assert.ErrorIs(t, err, repositories.ErrProductNotFound)

		_, err = repo.Delete(ctx, 42)
		assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	})
}

func TestProductRepository_UpdateThenGet(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		created, err := repo.Create(ctx, "Widget", "A widget", 9.99, 5)
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, "Widget2", "desc2", 19.99, 1)
		require.NoError(t, err)
		assert.Equal(t, models.Product{ID: created.ID, Name: "Widget2", Description: "desc2", Price: 19.99, Qty: 1}, *updated)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ProductView{ID: created.ID, Description: "desc2", Price: 19.99, Qty: 1}, models.ToView(*got))
	})
}

func TestProductRepository_UpdateKeepsOwnName(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		created, err := repo.Create(ctx, "Widget", "A widget", 9.99, 5)
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, "Widget", "same name", 9.99, 6)
		require.NoError(t, err)
		assert.Equal(t, 6, updated.Qty)
	})
}

func TestProductRepository_UpdateDuplicateName(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		_, err := repo.Create(ctx, "Widget", "A widget", 9.99, 5)
		require.NoError(t, err)
		gadget, err := repo.Create(ctx, "Gadget", "A gadget", 4.50, 2)
		require.NoError(t, err)

		_, err = repo.Update(ctx, gadget.ID, "Widget", "renamed", 1, 1)
		assert.ErrorIs(t, err, repositories.ErrDuplicateName)

		got, err := repo.GetByID(ctx, gadget.ID)
		require.NoError(t, err)
		assert.Equal(t, "Gadget", got.Name)
		assert.Equal(t, "A gadget", got.Description)
	})
}

func TestProductRepository_DeleteThenGet(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		created, err := repo.Create(ctx, "Widget", "A widget", 9.99, 5)
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, *created, *deleted)

		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, repositories.ErrProductNotFound)

		// A second delete is a plain not-found.
		_, err = repo.Delete(ctx, created.ID)
		assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	})
}

func TestProductRepository_GetAll(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)

		inputs := []models.Product{
			{Name: "Laptop", Description: "High performance laptop", Price: 1200.00, Qty: 10},
			{Name: "Keyboard", Description: "Mechanical keyboard", Price: 75.00, Qty: 25},
			{Name: "Mouse", Description: "Ergonomic wireless mouse", Price: 25.00, Qty: 0},
		}
		for i := range inputs {
			p, err := repo.Create(ctx, inputs[i].Name, inputs[i].Description, inputs[i].Price, inputs[i].Qty)
			require.NoError(t, err)
			inputs[i].ID = p.ID
		}

		all, err = repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.ToViews(inputs), models.ToViews(all))
	})
}
