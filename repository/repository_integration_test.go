//go:build integration

package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"foodgram/db"
	"foodgram/models"
	"foodgram/repository"
	"foodgram/service"
)

// startPostgres runs a throwaway Postgres, applies the migrations and returns a pool
func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "foodgram",
				"POSTGRES_PASSWORD": "foodgram",
				"POSTGRES_DB":       "foodgram",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://foodgram:foodgram@%s:%s/foodgram?sslmode=disable", host, port.Port())

	migrationConn, err := db.Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(migrationConn, false))

	conn, err := db.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

type fixture struct {
	alice, bob  int64
	breakfast   int64
	lunch       int64
	flour, milk int64
	sugar       int64
	sugarCup    int64
}

func seed(t *testing.T, conn *sql.DB) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture

	insert := func(query string, args ...interface{}) int64 {
		var id int64
		require.NoError(t, conn.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id))
		return id
	}

	f.alice = insert(`INSERT INTO users (username, email) VALUES ($1, $2)`, "alice", "alice@example.org")
	f.bob = insert(`INSERT INTO users (username, email) VALUES ($1, $2)`, "bob", "bob@example.org")
	f.breakfast = insert(`INSERT INTO tags (name, slug, color) VALUES ($1, $2, $3)`, "Завтрак", "breakfast", "#E26C2D")
	f.lunch = insert(`INSERT INTO tags (name, slug, color) VALUES ($1, $2, $3)`, "Обед", "lunch", "#49B64E")
	f.flour = insert(`INSERT INTO ingredients (name, measurement_unit) VALUES ($1, $2)`, "мука", "г")
	f.milk = insert(`INSERT INTO ingredients (name, measurement_unit) VALUES ($1, $2)`, "молоко", "мл")
	f.sugar = insert(`INSERT INTO ingredients (name, measurement_unit) VALUES ($1, $2)`, "сахар", "г")
	f.sugarCup = insert(`INSERT INTO ingredients (name, measurement_unit) VALUES ($1, $2)`, "сахар", "стакан")
	return f
}

func TestRepositories_Postgres(t *testing.T) {
	conn := startPostgres(t)
	f := seed(t, conn)
	ctx := context.Background()

	tags := repository.NewTagRepository(conn)
	ingredients := repository.NewIngredientRepository(conn)
	recipes := repository.NewRecipeRepository(conn)
	carts := repository.NewShoppingCartRepository(conn)

	t.Run("tags and ingredients", func(t *testing.T) {
		all, err := tags.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		_, err = tags.Get(ctx, 9999)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		found, err := ingredients.List(ctx, "сах")
		require.NoError(t, err)
		assert.Len(t, found, 2)

		found, err = ingredients.List(ctx, "%")
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	pancakes, err := recipes.Create(ctx, f.alice, &models.RecipeInput{
		Name: "Блины", Text: "Смешать и пожарить", CookingTime: 30,
		Tags: []int64{f.breakfast},
		Ingredients: []models.RecipeIngredientInput{
			{ID: f.flour, Amount: 200}, {ID: f.milk, Amount: 500}, {ID: f.sugar, Amount: 20},
		},
	})
	require.NoError(t, err)

	cake, err := recipes.Create(ctx, f.bob, &models.RecipeInput{
		Name: "Пирог", Text: "Испечь", CookingTime: 60,
		Tags: []int64{f.lunch},
		Ingredients: []models.RecipeIngredientInput{
			{ID: f.sugar, Amount: 100}, {ID: f.flour, Amount: 300}, {ID: f.sugarCup, Amount: 1},
		},
	})
	require.NoError(t, err)

	t.Run("unknown references are rejected", func(t *testing.T) {
		_, err := recipes.Create(ctx, f.alice, &models.RecipeInput{
			Name: "x", Text: "y", CookingTime: 1,
			Tags:        []int64{9999},
			Ingredients: []models.RecipeIngredientInput{{ID: f.flour, Amount: 1}},
		})
		assert.ErrorIs(t, err, repository.ErrUnknownReference)
	})

	t.Run("list filters", func(t *testing.T) {
		list, total, err := recipes.List(ctx, models.RecipeFilter{}, models.Page{Number: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, list, 2)
		assert.Equal(t, cake, list[0].ID)

		list, total, err = recipes.List(ctx, models.RecipeFilter{Tags: []string{"breakfast"}}, models.Page{Number: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, pancakes, list[0].ID)
		assert.Len(t, list[0].Ingredients, 3)

		author := f.bob
		_, total, err = recipes.List(ctx, models.RecipeFilter{AuthorID: &author}, models.Page{Number: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("cart", func(t *testing.T) {
		_, err := carts.Add(ctx, f.alice, pancakes)
		require.NoError(t, err)
		_, err = carts.Add(ctx, f.alice, cake)
		require.NoError(t, err)

		_, err = carts.Add(ctx, f.alice, cake)
		assert.ErrorIs(t, err, repository.ErrAlreadyInCart)

		rec, err := recipes.Get(ctx, cake, f.alice)
		require.NoError(t, err)
		assert.True(t, rec.IsInShoppingCart)

		list, total, err := recipes.List(ctx, models.RecipeFilter{ViewerID: f.bob, IsInShoppingCart: true}, models.Page{Number: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, list)

		items, err := carts.ListLineItems(ctx, f.alice)
		require.NoError(t, err)
		assert.Equal(t, []models.LineItem{
			{Name: "мука", MeasurementUnit: "г", Amount: 200},
			{Name: "молоко", MeasurementUnit: "мл", Amount: 500},
			{Name: "сахар", MeasurementUnit: "г", Amount: 20},
			{Name: "сахар", MeasurementUnit: "г", Amount: 100},
			{Name: "мука", MeasurementUnit: "г", Amount: 300},
			{Name: "сахар", MeasurementUnit: "стакан", Amount: 1},
		}, items)
	})

	t.Run("shopping list from the database", func(t *testing.T) {
		svc := service.NewShoppingListService(carts, nil, service.NewTextRenderer())

		doc, err := svc.Export(ctx, f.alice, service.FormatText)
		require.NoError(t, err)
		assert.Equal(t, "Список покупок:\n"+
			"1) Мука - 500 г.\n"+
			"2) Молоко - 500 мл.\n"+
			"3) Сахар - 120 г.\n"+
			"4) Сахар - 1 стакан.\n", string(doc.Data))
	})

	t.Run("update replaces relations", func(t *testing.T) {
		err := recipes.Update(ctx, pancakes, &models.RecipeInput{
			Name: "Блинчики", Text: "Тонкие", CookingTime: 25,
			Tags:        []int64{f.breakfast, f.lunch},
			Ingredients: []models.RecipeIngredientInput{{ID: f.milk, Amount: 250}},
		})
		require.NoError(t, err)

		rec, err := recipes.Get(ctx, pancakes, 0)
		require.NoError(t, err)
		assert.Equal(t, "Блинчики", rec.Name)
		assert.Len(t, rec.Tags, 2)
		require.Len(t, rec.Ingredients, 1)
		assert.Equal(t, 250, rec.Ingredients[0].Amount)
		assert.False(t, rec.IsInShoppingCart)

		assert.ErrorIs(t, recipes.Update(ctx, 9999, &models.RecipeInput{}), repository.ErrNotFound)
	})

	t.Run("remove and delete", func(t *testing.T) {
		require.NoError(t, carts.Remove(ctx, f.alice, cake))
		assert.ErrorIs(t, carts.Remove(ctx, f.alice, cake), repository.ErrNotInCart)

		require.NoError(t, recipes.Delete(ctx, pancakes))
		assert.ErrorIs(t, recipes.Delete(ctx, pancakes), repository.ErrNotFound)

		items, err := carts.ListLineItems(ctx, f.alice)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
