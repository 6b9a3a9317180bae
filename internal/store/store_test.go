package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pkoss/recipebook/internal/model"
)

const testAuthorID int64 = 1

// Both backends must satisfy the same contract, so every test runs against
// each of them.
func forEachStore(t *testing.T, fn func(t *testing.T, s RecipeStore)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("gorm", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		require.NoError(t, err)
		require.NoError(t, db.AutoMigrate(&model.Recipe{}, &model.RecipeFavorite{}, &model.User{}))
		fn(t, NewGormStore(db))
	})
}

func seedDefaults(t *testing.T, s RecipeStore) []model.Recipe {
	seeder, ok := s.(Seeder)
	require.True(t, ok, "store must support seeding")
	require.NoError(t, seeder.Seed(context.Background(), DefaultRecipes(time.Now(), testAuthorID)))
	all, err := s.List(context.Background(), 100, 0)
	require.NoError(t, err)
	require.Len(t, all, 6)
	return all
}

func validSpec(name string) model.Recipe {
	return model.Recipe{
		Name:         name,
		Description:  "a test recipe",
		Ingredients:  model.StringArray{"one thing", "another thing"},
		Instructions: model.StringArray{"combine", "serve"},
		PrepTime:     5,
		CookTime:     10,
		Servings:     2,
		Tags:         model.StringArray{"Dinner"},
		AuthorID:     testAuthorID,
	}
}

func TestCreateThenGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()

		spec := validSpec("Test Soup")
		spec.ID = 999   // client-supplied ids must be ignored
		spec.Rating = 5 // and so must client-supplied ratings
		spec.RatingCount = 50

		created, err := s.Create(ctx, spec)
		require.NoError(t, err)
		assert.NotEqual(t, int64(999), created.ID)
		assert.NotZero(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Nil(t, created.UpdatedAt)
		assert.Equal(t, 0, created.Rating)
		assert.Equal(t, 0, created.RatingCount)

		got, err := s.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Name, got.Name)
		assert.Equal(t, created.Ingredients, got.Ingredients)
		assert.Equal(t, created.Instructions, got.Instructions)
		assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Second)
	})
}

func TestCreateValidation(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()

		noName := validSpec("")
		_, err := s.Create(ctx, noName)
		assert.True(t, IsValidation(err), "expected validation error, got %v", err)

		noIngredients := validSpec("No Ingredients")
		noIngredients.Ingredients = nil
		_, err = s.Create(ctx, noIngredients)
		assert.True(t, IsValidation(err))

		noInstructions := validSpec("No Instructions")
		noInstructions.Instructions = nil
		_, err = s.Create(ctx, noInstructions)
		assert.True(t, IsValidation(err))
	})
}

func TestGetMissing(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		_, err := s.Get(context.Background(), 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateMergesFields(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		created, err := s.Create(ctx, validSpec("Before"))
		require.NoError(t, err)

		name := "After"
		servings := 8
		updated, err := s.Update(ctx, created.ID, RecipeUpdate{Name: &name, Servings: &servings})
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Name)
		assert.Equal(t, 8, updated.Servings)
		// untouched fields survive the merge
		assert.Equal(t, created.Description, updated.Description)
		assert.Equal(t, created.Ingredients, updated.Ingredients)
		assert.Equal(t, created.ID, updated.ID)
		assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Second)
		assert.NotNil(t, updated.UpdatedAt)
	})
}

func TestUpdateEmptyIsNoOp(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		created, err := s.Create(ctx, validSpec("Untouched"))
		require.NoError(t, err)

		updated, err := s.Update(ctx, created.ID, RecipeUpdate{})
		require.NoError(t, err)

		// equal to the pre-update record except possibly updatedAt
		assert.Equal(t, created.Name, updated.Name)
		assert.Equal(t, created.Description, updated.Description)
		assert.Equal(t, created.Ingredients, updated.Ingredients)
		assert.Equal(t, created.Instructions, updated.Instructions)
		assert.Equal(t, created.Tags, updated.Tags)
		assert.Equal(t, created.Rating, updated.Rating)
		assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Second)
	})
}

func TestUpdateValidationAndMissing(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		created, err := s.Create(ctx, validSpec("Guarded"))
		require.NoError(t, err)

		empty := ""
		_, err = s.Update(ctx, created.ID, RecipeUpdate{Name: &empty})
		assert.True(t, IsValidation(err))

		noIngredients := []string{}
		_, err = s.Update(ctx, created.ID, RecipeUpdate{Ingredients: &noIngredients})
		assert.True(t, IsValidation(err))

		name := "Whatever"
		_, err = s.Update(ctx, 9999, RecipeUpdate{Name: &name})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteIsIdempotent(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		created, err := s.Create(ctx, validSpec("Doomed"))
		require.NoError(t, err)

		deleted, err := s.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = s.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		deleted, err = s.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, deleted, "double delete must report false, not error")
	})
}

func TestPaginationConcatenation(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		for i := 0; i < 18; i++ {
			_, err := s.Create(ctx, validSpec(fmt.Sprintf("Recipe %02d", i)))
			require.NoError(t, err)
		}

		var pages []model.Recipe
		for _, offset := range []int{0, 6, 12} {
			p, err := s.List(ctx, 6, offset)
			require.NoError(t, err)
			require.Len(t, p, 6)
			pages = append(pages, p...)
		}

		whole, err := s.List(ctx, 18, 0)
		require.NoError(t, err)
		require.Len(t, whole, 18)

		for i := range whole {
			assert.Equal(t, whole[i].ID, pages[i].ID, "page concatenation diverged at %d", i)
		}
	})
}

func TestSortAZReversesZA(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		seedDefaults(t, s)

		az, err := s.SortBy(ctx, SortAZ, 10, 0)
		require.NoError(t, err)
		za, err := s.SortBy(ctx, SortZA, 10, 0)
		require.NoError(t, err)
		require.Equal(t, len(az), len(za))

		for i := range az {
			assert.Equal(t, az[i].ID, za[len(za)-1-i].ID)
		}
		assert.Equal(t, "Avocado Toast", az[0].Name)
		assert.Equal(t, "Greek Salad", za[0].Name)
	})
}

func TestSortByCriteria(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		seedDefaults(t, s)

		newest, err := s.SortBy(ctx, SortNewest, 10, 0)
		require.NoError(t, err)
		for i := 1; i < len(newest); i++ {
			assert.False(t, newest[i].CreatedAt.After(newest[i-1].CreatedAt),
				"newest-first order violated at %d", i)
		}
		assert.Equal(t, "Greek Salad", newest[0].Name)

		oldest, err := s.SortBy(ctx, SortOldest, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, "Classic Pancakes", oldest[0].Name)
		for i := range newest {
			assert.Equal(t, newest[i].ID, oldest[len(oldest)-1-i].ID)
		}

		popular, err := s.SortBy(ctx, SortPopular, 10, 0)
		require.NoError(t, err)
		for i := 1; i < len(popular); i++ {
			assert.GreaterOrEqual(t, popular[i-1].Rating, popular[i].Rating)
		}
		// rating ties break by ascending id
		assert.Equal(t, "Chickpea Curry", popular[0].Name)
		assert.Equal(t, "Chocolate Mousse", popular[1].Name)
	})
}

func TestSortByUnknownCriterion(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		_, err := s.SortBy(context.Background(), SortCriterion("spiciest"), 6, 0)
		assert.True(t, IsValidation(err), "unknown criteria must be rejected, got %v", err)
	})
}

func TestSearch(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		seedDefaults(t, s)

		byName, err := s.Search(ctx, "LASAGNA", 10, 0)
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, "Beef Lasagna", byName[0].Name)

		byIngredient, err := s.Search(ctx, "aquafaba", 10, 0)
		require.NoError(t, err)
		require.Len(t, byIngredient, 1)
		assert.Equal(t, "Chocolate Mousse", byIngredient[0].Name)

		byTag, err := s.Search(ctx, "dessert", 10, 0)
		require.NoError(t, err)
		require.Len(t, byTag, 1)

		byDescription, err := s.Search(ctx, "weekend", 10, 0)
		require.NoError(t, err)
		require.Len(t, byDescription, 1)
		assert.Equal(t, "Classic Pancakes", byDescription[0].Name)

		none, err := s.Search(ctx, "zzz-no-such-thing", 10, 0)
		require.NoError(t, err)
		assert.Empty(t, none)

		// empty query is equivalent to List
		all, err := s.Search(ctx, "", 10, 0)
		require.NoError(t, err)
		assert.Len(t, all, 6)
	})
}

func TestFilterByTags(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		seedDefaults(t, s)

		vegan, err := s.FilterByTags(ctx, []string{"Vegan"}, 10, 0)
		require.NoError(t, err)
		require.Len(t, vegan, 3)
		for _, r := range vegan {
			assert.True(t, r.Tags.Contains("Vegan"), "%s is not vegan", r.Name)
		}

		// AND semantics: every requested tag must be present
		veganDessert, err := s.FilterByTags(ctx, []string{"Vegan", "Dessert"}, 10, 0)
		require.NoError(t, err)
		require.Len(t, veganDessert, 1)
		assert.Equal(t, "Chocolate Mousse", veganDessert[0].Name)

		none, err := s.FilterByTags(ctx, []string{"Vegan", "Dinner", "Dessert"}, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestListByAuthor(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		seedDefaults(t, s)

		other := validSpec("Someone Else's Stew")
		other.AuthorID = 42
		_, err := s.Create(ctx, other)
		require.NoError(t, err)

		mine, err := s.ListByAuthor(ctx, testAuthorID)
		require.NoError(t, err)
		assert.Len(t, mine, 6)

		theirs, err := s.ListByAuthor(ctx, 42)
		require.NoError(t, err)
		require.Len(t, theirs, 1)
		assert.Equal(t, "Someone Else's Stew", theirs[0].Name)
	})
}

func TestFavorites(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RecipeStore) {
		ctx := context.Background()
		all := seedDefaults(t, s)

		assert.ErrorIs(t, s.Favorite(ctx, 9999, testAuthorID), ErrNotFound)

		first, second := all[0], all[1]
		require.NoError(t, s.Favorite(ctx, first.ID, testAuthorID))
		require.NoError(t, s.Favorite(ctx, first.ID, testAuthorID)) // idempotent
		require.NoError(t, s.Favorite(ctx, second.ID, testAuthorID))

		favs, err := s.ListFavorites(ctx, testAuthorID, 10, 0)
		require.NoError(t, err)
		assert.Len(t, favs, 2)

		removed, err := s.Unfavorite(ctx, first.ID, testAuthorID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = s.Unfavorite(ctx, first.ID, testAuthorID)
		require.NoError(t, err)
		assert.False(t, removed)

		favs, err = s.ListFavorites(ctx, testAuthorID, 10, 0)
		require.NoError(t, err)
		require.Len(t, favs, 1)
		assert.Equal(t, second.ID, favs[0].ID)
	})
}

func TestParseSortCriterion(t *testing.T) {
	got, err := ParseSortCriterion("")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, got)

	got, err = ParseSortCriterion("ZA")
	require.NoError(t, err)
	assert.Equal(t, SortZA, got)

	_, err = ParseSortCriterion("spiciest")
	assert.True(t, IsValidation(err))
}
