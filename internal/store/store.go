// Package store implements the recipe catalog's persistence layer: one
// contract, two interchangeable backends. MemoryStore keeps everything in a
// mutex-guarded map for the process lifetime; GormStore is backed by a
// relational database. Both must order and paginate identically, so every
// ordering breaks ties by ascending id.
package store

import (
	"context"
	"strings"

	"github.com/pkoss/recipebook/internal/model"
)

// DefaultLimit is the page size applied when a caller does not supply one.
const DefaultLimit = 6

// SortCriterion selects a result ordering for SortBy.
type SortCriterion string

const (
	SortNewest  SortCriterion = "newest"
	SortOldest  SortCriterion = "oldest"
	SortAZ      SortCriterion = "az"
	SortZA      SortCriterion = "za"
	SortPopular SortCriterion = "popular"
)

// ParseSortCriterion maps a query-parameter value to a SortCriterion. The
// empty string defaults to newest. Unknown values are rejected rather than
// silently ignored.
func ParseSortCriterion(s string) (SortCriterion, error) {
	switch SortCriterion(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	case SortAZ:
		return SortAZ, nil
	case SortZA:
		return SortZA, nil
	case SortPopular:
		return SortPopular, nil
	default:
		return "", &ValidationError{Field: "sort", Message: "unknown sort criterion: " + s}
	}
}

// RecipeUpdate carries the fields of a partial update. Nil pointers leave
// the stored values untouched; a non-nil pointer replaces the field, so an
// explicit empty value can still be rejected by validation.
type RecipeUpdate struct {
	Name         *string
	Description  *string
	Ingredients  *[]string
	Instructions *[]string
	ImageURL     *string
	PrepTime     *int
	CookTime     *int
	Servings     *int
	Tags         *[]string
	Rating       *int
	RatingCount  *int
}

// RecipeStore is the storage contract shared by the in-memory and
// database-backed implementations. List-like operations return records
// newest-first unless the operation says otherwise, sliced by
// [offset, offset+limit).
type RecipeStore interface {
	// List returns recipes ordered newest-first.
	List(ctx context.Context, limit, offset int) ([]model.Recipe, error)
	// Get returns the recipe with the given id or ErrNotFound.
	Get(ctx context.Context, id int64) (model.Recipe, error)
	// ListByAuthor returns all recipes by an author, newest-first, unpaginated.
	ListByAuthor(ctx context.Context, authorID int64) ([]model.Recipe, error)
	// Create assigns id and createdAt, zeroes rating fields, and persists.
	Create(ctx context.Context, spec model.Recipe) (model.Recipe, error)
	// Update shallow-merges the supplied fields; id and createdAt never change.
	Update(ctx context.Context, id int64, upd RecipeUpdate) (model.Recipe, error)
	// Delete removes a recipe, reporting whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)
	// Search matches q case-insensitively against name, description, any
	// ingredient, or any tag. An empty q is equivalent to List.
	Search(ctx context.Context, q string, limit, offset int) ([]model.Recipe, error)
	// FilterByTags returns recipes whose tag set contains every requested tag.
	FilterByTags(ctx context.Context, tags []string, limit, offset int) ([]model.Recipe, error)
	// SortBy orders results by the given criterion.
	SortBy(ctx context.Context, criterion SortCriterion, limit, offset int) ([]model.Recipe, error)

	// Favorite marks a recipe as a favorite of a user; favoriting an already
	// favorited recipe is a no-op. Returns ErrNotFound for unknown recipes.
	Favorite(ctx context.Context, recipeID, userID int64) error
	// Unfavorite removes a favorite mark, reporting whether it existed.
	Unfavorite(ctx context.Context, recipeID, userID int64) (bool, error)
	// ListFavorites returns a user's favorites, most recently favorited first.
	ListFavorites(ctx context.Context, userID int64, limit, offset int) ([]model.Recipe, error)

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}

// clampPage normalizes pagination inputs: non-positive limits fall back to
// DefaultLimit, negative offsets to zero.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// validateSpec enforces the creation invariants: a recipe needs a name and
// at least one ingredient and instruction.
func validateSpec(r model.Recipe) error {
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if len(r.Ingredients) == 0 {
		return &ValidationError{Field: "ingredients", Message: "at least one ingredient is required"}
	}
	if len(r.Instructions) == 0 {
		return &ValidationError{Field: "instructions", Message: "at least one instruction is required"}
	}
	return nil
}

// validateUpdate rejects partial updates that would violate the same
// invariants validateSpec guards at creation.
func validateUpdate(upd RecipeUpdate) error {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return &ValidationError{Field: "name", Message: "name cannot be empty"}
	}
	if upd.Ingredients != nil && len(*upd.Ingredients) == 0 {
		return &ValidationError{Field: "ingredients", Message: "ingredients cannot be empty"}
	}
	if upd.Instructions != nil && len(*upd.Instructions) == 0 {
		return &ValidationError{Field: "instructions", Message: "instructions cannot be empty"}
	}
	return nil
}

// matchesQuery implements the shared substring-match semantics.
func matchesQuery(r model.Recipe, q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.Description), q) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), q) {
			return true
		}
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// hasAllTags implements the AND semantics of FilterByTags.
func hasAllTags(r model.Recipe, tags []string) bool {
	for _, t := range tags {
		if !r.Tags.Contains(t) {
			return false
		}
	}
	return true
}
