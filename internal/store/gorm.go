package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pkoss/recipebook/internal/model"
)

// GormStore is the relational implementation of RecipeStore. Concurrency
// control is delegated to the engine's transaction isolation; concurrent
// updates to the same recipe are last-write-wins.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open GORM connection (postgres in production,
// sqlite in tests).
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ RecipeStore = (*GormStore)(nil)

func (s *GormStore) List(ctx context.Context, limit, offset int) ([]model.Recipe, error) {
	limit, offset = clampPage(limit, offset)
	var recipes []model.Recipe
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id ASC").
		Limit(limit).Offset(offset).
		Find(&recipes).Error
	return recipes, err
}

func (s *GormStore) Get(ctx context.Context, id int64) (model.Recipe, error) {
	var recipe model.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Recipe{}, ErrNotFound
	}
	return recipe, err
}

func (s *GormStore) ListByAuthor(ctx context.Context, authorID int64) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id ASC").
		Find(&recipes).Error
	return recipes, err
}

func (s *GormStore) Create(ctx context.Context, spec model.Recipe) (model.Recipe, error) {
	if err := validateSpec(spec); err != nil {
		return model.Recipe{}, err
	}

	r := spec
	r.ID = 0 // let the database assign it
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = nil
	r.Rating = 0
	r.RatingCount = 0

	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return model.Recipe{}, err
	}
	return r, nil
}

func (s *GormStore) Update(ctx context.Context, id int64, upd RecipeUpdate) (model.Recipe, error) {
	if err := validateUpdate(upd); err != nil {
		return model.Recipe{}, err
	}

	var merged model.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Recipe
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		merged = mergeUpdate(existing, upd)
		now := time.Now().UTC()
		merged.UpdatedAt = &now
		return tx.Save(&merged).Error
	})
	if err != nil {
		return model.Recipe{}, err
	}
	return merged, nil
}

func (s *GormStore) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Recipe{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		if !deleted {
			return nil
		}
		return tx.Delete(&model.RecipeFavorite{}, "recipe_id = ?", id).Error
	})
	return deleted, err
}

func (s *GormStore) Search(ctx context.Context, q string, limit, offset int) ([]model.Recipe, error) {
	if q == "" {
		return s.List(ctx, limit, offset)
	}

	limit, offset = clampPage(limit, offset)
	like := "%" + strings.ToLower(q) + "%"

	query := s.db.WithContext(ctx)
	if s.db.Dialector.Name() == "postgres" {
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients::text) LIKE ? OR LOWER(tags::text) LIKE ?",
			like, like, like, like)
	} else {
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients) LIKE ? OR LOWER(tags) LIKE ?",
			like, like, like, like)
	}

	var recipes []model.Recipe
	err := query.Order("created_at DESC, id ASC").
		Limit(limit).Offset(offset).
		Find(&recipes).Error
	return recipes, err
}

func (s *GormStore) FilterByTags(ctx context.Context, tags []string, limit, offset int) ([]model.Recipe, error) {
	if len(tags) == 0 {
		return s.List(ctx, limit, offset)
	}

	limit, offset = clampPage(limit, offset)
	query := s.db.WithContext(ctx)

	if s.db.Dialector.Name() == "postgres" {
		want, err := json.Marshal(tags)
		if err != nil {
			return nil, err
		}
		query = query.Where("tags @> ?::jsonb", string(want))
	} else {
		// The arrays are stored JSON-encoded, so an exact-element match is a
		// LIKE against the quoted tag.
		for _, tag := range tags {
			encoded, err := json.Marshal(tag)
			if err != nil {
				return nil, err
			}
			query = query.Where("tags LIKE ?", "%"+string(encoded)+"%")
		}
	}

	var recipes []model.Recipe
	err := query.Order("created_at DESC, id ASC").
		Limit(limit).Offset(offset).
		Find(&recipes).Error
	return recipes, err
}

func (s *GormStore) SortBy(ctx context.Context, criterion SortCriterion, limit, offset int) ([]model.Recipe, error) {
	var order string
	switch criterion {
	case SortNewest:
		order = "created_at DESC, id ASC"
	case SortOldest:
		order = "created_at ASC, id ASC"
	case SortAZ:
		order = "LOWER(name) ASC, id ASC"
	case SortZA:
		order = "LOWER(name) DESC, id ASC"
	case SortPopular:
		order = "rating DESC, id ASC"
	default:
		return nil, &ValidationError{Field: "sort", Message: "unknown sort criterion: " + string(criterion)}
	}

	limit, offset = clampPage(limit, offset)
	var recipes []model.Recipe
	err := s.db.WithContext(ctx).
		Order(order).
		Limit(limit).Offset(offset).
		Find(&recipes).Error
	return recipes, err
}

func (s *GormStore) Favorite(ctx context.Context, recipeID, userID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe model.Recipe
		if err := tx.Select("id").First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		fav := model.RecipeFavorite{RecipeID: recipeID, UserID: userID}
		return tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).
			FirstOrCreate(&fav).Error
	})
}

func (s *GormStore) Unfavorite(ctx context.Context, recipeID, userID int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Delete(&model.RecipeFavorite{})
	return res.RowsAffected > 0, res.Error
}

func (s *GormStore) ListFavorites(ctx context.Context, userID int64, limit, offset int) ([]model.Recipe, error) {
	limit, offset = clampPage(limit, offset)
	var recipes []model.Recipe
	err := s.db.WithContext(ctx).
		Select("recipes.*").
		Joins("JOIN recipe_favorites ON recipe_favorites.recipe_id = recipes.id").
		Where("recipe_favorites.user_id = ?", userID).
		Order("recipe_favorites.created_at DESC, recipes.id ASC").
		Limit(limit).Offset(offset).
		Find(&recipes).Error
	return recipes, err
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
