package api

import (
	"github.com/pkoss/recipebook/internal/model"
	"github.com/pkoss/recipebook/internal/store"
)

// CreateRecipeRequest is the creation shape. Client-supplied id, createdAt,
// rating and authorId are ignored; the server assigns its own.
type CreateRecipeRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients" binding:"required,min=1"`
	Instructions []string `json:"instructions" binding:"required,min=1"`
	ImageURL     string   `json:"imageUrl"`
	PrepTime     int      `json:"prepTime" binding:"min=0"`
	CookTime     int      `json:"cookTime" binding:"min=0"`
	Servings     int      `json:"servings" binding:"min=0"`
	Tags         []string `json:"tags"`
}

func (r CreateRecipeRequest) toModel(authorID int64) model.Recipe {
	return model.Recipe{
		Name:         r.Name,
		Description:  r.Description,
		Ingredients:  model.StringArray(r.Ingredients),
		Instructions: model.StringArray(r.Instructions),
		ImageURL:     r.ImageURL,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		Tags:         model.StringArray(r.Tags),
		AuthorID:     authorID,
	}
}

// UpdateRecipeRequest carries a partial update; absent fields stay nil and
// leave the stored values untouched.
type UpdateRecipeRequest struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	Ingredients  *[]string `json:"ingredients"`
	Instructions *[]string `json:"instructions"`
	ImageURL     *string   `json:"imageUrl"`
	PrepTime     *int      `json:"prepTime"`
	CookTime     *int      `json:"cookTime"`
	Servings     *int      `json:"servings"`
	Tags         *[]string `json:"tags"`
	Rating       *int      `json:"rating"`
	RatingCount  *int      `json:"ratingCount"`
}

func (r UpdateRecipeRequest) toUpdate() store.RecipeUpdate {
	return store.RecipeUpdate{
		Name:         r.Name,
		Description:  r.Description,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		ImageURL:     r.ImageURL,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		Tags:         r.Tags,
		Rating:       r.Rating,
		RatingCount:  r.RatingCount,
	}
}
