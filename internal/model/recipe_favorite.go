package model

import "time"

// RecipeFavorite marks a recipe as a favorite of a user.
type RecipeFavorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipeID  int64     `gorm:"not null;index;uniqueIndex:idx_recipe_user" json:"recipeId"`
	UserID    int64     `gorm:"not null;index;uniqueIndex:idx_recipe_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (RecipeFavorite) TableName() string {
	return "recipe_favorites"
}
