package store

import (
	"context"
	"time"

	"github.com/pkoss/recipebook/internal/model"
)

// Seeder is implemented by backends that can load pre-built records
// verbatim, keeping their timestamps instead of assigning fresh ones.
type Seeder interface {
	Seed(ctx context.Context, recipes []model.Recipe) error
}

// Seed loads records into the in-memory store as-is. Records without an id
// get the next monotonic one.
func (s *MemoryStore) Seed(ctx context.Context, recipes []model.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range recipes {
		rec := r.Clone()
		if rec.ID == 0 {
			rec.ID = s.nextID
		}
		if rec.ID >= s.nextID {
			s.nextID = rec.ID + 1
		}
		s.recipes[rec.ID] = rec
	}
	return nil
}

// Seed inserts records verbatim, letting the database assign ids for
// records without one.
func (s *GormStore) Seed(ctx context.Context, recipes []model.Recipe) error {
	for i := range recipes {
		if err := s.db.WithContext(ctx).Create(&recipes[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// DefaultRecipes is the demo catalog: six recipes with strictly increasing
// creation times ending at now, so a newest-first listing is deterministic.
func DefaultRecipes(now time.Time, authorID int64) []model.Recipe {
	at := func(i int) time.Time { return now.Add(time.Duration(i-5) * time.Minute).UTC() }

	return []model.Recipe{
		{
			Name:         "Classic Pancakes",
			Description:  "Fluffy buttermilk pancakes, a weekend breakfast staple.",
			Ingredients:  model.StringArray{"2 cups flour", "2 cups buttermilk", "2 eggs", "2 tbsp sugar", "1 tsp baking soda"},
			Instructions: model.StringArray{"Whisk the dry ingredients.", "Fold in buttermilk and eggs.", "Cook on a hot griddle until golden."},
			ImageURL:     "https://images.recipebook.dev/pancakes.jpg",
			PrepTime:     10,
			CookTime:     15,
			Servings:     4,
			Tags:         model.StringArray{"Breakfast", "Vegetarian"},
			AuthorID:     authorID,
			Rating:       4,
			RatingCount:  12,
			CreatedAt:    at(0),
		},
		{
			Name:         "Chickpea Curry",
			Description:  "A rich coconut chickpea curry ready in half an hour.",
			Ingredients:  model.StringArray{"2 cans chickpeas", "1 can coconut milk", "1 onion", "2 tbsp curry paste", "1 cup rice"},
			Instructions: model.StringArray{"Sauté the onion.", "Add curry paste and chickpeas.", "Simmer with coconut milk.", "Serve over rice."},
			ImageURL:     "https://images.recipebook.dev/chickpea-curry.jpg",
			PrepTime:     10,
			CookTime:     20,
			Servings:     4,
			Tags:         model.StringArray{"Vegan", "Dinner", "Quick"},
			AuthorID:     authorID,
			Rating:       5,
			RatingCount:  31,
			CreatedAt:    at(1),
		},
		{
			Name:         "Beef Lasagna",
			Description:  "Layered pasta with slow-simmered ragù and béchamel.",
			Ingredients:  model.StringArray{"500g ground beef", "12 lasagna sheets", "700ml passata", "50g butter", "50g flour", "500ml milk"},
			Instructions: model.StringArray{"Brown the beef and simmer the ragù.", "Make the béchamel.", "Layer and bake for 40 minutes."},
			ImageURL:     "https://images.recipebook.dev/lasagna.jpg",
			PrepTime:     30,
			CookTime:     60,
			Servings:     6,
			Tags:         model.StringArray{"Dinner"},
			AuthorID:     authorID,
			Rating:       4,
			RatingCount:  22,
			CreatedAt:    at(2),
		},
		{
			Name:         "Avocado Toast",
			Description:  "Smashed avocado on sourdough with chili flakes.",
			Ingredients:  model.StringArray{"2 slices sourdough", "1 ripe avocado", "1 lemon", "chili flakes", "sea salt"},
			Instructions: model.StringArray{"Toast the bread.", "Smash the avocado with lemon.", "Season and spread."},
			ImageURL:     "https://images.recipebook.dev/avocado-toast.jpg",
			PrepTime:     5,
			CookTime:     5,
			Servings:     1,
			Tags:         model.StringArray{"Breakfast", "Vegan", "Quick", "Healthy"},
			AuthorID:     authorID,
			Rating:       3,
			RatingCount:  8,
			CreatedAt:    at(3),
		},
		{
			Name:         "Chocolate Mousse",
			Description:  "Silky dark chocolate mousse made with aquafaba.",
			Ingredients:  model.StringArray{"200g dark chocolate", "150ml aquafaba", "2 tbsp sugar", "1 pinch salt"},
			Instructions: model.StringArray{"Melt the chocolate.", "Whip the aquafaba to stiff peaks.", "Fold together and chill."},
			ImageURL:     "https://images.recipebook.dev/chocolate-mousse.jpg",
			PrepTime:     20,
			CookTime:     0,
			Servings:     4,
			Tags:         model.StringArray{"Dessert", "Vegan"},
			AuthorID:     authorID,
			Rating:       5,
			RatingCount:  17,
			CreatedAt:    at(4),
		},
		{
			Name:         "Greek Salad",
			Description:  "Tomatoes, cucumber, olives and feta with oregano.",
			Ingredients:  model.StringArray{"4 tomatoes", "1 cucumber", "100g feta", "kalamata olives", "olive oil", "dried oregano"},
			Instructions: model.StringArray{"Chop the vegetables.", "Combine with olives and feta.", "Dress with oil and oregano."},
			ImageURL:     "https://images.recipebook.dev/greek-salad.jpg",
			PrepTime:     15,
			CookTime:     0,
			Servings:     2,
			Tags:         model.StringArray{"Healthy", "Vegetarian", "Quick"},
			AuthorID:     authorID,
			Rating:       4,
			RatingCount:  9,
			CreatedAt:    at(5),
		},
	}
}
