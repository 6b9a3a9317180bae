package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pkoss/recipebook/internal/model"
)

// MemoryStore keeps the whole catalog in a process-wide map guarded by a
// RWMutex. Records live for the process lifetime; ids are assigned
// monotonically from a counter. It is instantiated once at startup and
// passed to the handlers by reference.
type MemoryStore struct {
	mu        sync.RWMutex
	recipes   map[int64]model.Recipe
	favorites map[int64]map[int64]time.Time // userID -> recipeID -> favorited at
	nextID    int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes:   make(map[int64]model.Recipe),
		favorites: make(map[int64]map[int64]time.Time),
		nextID:    1,
	}
}

var _ RecipeStore = (*MemoryStore)(nil)

func (s *MemoryStore) List(ctx context.Context, limit, offset int) ([]model.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.snapshot(nil)
	orderBy(all, SortNewest)
	return page(all, limit, offset), nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (model.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipes[id]
	if !ok {
		return model.Recipe{}, ErrNotFound
	}
	return r.Clone(), nil
}

func (s *MemoryStore) ListByAuthor(ctx context.Context, authorID int64) ([]model.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.snapshot(func(r model.Recipe) bool { return r.AuthorID == authorID })
	orderBy(all, SortNewest)
	return all, nil
}

func (s *MemoryStore) Create(ctx context.Context, spec model.Recipe) (model.Recipe, error) {
	if err := validateSpec(spec); err != nil {
		return model.Recipe{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := spec.Clone()
	r.ID = s.nextID
	s.nextID++
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = nil
	r.Rating = 0
	r.RatingCount = 0

	s.recipes[r.ID] = r
	return r.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, upd RecipeUpdate) (model.Recipe, error) {
	if err := validateUpdate(upd); err != nil {
		return model.Recipe{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok {
		return model.Recipe{}, ErrNotFound
	}

	merged := mergeUpdate(r, upd)
	now := time.Now().UTC()
	merged.UpdatedAt = &now
	s.recipes[id] = merged
	return merged.Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return false, nil
	}
	delete(s.recipes, id)
	for _, favs := range s.favorites {
		delete(favs, id)
	}
	return true, nil
}

func (s *MemoryStore) Search(ctx context.Context, q string, limit, offset int) ([]model.Recipe, error) {
	if q == "" {
		return s.List(ctx, limit, offset)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.snapshot(func(r model.Recipe) bool { return matchesQuery(r, q) })
	orderBy(matched, SortNewest)
	return page(matched, limit, offset), nil
}

func (s *MemoryStore) FilterByTags(ctx context.Context, tags []string, limit, offset int) ([]model.Recipe, error) {
	if len(tags) == 0 {
		return s.List(ctx, limit, offset)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.snapshot(func(r model.Recipe) bool { return hasAllTags(r, tags) })
	orderBy(matched, SortNewest)
	return page(matched, limit, offset), nil
}

func (s *MemoryStore) SortBy(ctx context.Context, criterion SortCriterion, limit, offset int) ([]model.Recipe, error) {
	switch criterion {
	case SortNewest, SortOldest, SortAZ, SortZA, SortPopular:
	default:
		return nil, &ValidationError{Field: "sort", Message: "unknown sort criterion: " + string(criterion)}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.snapshot(nil)
	orderBy(all, criterion)
	return page(all, limit, offset), nil
}

func (s *MemoryStore) Favorite(ctx context.Context, recipeID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[recipeID]; !ok {
		return ErrNotFound
	}
	favs := s.favorites[userID]
	if favs == nil {
		favs = make(map[int64]time.Time)
		s.favorites[userID] = favs
	}
	if _, ok := favs[recipeID]; !ok {
		favs[recipeID] = time.Now().UTC()
	}
	return nil
}

func (s *MemoryStore) Unfavorite(ctx context.Context, recipeID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs := s.favorites[userID]
	if favs == nil {
		return false, nil
	}
	if _, ok := favs[recipeID]; !ok {
		return false, nil
	}
	delete(favs, recipeID)
	return true, nil
}

func (s *MemoryStore) ListFavorites(ctx context.Context, userID int64, limit, offset int) ([]model.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	favs := s.favorites[userID]
	result := make([]model.Recipe, 0, len(favs))
	at := make(map[int64]time.Time, len(favs))
	for id, t := range favs {
		if r, ok := s.recipes[id]; ok {
			result = append(result, r.Clone())
			at[id] = t
		}
	}
	sort.Slice(result, func(i, j int) bool {
		ti, tj := at[result[i].ID], at[result[j].ID]
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return result[i].ID < result[j].ID
	})
	return page(result, limit, offset), nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// snapshot copies every recipe matching the filter while the caller holds
// the lock. A nil filter matches everything.
func (s *MemoryStore) snapshot(match func(model.Recipe) bool) []model.Recipe {
	out := make([]model.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if match == nil || match(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// orderBy sorts in place. Every criterion breaks ties by ascending id so
// the memory and database backends paginate identically.
func orderBy(recipes []model.Recipe, criterion SortCriterion) {
	var less func(a, b model.Recipe) bool

	switch criterion {
	case SortOldest:
		less = func(a, b model.Recipe) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortAZ, SortZA:
		// Collators are not safe for concurrent use, so build one per call.
		col := collate.New(language.English, collate.IgnoreCase)
		if criterion == SortAZ {
			less = func(a, b model.Recipe) bool { return col.CompareString(a.Name, b.Name) < 0 }
		} else {
			less = func(a, b model.Recipe) bool { return col.CompareString(a.Name, b.Name) > 0 }
		}
	case SortPopular:
		less = func(a, b model.Recipe) bool { return a.Rating > b.Rating }
	default: // SortNewest
		less = func(a, b model.Recipe) bool { return a.CreatedAt.After(b.CreatedAt) }
	}

	sort.Slice(recipes, func(i, j int) bool {
		a, b := recipes[i], recipes[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.ID < b.ID
	})
}

// page slices [offset, offset+limit) out of an already ordered result.
func page(recipes []model.Recipe, limit, offset int) []model.Recipe {
	limit, offset = clampPage(limit, offset)
	if offset >= len(recipes) {
		return []model.Recipe{}
	}
	end := offset + limit
	if end > len(recipes) {
		end = len(recipes)
	}
	return recipes[offset:end]
}

// mergeUpdate applies the non-nil fields of upd onto r, leaving id and
// createdAt untouched.
func mergeUpdate(r model.Recipe, upd RecipeUpdate) model.Recipe {
	out := r.Clone()
	if upd.Name != nil {
		out.Name = *upd.Name
	}
	if upd.Description != nil {
		out.Description = *upd.Description
	}
	if upd.Ingredients != nil {
		out.Ingredients = append(model.StringArray(nil), *upd.Ingredients...)
	}
	if upd.Instructions != nil {
		out.Instructions = append(model.StringArray(nil), *upd.Instructions...)
	}
	if upd.ImageURL != nil {
		out.ImageURL = *upd.ImageURL
	}
	if upd.PrepTime != nil {
		out.PrepTime = *upd.PrepTime
	}
	if upd.CookTime != nil {
		out.CookTime = *upd.CookTime
	}
	if upd.Servings != nil {
		out.Servings = *upd.Servings
	}
	if upd.Tags != nil {
		out.Tags = append(model.StringArray(nil), *upd.Tags...)
	}
	if upd.Rating != nil {
		out.Rating = *upd.Rating
	}
	if upd.RatingCount != nil {
		out.RatingCount = *upd.RatingCount
	}
	return out
}
