package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pkoss/recipebook/internal/store"
)

// DefaultAuthorID is stamped onto every recipe created over HTTP.
// Authentication is disabled, so there is no session to take an author from.
const DefaultAuthorID int64 = 1

type RecipeHandler struct {
	store  store.RecipeStore
	logger *zap.Logger
}

func NewRecipeHandler(st store.RecipeStore, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{store: st, logger: logger}
}

// RegisterRoutes mounts the recipe surface. The mutating routes get the
// extra middleware (rate limiting) when any is supplied.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, mutating ...gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/favorites", h.ListFavorites)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", chain(mutating, h.CreateRecipe)...)
		recipes.PUT("/:id", chain(mutating, h.UpdateRecipe)...)
		recipes.DELETE("/:id", chain(mutating, h.DeleteRecipe)...)
		recipes.POST("/:id/favorite", chain(mutating, h.FavoriteRecipe)...)
		recipes.DELETE("/:id/favorite", chain(mutating, h.UnfavoriteRecipe)...)
	}
}

func chain(mws []gin.HandlerFunc, final gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mws)+1)
	out = append(out, mws...)
	return append(out, final)
}

// ListRecipes serves GET /api/recipes. Exactly one selection mode applies
// per request, with precedence author > search > tags > sort; the modes are
// not combinable (kept from the original design, see DESIGN.md).
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	limit, offset := pageParams(c)
	ctx := c.Request.Context()

	if author := c.Query("author"); author != "" {
		authorID, err := strconv.ParseInt(author, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		recipes, err := h.store.ListByAuthor(ctx, authorID)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, recipes)
		return
	}

	if q := c.Query("search"); q != "" {
		recipes, err := h.store.Search(ctx, q, limit, offset)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, recipes)
		return
	}

	if tags := c.Query("tags"); tags != "" {
		recipes, err := h.store.FilterByTags(ctx, splitTags(tags), limit, offset)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, recipes)
		return
	}

	criterion, err := store.ParseSortCriterion(c.Query("sort"))
	if err != nil {
		h.fail(c, err)
		return
	}
	recipes, err := h.store.SortBy(ctx, criterion, limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.store.Create(c.Request.Context(), req.toModel(DefaultAuthorID))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.store.Update(c.Request.Context(), id, req.toUpdate())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	deleted, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := h.store.Favorite(c.Request.Context(), id, DefaultAuthorID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipeId": id})
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	removed, err := h.store.Unfavorite(c.Request.Context(), id, DefaultAuthorID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe is not a favorite"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) ListFavorites(c *gin.Context) {
	limit, offset := pageParams(c)
	recipes, err := h.store.ListFavorites(c.Request.Context(), DefaultAuthorID, limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// fail translates storage errors to the HTTP taxonomy: validation to 400
// with field detail, unknown ids to 404, everything else to a 500 that
// leaks no detail to the client.
func (h *RecipeHandler) fail(c *gin.Context, err error) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "field": ve.Field})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
	default:
		h.logger.Error("storage failure",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// pageParams applies the limit/offset defaults (6 and 0).
func pageParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(store.DefaultLimit)))
	if err != nil || limit <= 0 {
		limit = store.DefaultLimit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// recipeID parses the :id path segment; unparseable ids behave like unknown
// ones and produce a 404.
func recipeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return 0, false
	}
	return id, true
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
