package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pkoss/recipebook/internal/store"
)

// SetupAPI mounts the HTTP surface under /api. The uploader and the extra
// mutating-route middleware are optional; nil/empty disables them.
func SetupAPI(router *gin.Engine, st store.RecipeStore, uploader ImageUploader, logger *zap.Logger, mutating ...gin.HandlerFunc) {
	group := router.Group("/api")
	{
		recipeHandler := NewRecipeHandler(st, logger)
		recipeHandler.RegisterRoutes(group, mutating...)

		imageHandler := NewImageHandler(st, uploader, logger)
		imageHandler.RegisterRoutes(group, mutating...)
	}

	router.GET("/health", func(c *gin.Context) {
		if err := st.Ping(c.Request.Context()); err != nil {
			logger.Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
