package http

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sketchsync/relay/internal/config"
)

// settingsView is what the admin API reports. Keys are counted, never
// echoed back.
type settingsView struct {
	RequireAPIKey bool `json:"requireApiKey"`
	APIKeyCount   int  `json:"apiKeyCount"`
	MaxRooms      int  `json:"maxRooms"`
}

type settingsRequest struct {
	RequireAPIKey *bool     `json:"requireApiKey"`
	APIKeys       *[]string `json:"apiKeys"`
	MaxRooms      *int      `json:"maxRooms" binding:"omitempty,gte=0"`
}

// AdminSecretMiddleware gates the admin group behind the config
// secret, compared in constant time.
func AdminSecretMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-Admin-Secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func viewOf(s config.RelaySettings) settingsView {
	return settingsView{
		RequireAPIKey: s.RequireAPIKey,
		APIKeyCount:   len(s.APIKeys),
		MaxRooms:      s.MaxRooms,
	}
}

func handleGetSettings(store *config.SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, viewOf(store.Snapshot()))
	}
}

func handlePutSettings(store *config.SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req settingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
			return
		}
		next, err := store.Apply(config.SettingsPatch{
			RequireAPIKey: req.RequireAPIKey,
			APIKeys:       req.APIKeys,
			MaxRooms:      req.MaxRooms,
		})
		if err != nil {
			if errors.Is(err, config.ErrNegativeMaxRooms) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			log.Error().Err(err).Str("module", "adapters.http").Msg("persist settings")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist settings"})
			return
		}
		c.JSON(http.StatusOK, viewOf(next))
	}
}
