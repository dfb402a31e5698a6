package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sketchsync/relay/internal/adapters/signal"
	"github.com/sketchsync/relay/internal/app"
	"github.com/sketchsync/relay/internal/config"
)

// ClientTokenMiddleware gives every browser a stable token used as the
// connection's session id in logs.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, hub *app.Hub, settings *config.SettingsStore) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("RelaySessions", store))
	r.Use(ClientTokenMiddleware())

	log.Info().Str("module", "adapters.http").Msg("router setup")

	api := r.Group("/api")

	ctrl := signal.NewWSController(hub, cfg.ReadLimit, cfg.PingPeriod)
	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("sid", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	api.GET("/health", func(c *gin.Context) {
		clients, publicRooms, lanRooms := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"clients":     clients,
			"publicRooms": publicRooms,
			"lanRooms":    lanRooms,
		})
	})

	admin := api.Group("/admin", AdminSecretMiddleware(cfg.Secret))
	admin.GET("/settings", handleGetSettings(settings))
	admin.PUT("/settings", handlePutSettings(settings))

	return r
}
