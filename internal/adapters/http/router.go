package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dkeye/Multiplayer/internal/adapters/signal"
	"github.com/dkeye/Multiplayer/internal/app/orch"
	"github.com/dkeye/Multiplayer/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

const (
	sessionName = "MultiplayerSessions"
	qrSize      = 256
)

// ClientTokenMiddleware gives every browser a stable device token kept in
// the cookie session. It is only used to correlate connections in logs.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(signal.ClientTokenKey).(string)
		if token == "" {
			token = uuid.NewString()
			session.Set(signal.ClientTokenKey, token)
			if err := session.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set(signal.ClientTokenKey, token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	secret := cfg.Secret
	if secret == "" {
		log.Warn().Str("module", "adapters.http").Msg("no session secret configured, using an ephemeral one")
		secret = uuid.NewString()
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(ClientTokenMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "connections": o.Registry.Count()})
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")

	api := r.Group("/api")

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, o.Rooms.List())
	})

	api.GET("/rooms/:room/qr", func(c *gin.Context) {
		png, err := roomQR(cfg.PublicURL, c.Param("room"))
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("room qr")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "qr_failed"})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	})

	ctrl := signal.NewSignalWSController(o, cfg)
	api.GET("/ws/signal", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("device", c.GetString(signal.ClientTokenKey)).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	return r
}

// roomQR encodes <base>?room=<room> as a PNG.
func roomQR(base, room string) ([]byte, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("room", room)
	u.RawQuery = q.Encode()
	return qrcode.Encode(u.String(), qrcode.Medium, qrSize)
}
