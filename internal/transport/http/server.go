package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/covechat/cove-server/internal/auth"
	"github.com/covechat/cove-server/internal/config"
	"github.com/covechat/cove-server/internal/core"
	"github.com/covechat/cove-server/internal/observability"
	"github.com/covechat/cove-server/internal/service/friends"
	"github.com/covechat/cove-server/internal/store"
)

// Services bundles everything the transport layer needs.
type Services struct {
	Auth       *auth.Service
	Registry   *core.Registry
	Membership *core.Membership
	Dispatcher *core.Dispatcher
	Moderator  *core.Moderator
	Friends    *friends.Service
	Store      store.Store
}

// NewServer builds the HTTP server with all routes registered.
func NewServer(cfg *config.Config, svc Services, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})
	router.GET("/metrics", observability.MetricsHandler())

	authHandlers := NewAuthHandlers(svc.Auth, logger)
	userHandlers := NewUserHandlers(svc.Store, logger)
	historyHandlers := NewHistoryHandlers(svc.Store, logger)
	friendHandlers := NewFriendHandlers(svc.Friends, logger)
	adminHandlers := NewAdminHandlers(svc.Moderator, logger)
	wsHandler := NewWSHandler(svc.Registry, svc.Membership, svc.Dispatcher, logger)

	router.POST("/api/login", authHandlers.Login)

	api := router.Group("/api", AuthMiddleware(svc.Auth, logger))
	{
		api.GET("/me", userHandlers.Me)
		api.PATCH("/me/name", userHandlers.UpdateDisplayName)
		api.PATCH("/me/avatar", userHandlers.UpdateAvatar)
		api.GET("/users/:id", userHandlers.PublicProfile)

		api.GET("/friends", friendHandlers.List)
		api.POST("/friends", friendHandlers.Add)

		api.GET("/rooms/:room/messages", historyHandlers.RoomMessages)
		api.GET("/direct/:channel/messages", historyHandlers.DirectMessages)

		api.POST("/admin/ban", adminHandlers.Ban)
		api.POST("/admin/unban", adminHandlers.Unban)
		api.DELETE("/admin/messages/:id", adminHandlers.DeleteMessage)
	}

	router.GET("/ws", gin.WrapH(wsHandler))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
