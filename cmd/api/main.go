package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	handler "github.com/jpp0ca/PlaylistImport-API/internal/adapters/http"
	"github.com/jpp0ca/PlaylistImport-API/internal/adapters/session"
	"github.com/jpp0ca/PlaylistImport-API/internal/adapters/spotify"
	"github.com/jpp0ca/PlaylistImport-API/internal/app"
	"github.com/jpp0ca/PlaylistImport-API/internal/auth"
	"github.com/jpp0ca/PlaylistImport-API/internal/config"
	"github.com/jpp0ca/PlaylistImport-API/internal/logging"

	_ "github.com/jpp0ca/PlaylistImport-API/docs"
)

// @title			PlaylistImport API
// @version		1.0
// @description	Imports M3U or JSON playlists into a Spotify account.
// @description	Each track title is resolved with a single-result search; resolved tracks are added to a new private playlist.

// @contact.name	PlaylistImport API Support
// @license.name	MIT

// @host		localhost:8080
// @BasePath	/
func main() {
	cfg := config.Load()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	// Outbound calls share one client with a bounded timeout
	httpClient := &http.Client{Timeout: cfg.RemoteTimeout}
	spotifyClient := spotify.NewClient(httpClient, cfg.APIURL)
	authenticator := spotify.NewAuthenticator(spotify.OAuthConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		AccountsURL:  cfg.AccountsURL,
	}, httpClient)

	// Create application services
	importService := app.NewService(spotifyClient, logger)
	machine := auth.NewMachine(authenticator, spotifyClient, logger)
	sessions := session.NewMemoryStore(cfg.SessionTTL)

	// Setup HTTP server
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(logger))

	h := handler.NewHandler(handler.Dependencies{
		Importer:     importService,
		Machine:      machine,
		Sessions:     sessions,
		Codec:        session.NewCodec(cfg.SessionSecret, session.CookieMaxAge),
		Logger:       logger,
		SecureCookie: strings.HasPrefix(cfg.RedirectURL, "https://"),
	})
	h.RegisterRoutes(r)

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	addr := ":" + cfg.Port
	logger.Info("starting PlaylistImport API", "addr", addr)
	logger.Info("oauth callback", "redirect_url", cfg.RedirectURL)
	logger.Infof("Swagger UI: http://localhost%s/swagger/index.html", addr)

	if err := r.Run(addr); err != nil {
		logger.Fatal("failed to start server", "err", err)
	}
}
