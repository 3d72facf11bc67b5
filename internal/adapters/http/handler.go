package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/jpp0ca/PlaylistImport-API/internal/adapters/session"
	"github.com/jpp0ca/PlaylistImport-API/internal/auth"
	"github.com/jpp0ca/PlaylistImport-API/internal/domain"
	"github.com/jpp0ca/PlaylistImport-API/internal/m3u"
	"github.com/jpp0ca/PlaylistImport-API/internal/ports"
)

// StateHeader carries the session's CSRF state on state-mutating requests.
const StateHeader = "state"

const maxBodyBytes = 1 << 20

const indexPage = `<a href="/authorize">Login with Spotify</a>`

// Dependencies are the collaborators a Handler is built from.
type Dependencies struct {
	Importer     ports.ImportService
	Machine      *auth.Machine
	Sessions     ports.SessionStore
	Codec        *session.Codec
	Logger       *log.Logger
	SecureCookie bool
}

// Handler holds the HTTP handlers for the import API.
type Handler struct {
	importer     ports.ImportService
	machine      *auth.Machine
	sessions     ports.SessionStore
	codec        *session.Codec
	logger       *log.Logger
	secureCookie bool
}

// NewHandler creates a new HTTP handler from its dependencies.
func NewHandler(deps Dependencies) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		importer:     deps.Importer,
		machine:      deps.Machine,
		sessions:     deps.Sessions,
		codec:        deps.Codec,
		logger:       logger.With("component", "http"),
		secureCookie: deps.SecureCookie,
	}
}

// RegisterRoutes sets up all routes on the given Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	web := r.Group("/", h.withSession)
	{
		web.GET("/", h.Index)
		web.GET("/authorize", h.Authorize)
		web.GET("/authorized", h.Authorized)
		web.POST("/import", h.ImportPlaylist)
		web.POST("/logout", h.Logout)
	}
}

// Health returns a simple health check response.
//
//	@Summary		Health check
//	@Description	Returns the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Index serves the login link.
func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

// Authorize starts the authorization flow.
//
//	@Summary		Start authorization
//	@Description	Issues a CSRF state bound to the session and redirects to the Spotify authorization page.
//	@Tags			auth
//	@Success		302
//	@Failure		500	{object}	ErrorResponse
//	@Router			/authorize [get]
func (h *Handler) Authorize(c *gin.Context) {
	sess := currentSession(c)

	authURL, err := h.machine.Begin(sess)
	if err != nil {
		h.logger.Error("failed to begin authorization", "err", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "failed to start authorization",
		})
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// Authorized completes the authorization flow.
//
//	@Summary		Authorization callback
//	@Description	Verifies the returned state, exchanges the authorization code for tokens and binds the
//	@Description	Spotify identity to the session. The returned state must be sent in the "state" header on import.
//	@Tags			auth
//	@Produce		json
//	@Param			state	query		string	true	"CSRF state issued by /authorize"
//	@Param			code	query		string	false	"Authorization code"
//	@Param			error	query		string	false	"Error reported by the accounts service"
//	@Success		200		{object}	AuthorizedResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/authorized [get]
func (h *Handler) Authorized(c *gin.Context) {
	sess := currentSession(c)

	identity, err := h.machine.Callback(c.Request.Context(), sess, auth.CallbackParams{
		State: c.Query("state"),
		Code:  c.Query("code"),
		Error: c.Query("error"),
	})

	if err == nil {
		if err := h.rotateSession(c, sess); err != nil {
			h.logger.Error("failed to rotate session", "err", err)
			sess.Reset()
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "failed to create session",
			})
			return
		}
	}

	switch {
	case err == nil:
		c.JSON(http.StatusOK, AuthorizedResponse{
			UserID:      identity.ID,
			DisplayName: identity.DisplayName,
			State:       sess.CSRFState,
		})
	case errors.Is(err, domain.ErrStateMismatch):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "state_mismatch",
			Message: "State mismatch",
		})
	case errors.Is(err, domain.ErrAuthorizationDenied):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "authorization_denied",
			Message: c.Query("error"),
		})
	default:
		c.JSON(upstreamStatus(domain.StatusCode(err)), ErrorResponse{
			Error:   "token_exchange_failed",
			Message: err.Error(),
		})
	}
}

// ImportPlaylist imports a playlist into the authenticated user's account.
//
//	@Summary		Import playlist
//	@Description	Resolves every track title with a single-result search, creates a private playlist named
//	@Description	"Imported <playlist_name>" and attaches the resolved tracks in order. The body is either the
//	@Description	JSON playlist document or raw extended M3U text (Content-Type audio/x-mpegurl or text/plain).
//	@Description	The response status is the status of the attach call.
//	@Tags			import
//	@Accept			json
//	@Accept			plain
//	@Produce		json
//	@Param			state		header		string							true	"CSRF state returned by /authorized"
//	@Param			filename	query		string							false	"Source filename, used as the name of an M3U body without #PLAYLIST"
//	@Param			request		body		domain.PlaylistImportRequest	true	"Playlist to import"
//	@Success		201			{object}	domain.PlaylistImportResult
//	@Failure		400			{object}	domain.PlaylistImportResult
//	@Failure		401			{object}	domain.PlaylistImportResult
//	@Router			/import [post]
func (h *Handler) ImportPlaylist(c *gin.Context) {
	sess := currentSession(c)

	if err := h.machine.Verify(sess, c.GetHeader(StateHeader)); err != nil {
		if errors.Is(err, domain.ErrStateMismatch) {
			respondImportError(c, http.StatusBadRequest, "State mismatch")
			return
		}
		respondImportError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	req, err := h.bindImportRequest(c)
	if err != nil {
		h.logger.Warn("rejected import request", "err", err)
		respondImportError(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.machine.AccessToken(c.Request.Context(), sess)
	if err != nil {
		respondImportError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	result, err := h.importer.Import(c.Request.Context(), ports.ImportParams{
		AccessToken: token,
		UserID:      sess.UserID,
		Request:     *req,
	})
	if err != nil {
		h.logger.Error("import failed", "playlist", req.PlaylistName, "err", err)
		respondImportError(c, result.StatusCode, result.Message)
		return
	}

	c.JSON(result.StatusCode, result)
}

// Logout clears the session.
//
//	@Summary	Logout
//	@Tags		auth
//	@Success	302
//	@Router		/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	sess := currentSession(c)
	h.machine.Logout(sess)

	if err := h.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
		h.logger.Warn("failed to delete session", "err", err)
	}
	c.Set(sessionDeletedKey, true)
	c.SetCookie(session.CookieName, "", -1, "/", "", h.secureCookie, true)

	c.Redirect(http.StatusFound, "/")
}

// bindImportRequest reads either a JSON playlist document or raw M3U text.
func (h *Handler) bindImportRequest(c *gin.Context) (*domain.PlaylistImportRequest, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	switch c.ContentType() {
	case "audio/x-mpegurl", "audio/mpegurl", "application/vnd.apple.mpegurl", "text/plain":
		req, err := m3u.Parse(c.Request.Body, m3u.NameFromFilename(c.Query("filename")))
		if err != nil {
			return nil, fmt.Errorf("invalid playlist: %w", err)
		}
		return req, nil
	}

	var req domain.PlaylistImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	for i, t := range req.Tracks {
		if strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("invalid request body: playlist_tracks[%d] has an empty track_title", i)
		}
	}
	return &req, nil
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AuthorizedResponse is returned once a session is authenticated.
type AuthorizedResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	State       string `json:"state"`
}

func respondImportError(c *gin.Context, status int, msg string) {
	c.JSON(status, domain.PlaylistImportResult{
		Message: msg,
		Tracks:  []domain.ResolvedTrack{},
	})
}

// upstreamStatus maps a missing remote status to 502.
func upstreamStatus(status int) int {
	if status == 0 {
		return http.StatusBadGateway
	}
	return status
}
