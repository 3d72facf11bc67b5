package http

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/jpp0ca/PlaylistImport-API/internal/adapters/session"
	"github.com/jpp0ca/PlaylistImport-API/internal/domain"
)

const (
	sessionKey        = "session"
	sessionDeletedKey = "session_deleted"
)

// withSession loads the caller's session, holds its lock for the rest of the
// request and saves it back afterwards.
func (h *Handler) withSession(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := "", false
	if value, err := c.Cookie(session.CookieName); err == nil {
		id, ok = h.codec.Decode(value)
	}
	if !ok {
		id = session.NewID()
		if err := h.setSessionCookie(c, id); err != nil {
			h.logger.Error("failed to encode session cookie", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "failed to create session",
			})
			return
		}
	}

	unlock, err := h.sessions.Lock(ctx, id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "session_busy",
			Message: "session is in use by another request",
		})
		return
	}
	defer unlock()

	sess, err := h.sessions.Get(ctx, id)
	if err != nil {
		h.logger.Error("failed to load session", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "failed to load session",
		})
		return
	}
	isNew := sess == nil
	if isNew {
		sess = domain.NewSession(id)
	}

	c.Set(sessionKey, sess)
	c.Next()

	if c.GetBool(sessionDeletedKey) {
		return
	}
	if isNew && sess.State == domain.StateUnauthenticated {
		return
	}
	if err := h.sessions.Save(ctx, sess); err != nil {
		h.logger.Error("failed to save session", "err", err)
	}
}

// rotateSession moves sess to a fresh ID and cookie so an ID known before
// login is worthless afterwards. The old entry is removed from the store.
func (h *Handler) rotateSession(c *gin.Context, sess *domain.Session) error {
	id := session.NewID()
	if err := h.setSessionCookie(c, id); err != nil {
		return err
	}
	if err := h.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
		h.logger.Warn("failed to delete previous session", "err", err)
	}
	sess.ID = id
	return nil
}

func (h *Handler) setSessionCookie(c *gin.Context, id string) error {
	value, err := h.codec.Encode(id)
	if err != nil {
		return err
	}
	c.SetCookie(session.CookieName, value, 0, "/", "", h.secureCookie, true)
	return nil
}

func currentSession(c *gin.Context) *domain.Session {
	return c.MustGet(sessionKey).(*domain.Session)
}

// RequestLogger logs one line per request through logger.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	logger = logger.With("component", "access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request", kv...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", kv...)
		default:
			logger.Info("request", kv...)
		}
	}
}
