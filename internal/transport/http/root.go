package http

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kloda-app/kloda/backend/internal/logging"
	"github.com/kloda-app/kloda/backend/internal/transport/http/response"
)

const greeting = "Hello Kloda ♠"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RootHandler struct {
	publicDir string
	db        Pinger
}

func NewRootHandler(publicDir string, db Pinger) *RootHandler {
	return &RootHandler{publicDir: publicDir, db: db}
}

// Index serves the public index page when one exists.
func (h *RootHandler) Index(c *gin.Context) {
	if h.publicDir != "" {
		index := filepath.Join(h.publicDir, "index.html")
		if info, err := os.Stat(index); err == nil && !info.IsDir() {
			c.File(index)
			return
		}
	}
	c.String(http.StatusOK, greeting)
}

// Health godoc
// @Summary Liveness and database reachability
// @Tags Root
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} response.Message
// @Router /healthz [get]
func (h *RootHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		logging.Error().Err(err).Msg("health check failed")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Message{Message: "Database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
