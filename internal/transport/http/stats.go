package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/transport/http/response"
)

type StatsService interface {
	Stats(ctx context.Context) (*domain.Stats, error)
	Categories(ctx context.Context) ([]domain.CategoryCount, error)
}

type StatsHandler struct {
	stats StatsService
}

func NewStatsHandler(stats StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Stats godoc
// @Summary Site-wide counters
// @Tags Root
// @Produce json
// @Success 200 {object} domain.Stats
// @Router /v1/stats [get]
func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Categories godoc
// @Summary Categories with card counts
// @Tags Categories
// @Produce json
// @Success 200 {array} domain.CategoryCount
// @Router /v1/categories [get]
func (h *StatsHandler) Categories(c *gin.Context) {
	categories, err := h.stats.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
