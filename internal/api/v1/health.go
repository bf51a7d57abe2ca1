package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/talentflow/talentflow/internal/config"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/kv"
	"github.com/talentflow/talentflow/internal/logger"
)

const (
	healthProbeKey     = "health:probe"
	healthProbeTimeout = 2 * time.Second
)

type HealthHandler struct {
	store  kv.Store
	config *config.Configuration
	logger *logger.Logger
}

func NewHealthHandler(
	store kv.Store,
	config *config.Configuration,
	logger *logger.Logger,
) *HealthHandler {
	return &HealthHandler{
		store:  store,
		config: config,
		logger: logger,
	}
}

// @Summary Health check
// @Description Reports the deployment mode and whether the key-value store answers
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
	defer cancel()

	body := gin.H{
		"mode":  h.config.Deployment.Mode,
		"store": h.config.Store.Backend,
	}

	// a missing probe key is the expected answer
	if _, err := h.store.Get(ctx, healthProbeKey); err != nil && !ierr.IsNotFound(err) {
		h.logger.Warnw("store health probe failed", "backend", h.config.Store.Backend, "error", err)
		body["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	body["status"] = "ok"
	c.JSON(http.StatusOK, body)
}
