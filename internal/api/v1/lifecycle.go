package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/talentflow/talentflow/internal/api/dto"
	"github.com/talentflow/talentflow/internal/domain/lifecycle"
	"github.com/talentflow/talentflow/internal/domain/shift"
	"github.com/talentflow/talentflow/internal/domain/status"
	ierr "github.com/talentflow/talentflow/internal/errors"
)

type LifecycleHandler struct {
	manager *lifecycle.StatusManager
}

func NewLifecycleHandler(manager *lifecycle.StatusManager) *LifecycleHandler {
	return &LifecycleHandler{
		manager: manager,
	}
}

// @Summary List status enumerations
// @Description Values accepted by each status axis, lifecycle stages and shift types
// @Tags Lifecycle
// @Produce json
// @Success 200 {object} dto.StatusesResponse
// @Router /statuses [get]
func (h *LifecycleHandler) ListStatuses(c *gin.Context) {
	axes := make(map[string][]string, len(status.Axes))
	for _, axis := range status.Axes {
		axes[string(axis)] = status.Values(axis)
	}

	c.JSON(http.StatusOK, dto.StatusesResponse{
		Axes: axes,
		Stages: lo.Map(lifecycle.Stages, func(s lifecycle.Stage, _ int) dto.StageInfo {
			return dto.StageInfo{Value: s, Label: s.Label()}
		}),
		ShiftTypes: []string{string(shift.TypeTraining), string(shift.TypeRegular)},
	})
}

// @Summary Get the next lifecycle stage
// @Tags Lifecycle
// @Produce json
// @Param status query string true "Current stage"
// @Success 200 {object} dto.NextStatusResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /lifecycle/next [get]
func (h *LifecycleHandler) GetNextStatus(c *gin.Context) {
	current := lifecycle.Stage(c.Query("status"))
	if !current.Validate() {
		c.Error(ierr.NewErrorf("unknown stage %q", current).
			WithHint("Unknown lifecycle stage").
			WithReportableDetails(map[string]any{
				"status":  current,
				"allowed": lifecycle.Stages,
			}).
			Mark(ierr.ErrValidation))
		return
	}

	resp := dto.NextStatusResponse{Status: current, Final: true}
	if next, ok := h.manager.GetNextPossibleStatus(current); ok {
		resp.Next = lo.ToPtr(next)
		resp.Final = false
	}

	c.JSON(http.StatusOK, resp)
}
