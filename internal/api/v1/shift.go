package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talentflow/talentflow/internal/api/dto"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/logger"
	"github.com/talentflow/talentflow/internal/service"
	"github.com/talentflow/talentflow/internal/types"
)

type ShiftHandler struct {
	service service.ShiftService
	log     *logger.Logger
}

func NewShiftHandler(service service.ShiftService, log *logger.Logger) *ShiftHandler {
	return &ShiftHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a shift
// @Description Schedule a shift for a model whose stage allows the shift type
// @Tags Shifts
// @Accept json
// @Produce json
// @Param id path string true "Model ID"
// @Param shift body dto.CreateShiftRequest true "Shift"
// @Success 201 {object} dto.ShiftResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /models/{id}/shifts [post]
func (h *ShiftHandler) CreateShift(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateShift(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a shift
// @Tags Shifts
// @Produce json
// @Param id path string true "Model ID"
// @Param shift_id path string true "Shift ID"
// @Success 200 {object} dto.ShiftResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /models/{id}/shifts/{shift_id} [get]
func (h *ShiftHandler) GetShift(c *gin.Context) {
	resp, err := h.service.GetShift(c.Request.Context(), c.Param("id"), c.Param("shift_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List the shifts of a model
// @Tags Shifts
// @Produce json
// @Param id path string true "Model ID"
// @Param filter query types.ShiftFilter false "Filter"
// @Success 200 {object} dto.ListShiftsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /models/{id}/shifts [get]
func (h *ShiftHandler) ListShifts(c *gin.Context) {
	filter := types.ShiftFilter{QueryFilter: types.NewDefaultQueryFilter()}
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListShifts(c.Request.Context(), c.Param("id"), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a shift
// @Description Completing a shift recounts the model's shifts and may advance its stage
// @Tags Shifts
// @Accept json
// @Produce json
// @Param id path string true "Model ID"
// @Param shift_id path string true "Shift ID"
// @Param shift body dto.UpdateShiftRequest true "Shift"
// @Success 200 {object} dto.UpdateShiftResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /models/{id}/shifts/{shift_id} [put]
func (h *ShiftHandler) UpdateShift(c *gin.Context) {
	var req dto.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateShift(c.Request.Context(), c.Param("id"), c.Param("shift_id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a shift
// @Tags Shifts
// @Produce json
// @Param id path string true "Model ID"
// @Param shift_id path string true "Shift ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /models/{id}/shifts/{shift_id} [delete]
func (h *ShiftHandler) DeleteShift(c *gin.Context) {
	if err := h.service.DeleteShift(c.Request.Context(), c.Param("id"), c.Param("shift_id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "shift deleted successfully"})
}

// @Summary Check shift eligibility
// @Description Report whether a shift of the given type may be created for the model
// @Tags Shifts
// @Produce json
// @Param id path string true "Model ID"
// @Param type query string true "Shift type" Enums(training, regular)
// @Success 200 {object} dto.ShiftEligibilityResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /models/{id}/shift-eligibility [get]
func (h *ShiftHandler) CheckEligibility(c *gin.Context) {
	resp, err := h.service.CheckEligibility(c.Request.Context(), c.Param("id"), c.Query("type"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
