package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talentflow/talentflow/internal/api/dto"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/logger"
	"github.com/talentflow/talentflow/internal/service"
	"github.com/talentflow/talentflow/internal/types"
)

type SlotHandler struct {
	service service.SlotService
	log     *logger.Logger
}

func NewSlotHandler(service service.SlotService, log *logger.Logger) *SlotHandler {
	return &SlotHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a slot
// @Description Schedule an interview slot on a day
// @Tags Slots
// @Accept json
// @Produce json
// @Param slot body dto.CreateSlotRequest true "Slot"
// @Success 201 {object} dto.SlotResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /slots [post]
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	var req dto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateSlot(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a slot
// @Tags Slots
// @Produce json
// @Param date path string true "Slot date (YYYY-MM-DD)"
// @Param id path string true "Slot ID"
// @Success 200 {object} dto.SlotResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /slots/{date}/{id} [get]
func (h *SlotHandler) GetSlot(c *gin.Context) {
	resp, err := h.service.GetSlot(c.Request.Context(), c.Param("date"), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List slots of a day
// @Tags Slots
// @Produce json
// @Param filter query types.SlotFilter true "Filter"
// @Success 200 {object} dto.ListSlotsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /slots [get]
func (h *SlotHandler) ListSlots(c *gin.Context) {
	filter := types.SlotFilter{QueryFilter: types.NewDefaultQueryFilter()}
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListSlots(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a slot
// @Description Update a slot and propagate the change to its registered model
// @Tags Slots
// @Accept json
// @Produce json
// @Param date path string true "Slot date (YYYY-MM-DD)"
// @Param id path string true "Slot ID"
// @Param slot body dto.UpdateSlotRequest true "Slot"
// @Success 200 {object} dto.SlotResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /slots/{date}/{id} [put]
func (h *SlotHandler) UpdateSlot(c *gin.Context) {
	var req dto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateSlot(c.Request.Context(), c.Param("date"), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a slot
// @Tags Slots
// @Produce json
// @Param date path string true "Slot date (YYYY-MM-DD)"
// @Param id path string true "Slot ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /slots/{date}/{id} [delete]
func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	if err := h.service.DeleteSlot(c.Request.Context(), c.Param("date"), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "slot deleted successfully"})
}

// @Summary Register a model from a slot
// @Description Create a model from the slot's data and link both sides
// @Tags Slots
// @Accept json
// @Produce json
// @Param date path string true "Slot date (YYYY-MM-DD)"
// @Param id path string true "Slot ID"
// @Param registration body dto.RegisterModelRequest false "Registration"
// @Success 201 {object} dto.RegisterModelResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /slots/{date}/{id}/register [post]
func (h *SlotHandler) RegisterModel(c *gin.Context) {
	var req dto.RegisterModelRequest
	// the body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.RegisterModel(c.Request.Context(), c.Param("date"), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Link a model to a slot
// @Tags Slots
// @Accept json
// @Produce json
// @Param date path string true "Slot date (YYYY-MM-DD)"
// @Param id path string true "Slot ID"
// @Param link body dto.LinkModelRequest true "Link"
// @Success 200 {object} dto.LinkResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /slots/{date}/{id}/link [post]
func (h *SlotHandler) LinkModel(c *gin.Context) {
	var req dto.LinkModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.LinkModel(c.Request.Context(), c.Param("date"), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Unlink the model of a slot
// @Tags Slots
// @Produce json
// @Param date path string true "Slot date (YYYY-MM-DD)"
// @Param id path string true "Slot ID"
// @Success 200 {object} dto.LinkResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /slots/{date}/{id}/link [delete]
func (h *SlotHandler) UnlinkModel(c *gin.Context) {
	resp, err := h.service.UnlinkModel(c.Request.Context(), c.Param("date"), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
