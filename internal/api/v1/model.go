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

type ModelHandler struct {
	service service.ModelService
	log     *logger.Logger
}

func NewModelHandler(service service.ModelService, log *logger.Logger) *ModelHandler {
	return &ModelHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a model
// @Tags Models
// @Accept json
// @Produce json
// @Param model body dto.CreateModelRequest true "Model"
// @Success 201 {object} dto.ModelResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /models [post]
func (h *ModelHandler) CreateModel(c *gin.Context) {
	var req dto.CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateModel(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a model
// @Tags Models
// @Produce json
// @Param id path string true "Model ID"
// @Success 200 {object} dto.ModelResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /models/{id} [get]
func (h *ModelHandler) GetModel(c *gin.Context) {
	resp, err := h.service.GetModel(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List models
// @Tags Models
// @Produce json
// @Param filter query types.ModelFilter false "Filter"
// @Success 200 {object} dto.ListModelsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /models [get]
func (h *ModelHandler) ListModels(c *gin.Context) {
	filter := types.ModelFilter{QueryFilter: types.NewDefaultQueryFilter()}
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListModels(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a model
// @Description Update a model and propagate the change to its linked slot
// @Tags Models
// @Accept json
// @Produce json
// @Param id path string true "Model ID"
// @Param model body dto.UpdateModelRequest true "Model"
// @Success 200 {object} dto.ModelResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /models/{id} [put]
func (h *ModelHandler) UpdateModel(c *gin.Context) {
	var req dto.UpdateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateModel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a model
// @Tags Models
// @Produce json
// @Param id path string true "Model ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /models/{id} [delete]
func (h *ModelHandler) DeleteModel(c *gin.Context) {
	if err := h.service.DeleteModel(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "model deleted successfully"})
}

// @Summary Add a comment to a model
// @Tags Models
// @Accept json
// @Produce json
// @Param id path string true "Model ID"
// @Param comment body dto.AddCommentRequest true "Comment"
// @Success 201 {object} dto.ModelResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /models/{id}/comments [post]
func (h *ModelHandler) AddComment(c *gin.Context) {
	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AddComment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get the history of a model
// @Tags Models
// @Produce json
// @Param id path string true "Model ID"
// @Success 200 {object} dto.HistoryResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /models/{id}/history [get]
func (h *ModelHandler) GetHistory(c *gin.Context) {
	resp, err := h.service.GetHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
