package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studiopulse/booking-admin-api/internal/service"
	appErrors "github.com/studiopulse/booking-admin-api/pkg/errors"
	"github.com/studiopulse/booking-admin-api/pkg/response"
)

// WeeklyTemplateHandler wires template CRUD to HTTP routes.
type WeeklyTemplateHandler struct {
	templates *service.WeeklyTemplateService
}

// NewWeeklyTemplateHandler constructs a new WeeklyTemplateHandler.
func NewWeeklyTemplateHandler(templates *service.WeeklyTemplateService) *WeeklyTemplateHandler {
	return &WeeklyTemplateHandler{templates: templates}
}

// Create godoc
// @Summary Create weekly template
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.WeeklyTemplateRequest true "Template payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /templates [post]
func (h *WeeklyTemplateHandler) Create(c *gin.Context) {
	var req service.WeeklyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid template payload"))
		return
	}
	template, err := h.templates.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, template)
}

// Update godoc
// @Summary Update weekly template
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Param payload body service.WeeklyTemplateRequest true "Template payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /templates/{id} [put]
func (h *WeeklyTemplateHandler) Update(c *gin.Context) {
	var req service.WeeklyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid template payload"))
		return
	}
	template, err := h.templates.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// SetActive godoc
// @Summary Activate or deactivate a template
// @Description Inactive templates stop participating in conflict detection
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Param payload body handler.setActiveRequest true "Activation payload"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /templates/{id}/active [patch]
func (h *WeeklyTemplateHandler) SetActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid activation payload"))
		return
	}
	if err := h.templates.SetActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete weekly template
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /templates/{id} [delete]
func (h *WeeklyTemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
