package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studiopulse/booking-admin-api/internal/service"
	appErrors "github.com/studiopulse/booking-admin-api/pkg/errors"
	"github.com/studiopulse/booking-admin-api/pkg/response"
)

// ClassTypeHandler wires the class-type catalog to HTTP routes.
type ClassTypeHandler struct {
	classTypes *service.ClassTypeService
}

// NewClassTypeHandler constructs a new ClassTypeHandler.
func NewClassTypeHandler(classTypes *service.ClassTypeService) *ClassTypeHandler {
	return &ClassTypeHandler{classTypes: classTypes}
}

// List godoc
// @Summary List class types
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active offerings"
// @Success 200 {object} response.Envelope
// @Router /class-types [get]
func (h *ClassTypeHandler) List(c *gin.Context) {
	activeOnly := strings.EqualFold(c.Query("active"), "true")
	classTypes, err := h.classTypes.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classTypes, nil)
}

// Get godoc
// @Summary Get class type detail
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class type ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /class-types/{id} [get]
func (h *ClassTypeHandler) Get(c *gin.Context) {
	classType, err := h.classTypes.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classType, nil)
}

// Create godoc
// @Summary Create class type
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ClassTypeRequest true "Class type payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /class-types [post]
func (h *ClassTypeHandler) Create(c *gin.Context) {
	var req service.ClassTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class type payload"))
		return
	}
	classType, err := h.classTypes.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, classType)
}

// Update godoc
// @Summary Update class type
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class type ID"
// @Param payload body service.ClassTypeRequest true "Class type payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /class-types/{id} [put]
func (h *ClassTypeHandler) Update(c *gin.Context) {
	var req service.ClassTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class type payload"))
		return
	}
	classType, err := h.classTypes.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classType, nil)
}
