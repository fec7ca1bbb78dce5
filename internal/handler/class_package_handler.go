package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studiopulse/booking-admin-api/internal/service"
	appErrors "github.com/studiopulse/booking-admin-api/pkg/errors"
	"github.com/studiopulse/booking-admin-api/pkg/response"
)

// ClassPackageHandler wires the package catalog to HTTP routes.
type ClassPackageHandler struct {
	packages *service.ClassPackageService
}

// NewClassPackageHandler constructs a new ClassPackageHandler.
func NewClassPackageHandler(packages *service.ClassPackageService) *ClassPackageHandler {
	return &ClassPackageHandler{packages: packages}
}

// List godoc
// @Summary List class packages
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active packages"
// @Success 200 {object} response.Envelope
// @Router /packages [get]
func (h *ClassPackageHandler) List(c *gin.Context) {
	activeOnly := strings.EqualFold(c.Query("active"), "true")
	packages, err := h.packages.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, packages, nil)
}

// Get godoc
// @Summary Get package detail
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Package ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /packages/{id} [get]
func (h *ClassPackageHandler) Get(c *gin.Context) {
	pkg, err := h.packages.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pkg, nil)
}

// Create godoc
// @Summary Create class package
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ClassPackageRequest true "Package payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /packages [post]
func (h *ClassPackageHandler) Create(c *gin.Context) {
	var req service.ClassPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid package payload"))
		return
	}
	pkg, err := h.packages.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pkg)
}

// Update godoc
// @Summary Update class package
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Package ID"
// @Param payload body service.ClassPackageRequest true "Package payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /packages/{id} [put]
func (h *ClassPackageHandler) Update(c *gin.Context) {
	var req service.ClassPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid package payload"))
		return
	}
	pkg, err := h.packages.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pkg, nil)
}
