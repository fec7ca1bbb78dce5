package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studiopulse/booking-admin-api/internal/middleware"
	"github.com/studiopulse/booking-admin-api/internal/models"
	"github.com/studiopulse/booking-admin-api/internal/service"
	appErrors "github.com/studiopulse/booking-admin-api/pkg/errors"
	"github.com/studiopulse/booking-admin-api/pkg/response"
)

// AssignmentHandler wires the booking pipeline to HTTP routes.
type AssignmentHandler struct {
	assignments *service.AssignmentService
	metrics     *service.MetricsService
}

// NewAssignmentHandler constructs a new AssignmentHandler.
func NewAssignmentHandler(assignments *service.AssignmentService, metrics *service.MetricsService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, metrics: metrics}
}

// Preview godoc
// @Summary Preview a booking
// @Description Expand a booking request into dated occurrences without persisting anything
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.AssignmentRequest true "Booking payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/preview [post]
func (h *AssignmentHandler) Preview(c *gin.Context) {
	var req service.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}

	plan, err := h.assignments.Preview(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Create godoc
// @Summary Create a booking
// @Description Expand a booking request and persist the generated occurrences atomically
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.AssignmentRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req service.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}

	plan, err := h.assignments.Create(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordAssignmentsCreated(req.ScheduleType, plan.TotalClasses)
	for _, w := range plan.Warnings {
		h.metrics.RecordConflict(w.Kind)
	}
	response.Created(c, plan)
}

// List godoc
// @Summary List assignments
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param instructor_id query string false "Filter by instructor"
// @Param schedule_type query string false "Filter by recurrence kind"
// @Param status query string false "Filter by status"
// @Param date_from query string false "Window start (YYYY-MM-DD)"
// @Param date_to query string false "Window end (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	filter := models.AssignmentFilter{
		InstructorID: strings.TrimSpace(c.Query("instructor_id")),
		ClassTypeID:  strings.TrimSpace(c.Query("class_type_id")),
		PackageID:    strings.TrimSpace(c.Query("package_id")),
		ScheduleType: strings.TrimSpace(c.Query("schedule_type")),
		Status:       strings.TrimSpace(c.Query("status")),
		SortBy:       c.Query("sort"),
		SortOrder:    c.Query("order"),
	}
	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrFormat, "date_from must be YYYY-MM-DD"))
			return
		}
		filter.DateFrom = from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrFormat, "date_to must be YYYY-MM-DD"))
			return
		}
		filter.DateTo = to
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	assignments, total, err := h.assignments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// Get godoc
// @Summary Get assignment detail
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.assignments.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Cancel godoc
// @Summary Cancel an assignment
// @Description Mark one occurrence cancelled, freeing the slot
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Cancel(c *gin.Context) {
	if err := h.assignments.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Availability godoc
// @Summary Find available instructors
// @Description List active instructors free for a date and time window
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param start_time query string true "Start time (HH:MM)"
// @Param end_time query string true "End time (HH:MM)"
// @Success 200 {object} response.Envelope
// @Router /instructors/availability [get]
func (h *AssignmentHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	startTime := c.Query("start_time")
	endTime := c.Query("end_time")
	if date == "" || startTime == "" || endTime == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date, start_time and end_time are required"))
		return
	}

	available, err := h.assignments.AvailableInstructors(c.Request.Context(), date, startTime, endTime)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"instructor_ids": available}, nil)
}
