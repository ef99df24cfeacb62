package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ortiz25/sms-api/internal/service"
	appErrors "github.com/Ortiz25/sms-api/pkg/errors"
	"github.com/Ortiz25/sms-api/pkg/response"
)

// LeaveHandler wires HTTP endpoints to the leave service.
type LeaveHandler struct {
	service *service.LeaveService
}

// NewLeaveHandler creates a new handler.
func NewLeaveHandler(svc *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{service: svc}
}

// List godoc
// @Summary List leave requests
// @Tags Leaves
// @Produce json
// @Param search query string false "Search term"
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Rows, paginationOf(result))
}

// Create godoc
// @Summary Submit leave request
// @Tags Leaves
// @Accept json
// @Produce json
// @Param payload body service.LeaveInput true "Leave payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /leaves [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	var input service.LeaveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid leave payload"))
		return
	}

	leave, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, leave)
}

// Decide godoc
// @Summary Approve or reject a leave request
// @Description Approve needs no extra input; reject requires a non-empty reason
// @Tags Leaves
// @Accept json
// @Produce json
// @Param id path string true "Leave ID"
// @Param payload body service.LeaveDecision true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /leaves/{id}/status [patch]
func (h *LeaveHandler) Decide(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var decision service.LeaveDecision
	if err := c.ShouldBindJSON(&decision); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	leave, err := h.service.Decide(c.Request.Context(), c.Param("id"), decision, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leave, nil)
}

// Balances godoc
// @Summary Leave balances for a teacher
// @Tags Leaves
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /leaves/balances/{teacherId} [get]
func (h *LeaveHandler) Balances(c *gin.Context) {
	balances, err := h.service.Balances(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, balances, nil)
}
