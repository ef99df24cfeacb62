package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ortiz25/sms-api/internal/service"
	"github.com/Ortiz25/sms-api/pkg/response"
)

// PayrollHandler wires payroll read endpoints.
type PayrollHandler struct {
	service *service.PayrollService
}

// NewPayrollHandler creates a new handler.
func NewPayrollHandler(svc *service.PayrollService) *PayrollHandler {
	return &PayrollHandler{service: svc}
}

// List godoc
// @Summary List payroll rows
// @Tags Payroll
// @Produce json
// @Param search query string false "Search term"
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /payroll [get]
func (h *PayrollHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Rows, paginationOf(result))
}

// Get godoc
// @Summary Get payroll row by ID
// @Tags Payroll
// @Produce json
// @Param id path string true "Payroll row ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /payroll/{id} [get]
func (h *PayrollHandler) Get(c *gin.Context) {
	row, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, row, nil)
}
