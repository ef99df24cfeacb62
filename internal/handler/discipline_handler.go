package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ortiz25/sms-api/internal/models"
	"github.com/Ortiz25/sms-api/internal/service"
	appErrors "github.com/Ortiz25/sms-api/pkg/errors"
	"github.com/Ortiz25/sms-api/pkg/response"
)

// DisciplineHandler wires HTTP endpoints to the discipline service.
type DisciplineHandler struct {
	service *service.DisciplineService
}

// NewDisciplineHandler creates a new handler.
func NewDisciplineHandler(svc *service.DisciplineService) *DisciplineHandler {
	return &DisciplineHandler{service: svc}
}

// ListIncidents godoc
// @Summary List disciplinary incidents
// @Tags Discipline
// @Produce json
// @Param search query string false "Search term"
// @Param status query string false "Status filter"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /disciplinary/incidents [get]
func (h *DisciplineHandler) ListIncidents(c *gin.Context) {
	result, err := h.service.ListIncidents(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Rows, paginationOf(result))
}

// GetIncident godoc
// @Summary Get incident by ID
// @Tags Discipline
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /disciplinary/incidents/{id} [get]
func (h *DisciplineHandler) GetIncident(c *gin.Context) {
	incident, err := h.service.GetIncident(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, incident, nil)
}

// CreateIncident godoc
// @Summary Record incident
// @Tags Discipline
// @Accept json
// @Produce json
// @Param payload body service.IncidentInput true "Incident payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /disciplinary/incidents [post]
func (h *DisciplineHandler) CreateIncident(c *gin.Context) {
	var input service.IncidentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid incident payload"))
		return
	}

	incident, err := h.service.CreateIncident(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, incident)
}

// UpdateIncident godoc
// @Summary Update incident
// @Tags Discipline
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Param payload body service.IncidentInput true "Incident payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /disciplinary/incidents/{id} [put]
func (h *DisciplineHandler) UpdateIncident(c *gin.Context) {
	var input service.IncidentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid incident payload"))
		return
	}

	incident, err := h.service.UpdateIncident(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, incident, nil)
}

// DeleteIncident godoc
// @Summary Delete incident
// @Description Delete an incident and the status history entries it produced
// @Tags Discipline
// @Param id path string true "Incident ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /disciplinary/incidents/{id} [delete]
func (h *DisciplineHandler) DeleteIncident(c *gin.Context) {
	if err := h.service.DeleteIncident(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ActionMappings godoc
// @Summary List action to status mappings
// @Tags Discipline
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /disciplinary/action-status-mappings [get]
func (h *DisciplineHandler) ActionMappings(c *gin.Context) {
	mappings, err := h.service.ActionMappings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mappings, nil)
}

// PrefillForm godoc
// @Summary Prefill incident form from an action
// @Description Apply the action mapping to auto-fill status-change fields
// @Tags Discipline
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /disciplinary/incidents/prefill [post]
func (h *DisciplineHandler) PrefillForm(c *gin.Context) {
	var payload struct {
		Action string              `json:"action" binding:"required"`
		Form   models.IncidentForm `json:"form"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "action required"))
		return
	}

	form, err := h.service.PrefillForm(c.Request.Context(), payload.Form, payload.Action, time.Now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form, nil)
}

// StatusHistory godoc
// @Summary Student status history
// @Description History entries in insertion order plus the derived current status
// @Tags Discipline
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /disciplinary/students/{id}/status-history [get]
func (h *DisciplineHandler) StatusHistory(c *gin.Context) {
	history, err := h.service.StatusHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history, nil)
}
