package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ortiz25/sms-api/internal/service"
	appErrors "github.com/Ortiz25/sms-api/pkg/errors"
	"github.com/Ortiz25/sms-api/pkg/response"
)

// AcademicHandler wires academic settings and examination endpoints.
type AcademicHandler struct {
	service *service.AcademicService
}

// NewAcademicHandler creates a new handler.
func NewAcademicHandler(svc *service.AcademicService) *AcademicHandler {
	return &AcademicHandler{service: svc}
}

// ListSessions godoc
// @Summary List academic sessions
// @Tags Academic
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /academic/sessions [get]
func (h *AcademicHandler) ListSessions(c *gin.Context) {
	result, err := h.service.ListSessions(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Rows, paginationOf(result))
}

// CreateSession godoc
// @Summary Create academic session
// @Tags Academic
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /academic/sessions [post]
func (h *AcademicHandler) CreateSession(c *gin.Context) {
	var input service.SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	session, err := h.service.CreateSession(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// SetCurrentSession godoc
// @Summary Promote a session to current
// @Description Exactly one session is current; the previous one is demoted
// @Tags Academic
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /academic/sessions/{id}/set-current [patch]
func (h *AcademicHandler) SetCurrentSession(c *gin.Context) {
	session, err := h.service.SetCurrentSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// UpdateSessionStatus godoc
// @Summary Update session status
// @Tags Academic
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /academic/sessions/{id}/status [patch]
func (h *AcademicHandler) UpdateSessionStatus(c *gin.Context) {
	var payload struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status required"))
		return
	}
	session, err := h.service.UpdateSessionStatus(c.Request.Context(), c.Param("id"), payload.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// ListGradingSystems godoc
// @Summary List grading systems
// @Tags Academic
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /academic/grading-systems [get]
func (h *AcademicHandler) ListGradingSystems(c *gin.Context) {
	systems, err := h.service.ListGradingSystems(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, systems, nil)
}

// CreateGradingSystem godoc
// @Summary Create grading system
// @Tags Academic
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /academic/grading-systems [post]
func (h *AcademicHandler) CreateGradingSystem(c *gin.Context) {
	var input service.GradingSystemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grading system payload"))
		return
	}
	system, err := h.service.CreateGradingSystem(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, system)
}

// UpdateGradingSystem godoc
// @Summary Update grading system
// @Tags Academic
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /academic/grading-systems/{id} [put]
func (h *AcademicHandler) UpdateGradingSystem(c *gin.Context) {
	var input service.GradingSystemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grading system payload"))
		return
	}
	system, err := h.service.UpdateGradingSystem(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, system, nil)
}

// ListExamTypes godoc
// @Summary List exam types
// @Tags Academic
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /academic/exam-types [get]
func (h *AcademicHandler) ListExamTypes(c *gin.Context) {
	types, err := h.service.ListExamTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, nil)
}

// CreateExamType godoc
// @Summary Create exam type
// @Tags Academic
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /academic/exam-types [post]
func (h *AcademicHandler) CreateExamType(c *gin.Context) {
	var input service.ExamTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid exam type payload"))
		return
	}
	examType, err := h.service.CreateExamType(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, examType)
}

// UpdateExamType godoc
// @Summary Update exam type
// @Tags Academic
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /academic/exam-types/{id} [put]
func (h *AcademicHandler) UpdateExamType(c *gin.Context) {
	var input service.ExamTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid exam type payload"))
		return
	}
	examType, err := h.service.UpdateExamType(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, examType, nil)
}

// ListExaminations godoc
// @Summary List examinations
// @Tags Examinations
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /examinations [get]
func (h *AcademicHandler) ListExaminations(c *gin.Context) {
	result, err := h.service.ListExaminations(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Rows, paginationOf(result))
}

// CreateExamination godoc
// @Summary Schedule examination
// @Tags Examinations
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /examinations [post]
func (h *AcademicHandler) CreateExamination(c *gin.Context) {
	var input service.ExaminationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid examination payload"))
		return
	}
	exam, err := h.service.CreateExamination(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exam)
}

// UpdateExamination godoc
// @Summary Update examination
// @Tags Examinations
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /examinations/{id} [put]
func (h *AcademicHandler) UpdateExamination(c *gin.Context) {
	var input service.ExaminationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid examination payload"))
		return
	}
	exam, err := h.service.UpdateExamination(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exam, nil)
}

// UpdateExaminationStatus godoc
// @Summary Update examination status
// @Tags Examinations
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /examinations/{id}/status [patch]
func (h *AcademicHandler) UpdateExaminationStatus(c *gin.Context) {
	var payload struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status required"))
		return
	}
	exam, err := h.service.UpdateExaminationStatus(c.Request.Context(), c.Param("id"), payload.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exam, nil)
}
