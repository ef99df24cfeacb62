package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ortiz25/sms-api/internal/service"
	appErrors "github.com/Ortiz25/sms-api/pkg/errors"
	"github.com/Ortiz25/sms-api/pkg/response"
)

// HostelTransportHandler wires the hostel and transport endpoints, including
// the kind-dispatched allocation edit surface.
type HostelTransportHandler struct {
	hostel      *service.HostelService
	transport   *service.TransportService
	allocations *service.AllocationService
}

// NewHostelTransportHandler creates a new handler.
func NewHostelTransportHandler(hostel *service.HostelService, transport *service.TransportService, allocations *service.AllocationService) *HostelTransportHandler {
	return &HostelTransportHandler{hostel: hostel, transport: transport, allocations: allocations}
}

// ListDormitories godoc
// @Summary List dormitories
// @Tags HostelTransport
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/dormitories [get]
func (h *HostelTransportHandler) ListDormitories(c *gin.Context) {
	result, err := h.hostel.ListDormitories(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Rows, paginationOf(result))
}

// CreateDormitory godoc
// @Summary Create dormitory
// @Tags HostelTransport
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/dormitories [post]
func (h *HostelTransportHandler) CreateDormitory(c *gin.Context) {
	var input service.DormitoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid dormitory payload"))
		return
	}
	dorm, err := h.hostel.CreateDormitory(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dorm)
}

// UpdateDormitory godoc
// @Summary Update dormitory
// @Tags HostelTransport
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/dormitories/{id} [put]
func (h *HostelTransportHandler) UpdateDormitory(c *gin.Context) {
	var input service.DormitoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid dormitory payload"))
		return
	}
	dorm, err := h.hostel.UpdateDormitory(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dorm, nil)
}

// ListBoarders godoc
// @Summary List boarders
// @Tags HostelTransport
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/boarders [get]
func (h *HostelTransportHandler) ListBoarders(c *gin.Context) {
	result, err := h.hostel.ListBoarders(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Rows, paginationOf(result))
}

// CreateBoarder godoc
// @Summary Register boarder
// @Tags HostelTransport
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/boarders [post]
func (h *HostelTransportHandler) CreateBoarder(c *gin.Context) {
	var input service.BoarderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid boarder payload"))
		return
	}
	boarder, err := h.hostel.CreateBoarder(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, boarder)
}

// UpdateBoarder godoc
// @Summary Update boarder
// @Tags HostelTransport
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/boarders/{id} [put]
func (h *HostelTransportHandler) UpdateBoarder(c *gin.Context) {
	var input service.BoarderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid boarder payload"))
		return
	}
	boarder, err := h.hostel.UpdateBoarder(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, boarder, nil)
}

// ListHostelAllocations godoc
// @Summary List hostel allocations
// @Tags HostelTransport
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/hostel-allocations [get]
func (h *HostelTransportHandler) ListHostelAllocations(c *gin.Context) {
	result, err := h.hostel.ListAllocations(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Rows, paginationOf(result))
}

// ListRoutes godoc
// @Summary List transport routes
// @Tags HostelTransport
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/routes [get]
func (h *HostelTransportHandler) ListRoutes(c *gin.Context) {
	result, err := h.transport.ListRoutes(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Rows, paginationOf(result))
}

// CreateRoute godoc
// @Summary Create route
// @Tags HostelTransport
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/routes [post]
func (h *HostelTransportHandler) CreateRoute(c *gin.Context) {
	var input service.RouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid route payload"))
		return
	}
	route, err := h.transport.CreateRoute(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, route)
}

// UpdateRoute godoc
// @Summary Update route
// @Tags HostelTransport
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/routes/{id} [put]
func (h *HostelTransportHandler) UpdateRoute(c *gin.Context) {
	var input service.RouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid route payload"))
		return
	}
	route, err := h.transport.UpdateRoute(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, route, nil)
}

// ListStops godoc
// @Summary List route stops
// @Tags HostelTransport
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/stops [get]
func (h *HostelTransportHandler) ListStops(c *gin.Context) {
	result, err := h.transport.ListStops(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Rows, paginationOf(result))
}

// CreateStop godoc
// @Summary Create stop
// @Tags HostelTransport
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/stops [post]
func (h *HostelTransportHandler) CreateStop(c *gin.Context) {
	var input service.StopInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid stop payload"))
		return
	}
	stop, err := h.transport.CreateStop(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, stop)
}

// UpdateStop godoc
// @Summary Update stop
// @Tags HostelTransport
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/stops/{id} [put]
func (h *HostelTransportHandler) UpdateStop(c *gin.Context) {
	var input service.StopInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid stop payload"))
		return
	}
	stop, err := h.transport.UpdateStop(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stop, nil)
}

// ListTransportAllocations godoc
// @Summary List transport allocations
// @Tags HostelTransport
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/transport-allocations [get]
func (h *HostelTransportHandler) ListTransportAllocations(c *gin.Context) {
	result, err := h.transport.ListAllocations(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Rows, paginationOf(result))
}

// CreateAllocation godoc
// @Summary Create allocation
// @Description Create a hostel or transport allocation; the kind tag selects the family
// @Tags HostelTransport
// @Accept json
// @Produce json
// @Param payload body service.AllocationEdit true "Allocation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/allocations [post]
func (h *HostelTransportHandler) CreateAllocation(c *gin.Context) {
	var edit service.AllocationEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid allocation payload"))
		return
	}
	result, err := h.allocations.Create(c.Request.Context(), edit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateAllocation godoc
// @Summary Update allocation
// @Description Edit a hostel or transport allocation; the kind tag selects the family
// @Tags HostelTransport
// @Accept json
// @Produce json
// @Param id path string true "Allocation ID"
// @Param payload body service.AllocationEdit true "Allocation payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /hostel-transport/allocations/{id} [put]
func (h *HostelTransportHandler) UpdateAllocation(c *gin.Context) {
	var edit service.AllocationEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid allocation payload"))
		return
	}
	result, err := h.allocations.Update(c.Request.Context(), c.Param("id"), edit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
