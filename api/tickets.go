package api

import (
	"net/http"

	"github.com/Domenick1991/airtickets/internal/auth"
	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/Domenick1991/airtickets/internal/middleware"
	"github.com/Domenick1991/airtickets/internal/service/tickets"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service tickets.TicketUseCase
}

type createTicketRequest struct {
	FlightID      int64  `json:"flight_id" binding:"required"`
	ScheduleID    int64  `json:"schedule_id" binding:"required"`
	PassengerName string `json:"passenger_name" binding:"required"`
	SeatNumber    string `json:"seat_number"`
}

func NewTicketHandler(service tickets.TicketUseCase) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/my-tickets", h.listMine)
	router.GET("/admin/all", middleware.RequireRole(domain.RoleAdmin), h.listAll)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
}

// caller returns the principal resolved for the request. Ticket routes need
// the numeric id, which only the identity lookup provides.
func caller(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.Principal(c)
	if !ok || p.UserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return domain.Principal{}, false
	}
	return p, true
}

func (h *TicketHandler) create(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.Create(c.Request.Context(), p.UserID, tickets.CreateTicketInput{
		FlightID:      req.FlightID,
		ScheduleID:    req.ScheduleID,
		PassengerName: req.PassengerName,
		SeatNumber:    req.SeatNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *TicketHandler) listMine(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	views, err := h.service.ListForUser(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *TicketHandler) listAll(c *gin.Context) {
	views, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// authorized loads the ticket and checks the caller may touch it.
func (h *TicketHandler) authorized(c *gin.Context) (*domain.Ticket, bool) {
	p, ok := caller(c)
	if !ok {
		return nil, false
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	ticket, err := h.service.Find(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	if err := auth.AuthorizeTicketAccess(p, ticket); err != nil {
		writeError(c, err)
		return nil, false
	}
	return ticket, true
}

func (h *TicketHandler) get(c *gin.Context) {
	ticket, ok := h.authorized(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.service.Describe(c.Request.Context(), ticket))
}

func (h *TicketHandler) cancel(c *gin.Context) {
	ticket, ok := h.authorized(c)
	if !ok {
		return
	}
	cancelled, err := h.service.Cancel(c.Request.Context(), ticket.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}
