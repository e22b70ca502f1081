package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/Domenick1991/airtickets/internal/middleware"
	"github.com/Domenick1991/airtickets/internal/service/flights"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type ScheduleHandler struct {
	service flights.ScheduleUseCase
}

type scheduleRequest struct {
	FlightID      int64     `json:"flight_id" binding:"required"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	Status        string    `json:"status" binding:"omitempty,schedule_status"`
}

func (r scheduleRequest) input() domain.ScheduleInput {
	return domain.ScheduleInput{
		FlightID:      r.FlightID,
		DepartureTime: r.DepartureTime,
		ArrivalTime:   r.ArrivalTime,
		Status:        domain.ScheduleStatus(r.Status),
	}
}

func NewScheduleHandler(service flights.ScheduleUseCase) *ScheduleHandler {
	registerValidators()
	return &ScheduleHandler{service: service}
}

// Register mounts the schedule routes on the same group as the flight routes.
func (h *ScheduleHandler) Register(router *gin.RouterGroup) {
	admin := middleware.RequireRole(domain.RoleAdmin)

	router.GET("/:id/schedules", h.listForFlight)
	router.GET("/schedules/:id", h.get)
	router.POST("/schedules", admin, h.create)
	router.PUT("/schedules/:id", admin, h.update)
	router.DELETE("/schedules/:id", admin, h.delete)
}

func (h *ScheduleHandler) listForFlight(c *gin.Context) {
	flightID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var days domain.DateRange
	for param, bound := range map[string]**time.Time{"startDate": &days.Start, "endDate": &days.End} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		day, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param + ", expected YYYY-MM-DD"})
			return
		}
		*bound = &day
	}

	schedules, err := h.service.ListForFlight(c.Request.Context(), flightID, days)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

func (h *ScheduleHandler) get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	schedule, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (h *ScheduleHandler) create(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	schedule, err := h.service.Create(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, schedule)
}

func (h *ScheduleHandler) update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	schedule, err := h.service.Update(c.Request.Context(), id, req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (h *ScheduleHandler) delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
