package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/traits-rail/traits-core/internal/models"
	"github.com/traits-rail/traits-core/internal/services"
)

// ScheduleHandler exposes the Schedule Materialiser's single write
// operation.
type ScheduleHandler struct {
	schedules *services.ScheduleService
}

// NewScheduleHandler builds a ScheduleHandler.
func NewScheduleHandler(schedules *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

type stopRequest struct {
	StationID      int64 `json:"stationId" binding:"required"`
	WaitingMinutes int   `json:"waitingMinutes"`
}

type addScheduleRequest struct {
	TrainID    int64         `json:"trainId" binding:"required"`
	StartHH    int           `json:"startHour"`
	StartMM    int           `json:"startMinute"`
	Stops      []stopRequest `json:"stops" binding:"required"`
	ValidFrom  string        `json:"validFrom" binding:"required"`
	ValidUntil string        `json:"validUntil" binding:"required"`
}

// AddSchedule handles POST /schedules.
func (h *ScheduleHandler) AddSchedule(c *gin.Context) {
	var req addScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	validFrom, err := time.Parse("2006-01-02", req.ValidFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid validFrom date"})
		return
	}
	validUntil, err := time.Parse("2006-01-02", req.ValidUntil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid validUntil date"})
		return
	}

	stops := make([]models.Stop, len(req.Stops))
	for i, s := range req.Stops {
		stops[i] = models.Stop{StationID: s.StationID, WaitingMinutes: s.WaitingMinutes}
	}

	scheduleID, err := h.schedules.AddSchedule(c.Request.Context(), models.ScheduleRequest{
		TrainID:    req.TrainID,
		StartHH:    req.StartHH,
		StartMM:    req.StartMM,
		Stops:      stops,
		ValidFrom:  validFrom,
		ValidUntil: validUntil,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"scheduleId": scheduleID})
}
