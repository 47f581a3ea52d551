package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/traits-rail/traits-core/internal/models"
	"github.com/traits-rail/traits-core/internal/services"
)

// TrainHandler exposes Train surface operations.
type TrainHandler struct {
	trains *services.TrainService
}

// NewTrainHandler builds a TrainHandler.
func NewTrainHandler(trains *services.TrainService) *TrainHandler {
	return &TrainHandler{trains: trains}
}

type addTrainRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required"`
	Status   int    `json:"status"`
}

// AddTrain handles POST /trains.
func (h *TrainHandler) AddTrain(c *gin.Context) {
	var req addTrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	train, err := h.trains.AddTrain(req.Name, req.Capacity, models.TrainStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, train)
}

type updateTrainRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required"`
	Status   int    `json:"status"`
}

// UpdateTrainDetails handles PUT /trains/:id.
func (h *TrainHandler) UpdateTrainDetails(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid train id"})
		return
	}

	var req updateTrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.trains.UpdateTrainDetails(id, req.Name, req.Capacity, models.TrainStatus(req.Status)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteTrain handles DELETE /trains/:id.
func (h *TrainHandler) DeleteTrain(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid train id"})
		return
	}

	if err := h.trains.DeleteTrain(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCurrentStatus handles GET /trains/:id/status.
func (h *TrainHandler) GetCurrentStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid train id"})
		return
	}

	status, err := h.trains.GetCurrentStatus(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if status == nil {
		c.JSON(http.StatusOK, gin.H{"status": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status.String()})
}
