// Package handlers wires gin routes to the services package, following the
// teacher's internal/handlers/*.go shape: bind request body, validate,
// call a service method, translate the result (or apperr.Code) to a JSON
// response.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/traits-rail/traits-core/internal/apperr"
	"github.com/traits-rail/traits-core/internal/services"
)

// StationHandler exposes Station and Connection surface operations.
type StationHandler struct {
	stations *services.StationService
}

// NewStationHandler builds a StationHandler.
func NewStationHandler(stations *services.StationService) *StationHandler {
	return &StationHandler{stations: stations}
}

type addStationRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddStation handles POST /stations.
func (h *StationHandler) AddStation(c *gin.Context) {
	var req addStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	station, err := h.stations.AddStation(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, station)
}

type connectStationsRequest struct {
	StartStation string `json:"startStation" binding:"required"`
	EndStation   string `json:"endStation" binding:"required"`
	TravelTime   int    `json:"travelTime"`
}

// ConnectStations handles POST /connections.
func (h *StationHandler) ConnectStations(c *gin.Context) {
	var req connectStationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.stations.ConnectStations(c.Request.Context(), req.StartStation, req.EndStation, req.TravelTime)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conn)
}

// ListStations handles GET /stations.
func (h *StationHandler) ListStations(c *gin.Context) {
	stations, err := h.stations.ListStations()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stations)
}

// respondError maps an apperr.Code to its HTTP status, shared across every
// handler file in this package.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.CodeOf(err) {
	case apperr.InvalidArgument:
		status = http.StatusBadRequest
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.Conflict:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
