package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/traits-rail/traits-core/internal/netctx"
	"github.com/traits-rail/traits-core/internal/services"
)

// BookingHandler exposes the Booking & Reservation Engine.
type BookingHandler struct {
	bookings *services.BookingService
}

// NewBookingHandler builds a BookingHandler.
func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type buyTicketRequest struct {
	UserID      int64 `json:"userId" binding:"required"`
	TripID      int64 `json:"tripId" binding:"required"`
	ReserveSeat bool  `json:"reserveSeat"`
}

// BuyTicket handles POST /tickets.
func (h *BookingHandler) BuyTicket(c *gin.Context) {
	var req buyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info := netctx.FromContext(c)
	ticket, err := h.bookings.BuyTicket(c.Request.Context(), req.UserID, req.TripID, req.ReserveSeat, services.PurchaseProvenance{
		ClientIP: info.ClientIP,
		Device:   info.Device,
		TraceID:  uuid.NewString(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// GetPurchaseHistory handles GET /purchases?email=....
func (h *BookingHandler) GetPurchaseHistory(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	purchases, err := h.bookings.GetPurchaseHistory(email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}
