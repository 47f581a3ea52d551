package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBuyTicketMissingUserID(t *testing.T) {
	handler := NewBookingHandler(nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := []byte(`{"tripId": 9}`)
	c.Request, _ = http.NewRequest(http.MethodPost, "/tickets", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.BuyTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPurchaseHistoryMissingEmail(t *testing.T) {
	handler := NewBookingHandler(nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/purchases", nil)

	handler.GetPurchaseHistory(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
