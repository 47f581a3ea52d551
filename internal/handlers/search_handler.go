package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/traits-rail/traits-core/internal/graph"
	"github.com/traits-rail/traits-core/internal/services"
)

// SearchHandler exposes the Connection Search Engine.
type SearchHandler struct {
	search *services.SearchService
}

// NewSearchHandler builds a SearchHandler.
func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// SearchConnections handles GET /connections/search, reading every input
// from query parameters per spec.md §4.3.
func (h *SearchHandler) SearchConnections(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))
	day, _ := strconv.Atoi(c.Query("day"))
	sortBy, _ := strconv.Atoi(c.Query("sortBy"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	isDeparture := c.Query("anchor") != "arrival"
	ascending := c.Query("order") != "desc"

	trips, err := h.search.Search(c.Request.Context(), services.SearchRequest{
		StartStation:    c.Query("from"),
		EndStation:      c.Query("to"),
		Year:            year,
		Month:           month,
		Day:             day,
		IsDepartureTime: isDeparture,
		SortBy:          graph.SortCriterion(sortBy),
		Ascending:       ascending,
		Limit:           limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connections": trips})
}
