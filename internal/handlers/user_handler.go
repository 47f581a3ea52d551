package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/traits-rail/traits-core/internal/services"
)

// UserHandler exposes User surface operations.
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type addUserRequest struct {
	Email   string `json:"email" binding:"required"`
	Details string `json:"details"`
}

// AddUser handles POST /users.
func (h *UserHandler) AddUser(c *gin.Context) {
	var req addUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.AddUser(req.Email, req.Details)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// DeleteUser handles DELETE /users/:id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.users.DeleteUser(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
