package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/traits-rail/traits-core/internal/authority"
)

// AdminHandler issues the role-bearing JWTs gin middleware checks
// everywhere else.
type AdminHandler struct {
	auth *authority.Service
}

// NewAdminHandler builds an AdminHandler.
func NewAdminHandler(auth *authority.Service) *AdminHandler {
	return &AdminHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /admin/login, an unauthenticated route: the
// bootstrap admin credential checked here is the sole source of
// admin-role tokens.
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.auth.CheckBootstrapAdmin(req.Email, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.auth.IssueToken(authority.RoleAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// IssueBaseToken handles POST /auth/base-token: Traits has no end-user
// authentication of its own (spec.md Non-goals), so the base-role token
// gating read/booking surface operations is handed out unconditionally —
// it exists only to route those requests onto the traits_base DB handle,
// not to authenticate a person.
func (h *AdminHandler) IssueBaseToken(c *gin.Context) {
	token, err := h.auth.IssueToken(authority.RoleBase)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
