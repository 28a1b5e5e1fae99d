package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
)

type UserHandler struct {
	users repos.UserRepo
}

func NewUserHandler(users repos.UserRepo) *UserHandler {
	return &UserHandler{users: users}
}

// GET /api/admin/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.ListAll(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// PATCH /api/admin/users/:user_id/role
func (h *UserHandler) SetRole(c *gin.Context) {
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	role := models.Role(req.Role)
	if role != models.RoleUser && role != models.RoleAdmin {
		respondError(c, apperr.New(apperr.KindValidation, "unknown role %q", req.Role))
		return
	}

	ctx := c.Request.Context()
	if err := h.users.SetRole(ctx, nil, c.Param("user_id"), role); err != nil {
		respondError(c, err)
		return
	}
	user, err := h.users.GetByUserID(ctx, nil, c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
