package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/transport/http/response"
)

type UserService interface {
	List(ctx context.Context, q domain.UserQuery) (*domain.UserPage, error)
	Get(ctx context.Context, id int64) (*domain.UserProfile, error)
}

type UsersHandler struct {
	users UserService
}

func NewUsersHandler(users UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

type listUsersQuery struct {
	Search string `form:"search" binding:"max=200"`
	Page   int    `form:"page,default=1" binding:"min=1"`
	Limit  int    `form:"limit,default=10" binding:"min=1,max=100"`
	Order  string `form:"order,default=desc" binding:"oneof=asc desc"`
	Sort   string `form:"sort,default=registeredAt" binding:"oneof=id username email registeredAt lastLoginAt"`
}

type userIDParam struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param search query string false "Search in username and email"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Param order query string false "asc or desc" default(desc)
// @Param sort query string false "Sort field" default(registeredAt)
// @Success 200 {object} domain.UserPage
// @Router /v1/users [get]
func (h *UsersHandler) List(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, validationMessage(err))
		return
	}

	page, err := h.users.List(c.Request.Context(), domain.UserQuery{
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
		Order:  q.Order,
		Sort:   q.Sort,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get godoc
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} domain.UserProfile
// @Failure 404 {object} response.Message
// @Router /v1/users/{id} [get]
func (h *UsersHandler) Get(c *gin.Context) {
	var p userIDParam
	if err := c.ShouldBindUri(&p); err != nil {
		response.BadRequest(c, validationMessage(err))
		return
	}

	user, err := h.users.Get(c.Request.Context(), p.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
