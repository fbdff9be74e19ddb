// api/controller/user_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/service"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

type UserController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// RegisterRoutes registers the API routes
func (uc *UserController) RegisterRoutes(r gin.IRouter, guards RouteGuards) {
	users := r.Group("/usuarios", guards.Authenticate)
	{
		users.GET("", guards.Require(model.RouteRequirement{Scope: "read:usuarios", Method: http.MethodGet}), uc.ListUsers)
		users.GET("/:usuario_id", guards.Require(model.RouteRequirement{Scope: "read:usuarios", ResourceParam: "usuario_id", Method: http.MethodGet}), uc.GetUser)
		users.POST("", guards.Require(model.RouteRequirement{Scope: "write:usuarios", Method: http.MethodPost}), uc.CreateUser)
	}
}

// CreateUser endpoint
func (uc *UserController) CreateUser(c *gin.Context) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", fleet_errors.ErrInvalidUserData)
		return
	}

	created, err := uc.userService.CreateUser(c.Request.Context(), user)
	if err != nil {
		respondWithServiceError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mensaje": "User created", "data": created})
}

// GetUser endpoint
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := parseID(c, "usuario_id")
	if !ok {
		return
	}
	user, err := uc.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err, "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers endpoint
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}
