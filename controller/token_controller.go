// api/controller/token_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/fleet/api/service"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

const (
	defaultTokenDescription = "API key issued for service access"
	tokenInstructions       = "Use this token in the 'Authorization: Bearer <token>' or 'X-API-Key: <token>' header"
)

type TokenController struct {
	tokenService service.ITokenService
}

func NewTokenController(tokenService service.ITokenService) *TokenController {
	return &TokenController{tokenService: tokenService}
}

// RegisterRoutes registers the unauthenticated token endpoint
func (tc *TokenController) RegisterRoutes(r gin.IRouter) {
	r.POST("/tokens", tc.IssueToken)
}

type issueTokenRequest struct {
	Description string `json:"description"`
}

// IssueToken endpoint. The body is optional.
func (tc *TokenController) IssueToken(c *gin.Context) {
	var req issueTokenRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid token request", err)
			return
		}
	}
	if req.Description == "" {
		req.Description = defaultTokenDescription
	}

	token, err := tc.tokenService.Issue(c.Request.Context(), req.Description)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"mensaje":       "Token issued",
		"token":         token.Token,
		"instrucciones": tokenInstructions,
	})
}
