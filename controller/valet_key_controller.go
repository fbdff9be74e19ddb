// api/controller/valet_key_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/fleet/api/service"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

const valetKeyInstructions = "Use this valet key in the 'Authorization: Bearer <valet_key>' or 'X-API-Key: <valet_key>' header. " +
	"It is limited to the listed scopes and expires automatically."

type ValetKeyController struct {
	valetKeyService service.IValetKeyService
}

func NewValetKeyController(valetKeyService service.IValetKeyService) *ValetKeyController {
	return &ValetKeyController{valetKeyService: valetKeyService}
}

// RegisterRoutes registers the valet key endpoint. Only master and bearer
// credentials may mint valet keys.
func (vc *ValetKeyController) RegisterRoutes(r gin.IRouter, guards RouteGuards) {
	r.POST("/valet-keys", guards.Authenticate, guards.IssuersOnly, vc.IssueValetKey)
}

func (vc *ValetKeyController) IssueValetKey(c *gin.Context) {
	var req service.IssueValetKeyRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid valet key request", err)
			return
		}
	}

	key, err := vc.valetKeyService.Issue(c.Request.Context(), req)
	if err != nil {
		respondWithServiceError(c, err, "Failed to issue valet key")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"mensaje":   "Valet key issued",
		"valet_key": key.Token,
		"metadata": gin.H{
			"scopes":               key.Scopes,
			"allowed_methods":      key.AllowedMethods,
			"resource_constraints": key.ResourceConstraints,
			"expires_at":           key.ExpiresAt,
		},
		"instrucciones": valetKeyInstructions,
	})
}
