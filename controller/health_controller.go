// api/controller/health_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	role string
}

func NewHealthController(role string) *HealthController {
	return &HealthController{role: role}
}

func (hc *HealthController) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", hc.Health)
}

func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": hc.role})
}
