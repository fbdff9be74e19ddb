// api/controller/project_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/service"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

type ProjectController struct {
	projectService service.IProjectService
}

func NewProjectController(projectService service.IProjectService) *ProjectController {
	return &ProjectController{projectService: projectService}
}

// RegisterRoutes registers the API routes. Listing projects is public.
func (pc *ProjectController) RegisterRoutes(r gin.IRouter, guards RouteGuards) {
	r.GET("/proyectos", pc.ListProjects)

	projects := r.Group("/proyectos", guards.Authenticate)
	{
		projects.GET("/:proyecto_id", guards.Require(model.RouteRequirement{Scope: "read:proyectos", ResourceParam: "proyecto_id", Method: http.MethodGet}), pc.GetProject)
		projects.POST("", guards.Require(model.RouteRequirement{Scope: "write:proyectos", Method: http.MethodPost}), pc.CreateProject)
	}
}

// CreateProject endpoint
func (pc *ProjectController) CreateProject(c *gin.Context) {
	var project model.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid project data", fleet_errors.ErrInvalidProjectData)
		return
	}

	created, err := pc.projectService.CreateProject(c.Request.Context(), project)
	if err != nil {
		respondWithServiceError(c, err, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mensaje": "Project created", "data": created})
}

// GetProject endpoint
func (pc *ProjectController) GetProject(c *gin.Context) {
	id, ok := parseID(c, "proyecto_id")
	if !ok {
		return
	}
	project, err := pc.projectService.GetProject(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err, "Failed to get project")
		return
	}
	c.JSON(http.StatusOK, project)
}

// ListProjects endpoint
func (pc *ProjectController) ListProjects(c *gin.Context) {
	projects, err := pc.projectService.ListProjects(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to list projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": projects})
}
