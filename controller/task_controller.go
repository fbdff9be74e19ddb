// api/controller/task_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/service"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

type TaskController struct {
	taskService service.ITaskService
}

func NewTaskController(taskService service.ITaskService) *TaskController {
	return &TaskController{taskService: taskService}
}

// RegisterRoutes registers the API routes
func (tc *TaskController) RegisterRoutes(r gin.IRouter, guards RouteGuards) {
	tasks := r.Group("/tareas", guards.Authenticate)
	{
		tasks.GET("", guards.Require(model.RouteRequirement{Scope: "read:tareas", Method: http.MethodGet}), tc.ListTasks)
		tasks.GET("/:tarea_id", guards.Require(model.RouteRequirement{Scope: "read:tareas", ResourceParam: "tarea_id", Method: http.MethodGet}), tc.GetTask)
		tasks.POST("", guards.Require(model.RouteRequirement{Scope: "write:tareas", Method: http.MethodPost}), tc.EnqueueTask)
	}
	r.POST("/procesar_tareas", guards.Authenticate,
		guards.Require(model.RouteRequirement{Scope: "write:tareas", Method: http.MethodPost}), tc.ProcessTasks)
}

// EnqueueTask endpoint. The task is stored later by ProcessTasks.
func (tc *TaskController) EnqueueTask(c *gin.Context) {
	var task model.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid task data", fleet_errors.ErrInvalidTaskData)
		return
	}

	if err := tc.taskService.Enqueue(c.Request.Context(), task); err != nil {
		respondWithServiceError(c, err, "Failed to enqueue task")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"mensaje": "Task queued"})
}

// ProcessTasks drains the queue synchronously.
func (tc *TaskController) ProcessTasks(c *gin.Context) {
	processed, err := tc.taskService.DrainAndProcess(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to process tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Tasks processed", "data": processed})
}

// GetTask endpoint
func (tc *TaskController) GetTask(c *gin.Context) {
	id, ok := parseID(c, "tarea_id")
	if !ok {
		return
	}
	task, err := tc.taskService.GetTask(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err, "Failed to get task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// ListTasks endpoint
func (tc *TaskController) ListTasks(c *gin.Context) {
	tasks, err := tc.taskService.ListTasks(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to list tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tasks})
}
