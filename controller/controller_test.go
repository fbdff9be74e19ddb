// api/controller/controller_test.go
package controller_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dev-mohitbeniwal/fleet/api/controller"
	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/service"
	mock_service "github.com/dev-mohitbeniwal/fleet/api/test/service_mock"
)

func passThrough(c *gin.Context) { c.Next() }

func openGuards() controller.RouteGuards {
	return controller.RouteGuards{
		Authenticate: passThrough,
		Require:      func(model.RouteRequirement) gin.HandlerFunc { return passThrough },
		IssuersOnly:  passThrough,
	}
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestProjectController(t *testing.T) {
	require.NoError(t, logger.InitLogger(logger.Options{Dir: t.TempDir(), Service: "test"}))
	defer logger.Sync()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProjectService := mock_service.NewMockIProjectService(ctrl)
	projectController := controller.NewProjectController(mockProjectService)
	router := setupRouter()
	projectController.RegisterRoutes(router, openGuards())

	t.Run("ListProjects", func(t *testing.T) {
		mockProjectService.EXPECT().ListProjects(gomock.Any()).
			Return([]model.Project{{ID: 1, Nombre: "Portal", UsuarioID: 1}}, nil)

		w := serve(router, http.MethodGet, "/proyectos", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data": [{"id": 1, "nombre": "Portal", "usuario_id": 1}]}`, w.Body.String())
	})

	t.Run("GetProject", func(t *testing.T) {
		mockProjectService.EXPECT().GetProject(gomock.Any(), 1).
			Return(&model.Project{ID: 1, Nombre: "Portal", UsuarioID: 1}, nil)

		w := serve(router, http.MethodGet, "/proyectos/1", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id": 1, "nombre": "Portal", "usuario_id": 1}`, w.Body.String())
	})

	t.Run("GetProject invalid id", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/proyectos/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GetProject not found", func(t *testing.T) {
		mockProjectService.EXPECT().GetProject(gomock.Any(), 9).Return(nil, fleet_errors.ErrProjectNotFound)

		w := serve(router, http.MethodGet, "/proyectos/9", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decode(t, w)["reason"])
	})

	t.Run("CreateProject", func(t *testing.T) {
		mockProjectService.EXPECT().CreateProject(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p model.Project) (*model.Project, error) {
				p.ID = 3
				return &p, nil
			})

		w := serve(router, http.MethodPost, "/proyectos", `{"nombre": "API", "usuario_id": 1, "prioridad": "alta"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Project created", body["mensaje"])
		assert.Equal(t, map[string]interface{}{
			"id": float64(3), "nombre": "API", "usuario_id": float64(1), "prioridad": "alta",
		}, body["data"])
	})

	t.Run("CreateProject unknown user", func(t *testing.T) {
		mockProjectService.EXPECT().CreateProject(gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("%w: %w: usuario_id 7", fleet_errors.ErrInvalidProjectData, fleet_errors.ErrUserNotFound))

		w := serve(router, http.MethodPost, "/proyectos", `{"nombre": "API", "usuario_id": 7}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("CreateProject circuit open", func(t *testing.T) {
		mockProjectService.EXPECT().CreateProject(gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("%w: proyectos->usuarios", fleet_errors.ErrCircuitOpen))

		w := serve(router, http.MethodPost, "/proyectos", `{"nombre": "API", "usuario_id": 1}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "circuit_open", decode(t, w)["reason"])
	})

	t.Run("CreateProject dependency down", func(t *testing.T) {
		mockProjectService.EXPECT().CreateProject(gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("%w: proyectos->usuarios: connection refused", fleet_errors.ErrDependencyUnavailable))

		w := serve(router, http.MethodPost, "/proyectos", `{"nombre": "API", "usuario_id": 1}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unavailable", decode(t, w)["reason"])
	})

	t.Run("CreateProject malformed body", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/proyectos", `{"nombre":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_request", decode(t, w)["reason"])
	})
}

func TestTaskController(t *testing.T) {
	require.NoError(t, logger.InitLogger(logger.Options{Dir: t.TempDir(), Service: "test"}))
	defer logger.Sync()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTaskService := mock_service.NewMockITaskService(ctrl)
	taskController := controller.NewTaskController(mockTaskService)
	router := setupRouter()
	taskController.RegisterRoutes(router, openGuards())

	t.Run("EnqueueTask", func(t *testing.T) {
		mockTaskService.EXPECT().Enqueue(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, task model.Task) error {
				assert.Equal(t, "A", task.Nombre)
				assert.Equal(t, 1, task.ProyectoID)
				return nil
			})

		w := serve(router, http.MethodPost, "/tareas", `{"nombre": "A", "proyecto_id": 1}`)
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, "Task queued", decode(t, w)["mensaje"])
	})

	t.Run("EnqueueTask missing project", func(t *testing.T) {
		mockTaskService.EXPECT().Enqueue(gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("%w: proyecto_id 9", fleet_errors.ErrProjectNotFound))

		w := serve(router, http.MethodPost, "/tareas", `{"nombre": "A", "proyecto_id": 9}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("EnqueueTask invalid", func(t *testing.T) {
		mockTaskService.EXPECT().Enqueue(gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("%w: nombre failed on required", fleet_errors.ErrInvalidTaskData))

		w := serve(router, http.MethodPost, "/tareas", `{"proyecto_id": 1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ProcessTasks", func(t *testing.T) {
		mockTaskService.EXPECT().DrainAndProcess(gomock.Any()).
			Return([]model.Task{{ID: 1, Nombre: "A", ProyectoID: 1}}, nil)

		w := serve(router, http.MethodPost, "/procesar_tareas", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"mensaje": "Tasks processed", "data": [{"id": 1, "nombre": "A", "proyecto_id": 1}]}`, w.Body.String())
	})

	t.Run("ProcessTasks empty queue", func(t *testing.T) {
		mockTaskService.EXPECT().DrainAndProcess(gomock.Any()).Return([]model.Task{}, nil)

		w := serve(router, http.MethodPost, "/procesar_tareas", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"mensaje": "Tasks processed", "data": []}`, w.Body.String())
	})

	t.Run("ProcessTasks already draining", func(t *testing.T) {
		mockTaskService.EXPECT().DrainAndProcess(gomock.Any()).Return(nil, fleet_errors.ErrDrainInProgress)

		w := serve(router, http.MethodPost, "/procesar_tareas", "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "conflict", decode(t, w)["reason"])
	})

	t.Run("ListTasks", func(t *testing.T) {
		mockTaskService.EXPECT().ListTasks(gomock.Any()).Return([]model.Task{}, nil)

		w := serve(router, http.MethodGet, "/tareas", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data": []}`, w.Body.String())
	})

	t.Run("GetTask not found", func(t *testing.T) {
		mockTaskService.EXPECT().GetTask(gomock.Any(), 4).Return(nil, fleet_errors.ErrTaskNotFound)

		w := serve(router, http.MethodGet, "/tareas/4", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserController(t *testing.T) {
	require.NoError(t, logger.InitLogger(logger.Options{Dir: t.TempDir(), Service: "test"}))
	defer logger.Sync()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserService := mock_service.NewMockIUserService(ctrl)
	router := setupRouter()
	controller.NewUserController(mockUserService).RegisterRoutes(router, openGuards())

	t.Run("CreateUser", func(t *testing.T) {
		mockUserService.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
			Return(&model.User{ID: 1, Nombre: "Ana"}, nil)

		w := serve(router, http.MethodPost, "/usuarios", `{"nombre": "Ana"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, map[string]interface{}{"id": float64(1), "nombre": "Ana"}, decode(t, w)["data"])
	})

	t.Run("GetUser", func(t *testing.T) {
		mockUserService.EXPECT().GetUser(gomock.Any(), 1).Return(&model.User{ID: 1, Nombre: "Ana"}, nil)

		w := serve(router, http.MethodGet, "/usuarios/1", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id": 1, "nombre": "Ana"}`, w.Body.String())
	})

	t.Run("ListUsers", func(t *testing.T) {
		mockUserService.EXPECT().ListUsers(gomock.Any()).Return([]model.User{{ID: 1, Nombre: "Ana"}}, nil)

		w := serve(router, http.MethodGet, "/usuarios", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data": [{"id": 1, "nombre": "Ana"}]}`, w.Body.String())
	})

	t.Run("GetUser storage failure", func(t *testing.T) {
		mockUserService.EXPECT().GetUser(gomock.Any(), 2).
			Return(nil, fmt.Errorf("%w: disk gone", fleet_errors.ErrDatabaseOperation))

		w := serve(router, http.MethodGet, "/usuarios/2", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestTokenController(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTokenService := mock_service.NewMockITokenService(ctrl)
	router := setupRouter()
	controller.NewTokenController(mockTokenService).RegisterRoutes(router)

	t.Run("without body", func(t *testing.T) {
		mockTokenService.EXPECT().Issue(gomock.Any(), "API key issued for service access").
			Return(&model.BearerToken{Token: "tok", Description: "API key issued for service access"}, nil)

		w := serve(router, http.MethodPost, "/tokens", "")
		assert.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.Equal(t, "tok", body["token"])
		assert.Contains(t, body, "mensaje")
		assert.Contains(t, body, "instrucciones")
	})

	t.Run("with description", func(t *testing.T) {
		mockTokenService.EXPECT().Issue(gomock.Any(), "ci").
			Return(&model.BearerToken{Token: "tok2", Description: "ci"}, nil)

		w := serve(router, http.MethodPost, "/tokens", `{"description": "ci"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestValetKeyController(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockValetKeyService := mock_service.NewMockIValetKeyService(ctrl)
	router := setupRouter()
	controller.NewValetKeyController(mockValetKeyService).RegisterRoutes(router, openGuards())

	expires := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)

	t.Run("IssueValetKey", func(t *testing.T) {
		mockValetKeyService.EXPECT().Issue(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req service.IssueValetKeyRequest) (*model.ValetKey, error) {
				assert.Equal(t, []string{"read"}, req.Scopes)
				assert.Equal(t, []string{"1", "2"}, req.ResourceConstraints["proyecto_id"].Values())
				return &model.ValetKey{
					Token:               "vk",
					Scopes:              req.Scopes,
					AllowedMethods:      []string{"GET"},
					ResourceConstraints: req.ResourceConstraints,
					ExpiresAt:           expires,
				}, nil
			})

		w := serve(router, http.MethodPost, "/valet-keys",
			`{"scopes": ["read"], "allowed_methods": ["GET"], "resource_constraints": {"proyecto_id": [1, 2]}}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.Equal(t, "vk", body["valet_key"])
		assert.Equal(t, map[string]interface{}{
			"scopes":               []interface{}{"read"},
			"allowed_methods":      []interface{}{"GET"},
			"resource_constraints": map[string]interface{}{"proyecto_id": []interface{}{float64(1), float64(2)}},
			"expires_at":           "2026-03-01T13:00:00Z",
		}, body["metadata"])
	})

	t.Run("IssueValetKey validation", func(t *testing.T) {
		mockValetKeyService.EXPECT().Issue(gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("%w: scopes are required", fleet_errors.ErrValidation))

		w := serve(router, http.MethodPost, "/valet-keys", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("IssueValetKey nested constraint", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/valet-keys",
			`{"scopes": ["read"], "resource_constraints": {"proyecto_id": {"a": 1}}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHealthController(t *testing.T) {
	router := setupRouter()
	controller.NewHealthController("proyectos").RegisterRoutes(router)

	w := serve(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok", "service": "proyectos"}`, w.Body.String())
}
