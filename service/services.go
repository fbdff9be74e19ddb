// api/service/services.go
package service

import (
	"time"

	"github.com/dev-mohitbeniwal/fleet/api/client"
	"github.com/dev-mohitbeniwal/fleet/api/dao"
	"github.com/dev-mohitbeniwal/fleet/api/db"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/resilience"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

const (
	RoleUsuarios  = "usuarios"
	RoleProyectos = "proyectos"
	RoleTareas    = "tareas"
	RoleGateway   = "gateway"
	RoleMonolith  = "monolith"
)

type Services struct {
	Token     ITokenService
	ValetKey  IValetKeyService
	Auth      IAuthorizationService
	User      IUserService
	Project   IProjectService
	Task      ITaskService
	TaskQueue *TaskService
}

// Stores are the backends the services are built on.
type Stores struct {
	Cache    db.KeyValueStore
	Queue    db.WorkQueue
	Locker   db.Locker
	Sealer   *db.Sealer
	Tokens   dao.TokenRegistry
	Users    dao.Collection
	Projects dao.Collection
	Tasks    dao.Collection
}

type Settings struct {
	Role                 string
	MasterKey            string
	InternalServiceToken string
	TokenTTLs            TokenTTLs
	ValetDefaultTTLHours float64
	RecordTTL            time.Duration
	CallTimeout          time.Duration
	Queue                QueueSettings
	UsuariosURL          string
	ProyectosURL         string
}

// InitializeServices wires the services for one process role. Lookups of
// records owned by another service go over HTTP through a breaker unless
// this process also serves that role.
func InitializeServices(
	stores Stores,
	settings Settings,
	breakers *resilience.Registry,
	validationUtil *util.ValidationUtil,
	eventBus *util.EventBus,
) (*Services, error) {
	tokenSvc := NewTokenService(stores.Cache, stores.Tokens, settings.TokenTTLs)
	valetSvc := NewValetKeyService(stores.Cache, stores.Sealer, settings.ValetDefaultTTLHours)
	authSvc := NewAuthorizationService(settings.MasterKey, settings.InternalServiceToken, tokenSvc, valetSvc, eventBus)

	userDAO := dao.NewUserDAO(stores.Users)
	projectDAO := dao.NewProjectDAO(stores.Projects)
	taskDAO := dao.NewTaskDAO(stores.Tasks)

	userSvc := NewUserService(userDAO,
		NewCacheAside[model.User](stores.Cache, userDAO, "usuario", settings.RecordTTL),
		validationUtil)

	var users UserLookup = userSvc
	if !servesLocally(settings.Role, RoleUsuarios) {
		breaker := breakers.Get(resilience.BreakerKey(RoleProyectos, RoleUsuarios))
		users = NewRemoteUserLookup(client.NewServiceClient(settings.UsuariosURL, settings.InternalServiceToken, settings.CallTimeout, breaker))
	}
	projectSvc := NewProjectService(projectDAO,
		NewCacheAside[model.Project](stores.Cache, projectDAO, "proyecto", settings.RecordTTL),
		users, validationUtil)

	var projects ProjectLookup = projectSvc
	if !servesLocally(settings.Role, RoleProyectos) {
		breaker := breakers.Get(resilience.BreakerKey(RoleTareas, RoleProyectos))
		projects = NewRemoteProjectLookup(client.NewServiceClient(settings.ProyectosURL, settings.InternalServiceToken, settings.CallTimeout, breaker))
	}
	taskSvc := NewTaskService(taskDAO,
		NewCacheAside[model.Task](stores.Cache, taskDAO, "tarea", settings.RecordTTL),
		projects, stores.Queue, stores.Locker, validationUtil, eventBus, settings.Queue)

	return &Services{
		Token:     tokenSvc,
		ValetKey:  valetSvc,
		Auth:      authSvc,
		User:      userSvc,
		Project:   projectSvc,
		Task:      taskSvc,
		TaskQueue: taskSvc,
	}, nil
}

func servesLocally(role, dependency string) bool {
	return role == RoleMonolith || role == dependency
}
