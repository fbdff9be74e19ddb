package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dev-mohitbeniwal/fleet/api/audit"
	"github.com/dev-mohitbeniwal/fleet/api/config"
	"github.com/dev-mohitbeniwal/fleet/api/controller"
	"github.com/dev-mohitbeniwal/fleet/api/db"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/resilience"
	"github.com/dev-mohitbeniwal/fleet/api/router"
	"github.com/dev-mohitbeniwal/fleet/api/service"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

func main() {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	if err := config.BindFlags(flags); err != nil {
		log.Fatalf("Failed to bind flags: %v", err)
	}
	_ = flags.Parse(os.Args[1:])

	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	cfg := config.GetConfig()

	role := cfg.Server.Role

	// Initialize logger
	if err := logger.InitLogger(logger.Options{
		Dir:     config.GetString("log.dir"),
		Service: role,
		Level:   config.GetString("log.level"),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	switch role {
	case service.RoleUsuarios, service.RoleProyectos, service.RoleTareas, service.RoleGateway, service.RoleMonolith:
	default:
		logger.Fatal("Unknown service role", zap.String("role", role))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	eventBus.Start(ctx)
	util.NewNotificationService().Register(eventBus)

	var (
		redisStore   *db.RedisStore
		closeStorage = func() error { return nil }
		controllers  *controller.Controllers
		guards       controller.RouteGuards
		limiter      db.RateLimiter
		autoDrain    func(context.Context) error
	)

	if role == service.RoleGateway {
		gateway, err := controller.NewGatewayController(map[string]string{
			service.RoleUsuarios:  cfg.Services.Usuarios,
			service.RoleProyectos: cfg.Services.Proyectos,
			service.RoleTareas:    cfg.Services.Tareas,
		}, func(key string) bool {
			return key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(cfg.Auth.MasterKey)) == 1
		})
		if err != nil {
			logger.Fatal("Failed to configure gateway", zap.Error(err))
		}
		controllers = &controller.Controllers{
			Health:  controller.NewHealthController(role),
			Gateway: gateway,
		}
	} else {
		var err error
		redisStore, err = db.InitRedis()
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		limiter = redisStore

		sealer, err := db.NewSealer(cfg.Redis.EncryptionKey)
		if err != nil {
			logger.Fatal("Invalid cache encryption key", zap.Error(err))
		}

		stores, closeFn, err := openStorage(ctx, cfg)
		closeStorage = closeFn
		if err != nil {
			logger.Fatal("Failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
		}
		stores.Cache = redisStore
		stores.Queue = redisStore
		stores.Locker = redisStore
		stores.Sealer = sealer

		if cfg.Audit.Enabled {
			auditRepository, err := audit.NewElasticsearchRepository(cfg.Elasticsearch.URL)
			if err != nil {
				logger.Warn("Audit disabled: cannot create Elasticsearch client", zap.Error(err))
			} else {
				eventBus.Subscribe(util.EventAccessDecided, audit.NewService(auditRepository).HandleAccessDecided)
			}
		}

		stateStore, err := resilience.NewFileStateStore(cfg.Storage.DataDir)
		if err != nil {
			logger.Fatal("Failed to open circuit state store", zap.Error(err))
		}
		breakers := resilience.NewRegistry(stateStore, eventBus, resilience.Settings{
			FailThreshold: cfg.Breaker.FailThreshold,
			ResetTimeout:  cfg.Breaker.ResetTimeout,
		})

		services, err := service.InitializeServices(stores, service.Settings{
			Role:                 role,
			MasterKey:            cfg.Auth.MasterKey,
			InternalServiceToken: cfg.Auth.InternalServiceToken,
			TokenTTLs: service.TokenTTLs{
				Issued:   cfg.Tokens.TTL,
				Fallback: cfg.Tokens.FallbackTTL,
				Internal: cfg.Tokens.InternalTTL,
			},
			ValetDefaultTTLHours: cfg.Valet.DefaultTTLHours,
			RecordTTL:            cfg.Cache.RecordTTL,
			CallTimeout:          cfg.Breaker.CallTimeout,
			Queue: service.QueueSettings{
				Key:             cfg.Queue.Key,
				ProcessingDelay: cfg.Queue.ProcessingDelay,
				LockTTL:         cfg.Queue.LockTTL,
			},
			UsuariosURL:  cfg.Services.Usuarios,
			ProyectosURL: cfg.Services.Proyectos,
		}, breakers, util.NewValidationUtil(), eventBus)
		if err != nil {
			logger.Fatal("Failed to initialize services", zap.Error(err))
		}

		_ = services.Token.SeedInternal(ctx, cfg.Auth.InternalServiceToken)

		controllers = controller.InitializeControllers(services, role, nil)
		guards = router.Guards(services.Auth)

		if interval := cfg.Queue.AutoDrainInterval; interval > 0 && (role == service.RoleTareas || role == service.RoleMonolith) {
			logger.Info("Background queue drain enabled", zap.Duration("interval", interval))
			autoDrain = func(ctx context.Context) error {
				return services.TaskQueue.RunAutoDrain(ctx, interval)
			}
		}
	}

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(role, controllers, guards, limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server", zap.String("role", role), zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if autoDrain != nil {
		g.Go(func() error { return autoDrain(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}

	eventBus.Close()
	if err := multierr.Combine(closeStorage(), redisStore.Close()); err != nil {
		logger.Error("Error releasing resources", zap.Error(err))
	}
	logger.Info("Server exiting")
}
