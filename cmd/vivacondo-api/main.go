package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vivacondo-api/internal/authz"
	"vivacondo-api/internal/config"
	"vivacondo-api/internal/database"
	httpapi "vivacondo-api/internal/http"
	"vivacondo-api/internal/logger"
	"vivacondo-api/internal/repository"
	"vivacondo-api/internal/service"
	"vivacondo-api/internal/session"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "vivacondo-api")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	sessions := session.NewStore(session.NewRedisKV(redisClient))

	var (
		db         *sql.DB
		usersRepo  repository.UsersRepository
		condosRepo repository.CondominiumsRepository
		permsRepo  repository.PermissionsRepository
		delivRepo  repository.DeliveriesRepository
		spacesRepo repository.CommonSpacesRepository
		emplRepo   repository.EmployeesRepository
		auditRepo  repository.AuditRepository
	)

	db, err = database.Open(&cfg.Database)
	if err != nil {
		// Memory repositories keep the API serving in dev environments
		// without Postgres.
		log.Warn("database unavailable, using in-memory repositories", zap.Error(err))
		usersRepo = repository.NewMemoryUsersRepo()
		condosRepo = repository.NewMemoryCondominiumsRepo()
		permsRepo = repository.NewMemoryPermissionsRepo()
		delivRepo = repository.NewMemoryDeliveriesRepo()
		spacesRepo = repository.NewMemoryCommonSpacesRepo()
		emplRepo = repository.NewMemoryEmployeesRepo()
		auditRepo = repository.NewMemoryAuditRepo()
		db = nil
	} else {
		log.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
		)
		usersRepo = repository.NewPostgresUsersRepository(db)
		condosRepo = repository.NewPostgresCondominiumsRepository(db)
		permsRepo = repository.NewPostgresPermissionsRepository(db)
		delivRepo = repository.NewPostgresDeliveriesRepository(db)
		spacesRepo = repository.NewPostgresCommonSpacesRepository(db)
		emplRepo = repository.NewPostgresEmployeesRepository(db)
		auditRepo = repository.NewPostgresAuditRepository(db)
	}

	resolver := authz.NewResolver(condosRepo, log)
	guard := authz.NewGuard(permsRepo, log)

	auditor := service.NewAuditor(auditRepo, log)
	notifier := service.NewNotifier(cfg.Notifier, log)

	authSvc := service.NewAuthService(usersRepo, condosRepo, sessions, log)
	userSvc := service.NewUserService(usersRepo, permsRepo, emplRepo, auditor, log)
	employeeSvc := service.NewEmployeeService(userSvc, usersRepo, emplRepo, auditor, log)
	deliverySvc := service.NewDeliveryService(delivRepo, auditor, notifier, log)
	spaceSvc := service.NewCommonSpaceService(spacesRepo, auditor, log)
	condoSvc := service.NewCondominiumService(condosRepo, log)
	auditSvc := service.NewAuditService(auditRepo)
	exportSvc := service.NewExportService(usersRepo, delivRepo, log)

	mw := httpapi.NewMiddleware(authSvc, userSvc, resolver, guard, log)
	router := httpapi.NewRouter(log)
	router.RegisterAuthRoutes(mw, httpapi.NewAuthHandler(authSvc, log))
	router.RegisterUserRoutes(mw, httpapi.NewUserHandler(userSvc, exportSvc, log))
	router.RegisterEmployeeRoutes(mw, httpapi.NewEmployeeHandler(employeeSvc, log))
	router.RegisterDeliveryRoutes(mw, httpapi.NewDeliveryHandler(deliverySvc, exportSvc, log))
	router.RegisterCommonSpaceRoutes(mw, httpapi.NewCommonSpaceHandler(spaceSvc, log))
	router.RegisterCondominiumRoutes(mw, httpapi.NewCondominiumHandler(condoSvc, log))
	router.RegisterAuditRoutes(mw, httpapi.NewAuditHandler(auditSvc, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		log.Error("HTTP server stopped", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	_ = database.Close(db)
}
