package cli

import (
	"gorm.io/gorm"

	"study-planner/internal/config"
	"study-planner/internal/logger"
	"study-planner/internal/repository"
	"study-planner/internal/service"
)

// app holds the wired stores and services shared by the commands.
type app struct {
	cfg config.Config
	log logger.Logger
	db  *gorm.DB

	users     *service.UserService
	plans     *service.PlanService
	progress  *service.ProgressService
	calendar  *service.CalendarService
	templates *service.TemplateService
	digest    *service.DigestService
}

// loadApp reads the configuration and opens the database it points to.
func loadApp(prefix string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return newApp(cfg, logger.New(prefix, cfg))
}

func newApp(cfg config.Config, log logger.Logger) (*app, error) {
	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	reads, err := repository.NewReadStoreFromGorm(db)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	plans := service.NewPlanService(planRepo, templateRepo, reads)
	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		users:     service.NewUserService(userRepo),
		plans:     plans,
		progress:  service.NewProgressService(taskRepo),
		calendar:  service.NewCalendarService(plans, reads),
		templates: service.NewTemplateService(templateRepo),
		digest:    service.NewDigestService(userRepo, reads, log),
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
	if l, ok := a.log.(*logger.Std); ok {
		l.Close()
	}
}
