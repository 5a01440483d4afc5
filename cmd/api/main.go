package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/siuroma-kids/admin-api/internal/config"
	"github.com/siuroma-kids/admin-api/internal/database"
	"github.com/siuroma-kids/admin-api/internal/handler"
	"github.com/siuroma-kids/admin-api/internal/middleware"
	"github.com/siuroma-kids/admin-api/internal/models"
	"github.com/siuroma-kids/admin-api/internal/observability"
	"github.com/siuroma-kids/admin-api/internal/repository"
	"github.com/siuroma-kids/admin-api/internal/router"
	"github.com/siuroma-kids/admin-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Course{}, &models.Student{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	observability.RegisterMetrics()

	courseRepo := repository.NewCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	syncRepo := repository.NewSyncRepository(db)

	events := service.NewScheduleEventService(redisClient, natsConn, cfg.EventChannelBase, logger)
	timetableService := service.NewTimetableService(courseRepo, redisClient, cfg.TimetableCacheTTL, logger)
	courseService := service.NewCourseService(courseRepo, cfg, events, timetableService, logger)
	enrollmentService := service.NewEnrollmentService(courseRepo, studentRepo, syncRepo, cfg, events, timetableService, logger)
	rescheduleService := service.NewRescheduleService(courseRepo, studentRepo, syncRepo, cfg, events, timetableService, logger)
	studentService := service.NewStudentService(studentRepo, logger)
	reconcileService := service.NewReconcileService(courseRepo, studentRepo, logger)

	courseHandler := handler.NewCourseHandler(courseService, enrollmentService, logger)
	studentHandler := handler.NewStudentHandler(studentService, rescheduleService, logger)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, logger)
	timetableHandler := handler.NewTimetableHandler(timetableService, logger)
	reconcileHandler := handler.NewReconcileHandler(reconcileService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CourseHandler:     courseHandler,
		StudentHandler:    studentHandler,
		EnrollmentHandler: enrollmentHandler,
		TimetableHandler:  timetableHandler,
		ReconcileHandler:  reconcileHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
