package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/traits-rail/traits-core/internal/authority"
	"github.com/traits-rail/traits-core/internal/config"
	"github.com/traits-rail/traits-core/internal/database"
	"github.com/traits-rail/traits-core/internal/graph"
	"github.com/traits-rail/traits-core/internal/handlers"
	"github.com/traits-rail/traits-core/internal/invariant"
	"github.com/traits-rail/traits-core/internal/lock"
	"github.com/traits-rail/traits-core/internal/middleware"
	"github.com/traits-rail/traits-core/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Traits HTTP API",
	RunE:  serve,
}

const lockTTL = 10 * time.Second

func serve(cmd *cobra.Command, args []string) error {
	logger.Info("Starting Traits train-reservation backend")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("invalid log level, using info")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger.Info("connecting to relational store...")
	adminDB, err := database.NewAdminConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("failed to open admin connection: %v", err)
	}
	defer adminDB.Close()

	baseDB, err := database.NewBaseConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("failed to open base connection: %v", err)
	}
	defer baseDB.Close()
	logger.Info("relational store connected")

	logger.Info("connecting to graph store...")
	graphAdapter, err := graph.NewAdapter(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password)
	if err != nil {
		logger.Fatalf("failed to connect to neo4j: %v", err)
	}
	defer graphAdapter.Close(context.Background())
	logger.Info("graph store connected")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	locker := lock.NewLocker(redisClient, lockTTL)

	// Admin-role repositories back every write path (station/connection/
	// train/schedule/user management): schema.go grants traits_admin
	// superuser, so these hold for every table.
	stationRepo := database.NewStationRepository(adminDB)
	connectionRepo := database.NewConnectionRepository(adminDB)
	trainRepo := database.NewTrainRepository(adminDB)
	scheduleRepo := database.NewScheduleRepository(adminDB)
	userRepo := database.NewUserRepository(adminDB)

	// Base-role repositories back exactly the tables traits_base is
	// granted against (users/schedules/trains/stations/trips SELECT,
	// tickets/reservations/purchase_audit SELECT+INSERT, purchases SELECT) — the
	// booking flow and the train-status read run on these per
	// SPEC_FULL.md's Open Question decision (c).
	trainRepoBase := database.NewTrainRepository(baseDB)
	tripRepoBase := database.NewTripRepository(baseDB)
	userRepoBase := database.NewUserRepository(baseDB)
	ticketRepoBase := database.NewTicketRepository(baseDB)
	reservationRepoBase := database.NewReservationRepository(baseDB)
	purchaseRepoBase := database.NewPurchaseRepository(baseDB)

	checker := invariant.NewChecker(stationRepo, connectionRepo, trainRepo, scheduleRepo)

	stationService := services.NewStationService(stationRepo, connectionRepo, checker, graphAdapter, logger)
	trainService := services.NewTrainService(trainRepo, logger)
	trainServiceBase := services.NewTrainService(trainRepoBase, logger)
	scheduleService := services.NewScheduleService(adminDB, scheduleRepo, stationRepo, connectionRepo, trainRepo, checker, graphAdapter, logger)
	searchService := services.NewSearchService(checker, graphAdapter, database.NewTripRepository(adminDB), logger, cfg.Search.MaxLegs)
	bookingService := services.NewBookingService(baseDB, userRepoBase, trainRepoBase, tripRepoBase, ticketRepoBase, reservationRepoBase, purchaseRepoBase, locker, logger)
	userService := services.NewUserService(userRepo, logger)

	authSvc := authority.NewService(cfg.JWT.Secret, cfg.JWT.TokenExpiry, cfg.Security.BootstrapAdminEmail, cfg.Security.BootstrapAdminHash)

	stationHandler := handlers.NewStationHandler(stationService)
	trainHandler := handlers.NewTrainHandler(trainService)
	trainHandlerBase := handlers.NewTrainHandler(trainServiceBase)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	searchHandler := handlers.NewSearchHandler(searchService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	userHandler := handlers.NewUserHandler(userService)
	adminHandler := handlers.NewAdminHandler(authSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthCheckHandler(adminDB))

	// Unauthenticated token routes.
	router.POST("/admin/login", adminHandler.Login)
	router.POST("/auth/base-token", adminHandler.IssueBaseToken)

	authed := router.Group("")
	authed.Use(middleware.AuthMiddleware(authSvc, logger))
	{
		authed.GET("/stations", stationHandler.ListStations)
		authed.GET("/connections/search", searchHandler.SearchConnections)
		authed.GET("/trains/:id/status", trainHandlerBase.GetCurrentStatus)
		authed.POST("/tickets", bookingHandler.BuyTicket)
		authed.GET("/purchases", bookingHandler.GetPurchaseHistory)

		admin := authed.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/stations", stationHandler.AddStation)
			admin.POST("/connections", stationHandler.ConnectStations)
			admin.POST("/trains", trainHandler.AddTrain)
			admin.PUT("/trains/:id", trainHandler.UpdateTrainDetails)
			admin.DELETE("/trains/:id", trainHandler.DeleteTrain)
			admin.POST("/schedules", scheduleHandler.AddSchedule)
			admin.POST("/users", userHandler.AddUser)
			admin.DELETE("/users/:id", userHandler.DeleteUser)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited successfully")
	return nil
}

// requestLogger logs method/path/status/latency for every request,
// matching the teacher's requestLogger middleware.
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
		}

		entry := logger.WithFields(fields)
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request completed with server error")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request completed with client error")
		default:
			entry.Info("request completed")
		}
	}
}

// healthCheckHandler reports the admin relational connection's health.
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
