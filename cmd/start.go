package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lesson-reconciler/core/config"
	"lesson-reconciler/core/database"
	"lesson-reconciler/core/loader"
	"lesson-reconciler/core/logger"
	"lesson-reconciler/core/middleware/auth"
	"lesson-reconciler/core/middleware/rayid"
	"lesson-reconciler/core/storage"

	"lesson-reconciler/feature/lessons"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "lesson-reconciler/docs/swagger"
)

// @title Lesson Reconciler API
// @version 1.0
// @description API for reconciling stored lessons against school roster exports.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the lesson reconciler server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to lesson database", zap.Error(err))
		}
		logg.Info("Connected to lesson database",
			zap.String("driver", cfg.Database.Driver),
			zap.String("database", cfg.Database.Name))

		// 4. Initialize Storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		feature := lessons.NewFeature(db, store, cfg.Storage.Bucket, cfg.Roster.Prefix, cfg.Roster.Extension, logg)

		// Startup checks only warn; the server still serves what it can
		checkCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if ok, err := store.BucketExists(checkCtx, cfg.Storage.Bucket); err != nil {
			logg.Warn("Could not reach roster bucket", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		} else if !ok {
			logg.Warn("Roster bucket does not exist", zap.String("bucket", cfg.Storage.Bucket))
		}
		if missing, err := lessons.NewStore(db, logg).VerifySchema(checkCtx); err != nil {
			logg.Warn("Could not verify lesson schema", zap.Error(err))
		} else {
			for table, cols := range missing {
				logg.Warn("Lesson table is missing columns", zap.String("table", table), zap.Strings("columns", cols))
			}
		}
		cancel()

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           cfg.Server.RequestTimeout(),
			WriteTimeout:          cfg.Server.RequestTimeout(),
		})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(feature)

		// Middleware Registration
		// RayID must be first to trace everything
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			l.Debug("Request finished",
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("elapsed", time.Since(start)))
			return err
		})

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// Auth protects everything registered after it
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		loaded, err := mgr.LoadAll(app)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("addr", cfg.Server.Addr()))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.ShutdownWithTimeout(cfg.Server.RequestTimeout())
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
