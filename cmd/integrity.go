package cmd

import (
	"context"
	"fmt"
	"time"

	"lesson-reconciler/core/config"
	"lesson-reconciler/core/database"
	"lesson-reconciler/core/logger"
	"lesson-reconciler/core/storage"
	"lesson-reconciler/feature/lessons"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check that the lesson database and roster storage are usable",
	Long:  `Checks the lesson tables for required columns and the roster bucket for exports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runSchemaCheck(cmd.Context(), false); err != nil {
			return err
		}
		return runStorageCheck(cmd.Context())
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the lesson tables (and optionally create them)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchemaCheck(cmd.Context(), migrateFlag)
	},
}

// storageCmd represents the integrity storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check the roster bucket and list schools with an export",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStorageCheck(cmd.Context())
	},
}

func init() {
	schemaCmd.Flags().BoolVar(&migrateFlag, "migrate", false, "Create or update the lesson tables")

	integrityCmd.AddCommand(schemaCmd)
	integrityCmd.AddCommand(storageCmd)
	RootCmd.AddCommand(integrityCmd)
}

func runSchemaCheck(ctx context.Context, migrate bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logg.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("database connection required: %w", err)
	}

	store := lessons.NewStore(db, logg)
	if migrate {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		logg.Info("Lesson tables migrated", zap.String("driver", cfg.Database.Driver))
	}

	missing, err := store.VerifySchema(ctx)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Lesson Schema ===")
	if len(missing) == 0 {
		fmt.Println("All required columns present")
		return nil
	}
	for table, cols := range missing {
		fmt.Printf("%s: missing %v\n", table, cols)
	}
	return fmt.Errorf("lesson schema incomplete: %d tables affected", len(missing))
}

func runStorageCheck(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logg.Sync()

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", cfg.Storage.Bucket)
	}

	roster := lessons.NewRosterSource(client, cfg.Storage.Bucket, cfg.Roster.Prefix, cfg.Roster.Extension, logg)
	schools, err := roster.ListRosters(ctx)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Roster Storage ===")
	fmt.Printf("Bucket: %s\n", cfg.Storage.Bucket)
	fmt.Printf("Roster Exports: %d\n", len(schools))
	for _, school := range schools {
		fmt.Printf("  - %s (%s)\n", school, roster.ObjectName(school))
	}

	logg.Info("Storage check completed",
		zap.Int("rosters", len(schools)),
		zap.Duration("execution_time", time.Since(startTime)))
	return nil
}
