package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"lesson-reconciler/core/config"
	"lesson-reconciler/core/database"
	"lesson-reconciler/core/logger"
	"lesson-reconciler/core/reconcile"
	"lesson-reconciler/core/storage"
	"lesson-reconciler/feature/lessons"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for reconcile lessons command
	schoolID      string
	alignLessons  bool
	dryRunLessons bool
	yesConfirm    bool
	jsonReport    bool
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile stored lessons against roster exports",
	Long: `Reconcile lessons to detect missing records and field mismatches.
Supports an optional align operation that overwrites mismatched lessons with roster values.`,
}

// lessonsReconcileCmd performs lesson reconciliation with optional alignment.
var lessonsReconcileCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Reconcile a school's lessons (report + optionally align)",
	Long: `Reconcile a school's stored lessons against its roster export.

Reports matched lessons, mismatches with their differences, and records
present on only one side. Optionally aligns every mismatched lesson with its
roster row, skipping lessons whose new duration would overlap the teacher's schedule.

Examples:
  # Report only
  reconcile lessons --school 3f2a

  # Align mismatches (with interactive confirmation)
  reconcile lessons --school 3f2a --align

  # Align with auto-confirm (non-interactive)
  reconcile lessons --school 3f2a --align --yes`,
	RunE: runLessonsReconcile,
}

func init() {
	reconcileCmd.AddCommand(lessonsReconcileCmd)

	lessonsReconcileCmd.Flags().StringVar(&schoolID, "school", "", "School to reconcile")
	lessonsReconcileCmd.Flags().BoolVar(&alignLessons, "align", false, "Align mismatched lessons with the roster")
	lessonsReconcileCmd.Flags().BoolVar(&dryRunLessons, "dry-run", false, "Force dry-run (no writes even with --yes)")
	lessonsReconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	lessonsReconcileCmd.Flags().BoolVar(&jsonReport, "json", false, "Save the full comparison result to a JSON file")
	_ = lessonsReconcileCmd.MarkFlagRequired("school")

	RootCmd.AddCommand(reconcileCmd)
}

func runLessonsReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()
	l = l.With(zap.String("school_id", schoolID))

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	svc := lessons.NewService(
		lessons.NewStore(db, l),
		lessons.NewRosterSource(client, cfg.Storage.Bucket, cfg.Roster.Prefix, cfg.Roster.Extension, l),
		l,
	)

	// Step 1: Compare (always runs)
	l.Info("Comparing lessons against roster...")
	result, err := svc.Compare(ctx, schoolID)
	if err != nil {
		return fmt.Errorf("failed to reconcile lessons: %w", err)
	}

	// Step 2: Print report
	printReconcileReport(l, result)

	if jsonReport {
		filename := fmt.Sprintf("reconcile_%s_%d.json", schoolID, time.Now().Unix())
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		l.Info("Detailed JSON report saved", zap.String("file", filename))
	}

	// Step 3: Check if actions are requested
	if !alignLessons {
		l.Info("No actions requested. Use --align to overwrite mismatched lessons with roster values.")
		return nil
	}
	if len(result.Mismatched) == 0 {
		l.Info("No mismatched lessons to align.")
		return nil
	}
	if dryRunLessons {
		l.Info("Dry-run mode: No changes were made.", zap.Int("would_align", len(result.Mismatched)))
		return nil
	}

	// Step 4: Align (if confirmed)
	if !confirmDestructiveAction(len(result.Mismatched)) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	l.Info("Aligning lessons...")
	aligned := 0
	for i, res := range svc.AlignMismatched(ctx, schoolID, result) {
		pair := result.Mismatched[i]
		if !res.Success {
			l.Warn("Lesson not aligned",
				zap.String("lesson", lessons.LessonLabel(pair.Internal)),
				zap.Int("source_row", pair.External.SourceRow),
				zap.String("reason", res.Message))
			continue
		}
		aligned++
	}

	l.Info("Alignment finished", zap.Int("aligned", aligned), zap.Int("skipped", len(result.Mismatched)-aligned))
	return nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, result *reconcile.ComparisonResult) {
	s := result.Summary

	l.Info("Reconciliation report",
		zap.Int("matched", s.Matched),
		zap.Int("mismatched", s.Mismatched),
		zap.Int("missing_in_internal", s.MissingInInternal),
		zap.Int("missing_in_external", s.MissingInExternal),
		zap.Int("excluded_internal", s.ExcludedInternal),
		zap.Int("excluded_external", s.ExcludedExternal),
	)

	for _, pair := range result.Mismatched {
		l.Info("Mismatch",
			zap.String("lesson", lessons.LessonLabel(pair.Internal)),
			zap.Int("source_row", pair.External.SourceRow),
			zap.String("round", string(pair.Round)),
			zap.Strings("differences", pair.Differences),
		)
	}
	for _, ex := range result.MissingInInternal {
		l.Info("Roster row has no stored lesson",
			zap.String("student", ex.StudentName),
			zap.Int("source_row", ex.SourceRow))
	}
	for _, in := range result.MissingInExternal {
		l.Info("Stored lesson is not on the roster",
			zap.String("lesson", lessons.LessonLabel(in)))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(count int) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  %d lessons will be overwritten. Type 'yes' to confirm: ", count)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
