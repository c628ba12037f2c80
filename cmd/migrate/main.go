// Command migrate imports a legacy key-value dump for one teacher:
//
//	migrate -teacher 1 -dump export.json
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/config"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/events"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories/postgres"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/services"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/pkg"
)

func main() {
	teacherID := flag.Uint("teacher", 0, "id of the teacher receiving the imported data")
	dumpPath := flag.String("dump", "", "path to the legacy key-value dump (JSON)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if *teacherID == 0 || *dumpPath == "" {
		logger.Error("both -teacher and -dump are required")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := postgres.AutoMigrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	file, err := os.Open(*dumpPath)
	if err != nil {
		logger.Error("Failed to open dump file", "path", *dumpPath, "error", err)
		os.Exit(1)
	}
	defer file.Close()

	repo := postgres.NewRepository(db)
	migration := services.NewMigrationService(repo, events.NewMockEventPublisher(logger), logger)

	summary, err := migration.ImportKVDump(context.Background(), file, uint(*teacherID))
	if err != nil {
		logger.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Migration finished",
		"categories", summary.Categories,
		"subjects", summary.Subjects,
		"lessons", summary.Lessons,
		"period_markers", summary.PeriodMarkers,
		"students", summary.Students,
		"grades", summary.Grades,
		"skips_normalized", summary.SkipsNormalized,
		"skipped_records", summary.SkippedRecords)
}
