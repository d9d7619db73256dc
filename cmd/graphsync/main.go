package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/edusphere/edusphere-backend/internal/app"
)

// graphsync replays the relational catalog into Neo4j. Run it once
// after standing up a graph instance, or whenever the stores drift.
func main() {
	_ = godotenv.Load()

	skills := flag.Bool("skills", false, "also seed skills and keyword-link them to courses")
	flag.Parse()

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx := context.Background()
	report, err := a.Services.GraphSync.SyncAll(ctx)
	if err != nil {
		a.Log.Error("Graph sync failed", "error", err)
		os.Exit(1)
	}
	a.Log.Info("Graph sync report",
		"users", report.Users,
		"courses", report.Courses,
		"modules", report.Modules,
		"resources", report.Resources,
		"evaluations", report.Evaluations,
		"questions", report.Questions,
		"enrollments", report.Enrollments,
		"submissions", report.Submissions,
		"views", report.Views,
		"errors", report.Errors)

	if *skills {
		linked, err := a.Services.GraphSync.EnsureSkills(ctx)
		if err != nil {
			a.Log.Error("Skill seeding failed", "error", err)
			os.Exit(1)
		}
		a.Log.Info("Skill links created", "courses", linked)
	}

	if len(report.Errors) > 0 {
		os.Exit(1)
	}
}
