package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/edusphere/edusphere-backend/internal/app"
)

// reminders sends deadline notifications once and exits; intended for
// an external scheduler as an alternative to the in-server cron.
func main() {
	_ = godotenv.Load()

	days := flag.Int("days", 2, "notify about deadlines this many days out")
	dryRun := flag.Bool("dry-run", false, "report what would be sent without writing")
	flag.Parse()

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	report, err := a.Services.Reminder.SendDeadlineReminders(context.Background(), *days, *dryRun)
	if err != nil {
		a.Log.Error("Reminder run failed", "error", err)
		os.Exit(1)
	}
	a.Log.Info("Reminder run report",
		"evaluations", report.Evaluations,
		"sent", report.Sent,
		"skipped", report.Skipped,
		"dryRun", *dryRun)
}
