// Command schedule rebuilds a user's study schedule from their weekly
// availability blocks and prints the resulting sessions. Homework and test
// context can be supplied as a JSON file to steer subject selection.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/studyhall-backend/internal/app"
	"github.com/heartmarshall/studyhall-backend/internal/config"
	"github.com/heartmarshall/studyhall-backend/internal/domain"
	"github.com/heartmarshall/studyhall-backend/internal/service/planner"
	"github.com/heartmarshall/studyhall-backend/pkg/ctxutil"
)

// workload is the optional JSON context file: upcoming homework and tests.
type workload struct {
	Homework []domain.HomeworkItem `json:"homework"`
	Tests    []domain.Test         `json:"tests"`
}

func main() {
	var (
		user     = flag.String("user", "", "username to build the schedule for (required)")
		start    = flag.String("start", "", "start date YYYY-MM-DD (default today)")
		days     = flag.Int("days", 0, "days ahead to plan (default from config)")
		workFile = flag.String("workload", "", "JSON file with homework and tests")
	)
	flag.Parse()

	if *user == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("wire application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer application.Close()

	input := planner.BuildScheduleInput{StartDate: *start, DaysAhead: *days}
	if *workFile != "" {
		data, err := os.ReadFile(*workFile)
		if err != nil {
			logger.Error("read workload file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		var w workload
		if err := json.Unmarshal(data, &w); err != nil {
			logger.Error("parse workload file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		input.Homework = w.Homework
		input.Tests = w.Tests
	}

	ctx = ctxutil.WithUsername(ctx, *user)

	sessions, err := application.Planner.BuildSchedule(ctx, input)
	if err != nil {
		logger.Error("build schedule", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, sess := range sessions {
		fmt.Printf("%s  %s-%s  %3dmin  %s\n",
			sess.Date, sess.StartTime, sess.EndTime, sess.DurationMinutes, sess.Subject)
	}

	logger.Info("schedule built",
		slog.String("user", *user),
		slog.Int("sessions", len(sessions)),
	)
}
