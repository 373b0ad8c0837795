// Command ical-export renders a user's scheduled study sessions as an
// iCalendar feed, for import into external calendar apps.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/studyhall-backend/internal/app"
	"github.com/heartmarshall/studyhall-backend/internal/config"
	"github.com/heartmarshall/studyhall-backend/internal/domain"
	"github.com/heartmarshall/studyhall-backend/pkg/ctxutil"
)

func main() {
	var (
		user = flag.String("user", "", "username to export (required)")
		from = flag.String("from", "", "first date YYYY-MM-DD (default today)")
		to   = flag.String("to", "", "last date YYYY-MM-DD (default from+30 days)")
		out  = flag.String("o", "", "output file (default stdout)")
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

	now := time.Now().UTC()
	if *from == "" {
		*from = now.Format(domain.DateLayout)
	}
	if *to == "" {
		*to = now.AddDate(0, 0, 30).Format(domain.DateLayout)
	}

	ctx = ctxutil.WithUsername(ctx, *user)

	feed, err := application.Planner.ExportICal(ctx, *from, *to)
	if err != nil {
		logger.Error("export calendar", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *out == "" {
		fmt.Print(feed)
	} else if err := os.WriteFile(*out, []byte(feed), 0o644); err != nil {
		logger.Error("write calendar file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("calendar exported",
		slog.String("user", *user),
		slog.String("from", *from),
		slog.String("to", *to),
	)
}
