// Command seed loads the demo data set into the configured store.
//
//	seed            load sample data
//	seed -clear     delete every row first, then load
//	seed -summary   print row counts and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/auth"
	"github.com/xavierca1/tes-insurance/internal/config"
	"github.com/xavierca1/tes-insurance/internal/infra/database"
	"github.com/xavierca1/tes-insurance/internal/logger"
)

func main() {
	clearFirst := flag.Bool("clear", false, "delete all rows before loading")
	summary := flag.Bool("summary", false, "print per-table row counts and exit")
	flag.Parse()

	os.Exit(realMain(*clearFirst, *summary))
}

func realMain(clearFirst, summaryOnly bool) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	if err := run(cfg, log, clearFirst, summaryOnly); err != nil {
		log.Error("seed failed", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, log *zap.Logger, clearFirst, summaryOnly bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(database.Options{
		Driver: cfg.DBDriver,
		URL:    cfg.DatabaseURL,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	seeder := database.NewSeeder(db, auth.NewHasher(cfg.BcryptRounds))

	if !summaryOnly {
		if clearFirst {
			cleared, err := seeder.Clear(ctx)
			if err != nil {
				return err
			}
			for _, t := range database.Tables {
				log.Info("cleared table", zap.String("table", t), zap.Int64("rows", cleared[t]))
			}
		}

		if err := seeder.LoadSampleData(ctx); err != nil {
			return fmt.Errorf("load sample data: %w", err)
		}
		log.Info("sample data loaded")
	}

	counts, err := seeder.Summary(ctx)
	if err != nil {
		return err
	}
	for _, t := range database.Tables {
		fmt.Printf("%-20s %d\n", t, counts[t])
	}
	return nil
}
