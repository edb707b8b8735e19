// Package main generates the benchmark dataset and optionally loads it into
// the configured database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"catalog-api/internal/config"
	"catalog-api/internal/database"
	"catalog-api/internal/dataset"
	"catalog-api/internal/logger"
	"catalog-api/internal/repository"

	"go.uber.org/zap"
)

// seedConfig holds the command line options
type seedConfig struct {
	Options   dataset.Options
	OutDir    string
	WithSQL   bool
	Dialect   database.Dialect
	Load      bool
	BatchSize int
}

func parseConfig(fs *flag.FlagSet, args []string) (seedConfig, error) {
	cfg := seedConfig{Options: dataset.DefaultOptions()}
	var dialect string

	fs.Uint64Var(&cfg.Options.Seed, "seed", cfg.Options.Seed, "random seed for reproducibility")
	fs.IntVar(&cfg.Options.Categories, "categories", cfg.Options.Categories, "number of categories")
	fs.IntVar(&cfg.Options.Items, "items", cfg.Options.Items, "number of items")
	fs.IntVar(&cfg.Options.SmallBytes, "small-bytes", cfg.Options.SmallBytes, "target size of small JSON payloads")
	fs.IntVar(&cfg.Options.LargeBytes, "large-bytes", cfg.Options.LargeBytes, "target size of large JSON payloads")
	fs.StringVar(&cfg.OutDir, "out", "data", "output directory for generated files (empty to skip)")
	fs.BoolVar(&cfg.WithSQL, "sql", false, "also write seed.sql")
	fs.StringVar(&dialect, "dialect", string(database.Postgres), "seed.sql dialect (postgres, sqlite)")
	fs.BoolVar(&cfg.Load, "load", false, "insert the generated rows into the configured database")
	fs.IntVar(&cfg.BatchSize, "batch", dataset.DefaultBatchSize, "rows per transaction when loading")
	if err := fs.Parse(args); err != nil {
		return seedConfig{}, err
	}

	cfg.Dialect = database.Dialect(dialect)
	switch cfg.Dialect {
	case database.Postgres, database.SQLite:
	default:
		return seedConfig{}, fmt.Errorf("unknown dialect %q", dialect)
	}
	if cfg.OutDir == "" && !cfg.Load {
		return seedConfig{}, errors.New("nothing to do: set -out or -load")
	}
	return cfg, cfg.Options.Validate()
}

// run writes the dataset files, then loads the rows through store when it is set
func run(ctx context.Context, cfg seedConfig, store repository.TxManager, log *zap.Logger, out io.Writer) error {
	if cfg.OutDir != "" {
		written, err := dataset.WriteFiles(cfg.OutDir, cfg.Options, cfg.WithSQL, cfg.Dialect)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Generated files in:", cfg.OutDir)
		for _, name := range written {
			fmt.Fprintf(out, "- %s\n", name)
		}
	}

	if store == nil {
		return nil
	}
	stats, err := dataset.NewLoader(store, cfg.BatchSize, log).Load(ctx, cfg.Options)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	fmt.Fprintf(out, "Loaded %d categories and %d items in %s\n", stats.Categories, stats.Items, stats.Duration)
	return nil
}

func openStore(ctx context.Context, log *zap.Logger) (*repository.Store, func(), error) {
	appCfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(ctx, appCfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(ctx, db, log); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repository.NewStore(db), func() { _ = db.Close() }, nil
}

func main() {
	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.New(os.Getenv("SERVER_ENV"), os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store repository.TxManager
	if cfg.Load {
		s, closeDB, err := openStore(ctx, log)
		if err != nil {
			log.Fatal("Failed to open database", zap.Error(err))
		}
		defer closeDB()
		store = s
	}

	if err := run(ctx, cfg, store, log, os.Stdout); err != nil {
		log.Error("Seed failed", zap.Error(err))
		os.Exit(1)
	}
}
