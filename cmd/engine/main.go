package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/ruralpay/payments-engine/internal/config"
	"github.com/ruralpay/payments-engine/internal/database"
	"github.com/ruralpay/payments-engine/internal/logger"
	"github.com/ruralpay/payments-engine/internal/services"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage: engine <transactions.csv>")

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err = run(ctx, cfg, log, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		log.Error("replay failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// run replays the file named by args[0] and writes the account table to
// stdout, then to any configured export sinks.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}
	path := args[0]

	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	processor := services.NewProcessor()
	engine := services.NewEngine(processor, services.NewAuditLogger(log))
	reader := services.NewRecordReader(bufio.NewReader(f), services.NewValidationHelper())

	log.Info("replaying transactions", zap.String("input", path))
	if _, err := engine.Run(reader); err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}

	accounts := processor.Accounts().Snapshot()
	out := bufio.NewWriter(stdout)
	if err := services.WriteCSV(out, accounts, cfg.Engine.Precision); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	exporters, closeAll, err := openExporters(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	for _, ex := range exporters {
		if err := ex.Export(ctx, runID, accounts); err != nil {
			return fmt.Errorf("export %s: %w", ex.Name(), err)
		}
		log.Info("snapshot exported", zap.String("sink", ex.Name()), zap.Int("accounts", len(accounts)))
	}
	return nil
}

var knownSinks = map[string]bool{"postgres": true, "redis": true}

// openExporters connects the sinks named in cfg.Export. Unknown names fail
// before any connection is made.
func openExporters(ctx context.Context, cfg *config.Config) ([]services.Exporter, func(), error) {
	for _, sink := range cfg.Export.Sinks {
		if !knownSinks[sink] {
			return nil, nil, fmt.Errorf("unknown export sink %q", sink)
		}
	}

	var (
		exporters []services.Exporter
		closers   []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Export.Enabled("postgres") {
		db, err := database.InitDB(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { db.Close() })
		if err := database.EnsureSchema(ctx, db); err != nil {
			closeAll()
			return nil, nil, err
		}
		exporters = append(exporters, services.NewPostgresExporter(db))
	}

	if cfg.Export.Enabled("redis") {
		rdb, err := database.InitRedis(ctx, cfg.Redis)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { rdb.Close() })
		exporters = append(exporters, services.NewRedisExporter(rdb, cfg.Redis.TTL))
	}
	return exporters, closeAll, nil
}
