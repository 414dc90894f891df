package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"listingScope/internal/config"
	"listingScope/internal/interpret"
	"listingScope/internal/market"
	"listingScope/internal/model"
	"listingScope/internal/storage"
	"listingScope/internal/storage/postgres"
)

func runCycles(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadCycles(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := readEvents(cfg.In)
	if err != nil {
		return err
	}

	logger.Info("cycles start",
		zap.String("in", cfg.In),
		zap.String("out", cfg.Out),
		zap.Int("events", len(events)),
		zap.Bool("pg_export", cfg.PGDSN != ""),
	)

	// Aggregation is idempotent, so re-running it over a stored event file
	// restores the per-token ordering invariants.
	aggregated := interpret.Aggregate(events)

	resolver := market.NewResolver(cfg.FeeWallet)
	if cfg.FeeRate > 0 {
		resolver.FeeRate = cfg.FeeRate
	}

	cycles := market.BuildCycles(aggregated.PerToken, cfg.Address, resolver)

	var sink storage.CycleSink = storage.NewJsonlStorage(cfg.Out)
	if err := sink.PutCycleBatch(cycles); err != nil {
		return fmt.Errorf("store cycles: %w", err)
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		batchSize := cfg.BatchSize
		if batchSize <= 0 {
			batchSize = 1000
		}
		for start := 0; start < len(cycles); start += batchSize {
			end := start + batchSize
			if end > len(cycles) {
				end = len(cycles)
			}
			if err := store.UpsertListingCycles(ctx, cycles[start:end]); err != nil {
				return fmt.Errorf("upsert cycles: %w", err)
			}
		}
	}

	statusCounts := make(map[model.MarketStatus]int)
	for _, cycle := range cycles {
		statusCounts[cycle.Status.Status]++
	}
	logger.Info("cycles complete",
		zap.Int("cycles", len(cycles)),
		zap.Any("statuses", statusCounts),
	)
	return nil
}

func readEvents(path string) ([]model.InterpretedEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var events []model.InterpretedEvent
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var event model.InterpretedEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}
	return events, nil
}
