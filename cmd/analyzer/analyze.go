package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"listingScope/internal/config"
	"listingScope/internal/explorer"
	"listingScope/internal/model"
	"listingScope/internal/pipeline"
	"listingScope/internal/storage"
)

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadAnalyze(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Address == "" {
		return fmt.Errorf("contract address is required")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("api key is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := explorer.NewClient(explorer.ClientConfig{
		BaseURL:      cfg.APIURL,
		APIKey:       cfg.APIKey,
		RequestDelay: cfg.RequestDelay,
		Timeout:      cfg.HTTPTimeout,
	}, logger)

	analyzer := pipeline.NewAnalyzer(pipeline.Config{
		ContractAddress: cfg.Address,
		WrappedNative:   cfg.WrappedNative,
		FeeWallet:       cfg.FeeWallet,
		FeeCurrency:     cfg.FeeCurrency,
	}, client, logger, func(message string) {
		logger.Info("progress", zap.String("phase", message))
	})

	logger.Info("analyze start",
		zap.String("api_url", cfg.APIURL),
		zap.String("address", cfg.Address),
		zap.Duration("request_delay", cfg.RequestDelay),
		zap.String("out", cfg.Out),
		zap.String("general_out", cfg.GeneralOut),
	)

	result, err := analyzer.Run(ctx)
	if err != nil {
		return err
	}

	var eventSink storage.EventSink = storage.NewJsonlStorage(cfg.Out)
	for _, tokenID := range sortedTokenIDs(result.PerToken) {
		if err := eventSink.PutEventBatch(result.PerToken[tokenID]); err != nil {
			return fmt.Errorf("store events: %w", err)
		}
	}

	var generalSink storage.EventSink = storage.NewJsonlStorage(cfg.GeneralOut)
	if err := generalSink.PutEventBatch(result.General); err != nil {
		return fmt.Errorf("store general activity: %w", err)
	}

	logger.Info("analyze complete",
		zap.Int("tokens", len(result.PerToken)),
		zap.Int("general", len(result.General)),
	)
	return nil
}

func sortedTokenIDs(perToken map[string][]model.InterpretedEvent) []string {
	tokenIDs := make([]string, 0, len(perToken))
	for tokenID := range perToken {
		tokenIDs = append(tokenIDs, tokenID)
	}
	sort.Strings(tokenIDs)
	return tokenIDs
}
