package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "analyzer",
		Short:        "NFT listing lifecycle analyzer",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Fetch and interpret a contract's NFT activity",
		RunE:  runAnalyze,
	}

	analyzeCmd.Flags().String("api-url", "https://api.bscscan.com/api", "explorer API base URL")
	analyzeCmd.Flags().String("api-key", "", "explorer API key")
	analyzeCmd.Flags().String("address", "", "marketplace contract address to analyze")
	analyzeCmd.Flags().String("wrapped-native", "", "wrapped native currency contract address")
	analyzeCmd.Flags().String("fee-wallet", "", "fee-collection wallet address")
	analyzeCmd.Flags().String("fee-currency", "WBNB", "fee currency label")
	analyzeCmd.Flags().Duration("request-delay", 250*time.Millisecond, "delay between explorer requests")
	analyzeCmd.Flags().Duration("http-timeout", 30*time.Second, "explorer request timeout")
	analyzeCmd.Flags().String("out", "./data/events.jsonl", "per-token events output JSONL path")
	analyzeCmd.Flags().String("general-out", "./data/general.jsonl", "general activity output JSONL path")
	analyzeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(analyzeCmd)

	cyclesCmd := &cobra.Command{
		Use:   "cycles",
		Short: "Segment interpreted events into listing cycles and resolve statuses",
		RunE:  runCycles,
	}

	cyclesCmd.Flags().String("in", "", "input interpreted events JSONL")
	cyclesCmd.Flags().String("out", "./data/cycles.jsonl", "output cycles JSONL path")
	cyclesCmd.Flags().String("address", "", "analyzed marketplace contract address")
	cyclesCmd.Flags().String("fee-wallet", "", "fee-collection wallet address")
	cyclesCmd.Flags().Float64("fee-rate", 0.10, "assumed marketplace fee rate for price inference")
	cyclesCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for cycle export")
	cyclesCmd.Flags().Int("batch-size", 1000, "batch size for DB writes")
	cyclesCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(cyclesCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
