// Package pipeline orchestrates one analysis run: fetch, annotate, classify,
// and aggregate.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"listingScope/internal/interpret"
	"listingScope/internal/model"
)

// Fetcher is the explorer boundary consumed by the pipeline.
type Fetcher interface {
	FetchTokenTransfers(ctx context.Context, contractAddress string) ([]model.RawTransferRecord, error)
	FetchTransactions(ctx context.Context, address string) ([]model.RawTransactionRecord, error)
	FetchReceipt(ctx context.Context, txHash string) (*model.TransactionReceipt, error)
}

// ProgressFunc receives human-readable phase messages. It is advisory only
// and has no effect on the computation.
type ProgressFunc func(message string)

// Config identifies the analyzed contract and the payment constants used to
// annotate its activity.
type Config struct {
	ContractAddress string
	WrappedNative   string
	FeeWallet       string
	FeeCurrency     string
}

// Analyzer runs the activity-interpretation pipeline for one contract. A run
// owns its working set exclusively; all fetching is strictly sequential and
// rate limiting lives inside the Fetcher.
type Analyzer struct {
	cfg        Config
	fetcher    Fetcher
	classifier *interpret.Classifier
	calls      *interpret.CallInterpreter
	fees       *interpret.FeeDetector
	logger     *zap.Logger
	onProgress ProgressFunc
}

// NewAnalyzer builds an analyzer with its dependencies.
func NewAnalyzer(cfg Config, fetcher Fetcher, logger *zap.Logger, onProgress ProgressFunc) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if onProgress == nil {
		onProgress = func(string) {}
	}
	return &Analyzer{
		cfg:        cfg,
		fetcher:    fetcher,
		classifier: interpret.NewClassifier(cfg.ContractAddress, cfg.WrappedNative, cfg.FeeCurrency),
		calls:      interpret.NewCallInterpreter(cfg.ContractAddress, logger),
		fees:       interpret.NewFeeDetector(cfg.WrappedNative, cfg.FeeWallet, cfg.FeeCurrency),
		logger:     logger,
		onProgress: onProgress,
	}
}

// Run fetches a fresh snapshot of the contract's activity and interprets it.
// Any fetch failure aborts the run; a missing receipt for a single hash does
// not.
func (a *Analyzer) Run(ctx context.Context) (interpret.Aggregated, error) {
	a.onProgress("Fetching NFT transfers involving the contract...")
	transfers, err := a.fetcher.FetchTokenTransfers(ctx, a.cfg.ContractAddress)
	if err != nil {
		return interpret.Aggregated{}, fmt.Errorf("fetch token transfers: %w", err)
	}

	a.onProgress("Fetching normal transactions to the contract...")
	transactions, err := a.fetcher.FetchTransactions(ctx, a.cfg.ContractAddress)
	if err != nil {
		return interpret.Aggregated{}, fmt.Errorf("fetch transactions: %w", err)
	}

	if len(transfers) == 0 && len(transactions) == 0 {
		a.onProgress("No NFT transfers or normal transactions found for this contract.")
		return interpret.Aggregated{PerToken: map[string][]model.InterpretedEvent{}}, nil
	}

	a.logger.Info("records fetched",
		zap.Int("transfers", len(transfers)),
		zap.Int("transactions", len(transactions)),
	)

	hashes := uniqueHashes(transfers, transactions)
	receipts := make(map[string]*model.TransactionReceipt, len(hashes))
	fees := make(map[string]*model.FeeAnnotation)

	for i, hash := range hashes {
		a.onProgress(fmt.Sprintf("Fetching receipt %d/%d for tx: %s...", i+1, len(hashes), shortHash(hash)))
		receipt, err := a.fetcher.FetchReceipt(ctx, hash)
		if err != nil {
			return interpret.Aggregated{}, fmt.Errorf("fetch receipt %s: %w", hash, err)
		}
		if receipt == nil {
			continue
		}
		receipts[hash] = receipt
		if fee := a.fees.Detect(receipt); fee != nil {
			fees[hash] = fee
		}
	}

	a.onProgress("Processing and interpreting events...")
	events := make([]model.InterpretedEvent, 0, len(transfers)+len(transactions))

	for _, transfer := range transfers {
		if transfer.TokenID == "" {
			continue
		}
		events = append(events, a.classifier.ClassifyTransfer(transfer, receipts[transfer.Hash], fees[transfer.Hash]))
	}

	for _, tx := range transactions {
		event, ok := a.calls.Interpret(tx, receipts[tx.Hash], fees[tx.Hash], transfers)
		if !ok {
			continue
		}
		events = append(events, event)
	}

	result := interpret.Aggregate(events)
	a.logger.Info("interpretation complete",
		zap.Int("events", len(events)),
		zap.Int("tokens", len(result.PerToken)),
		zap.Int("general", len(result.General)),
	)
	a.onProgress("Processing complete.")
	return result, nil
}

func uniqueHashes(transfers []model.RawTransferRecord, transactions []model.RawTransactionRecord) []string {
	seen := make(map[string]struct{}, len(transfers)+len(transactions))
	hashes := make([]string, 0, len(transfers)+len(transactions))
	add := func(hash string) {
		if hash == "" {
			return
		}
		if _, ok := seen[hash]; ok {
			return
		}
		seen[hash] = struct{}{}
		hashes = append(hashes, hash)
	}
	for _, transfer := range transfers {
		add(transfer.Hash)
	}
	for _, tx := range transactions {
		add(tx.Hash)
	}
	return hashes
}

func shortHash(hash string) string {
	if len(hash) > 10 {
		return hash[:10]
	}
	return hash
}
