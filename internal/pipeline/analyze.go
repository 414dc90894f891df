package pipeline

import (
	"context"

	"go.uber.org/zap"

	"listingScope/internal/explorer"
	"listingScope/internal/model"
)

// Live-system payment constants. Externalizable through Config; these
// defaults match the production marketplace.
const (
	DefaultWrappedNative = "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c"
	DefaultFeeWallet     = "0x9ce26e127c6769f22df01991df0c9825ff883395"
	DefaultFeeCurrency   = "WBNB"
)

// AnalyzeContract is the package's public entry point: it builds an explorer
// client with default constants and runs a full analysis for one contract,
// returning the per-token activity map and the residual general stream.
func AnalyzeContract(ctx context.Context, contractAddress, apiKey string, onProgress ProgressFunc) (map[string][]model.InterpretedEvent, []model.InterpretedEvent, error) {
	client := explorer.NewClient(explorer.ClientConfig{APIKey: apiKey}, zap.NewNop())
	analyzer := NewAnalyzer(Config{
		ContractAddress: contractAddress,
		WrappedNative:   DefaultWrappedNative,
		FeeWallet:       DefaultFeeWallet,
		FeeCurrency:     DefaultFeeCurrency,
	}, client, zap.NewNop(), onProgress)

	result, err := analyzer.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	return result.PerToken, result.General, nil
}
