package interpret

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"listingScope/internal/model"
)

// Expiry heuristic bounds: a decoded word strictly inside the duration range
// is added to the call timestamp, one inside the absolute range is used as a
// Unix timestamp directly.
const (
	minDuration       = 60
	maxDuration       = 31536000
	minAbsoluteExpiry = 1000000000
	maxAbsoluteExpiry = 3000000000
)

var (
	leadingIdentRe = regexp.MustCompile(`^[A-Za-z0-9_]+`)
	argListRe      = regexp.MustCompile(`\(([^)]*)\)`)
	underscoreIDRe = regexp.MustCompile(`_(\d+)`)
	pureIntRe      = regexp.MustCompile(`^\d+$`)
)

// CallInterpreter maps normal transactions addressed to the analyzed contract
// to marketplace intent events, recovering token ids and listing expiries
// from call parameters where the method is recognized.
type CallInterpreter struct {
	analyzed common.Address
	keywords []keywordRule
	logger   *zap.Logger
}

// NewCallInterpreter builds an interpreter for one analyzed contract.
func NewCallInterpreter(analyzed string, logger *zap.Logger) *CallInterpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallInterpreter{
		analyzed: common.HexToAddress(analyzed),
		keywords: orderedKeywords(),
		logger:   logger,
	}
}

// Interpret classifies one normal transaction. The second return value is
// false when the transaction is not addressed to the analyzed contract or
// failed execution. Transfers sharing the transaction hash are consulted as a
// last resort to associate a token id.
func (ci *CallInterpreter) Interpret(tx model.RawTransactionRecord, receipt *model.TransactionReceipt, fee *model.FeeAnnotation, transfers []model.RawTransferRecord) (model.InterpretedEvent, bool) {
	if tx.To == "" || !common.IsHexAddress(tx.To) || common.HexToAddress(tx.To) != ci.analyzed {
		return model.InterpretedEvent{}, false
	}
	if tx.IsError == "1" {
		return model.InterpretedEvent{}, false
	}
	if receipt != nil && !receipt.Succeeded() {
		return model.InterpretedEvent{}, false
	}

	variant := model.EventMarketplaceInteraction
	ident := strings.ToLower(leadingIdentRe.FindString(tx.FunctionName))
	if ident != "" {
		for _, rule := range ci.keywords {
			if strings.Contains(ident, rule.keyword) {
				variant = rule.variant
				break
			}
		}
	}

	timestamp := parseUnix(tx.TimeStamp)
	tokenID, expiry := ci.decodeKnownMethod(tx, variant, timestamp)

	if tokenID == "" || (variant == model.EventListingIntent && expiry == 0) {
		fallbackToken, fallbackExpiry := extractFunctionParams(tx.FunctionName, variant, timestamp)
		if tokenID == "" {
			tokenID = fallbackToken
		}
		if variant == model.EventListingIntent && expiry == 0 {
			expiry = fallbackExpiry
		}
	}

	if tokenID == "" {
		for _, transfer := range transfers {
			if transfer.Hash == tx.Hash {
				tokenID = transfer.TokenID
				break
			}
		}
	}

	functionName := tx.FunctionName
	if functionName == "" {
		functionName = tx.MethodID
	}

	event := model.InterpretedEvent{
		Type:         variant,
		Timestamp:    timestamp,
		TxHash:       tx.Hash,
		From:         tx.From,
		To:           tx.To,
		TokenID:      tokenID,
		FunctionName: functionName,
		Initiator:    ci.analyzed.Hex(),
		Details: model.EventDetails{
			GasUsed:   tx.GasUsed,
			GasPrice:  tx.GasPrice,
			InputData: truncateInput(tx.Input),
			FeePaid:   fee,
		},
	}
	if tx.Value != "" && tx.Value != "0" {
		event.Value = WeiToDecimal(tx.Value)
	}
	if variant == model.EventListingIntent && expiry > 0 {
		event.ExpiryTimestamp = expiry
	}
	return event, true
}

// decodeKnownMethod decodes fixed-width parameter words for recognized method
// selectors. A malformed word is treated as "nothing decoded"; the caller
// falls through to the generic extractor.
func (ci *CallInterpreter) decodeKnownMethod(tx model.RawTransactionRecord, variant model.EventType, timestamp int64) (string, int64) {
	input := strings.TrimPrefix(tx.Input, "0x")
	if len(input) < 8 {
		return "", 0
	}
	sig, ok := knownSignatures[strings.ToLower(input[:8])]
	if !ok || sig.variant != variant {
		return "", 0
	}

	params := input[8:]
	if len(params) < 64*sig.wordCount {
		return "", 0
	}

	tokenWord, ok := paramWord(params, sig.tokenWord)
	if !ok {
		ci.logger.Warn("malformed call parameters",
			zap.String("tx_hash", tx.Hash),
			zap.String("method", sig.name),
		)
		return "", 0
	}

	var expiry int64
	if sig.expiryWord >= 0 {
		if expiryWord, ok := paramWord(params, sig.expiryWord); ok {
			expiry = inferExpiry(expiryWord, timestamp)
		}
	}
	return tokenWord.String(), expiry
}

// extractFunctionParams is the generic fallback: pull pure-integer arguments
// out of the decoded function name, or a trailing _<digits> suffix.
func extractFunctionParams(functionName string, variant model.EventType, timestamp int64) (string, int64) {
	if functionName == "" {
		return "", 0
	}

	args := argListRe.FindStringSubmatch(functionName)
	if args == nil || args[1] == "" {
		if m := underscoreIDRe.FindStringSubmatch(functionName); m != nil {
			return m[1], 0
		}
		return "", 0
	}

	var numeric []*big.Int
	for _, arg := range strings.Split(args[1], ",") {
		arg = strings.TrimSpace(arg)
		if !pureIntRe.MatchString(arg) {
			continue
		}
		if n, ok := new(big.Int).SetString(arg, 10); ok {
			numeric = append(numeric, n)
		}
	}
	if len(numeric) == 0 {
		return "", 0
	}

	tokenID := numeric[0].String()
	if variant != model.EventListingIntent || timestamp == 0 {
		return tokenID, 0
	}
	for _, n := range numeric[1:] {
		if expiry := inferExpiry(n, timestamp); expiry > 0 {
			return tokenID, expiry
		}
	}
	return tokenID, 0
}

// inferExpiry interprets a decoded integer as either a duration relative to
// the call timestamp or an absolute Unix timestamp. Zero means neither rule
// applied.
func inferExpiry(word *big.Int, timestamp int64) int64 {
	if !word.IsInt64() {
		return 0
	}
	v := word.Int64()
	if v > minDuration && v < maxDuration {
		return timestamp + v
	}
	if v >= minAbsoluteExpiry && v <= maxAbsoluteExpiry {
		return v
	}
	return 0
}

func paramWord(params string, index int) (*big.Int, bool) {
	word := params[64*index : 64*(index+1)]
	return new(big.Int).SetString(word, 16)
}

func truncateInput(input string) string {
	if len(input) > 10 {
		return input[:10] + "..."
	}
	return input
}
