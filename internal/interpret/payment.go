package interpret

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"listingScope/internal/model"
)

// ERC20TransferTopic is the event signature hash of Transfer(address,address,uint256).
const ERC20TransferTopic = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"

// ZeroAddress marks mints and burns in transfer records.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// paymentLog is one decoded fungible-token transfer found in a receipt.
type paymentLog struct {
	From   common.Address
	To     common.Address
	Amount *big.Int
}

// paymentLogs extracts the wrapped-native-currency transfers from a receipt's
// logs. Logs with malformed topics or data are skipped, not reported.
func paymentLogs(receipt *model.TransactionReceipt, token common.Address) []paymentLog {
	if receipt == nil {
		return nil
	}
	var out []paymentLog
	for _, log := range receipt.Logs {
		if !common.IsHexAddress(log.Address) || common.HexToAddress(log.Address) != token {
			continue
		}
		if len(log.Topics) != 3 || !strings.EqualFold(log.Topics[0], ERC20TransferTopic) {
			continue
		}
		amount, ok := hexQuantity(log.Data)
		if !ok {
			continue
		}
		out = append(out, paymentLog{
			From:   topicAddress(log.Topics[1]),
			To:     topicAddress(log.Topics[2]),
			Amount: amount,
		})
	}
	return out
}

// topicAddress recovers the address packed into a 32-byte topic word.
func topicAddress(topic string) common.Address {
	hash := common.HexToHash(topic)
	return common.BytesToAddress(hash.Bytes()[12:])
}
