package interpret

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"listingScope/internal/model"
)

// Classifier maps raw NFT transfer records to interpreted events by comparing
// the transfer's address roles against the analyzed contract.
type Classifier struct {
	analyzed      common.Address
	wrappedNative common.Address
	currency      string
}

// NewClassifier builds a transfer classifier for one analyzed contract.
func NewClassifier(analyzed, wrappedNative, currency string) *Classifier {
	return &Classifier{
		analyzed:      common.HexToAddress(analyzed),
		wrappedNative: common.HexToAddress(wrappedNative),
		currency:      currency,
	}
}

// ClassifyTransfer interprets one transfer record. The receipt may be nil
// when it could not be fetched; that only disables the sale upgrades. The fee
// annotation, when present, is attached to the detail bag for any variant.
func (c *Classifier) ClassifyTransfer(rec model.RawTransferRecord, receipt *model.TransactionReceipt, fee *model.FeeAnnotation) model.InterpretedEvent {
	from := common.HexToAddress(rec.From)
	to := common.HexToAddress(rec.To)
	tokenContract := common.HexToAddress(rec.ContractAddress)

	event := model.InterpretedEvent{
		Timestamp: parseUnix(rec.TimeStamp),
		TxHash:    rec.Hash,
		From:      rec.From,
		To:        rec.To,
		TokenID:   rec.TokenID,
		Details: model.EventDetails{
			GasUsed:     rec.GasUsed,
			GasPrice:    rec.GasPrice,
			NFTContract: rec.ContractAddress,
			TokenName:   rec.TokenName,
			TokenSymbol: rec.TokenSymbol,
			FeePaid:     fee,
		},
	}

	switch {
	case strings.EqualFold(rec.From, ZeroAddress):
		event.Type = model.EventMint
		event.Initiator = rec.ContractAddress
	case to == c.analyzed && from != c.analyzed:
		event.Type = model.EventListingTransfer
		event.Initiator = c.analyzed.Hex()
	case from == c.analyzed && to != c.analyzed:
		event.Type = model.EventDelistingTransfer
		event.Initiator = c.analyzed.Hex()
	case from == c.analyzed && to == c.analyzed:
		event.Type = model.EventOtherContractInteraction
		event.Initiator = c.analyzed.Hex()
	default:
		event.Type = model.EventTransfer
		if receipt != nil && common.IsHexAddress(receipt.To) && common.HexToAddress(receipt.To) == tokenContract {
			event.Initiator = rec.ContractAddress
		}
	}

	payments := paymentLogs(receipt, c.wrappedNative)

	// A delisting paid for by the NFT recipient is a sale through the
	// marketplace; a plain transfer with a matching reverse payment is a
	// direct peer-to-peer sale.
	switch event.Type {
	case model.EventDelistingTransfer:
		for _, payment := range payments {
			if payment.From == to {
				return c.withSale(event, payment, "")
			}
		}
	case model.EventTransfer:
		for _, payment := range payments {
			if payment.From == to && payment.To == from {
				return c.withSale(event, payment, c.wrappedNative.Hex())
			}
		}
	}

	return event
}

// withSale derives a new Sale event from an already-classified one. The
// original value is left untouched so upgrades never mutate collected events.
func (c *Classifier) withSale(event model.InterpretedEvent, payment paymentLog, initiator string) model.InterpretedEvent {
	sale := event
	sale.Type = model.EventSale
	sale.Price = &model.Price{Amount: formatWei(payment.Amount), Currency: c.currency}
	if initiator != "" {
		sale.Initiator = initiator
	}
	return sale
}

func parseUnix(s string) int64 {
	ts, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return ts
}
