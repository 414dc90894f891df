package market

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"listingScope/internal/model"
)

// DefaultFeeRate is the marketplace commission assumed when inferring a sale
// price from a detected fee payment. If the live marketplace charges a
// different rate the inferred price is off by the same factor; the inference
// is best-effort by nature.
const DefaultFeeRate = 0.10

// Resolver computes the terminal status of one listing cycle.
type Resolver struct {
	// FeeWallet is the fee-collection address fee annotations are checked
	// against when inferring fee-detected sales.
	FeeWallet string
	// FeeRate is the assumed marketplace commission, as a fraction.
	FeeRate float64
	// Clock supplies "now" for expiry checks. Defaults to time.Now.
	Clock func() time.Time
}

// NewResolver builds a resolver with the default fee-rate assumption.
func NewResolver(feeWallet string) *Resolver {
	return &Resolver{
		FeeWallet: feeWallet,
		FeeRate:   DefaultFeeRate,
		Clock:     time.Now,
	}
}

// Resolve runs the heuristic state machine over one cycle's events. Every
// cycle resolves to exactly one status; Unknown is the fallback, never an
// absence of a result.
func (r *Resolver) Resolve(cycleEvents []model.InterpretedEvent, marketplace, tokenName, tokenSymbol string) model.CycleStatus {
	if len(cycleEvents) == 0 {
		return model.CycleStatus{Status: model.StatusNotListedOrOther, TokenName: tokenName, TokenSymbol: tokenSymbol}
	}

	defining := findDefiningEvent(cycleEvents, marketplace)
	if defining == nil {
		return model.CycleStatus{Status: model.StatusNotListedOrOther, TokenName: tokenName, TokenSymbol: tokenSymbol}
	}
	lister := strings.ToLower(defining.From)
	if lister == "" {
		return model.CycleStatus{Status: model.StatusUnknown, TokenName: tokenName, TokenSymbol: tokenSymbol}
	}

	escrowed := defining.Type == model.EventListingTransfer && sameAddr(defining.To, marketplace)
	if defining.Type == model.EventListingIntent && marketplace != "" {
		for _, event := range cycleEvents {
			if event.TxHash == defining.TxHash &&
				event.Type == model.EventListingTransfer &&
				sameAddr(event.To, marketplace) &&
				sameAddr(event.From, lister) {
				escrowed = true
				break
			}
		}
	}

	cycleStart := defining.Timestamp
	expiry := defining.ExpiryTimestamp

	sorted := make([]model.InterpretedEvent, len(cycleEvents))
	copy(sorted, cycleEvents)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	var (
		sold           *model.InterpretedEvent
		cancelIntent   *model.InterpretedEvent
		returnToLister *model.InterpretedEvent
		delistToOther  *model.InterpretedEvent
		hasActiveBids  bool
		saleDetail     string
	)

	for i := range sorted {
		event := sorted[i]
		if event.Timestamp < cycleStart {
			continue
		}

		// Once a sale is locked only a late return transfer is still
		// recorded; once a cancel-and-return pair is complete further bids
		// no longer count.
		if sold != nil || (cancelIntent != nil && returnToLister != nil) {
			if sold != nil && cancelIntent != nil && returnToLister == nil &&
				event.Type == model.EventDelistingTransfer &&
				sameAddr(event.From, marketplace) && sameAddr(event.To, lister) {
				returnToLister = copyOf(event)
			}
			if sold != nil || (cancelIntent != nil && returnToLister != nil && event.Type == model.EventBidPlacedIntent) {
				continue
			}
		}

		if sold == nil {
			switch {
			case event.Type == model.EventSale && event.TokenID == defining.TokenID &&
				((sameAddr(event.From, marketplace) && !sameAddr(event.To, lister)) ||
					(sameAddr(event.From, lister) && !sameAddr(event.To, marketplace) && !strings.EqualFold(event.From, event.To))):
				sold = copyOf(event)
				saleDetail = "Sold (Direct Sale Event)"

			case event.Type == model.EventPurchaseIntent && marketplace != "" && event.TokenID == defining.TokenID:
				if delist := findDelistForPurchase(sorted, event, marketplace, lister, defining.TokenID); delist != nil {
					sale := *delist
					sale.Type = model.EventSale
					switch {
					case event.Value != "":
						sale.Price = &model.Price{Amount: event.Value, Currency: "BNB"}
					case delist.Price != nil:
						sale.Price = delist.Price
					case delist.Details.FeePaid != nil:
						sale.Price = r.priceFromFee(delist.Details.FeePaid)
					}
					sold = &sale
					saleDetail = "Sold: Purchase Intent"
				}

			case event.Type == model.EventDelistingTransfer && sameAddr(event.From, marketplace) &&
				!sameAddr(event.To, lister) && event.TokenID == defining.TokenID:
				if bid := findBidInSameTx(sorted, event); bid != nil {
					sale := event
					sale.Type = model.EventSale
					if bid.Value != "" {
						sale.Price = &model.Price{Amount: bid.Value, Currency: "BNB"}
					}
					sold = &sale
					saleDetail = "Sold: Accepted Bid"
				} else if event.Price != nil && event.Details.FeePaid != nil &&
					sameAddr(event.Details.FeePaid.Receiver, r.FeeWallet) &&
					!alreadyMarkedSale(cycleEvents, event) {
					sale := event
					sale.Type = model.EventSale
					sold = &sale
					saleDetail = "Sold: Fee Inferred"
				}
				if sold == nil && delistToOther == nil {
					delistToOther = copyOf(event)
				}
			}
		}

		if sold == nil {
			if event.Type == model.EventCancelListingIntent && sameAddr(event.From, lister) && event.TokenID == defining.TokenID {
				if cancelIntent == nil || event.Timestamp > cancelIntent.Timestamp {
					cancelIntent = copyOf(event)
				}
			}
			if event.Type == model.EventDelistingTransfer && sameAddr(event.From, marketplace) &&
				sameAddr(event.To, lister) && event.TokenID == defining.TokenID {
				if returnToLister == nil || event.Timestamp > returnToLister.Timestamp {
					returnToLister = copyOf(event)
				}
			}
		}

		if sold == nil && !(cancelIntent != nil && returnToLister != nil) {
			if event.Type == model.EventBidPlacedIntent &&
				!sameAddr(event.From, lister) &&
				event.TokenID == defining.TokenID &&
				(expiry == 0 || event.Timestamp <= expiry) &&
				(cancelIntent == nil || event.Timestamp < cancelIntent.Timestamp) {
				hasActiveBids = true
			}
		}
	}

	base := model.CycleStatus{
		LastLister:      lister,
		TokenName:       tokenName,
		TokenSymbol:     tokenSymbol,
		ExpiryTimestamp: expiry,
	}

	if sold != nil {
		base.Buyer = sold.To
		if sold.Price == nil {
			base.Status = model.StatusSoldPaymentNotDetected
			base.Detail = "Considered Sold, but payment for item not detected by script."
			return base
		}
		base.Status = model.StatusSold
		base.Price = sold.Price
		base.Detail = saleDetail
		if base.Detail == "" {
			base.Detail = string(model.StatusSold)
		}
		return base
	}

	if cancelIntent != nil {
		base.Status = model.StatusCancelled
		switch {
		case !escrowed:
			base.Detail = "Cancellation intent by lister (item not escrowed)."
		case returnToLister != nil && returnToLister.Timestamp >= cancelIntent.Timestamp:
			base.Detail = "Cancelled and item returned to lister."
		default:
			base.Detail = "Cancellation intent by lister."
		}
		return base
	}

	if returnToLister != nil {
		base.Status = model.StatusReturnedToLister
		base.Detail = "Item returned to lister."
		return base
	}

	if expiry > 0 && r.now() > expiry {
		if hasActiveBids {
			base.Status = model.StatusExpiredWithBidsNotReturned
		} else {
			base.Status = model.StatusExpiredNotReturned
		}
		return base
	}

	if escrowed && delistToOther != nil {
		base.Status = model.StatusUnknown
		base.Detail = "Item transferred from marketplace to an unknown party."
		return base
	}

	if hasActiveBids {
		base.Status = model.StatusOpenWithBids
	} else {
		base.Status = model.StatusOpenNoBids
	}
	return base
}

func (r *Resolver) now() int64 {
	if r.Clock != nil {
		return r.Clock().Unix()
	}
	return time.Now().Unix()
}

// priceFromFee backs a sale price out of the fee payment under the assumed
// commission rate.
func (r *Resolver) priceFromFee(fee *model.FeeAnnotation) *model.Price {
	rate := r.FeeRate
	if rate <= 0 {
		rate = DefaultFeeRate
	}
	amount, err := strconv.ParseFloat(fee.Amount, 64)
	if err != nil || amount <= 0 {
		return nil
	}
	return &model.Price{
		Amount:   fmt.Sprintf("%.6f", amount/rate),
		Currency: fee.Currency,
	}
}

func findDefiningEvent(events []model.InterpretedEvent, marketplace string) *model.InterpretedEvent {
	for i := range events {
		event := events[i]
		if event.Type == model.EventListingIntent ||
			(event.Type == model.EventListingTransfer && sameAddr(event.To, marketplace)) {
			return &events[i]
		}
	}
	return nil
}

func findDelistForPurchase(events []model.InterpretedEvent, intent model.InterpretedEvent, marketplace, lister, tokenID string) *model.InterpretedEvent {
	for i := range events {
		event := events[i]
		if event.TxHash == intent.TxHash &&
			event.Type == model.EventDelistingTransfer &&
			sameAddr(event.From, marketplace) &&
			!sameAddr(event.To, lister) &&
			event.TokenID == tokenID {
			return &events[i]
		}
	}
	return nil
}

func findBidInSameTx(events []model.InterpretedEvent, delist model.InterpretedEvent) *model.InterpretedEvent {
	for i := range events {
		event := events[i]
		if event.TxHash == delist.TxHash &&
			event.Type == model.EventBidPlacedIntent &&
			sameAddr(event.From, delist.To) &&
			event.TokenID == delist.TokenID {
			return &events[i]
		}
	}
	return nil
}

func alreadyMarkedSale(events []model.InterpretedEvent, delist model.InterpretedEvent) bool {
	for _, event := range events {
		if event.TxHash == delist.TxHash &&
			event.Type == model.EventSale &&
			event.To == delist.To &&
			event.TokenID == delist.TokenID {
			return true
		}
	}
	return false
}

func copyOf(event model.InterpretedEvent) *model.InterpretedEvent {
	clone := event
	return &clone
}

func sameAddr(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}
