// Package market reconstructs listing cycles from interpreted per-token
// activity and resolves each cycle's terminal status.
package market

import (
	"strings"

	"listingScope/internal/model"
)

// MarketplaceAddress infers the marketplace address for a token's event
// stream. The analyzed contract is preferred; otherwise the first escrow
// transfer or marketplace intent reveals the counterpart. Returns lowercase,
// or empty when nothing in the stream identifies a marketplace.
func MarketplaceAddress(events []model.InterpretedEvent, preferred string) string {
	if preferred != "" {
		return strings.ToLower(preferred)
	}
	for _, event := range events {
		switch event.Type {
		case model.EventListingTransfer:
			if event.To != "" {
				return strings.ToLower(event.To)
			}
		case model.EventDelistingTransfer:
			if event.From != "" {
				return strings.ToLower(event.From)
			}
		case model.EventListingIntent, model.EventBidPlacedIntent,
			model.EventCancelListingIntent, model.EventPurchaseIntent,
			model.EventMarketplaceInteraction:
			if event.Initiator != "" {
				return strings.ToLower(event.Initiator)
			}
		}
	}
	for _, event := range events {
		switch event.Type {
		case model.EventListingIntent, model.EventBidPlacedIntent,
			model.EventCancelListingIntent, model.EventPurchaseIntent:
			if event.To != "" {
				return strings.ToLower(event.To)
			}
		}
	}
	return ""
}

// SegmentCycles splits one token's time-ordered events into listing cycles.
// A cycle opens on a ListingIntent, or on a ListingTransfer to the
// marketplace whose transaction hash is not already claimed by the current
// cycle's intent (call and escrow transfer of the same listing share a
// transaction and must share a cycle). Events before the first trigger
// belong to no cycle. The final open cycle is always emitted.
func SegmentCycles(tokenID string, events []model.InterpretedEvent, marketplace string) []model.ListingCycle {
	var cycles []model.ListingCycle
	var current []model.InterpretedEvent
	number := 0
	intentHashes := make(map[string]struct{})

	closeCurrent := func() {
		if len(current) == 0 || number == 0 {
			return
		}
		cycles = append(cycles, model.ListingCycle{
			TokenID:             tokenID,
			Number:              number,
			FirstEventTimestamp: current[0].Timestamp,
			Events:              current,
		})
	}

	for _, event := range events {
		trigger := false
		switch {
		case event.Type == model.EventListingIntent:
			trigger = true
		case event.Type == model.EventListingTransfer && marketplace != "" && strings.EqualFold(event.To, marketplace):
			if _, claimed := intentHashes[event.TxHash]; !claimed {
				trigger = true
			}
		}

		if trigger {
			closeCurrent()
			number++
			current = []model.InterpretedEvent{event}
			intentHashes = make(map[string]struct{})
			if event.Type == model.EventListingIntent {
				intentHashes[event.TxHash] = struct{}{}
			}
			continue
		}

		if number > 0 {
			current = append(current, event)
		}
	}

	closeCurrent()
	return cycles
}
