package market

import (
	"sort"
	"strconv"

	"listingScope/internal/model"
)

// BuildCycles assembles the full cycle report for aggregated per-token
// activity: marketplace inference, segmentation, status resolution, and the
// display ordering (numeric token id where possible, then first event time,
// then cycle number).
func BuildCycles(perToken map[string][]model.InterpretedEvent, analyzedAddress string, resolver *Resolver) []model.ListingCycle {
	var cycles []model.ListingCycle

	for tokenID, events := range perToken {
		if len(events) == 0 {
			continue
		}
		marketplace := MarketplaceAddress(events, analyzedAddress)
		tokenName, tokenSymbol := tokenMeta(events)

		for _, cycle := range SegmentCycles(tokenID, events, marketplace) {
			cycle.TokenName = tokenName
			cycle.TokenSymbol = tokenSymbol
			cycle.Status = resolver.Resolve(cycle.Events, marketplace, tokenName, tokenSymbol)
			cycles = append(cycles, cycle)
		}
	}

	sort.SliceStable(cycles, func(i, j int) bool {
		a, b := cycles[i], cycles[j]
		na, errA := strconv.ParseInt(a.TokenID, 10, 64)
		nb, errB := strconv.ParseInt(b.TokenID, 10, 64)
		if errA == nil && errB == nil && na != nb {
			return na < nb
		}
		if a.TokenID != b.TokenID {
			return a.TokenID < b.TokenID
		}
		if a.FirstEventTimestamp != b.FirstEventTimestamp {
			return a.FirstEventTimestamp < b.FirstEventTimestamp
		}
		return a.Number < b.Number
	})

	return cycles
}

// tokenMeta takes the token name and symbol from the first event in the
// history that carries either.
func tokenMeta(events []model.InterpretedEvent) (string, string) {
	for _, event := range events {
		if event.Details.TokenName != "" || event.Details.TokenSymbol != "" {
			return event.Details.TokenName, event.Details.TokenSymbol
		}
	}
	return "", ""
}
