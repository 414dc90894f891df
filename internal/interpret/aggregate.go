package interpret

import (
	"encoding/json"
	"fmt"
	"sort"

	"listingScope/internal/model"
)

// variantPriority fixes the ordering of same-timestamp events within a
// token's history so that listing triggers precede their consequences.
var variantPriority = map[model.EventType]int{
	model.EventListingIntent:            0,
	model.EventListingTransfer:          1,
	model.EventBidPlacedIntent:          2,
	model.EventPurchaseIntent:           3,
	model.EventSale:                     4,
	model.EventDelistingTransfer:        5,
	model.EventCancelListingIntent:      6,
	model.EventMint:                     7,
	model.EventTransfer:                 8,
	model.EventMarketplaceInteraction:   9,
	model.EventOtherContractInteraction: 10,
}

// Priority returns the tie-break rank of a variant. Unrecognized variants
// sort last, stable among themselves.
func Priority(t model.EventType) int {
	if p, ok := variantPriority[t]; ok {
		return p
	}
	return len(variantPriority)
}

// Aggregated is the partitioned output of one analysis run.
type Aggregated struct {
	PerToken map[string][]model.InterpretedEvent `json:"per_token"`
	General  []model.InterpretedEvent            `json:"general"`
}

// Aggregate merges classified events into per-token histories plus the
// residual marketplace stream. Exact duplicates, keyed by transaction hash,
// variant, initiating contract, and the serialized detail bag, are
// suppressed. Aggregation is idempotent over its own flattened output.
func Aggregate(events []model.InterpretedEvent) Aggregated {
	sorted := make([]model.InterpretedEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	out := Aggregated{PerToken: make(map[string][]model.InterpretedEvent)}
	seen := make(map[string]struct{})

	for _, event := range sorted {
		switch {
		case event.TokenID != "":
			key := dedupKey(event)
			if _, dup := seen[event.TokenID+"\x00"+key]; dup {
				continue
			}
			seen[event.TokenID+"\x00"+key] = struct{}{}
			out.PerToken[event.TokenID] = append(out.PerToken[event.TokenID], event)
		case isMarketplaceVariant(event.Type):
			key := dedupKey(event)
			if _, dup := seen["\x00"+key]; dup {
				continue
			}
			seen["\x00"+key] = struct{}{}
			out.General = append(out.General, event)
		}
		// Token-less events of other variants carry no usable signal and
		// are dropped.
	}

	for tokenID := range out.PerToken {
		bucket := out.PerToken[tokenID]
		sort.SliceStable(bucket, func(i, j int) bool {
			if bucket[i].Timestamp != bucket[j].Timestamp {
				return bucket[i].Timestamp < bucket[j].Timestamp
			}
			return Priority(bucket[i].Type) < Priority(bucket[j].Type)
		})
	}
	sort.SliceStable(out.General, func(i, j int) bool {
		return out.General[i].Timestamp < out.General[j].Timestamp
	})

	return out
}

// Flatten recombines an aggregated result into one event list, per-token
// buckets first in token order, then the general stream.
func (a Aggregated) Flatten() []model.InterpretedEvent {
	tokens := make([]string, 0, len(a.PerToken))
	for tokenID := range a.PerToken {
		tokens = append(tokens, tokenID)
	}
	sort.Strings(tokens)

	var out []model.InterpretedEvent
	for _, tokenID := range tokens {
		out = append(out, a.PerToken[tokenID]...)
	}
	return append(out, a.General...)
}

func isMarketplaceVariant(t model.EventType) bool {
	switch t {
	case model.EventMarketplaceInteraction,
		model.EventListingIntent,
		model.EventBidPlacedIntent,
		model.EventCancelListingIntent,
		model.EventPurchaseIntent:
		return true
	default:
		return false
	}
}

func dedupKey(event model.InterpretedEvent) string {
	details, err := json.Marshal(event.Details)
	if err != nil {
		details = nil
	}
	return fmt.Sprintf("%s|%s|%s|%s", event.TxHash, event.Type, event.Initiator, details)
}
