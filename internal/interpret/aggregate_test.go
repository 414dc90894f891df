package interpret

import (
	"reflect"
	"testing"

	"listingScope/internal/model"
)

func TestAggregatePartitions(t *testing.T) {
	events := []model.InterpretedEvent{
		{Type: model.EventMint, Timestamp: 10, TxHash: "0xa", TokenID: "1"},
		{Type: model.EventListingIntent, Timestamp: 20, TxHash: "0xb", TokenID: "2"},
		{Type: model.EventMarketplaceInteraction, Timestamp: 30, TxHash: "0xc"},
		// Token-less transfer carries no signal and must be dropped.
		{Type: model.EventTransfer, Timestamp: 40, TxHash: "0xd"},
	}

	out := Aggregate(events)
	if len(out.PerToken) != 2 {
		t.Fatalf("tokens = %d, want 2", len(out.PerToken))
	}
	if len(out.PerToken["1"]) != 1 || len(out.PerToken["2"]) != 1 {
		t.Fatalf("bucket sizes wrong: %+v", out.PerToken)
	}
	if len(out.General) != 1 || out.General[0].TxHash != "0xc" {
		t.Fatalf("general stream wrong: %+v", out.General)
	}
}

func TestAggregateDeduplicates(t *testing.T) {
	event := model.InterpretedEvent{
		Type:      model.EventListingIntent,
		Timestamp: 10,
		TxHash:    "0xa",
		TokenID:   "1",
		Initiator: testMarketplace,
	}
	variant := event
	variant.Details.GasUsed = "100"

	out := Aggregate([]model.InterpretedEvent{event, event, variant})
	if got := len(out.PerToken["1"]); got != 2 {
		t.Fatalf("bucket size = %d, want 2 (exact duplicate dropped, detail variant kept)", got)
	}
}

func TestAggregateTieBreakOrder(t *testing.T) {
	// Same timestamp, inserted in reverse priority order.
	events := []model.InterpretedEvent{
		{Type: model.EventDelistingTransfer, Timestamp: 50, TxHash: "0x1", TokenID: "9"},
		{Type: model.EventSale, Timestamp: 50, TxHash: "0x2", TokenID: "9"},
		{Type: model.EventListingTransfer, Timestamp: 50, TxHash: "0x3", TokenID: "9"},
		{Type: model.EventListingIntent, Timestamp: 50, TxHash: "0x4", TokenID: "9"},
	}

	out := Aggregate(events)
	got := make([]model.EventType, 0, 4)
	for _, event := range out.PerToken["9"] {
		got = append(got, event.Type)
	}
	want := []model.EventType{
		model.EventListingIntent,
		model.EventListingTransfer,
		model.EventSale,
		model.EventDelistingTransfer,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	events := []model.InterpretedEvent{
		{Type: model.EventListingIntent, Timestamp: 10, TxHash: "0xa", TokenID: "1"},
		{Type: model.EventListingTransfer, Timestamp: 10, TxHash: "0xa", TokenID: "1"},
		{Type: model.EventBidPlacedIntent, Timestamp: 20, TxHash: "0xb", TokenID: "1"},
		{Type: model.EventListingIntent, Timestamp: 15, TxHash: "0xc", TokenID: "2"},
		{Type: model.EventMarketplaceInteraction, Timestamp: 5, TxHash: "0xd"},
	}

	once := Aggregate(events)
	twice := Aggregate(once.Flatten())
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("aggregation not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}
