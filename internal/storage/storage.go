package storage

import "listingScope/internal/model"

// EventSink receives interpreted events.
type EventSink interface {
	PutEventBatch(events []model.InterpretedEvent) error
}

// CycleSink receives resolved listing cycles.
type CycleSink interface {
	PutCycleBatch(cycles []model.ListingCycle) error
}
