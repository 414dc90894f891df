package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"listingScope/internal/model"
)

func TestJsonlAppendAndDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "events.jsonl")
	store := NewJsonlStorage(path)

	first := []model.InterpretedEvent{
		{Type: model.EventListingIntent, Timestamp: 10, TxHash: "0xa", TokenID: "1"},
	}
	second := []model.InterpretedEvent{
		{Type: model.EventBidPlacedIntent, Timestamp: 20, TxHash: "0xb", TokenID: "1", Value: "2.500000"},
	}
	if err := store.PutEventBatch(first); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	if err := store.PutEventBatch(second); err != nil {
		t.Fatalf("second batch: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	var events []model.InterpretedEvent
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var event model.InterpretedEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("lines = %d, want 2", len(events))
	}
	if events[0].TxHash != "0xa" || events[1].Value != "2.500000" {
		t.Fatalf("decoded events wrong: %+v", events)
	}
}

func TestJsonlEmptyBatchWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycles.jsonl")
	store := NewJsonlStorage(path)

	if err := store.PutCycleBatch(nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file created for empty batch")
	}
}
