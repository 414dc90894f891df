package interpret

import (
	"fmt"
	"strings"
	"testing"

	"listingScope/internal/model"
)

func word(n int64) string {
	return fmt.Sprintf("%064x", n)
}

func callRecord(functionName, input string) model.RawTransactionRecord {
	return model.RawTransactionRecord{
		TimeStamp:    "1700000000",
		Hash:         "0xcall1",
		From:         testLister,
		To:           testMarketplace,
		Value:        "0",
		IsError:      "0",
		Input:        input,
		MethodID:     firstSelector(input),
		FunctionName: functionName,
	}
}

func firstSelector(input string) string {
	if len(input) >= 10 {
		return input[:10]
	}
	return input
}

func TestInterpretCreateAuction(t *testing.T) {
	ci := NewCallInterpreter(testMarketplace, nil)

	input := "0x791bb4ef" +
		word(0) + // payment token
		word(42) + // token id
		word(0) + word(0) + word(0) +
		word(86400) // duration
	tx := callRecord("createAuction(address _token, uint256 _tokenId, uint256 _startPrice, uint256 _reservePrice, uint256 _buyNowPrice, uint256 _duration)", input)

	event, ok := ci.Interpret(tx, nil, nil, nil)
	if !ok {
		t.Fatalf("expected event")
	}
	if event.Type != model.EventListingIntent {
		t.Fatalf("type = %s, want ListingIntent", event.Type)
	}
	if event.TokenID != "42" {
		t.Fatalf("token id = %q, want 42", event.TokenID)
	}
	if event.ExpiryTimestamp != 1700000000+86400 {
		t.Fatalf("expiry = %d, want %d", event.ExpiryTimestamp, 1700000000+86400)
	}
	if event.Details.InputData != "0x791bb4ef..." {
		t.Fatalf("input data = %q, want truncated selector", event.Details.InputData)
	}
}

func TestInterpretAbsoluteExpiry(t *testing.T) {
	ci := NewCallInterpreter(testMarketplace, nil)

	input := "0x791bb4ef" +
		word(0) +
		word(7) +
		word(0) + word(0) + word(0) +
		word(1700090000) // already a Unix timestamp
	tx := callRecord("createAuction(address,uint256,uint256,uint256,uint256,uint256)", input)

	event, ok := ci.Interpret(tx, nil, nil, nil)
	if !ok {
		t.Fatalf("expected event")
	}
	if event.ExpiryTimestamp != 1700090000 {
		t.Fatalf("expiry = %d, want 1700090000", event.ExpiryTimestamp)
	}
}

func TestInterpretKeywordPrecedence(t *testing.T) {
	ci := NewCallInterpreter(testMarketplace, nil)

	// "unlistItem" contains "listitem"; the longer keyword must win.
	tx := callRecord("unlistItem(uint256 _tokenId)", "0xdeadbeef"+word(5))
	event, ok := ci.Interpret(tx, nil, nil, nil)
	if !ok {
		t.Fatalf("expected event")
	}
	if event.Type != model.EventCancelListingIntent {
		t.Fatalf("type = %s, want CancelListingIntent", event.Type)
	}
}

func TestInterpretFallbackArgs(t *testing.T) {
	ci := NewCallInterpreter(testMarketplace, nil)

	tx := callRecord("createListing(123, 99999)", "0x12345678")
	event, ok := ci.Interpret(tx, nil, nil, nil)
	if !ok {
		t.Fatalf("expected event")
	}
	if event.Type != model.EventListingIntent {
		t.Fatalf("type = %s, want ListingIntent", event.Type)
	}
	if event.TokenID != "123" {
		t.Fatalf("token id = %q, want 123", event.TokenID)
	}
	if event.ExpiryTimestamp != 1700000000+99999 {
		t.Fatalf("expiry = %d, want %d", event.ExpiryTimestamp, 1700000000+99999)
	}
}

func TestInterpretUnderscoreSuffix(t *testing.T) {
	ci := NewCallInterpreter(testMarketplace, nil)

	tx := callRecord("bid_77", "0x12345678")
	event, ok := ci.Interpret(tx, nil, nil, nil)
	if !ok {
		t.Fatalf("expected event")
	}
	if event.Type != model.EventBidPlacedIntent {
		t.Fatalf("type = %s, want BidPlacedIntent", event.Type)
	}
	if event.TokenID != "77" {
		t.Fatalf("token id = %q, want 77", event.TokenID)
	}
}

func TestInterpretTransferAssociation(t *testing.T) {
	ci := NewCallInterpreter(testMarketplace, nil)

	tx := callRecord("buyItem()", "0x12345678")
	transfers := []model.RawTransferRecord{
		{Hash: "0xother", TokenID: "1"},
		{Hash: "0xcall1", TokenID: "55"},
	}
	event, ok := ci.Interpret(tx, nil, nil, transfers)
	if !ok {
		t.Fatalf("expected event")
	}
	if event.Type != model.EventPurchaseIntent {
		t.Fatalf("type = %s, want PurchaseIntent", event.Type)
	}
	if event.TokenID != "55" {
		t.Fatalf("token id = %q, want 55 from matching transfer", event.TokenID)
	}
}

func TestInterpretValueAndFallbackName(t *testing.T) {
	ci := NewCallInterpreter(testMarketplace, nil)

	tx := callRecord("", "0x12345678")
	tx.Value = "1500000000000000000"
	event, ok := ci.Interpret(tx, nil, nil, nil)
	if !ok {
		t.Fatalf("expected event")
	}
	if event.Type != model.EventMarketplaceInteraction {
		t.Fatalf("type = %s, want GeneralMarketplaceInteraction", event.Type)
	}
	if event.Value != "1.500000" {
		t.Fatalf("value = %q, want 1.500000", event.Value)
	}
	if event.FunctionName != "0x12345678" {
		t.Fatalf("function name = %q, want method id fallback", event.FunctionName)
	}
}

func TestInterpretSkipsIrrelevant(t *testing.T) {
	ci := NewCallInterpreter(testMarketplace, nil)

	other := callRecord("listItem(1)", "0x12345678")
	other.To = testOtherAccount
	if _, ok := ci.Interpret(other, nil, nil, nil); ok {
		t.Fatalf("expected skip for foreign target")
	}

	failed := callRecord("listItem(1)", "0x12345678")
	failed.IsError = "1"
	if _, ok := ci.Interpret(failed, nil, nil, nil); ok {
		t.Fatalf("expected skip for errored transaction")
	}

	reverted := callRecord("listItem(1)", "0x12345678")
	if _, ok := ci.Interpret(reverted, &model.TransactionReceipt{Status: "0x0"}, nil, nil); ok {
		t.Fatalf("expected skip for reverted receipt")
	}
}

func TestOrderedKeywordsLongestFirst(t *testing.T) {
	rules := orderedKeywords()
	for i := 1; i < len(rules); i++ {
		prev, cur := rules[i-1].keyword, rules[i].keyword
		if len(prev) < len(cur) {
			t.Fatalf("keyword %q sorted before longer %q", prev, cur)
		}
		if len(prev) == len(cur) && strings.Compare(prev, cur) > 0 {
			t.Fatalf("equal-length keywords %q and %q out of order", prev, cur)
		}
	}
}
