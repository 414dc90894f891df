package interpret

import (
	"testing"

	"listingScope/internal/model"
)

const (
	testMarketplace  = "0x1234567890abcdef1234567890abcdef12345678"
	testNFTContract  = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testLister       = "0x1111111111111111111111111111111111111111"
	testBuyer        = "0x2222222222222222222222222222222222222222"
	testOtherAccount = "0x3333333333333333333333333333333333333333"
)

func transferRecord(from, to string) model.RawTransferRecord {
	return model.RawTransferRecord{
		TimeStamp:       "1700000000",
		Hash:            "0xhash1",
		From:            from,
		To:              to,
		ContractAddress: testNFTContract,
		TokenID:         "42",
		TokenName:       "Widget",
		TokenSymbol:     "WGT",
		GasUsed:         "21000",
		GasPrice:        "5000000000",
	}
}

func TestClassifyMint(t *testing.T) {
	c := NewClassifier(testMarketplace, testWrappedNative, "WBNB")

	event := c.ClassifyTransfer(transferRecord(ZeroAddress, testLister), nil, nil)
	if event.Type != model.EventMint {
		t.Fatalf("type = %s, want Mint", event.Type)
	}
	if event.Initiator != testNFTContract {
		t.Fatalf("initiator = %s, want token contract", event.Initiator)
	}
	if event.Timestamp != 1700000000 {
		t.Fatalf("timestamp = %d, want 1700000000", event.Timestamp)
	}
	if event.Details.TokenName != "Widget" || event.Details.TokenSymbol != "WGT" {
		t.Fatalf("token meta not carried: %+v", event.Details)
	}
}

func TestClassifyListingAndDelisting(t *testing.T) {
	c := NewClassifier(testMarketplace, testWrappedNative, "WBNB")

	listing := c.ClassifyTransfer(transferRecord(testLister, testMarketplace), nil, nil)
	if listing.Type != model.EventListingTransfer {
		t.Fatalf("type = %s, want ListingTransfer", listing.Type)
	}

	delisting := c.ClassifyTransfer(transferRecord(testMarketplace, testLister), nil, nil)
	if delisting.Type != model.EventDelistingTransfer {
		t.Fatalf("type = %s, want DelistingTransfer", delisting.Type)
	}

	self := c.ClassifyTransfer(transferRecord(testMarketplace, testMarketplace), nil, nil)
	if self.Type != model.EventOtherContractInteraction {
		t.Fatalf("type = %s, want OtherContractInteraction", self.Type)
	}
}

func TestClassifyPlainTransferInitiator(t *testing.T) {
	c := NewClassifier(testMarketplace, testWrappedNative, "WBNB")

	plain := c.ClassifyTransfer(transferRecord(testLister, testBuyer), nil, nil)
	if plain.Type != model.EventTransfer {
		t.Fatalf("type = %s, want Transfer", plain.Type)
	}
	if plain.Initiator != "" {
		t.Fatalf("initiator = %q, want empty without receipt", plain.Initiator)
	}

	receipt := &model.TransactionReceipt{Status: "0x1", To: testNFTContract}
	direct := c.ClassifyTransfer(transferRecord(testLister, testBuyer), receipt, nil)
	if direct.Initiator != testNFTContract {
		t.Fatalf("initiator = %q, want token contract when called directly", direct.Initiator)
	}
}

func TestDelistingUpgradedToSale(t *testing.T) {
	c := NewClassifier(testMarketplace, testWrappedNative, "WBNB")

	receipt := &model.TransactionReceipt{
		Status: "0x1",
		Logs: []model.ReceiptLog{
			// 2.5 WBNB paid by the recipient of the NFT.
			transferLog(testWrappedNative, testBuyer, testLister, "0x22b1c8c1227a0000"),
		},
	}

	event := c.ClassifyTransfer(transferRecord(testMarketplace, testBuyer), receipt, nil)
	if event.Type != model.EventSale {
		t.Fatalf("type = %s, want Sale", event.Type)
	}
	if event.Price == nil || event.Price.Amount != "2.500000" || event.Price.Currency != "WBNB" {
		t.Fatalf("price = %+v, want 2.500000 WBNB", event.Price)
	}
	if event.From != testMarketplace || event.To != testBuyer {
		t.Fatalf("sale endpoints changed: from=%s to=%s", event.From, event.To)
	}
}

func TestTransferUpgradedToDirectSale(t *testing.T) {
	c := NewClassifier(testMarketplace, testWrappedNative, "WBNB")

	receipt := &model.TransactionReceipt{
		Status: "0x1",
		Logs: []model.ReceiptLog{
			// Payment must run opposite to the NFT: buyer pays seller.
			transferLog(testWrappedNative, testBuyer, testLister, "0x0de0b6b3a7640000"),
		},
	}

	event := c.ClassifyTransfer(transferRecord(testLister, testBuyer), receipt, nil)
	if event.Type != model.EventSale {
		t.Fatalf("type = %s, want Sale", event.Type)
	}
	if event.Price == nil || event.Price.Amount != "1.000000" {
		t.Fatalf("price = %+v, want 1.000000", event.Price)
	}
}

func TestTransferNotUpgradedWithoutReversePayment(t *testing.T) {
	c := NewClassifier(testMarketplace, testWrappedNative, "WBNB")

	receipt := &model.TransactionReceipt{
		Status: "0x1",
		Logs: []model.ReceiptLog{
			// Payment flows to a third party, not back to the sender.
			transferLog(testWrappedNative, testBuyer, testOtherAccount, "0x0de0b6b3a7640000"),
		},
	}

	event := c.ClassifyTransfer(transferRecord(testLister, testBuyer), receipt, nil)
	if event.Type != model.EventTransfer {
		t.Fatalf("type = %s, want Transfer", event.Type)
	}
	if event.Price != nil {
		t.Fatalf("unexpected price: %+v", event.Price)
	}
}
