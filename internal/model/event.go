package model

// EventType is the closed set of interpreted activity variants.
type EventType string

const (
	EventMint                     EventType = "Mint"
	EventTransfer                 EventType = "Transfer"
	EventSale                     EventType = "Sale"
	EventListingTransfer          EventType = "ListingTransfer"
	EventDelistingTransfer        EventType = "DelistingTransfer"
	EventListingIntent            EventType = "ListingIntent"
	EventBidPlacedIntent          EventType = "BidPlacedIntent"
	EventCancelListingIntent      EventType = "CancelListingIntent"
	EventPurchaseIntent           EventType = "PurchaseIntent"
	EventMarketplaceInteraction   EventType = "GeneralMarketplaceInteraction"
	EventOtherContractInteraction EventType = "OtherContractInteraction"
)

// Price is an amount in a display currency, already converted from wei.
type Price struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// FeeAnnotation records a payment to the fee-collection wallet detected in a
// transaction's receipt logs.
type FeeAnnotation struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Receiver string `json:"receiver"`
}

// EventDetails is the free-form detail bag attached to an event.
type EventDetails struct {
	GasUsed     string         `json:"gas_used,omitempty"`
	GasPrice    string         `json:"gas_price,omitempty"`
	NFTContract string         `json:"nft_contract,omitempty"`
	TokenName   string         `json:"token_name,omitempty"`
	TokenSymbol string         `json:"token_symbol,omitempty"`
	InputData   string         `json:"input_data,omitempty"`
	FeePaid     *FeeAnnotation `json:"fee_paid,omitempty"`
}

// InterpretedEvent is the canonical output of classification. Events are
// immutable once aggregated; a variant upgrade (e.g. DelistingTransfer to
// Sale) always constructs a new value before the event is collected.
type InterpretedEvent struct {
	Type            EventType    `json:"type"`
	Timestamp       int64        `json:"timestamp"`
	TxHash          string       `json:"tx_hash"`
	From            string       `json:"from,omitempty"`
	To              string       `json:"to,omitempty"`
	TokenID         string       `json:"token_id,omitempty"`
	Price           *Price       `json:"price,omitempty"`
	Initiator       string       `json:"initiator,omitempty"`
	FunctionName    string       `json:"function_name,omitempty"`
	Value           string       `json:"value,omitempty"`
	ExpiryTimestamp int64        `json:"expiry_timestamp,omitempty"`
	Details         EventDetails `json:"details"`
}
