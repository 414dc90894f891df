package model

// MarketStatus is the closed set of listing cycle outcomes.
type MarketStatus string

const (
	StatusSold                       MarketStatus = "Sold"
	StatusSoldPaymentNotDetected     MarketStatus = "SoldPaymentNotDetected"
	StatusCancelled                  MarketStatus = "Cancelled"
	StatusOpenWithBids               MarketStatus = "OpenWithBids"
	StatusOpenNoBids                 MarketStatus = "OpenNoBids"
	StatusReturnedToLister           MarketStatus = "ReturnedToLister"
	StatusExpiredNotReturned         MarketStatus = "ExpiredNotReturned"
	StatusExpiredWithBidsNotReturned MarketStatus = "ExpiredWithBidsNotReturned"
	StatusNotListedOrOther           MarketStatus = "NotListedOrOther"
	StatusUnknown                    MarketStatus = "Unknown"
)

// CycleStatus is the resolved outcome of one listing cycle.
type CycleStatus struct {
	Status          MarketStatus `json:"status"`
	LastLister      string       `json:"last_lister,omitempty"`
	Buyer           string       `json:"buyer,omitempty"`
	TokenName       string       `json:"token_name,omitempty"`
	TokenSymbol     string       `json:"token_symbol,omitempty"`
	ExpiryTimestamp int64        `json:"expiry_timestamp,omitempty"`
	Price           *Price       `json:"price,omitempty"`
	Detail          string       `json:"detail,omitempty"`
}

// ListingCycle is a contiguous slice of one token's event history anchored by
// a listing trigger, numbered sequentially per token starting at 1.
type ListingCycle struct {
	TokenID             string             `json:"token_id"`
	Number              int                `json:"number"`
	TokenName           string             `json:"token_name,omitempty"`
	TokenSymbol         string             `json:"token_symbol,omitempty"`
	FirstEventTimestamp int64              `json:"first_event_timestamp"`
	Events              []InterpretedEvent `json:"events"`
	Status              CycleStatus        `json:"status"`
}
