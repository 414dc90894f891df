package interpret

import (
	"sort"

	"listingScope/internal/model"
)

// marketplaceKeywords maps lowercase function-name fragments to the intent
// they signal. Matching is longest-keyword-first so that overlapping entries
// ("unlistitem" vs "listitem") resolve deterministically.
var marketplaceKeywords = map[string]model.EventType{
	"createauction":                    model.EventListingIntent,
	"createauctionwithoutreserveprice": model.EventListingIntent,
	"createlisting":                    model.EventListingIntent,
	"listitem":                         model.EventListingIntent,
	"sellitem":                         model.EventListingIntent,
	"addorder":                         model.EventListingIntent,
	"createorder":                      model.EventListingIntent,

	"placebid":  model.EventBidPlacedIntent,
	"bid":       model.EventBidPlacedIntent,
	"makeoffer": model.EventBidPlacedIntent,

	"cancelauction": model.EventCancelListingIntent,
	"cancellisting": model.EventCancelListingIntent,
	"cancelorder":   model.EventCancelListingIntent,
	"unlistitem":    model.EventCancelListingIntent,

	"buyitem":         model.EventPurchaseIntent,
	"executesale":     model.EventPurchaseIntent,
	"fulfillorder":    model.EventPurchaseIntent,
	"matchorder":      model.EventPurchaseIntent,
	"acceptoffer":     model.EventPurchaseIntent,
	"acceptbid":       model.EventPurchaseIntent,
	"atomicmatch_":    model.EventPurchaseIntent,
	"finalizeauction": model.EventPurchaseIntent,
}

type keywordRule struct {
	keyword string
	variant model.EventType
}

// orderedKeywords returns the keyword table sorted longest-first, then
// lexicographically, so iteration order is stable across runs.
func orderedKeywords() []keywordRule {
	rules := make([]keywordRule, 0, len(marketplaceKeywords))
	for keyword, variant := range marketplaceKeywords {
		rules = append(rules, keywordRule{keyword: keyword, variant: variant})
	}
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].keyword) != len(rules[j].keyword) {
			return len(rules[i].keyword) > len(rules[j].keyword)
		}
		return rules[i].keyword < rules[j].keyword
	})
	return rules
}

// methodSignature describes a known marketplace method selector and which
// 32-byte parameter words carry the token id and listing expiry.
type methodSignature struct {
	name       string
	variant    model.EventType
	wordCount  int
	tokenWord  int
	expiryWord int // -1 when the method carries no expiry parameter
}

// knownSignatures is keyed by the lowercase 4-byte method selector.
var knownSignatures = map[string]methodSignature{
	"791bb4ef": {
		name:       "createAuction(address,uint256,uint256,uint256,uint256,uint256)",
		variant:    model.EventListingIntent,
		wordCount:  6,
		tokenWord:  1,
		expiryWord: 5,
	},
	"886e5b1e": {
		name:       "createAuctionWithoutReservePrice(address,uint256,uint256,uint256,uint256)",
		variant:    model.EventListingIntent,
		wordCount:  5,
		tokenWord:  1,
		expiryWord: 4,
	},
	"68905116": {
		name:       "finalizeAuction(address,uint256)",
		variant:    model.EventPurchaseIntent,
		wordCount:  2,
		tokenWord:  1,
		expiryWord: -1,
	},
}
