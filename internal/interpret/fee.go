package interpret

import (
	"github.com/ethereum/go-ethereum/common"

	"listingScope/internal/model"
)

// FeeDetector scans receipt logs for a wrapped-native-currency payment to the
// fee-collection wallet.
type FeeDetector struct {
	wrappedNative common.Address
	feeWallet     common.Address
	currency      string
}

// NewFeeDetector builds a detector for the given wrapped-currency contract
// and fee-collection wallet.
func NewFeeDetector(wrappedNative, feeWallet, currency string) *FeeDetector {
	return &FeeDetector{
		wrappedNative: common.HexToAddress(wrappedNative),
		feeWallet:     common.HexToAddress(feeWallet),
		currency:      currency,
	}
}

// Detect returns the fee annotation for a receipt, or nil when no fee payment
// is present. At most one annotation is produced; the first match wins.
func (d *FeeDetector) Detect(receipt *model.TransactionReceipt) *model.FeeAnnotation {
	for _, payment := range paymentLogs(receipt, d.wrappedNative) {
		if payment.To != d.feeWallet {
			continue
		}
		return &model.FeeAnnotation{
			Amount:   formatWei(payment.Amount),
			Currency: d.currency,
			Receiver: d.feeWallet.Hex(),
		}
	}
	return nil
}
