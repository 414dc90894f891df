package interpret

import (
	"fmt"
	"math/big"
	"strings"
)

var (
	weiPerMicro = big.NewInt(1_000_000_000_000)
	microPerOne = big.NewInt(1_000_000)
)

// WeiToDecimal converts a wei amount given as a decimal integer string into a
// fixed 6-decimal display string. Malformed or negative input yields
// "0.000000" rather than an error.
func WeiToDecimal(wei string) string {
	n, ok := new(big.Int).SetString(strings.TrimSpace(wei), 10)
	if !ok || n.Sign() < 0 {
		return "0.000000"
	}
	return formatWei(n)
}

func formatWei(n *big.Int) string {
	micro := new(big.Int).Quo(n, weiPerMicro)
	whole := new(big.Int).Quo(micro, microPerOne)
	frac := new(big.Int).Mod(micro, microPerOne)
	return fmt.Sprintf("%s.%06d", whole.String(), frac)
}

// hexQuantity decodes a 0x-prefixed hex quantity into a big integer.
func hexQuantity(data string) (*big.Int, bool) {
	s := strings.TrimSpace(data)
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil, false
	}
	n, ok := new(big.Int).SetString(s, 16)
	return n, ok
}
