package pricing

import (
	"sort"
	"strings"
)

// symbolToPair maps internal symbol identifiers (both the long id and the
// ticker alias users type) to the quote source's USDT trading pairs. Symbols
// absent from the source's current listing are silently skipped during a
// refresh cycle.
var symbolToPair = map[string]string{
	"bitcoin":          "BTCUSDT",
	"btc":              "BTCUSDT",
	"ethereum":         "ETHUSDT",
	"eth":              "ETHUSDT",
	"binancecoin":      "BNBUSDT",
	"bnb":              "BNBUSDT",
	"solana":           "SOLUSDT",
	"sol":              "SOLUSDT",
	"cardano":          "ADAUSDT",
	"ada":              "ADAUSDT",
	"polkadot":         "DOTUSDT",
	"dot":              "DOTUSDT",
	"matic-network":    "MATICUSDT",
	"matic":            "MATICUSDT",
	"chainlink":        "LINKUSDT",
	"link":             "LINKUSDT",
	"avalanche-2":      "AVAXUSDT",
	"avax":             "AVAXUSDT",
	"cosmos":           "ATOMUSDT",
	"atom":             "ATOMUSDT",
	"stellar":          "XLMUSDT",
	"xlm":              "XLMUSDT",
	"vechain":          "VETUSDT",
	"vet":              "VETUSDT",
	"algorand":         "ALGOUSDT",
	"algo":             "ALGOUSDT",
	"hedera-hashgraph": "HBARUSDT",
	"hbar":             "HBARUSDT",
}

// NormalizeSymbol lower-cases and trims a user-entered symbol so lookups and
// storage agree on one spelling.
func NormalizeSymbol(symbol string) string {
	return strings.ToLower(strings.TrimSpace(symbol))
}

// SupportedSymbols returns the sorted list of symbols the cache can price.
func SupportedSymbols() []string {
	symbols := make([]string, 0, len(symbolToPair))
	for symbol := range symbolToPair {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
