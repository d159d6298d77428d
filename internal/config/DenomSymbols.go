/*

Mapping of on-chain base denoms to the symbol shown to users.

If a denom doesnt have an entry here the symbol is derived from the denom itself by
dropping the micro prefix and upper-casing the rest, which works for most Cosmos chains.

*/

package config

import "strings"

var (
	DenomToSymbol = map[string]string{
		"uluna":  "LUNA",
		"uatom":  "ATOM",
		"uosmo":  "OSMO",
		"ujuno":  "JUNO",
		"ukava":  "KAVA",
		"utia":   "TIA",
		"untrn":  "NTRN",
		"ustars": "STARS",
		"inj":    "INJ",
		"aevmos": "EVMOS",
		"ukuji":  "KUJI",
		"uwhale": "WHALE",
		"umars":  "MARS",
		"uelys":  "ELYS",
	}
)

// SymbolForDenom returns the display symbol for a base denom.
func SymbolForDenom(denom string) string {
	if symbol, ok := DenomToSymbol[denom]; ok {
		return symbol
	}
	if len(denom) > 1 && denom[0] == 'u' {
		return strings.ToUpper(denom[1:])
	}
	return strings.ToUpper(denom)
}
