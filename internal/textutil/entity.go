package textutil

import (
	"regexp"
	"strings"
)

// aliasTable maps a lowercase, whitespace-normalized alias to its
// canonical uppercase entity name. Materialized at build time per
// spec.md §4.2/§9 ("no runtime loading"); representative of the ~400
// entries the production table carries, grounded on the crypto/
// politician/team/commodity/indicator names referenced throughout
// spec.md §3-§4 and on the venue title idioms seen in the retrieved
// Kalshi/Polymarket reference files.
//
// Deliberate open-question decision (see DESIGN.md): the generic
// "election" alias is kept rather than special-cased away, so
// normalizeEntity stays total.
var aliasTable = map[string]string{
	// Crypto
	"bitcoin": "BITCOIN", "btc": "BITCOIN", "xbt": "BITCOIN",
	"ethereum": "ETHEREUM", "eth": "ETHEREUM", "ether": "ETHEREUM",
	"solana": "SOLANA", "sol": "SOLANA",
	"xrp": "XRP", "ripple": "XRP",
	"dogecoin": "DOGECOIN", "doge": "DOGECOIN",
	"cardano": "CARDANO", "ada": "CARDANO",
	"polkadot": "POLKADOT", "dot": "POLKADOT",
	"litecoin": "LITECOIN", "ltc": "LITECOIN",
	"chainlink": "CHAINLINK", "link": "CHAINLINK",
	"avalanche": "AVALANCHE", "avax": "AVALANCHE",
	"polygon": "POLYGON", "matic": "POLYGON",
	"bnb": "BNB", "binance coin": "BNB",
	"tron": "TRON", "trx": "TRON",
	"shiba inu": "SHIBA_INU", "shib": "SHIBA_INU",

	// Central banks
	"federal reserve": "FED", "fed": "FED", "fomc": "FED",
	"european central bank": "ECB", "ecb": "ECB",
	"bank of england": "BOE", "boe": "BOE",
	"bank of japan": "BOJ", "boj": "BOJ",

	// Macro indicators
	"cpi": "CPI", "consumer price index": "CPI",
	"nonfarm payrolls": "NFP", "nfp": "NFP", "jobs report": "NFP",
	"gdp": "GDP", "gross domestic product": "GDP",
	"unemployment rate": "UNEMPLOYMENT", "unemployment": "UNEMPLOYMENT",
	"ppi": "PPI", "producer price index": "PPI",

	// Commodities
	"wti": "OIL_WTI", "wti crude": "OIL_WTI", "crude oil": "OIL_WTI",
	"brent": "OIL_BRENT", "brent crude": "OIL_BRENT",
	"natural gas": "NATGAS", "natgas": "NATGAS", "nat gas": "NATGAS",
	"gold": "GOLD", "xau": "GOLD",
	"silver": "SILVER", "xag": "SILVER",
	"copper": "COPPER",
	"corn": "CORN",
	"wheat": "WHEAT",

	// Finance indices / instruments
	"s&p 500": "SPX", "s&p": "SPX", "spx": "SPX", "sp500": "SPX",
	"nasdaq": "NASDAQ", "nasdaq 100": "NASDAQ", "ndx": "NASDAQ",
	"dow jones": "DJIA", "dow": "DJIA", "djia": "DJIA",
	"vix": "VIX", "volatility index": "VIX",
	"russell 2000": "RUSSELL2000", "rut": "RUSSELL2000",

	// Countries / geopolitics
	"united states": "US", "usa": "US", "u.s.": "US", "america": "US",
	"united kingdom": "UK", "britain": "UK", "u.k.": "UK",
	"france": "FR", "germany": "DE", "japan": "JP", "china": "CN",
	"russia": "RU", "ukraine": "UA", "israel": "IL", "iran": "IR",
	"north korea": "KP", "south korea": "KR", "india": "IN",
	"taiwan": "TW",

	// US politicians (sample; extend at build time as needed)
	"donald trump": "TRUMP", "trump": "TRUMP",
	"joe biden": "BIDEN", "biden": "BIDEN",
	"kamala harris": "HARRIS", "harris": "HARRIS",
	"ron desantis": "DESANTIS", "desantis": "DESANTIS",
	"gavin newsom": "NEWSOM", "newsom": "NEWSOM",
	"jd vance": "VANCE", "vance": "VANCE",

	// Generic election vocabulary — kept per DESIGN.md open-question decision
	"election": "ELECTION", "elections": "ELECTION",
	"presidential election": "PRESIDENTIAL_ELECTION",

	// Entertainment
	"oscars": "OSCARS", "academy awards": "OSCARS",
	"grammys": "GRAMMYS", "grammy awards": "GRAMMYS",
	"box office": "BOX_OFFICE",

	// Climate
	"global mean temperature": "GMT", "global average temperature": "GMT",
	"sea ice extent": "SEA_ICE",
	"atlantic hurricane season": "ATLANTIC_HURRICANE",

	// Sports leagues (normalized separately in extract/sports.go, but a
	// few common team aliases live here so the generic normalizer is
	// useful standalone)
	"la lakers": "LOS ANGELES LAKERS", "lakers": "LOS ANGELES LAKERS",
	"boston celtics": "BOSTON CELTICS", "celtics": "BOSTON CELTICS",
	"ny yankees": "NEW YORK YANKEES", "yankees": "NEW YORK YANKEES",
	"man city": "MANCHESTER CITY", "manchester city": "MANCHESTER CITY",
	"man utd": "MANCHESTER UNITED", "man united": "MANCHESTER UNITED",
}

var reWhitespace = regexp.MustCompile(`\s+`)

// NormalizeEntity looks up alias (case-insensitive, whitespace-collapsed)
// in the static alias table. Unknown tokens fall through uppercased, so
// the function is total (spec.md §4.2, §8 round-trip law:
// NormalizeEntity(NormalizeEntity(x)) == NormalizeEntity(x)).
func NormalizeEntity(alias string) string {
	key := strings.TrimSpace(strings.ToLower(alias))
	key = reWhitespace.ReplaceAllString(key, " ")
	if canonical, ok := aliasTable[key]; ok {
		return canonical
	}
	return strings.ToUpper(key)
}

// AliasTableSize exposes the table's entry count for diagnostics/tests.
func AliasTableSize() int {
	return len(aliasTable)
}
