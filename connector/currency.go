package connector

import "strings"

// Currency is an immutable ISO currency entry: the three letter code,
// the numeric code and the number of decimal places in its minor unit.
type Currency struct {
	code     string
	numeric  string
	decimals int
}

// Code returns the three letter code for the currency.
func (c Currency) Code() string { return c.code }

// Numeric returns the ISO numeric code for the currency.
func (c Currency) Numeric() string { return c.numeric }

// Decimals returns the number of decimal places for the currency.
func (c Currency) Decimals() int { return c.decimals }

// currencies is the compiled-in currency catalog. It is never mutated.
var currencies = []Currency{
	{"ARS", "032", 2},
	{"AUD", "036", 2},
	{"BOB", "068", 2},
	{"BRL", "986", 2},
	{"CAD", "124", 2},
	{"CHF", "756", 2},
	{"CLP", "152", 0},
	{"CNY", "156", 2},
	{"COP", "170", 2},
	{"CRC", "188", 2},
	{"CZK", "203", 2},
	{"DKK", "208", 2},
	{"DOP", "214", 2},
	{"EUR", "978", 2},
	{"FJD", "242", 2},
	{"GBP", "826", 2},
	{"GTQ", "320", 2},
	{"HKD", "344", 2},
	{"HUF", "348", 2},
	{"ILS", "376", 2},
	{"INR", "356", 2},
	{"JPY", "392", 0},
	{"KRW", "410", 0},
	{"LAK", "418", 0},
	{"MXN", "484", 2},
	{"MYR", "458", 2},
	{"NOK", "578", 2},
	{"NZD", "554", 2},
	{"OMR", "512", 2},
	{"PEN", "604", 2},
	{"PGK", "598", 2},
	{"PHP", "608", 2},
	{"PLN", "985", 2},
	{"PYG", "600", 0},
	{"SBD", "090", 2},
	{"SEK", "752", 2},
	{"SGD", "702", 2},
	{"THB", "764", 2},
	{"TOP", "776", 2},
	{"TRY", "949", 2},
	{"TWD", "901", 2},
	{"USD", "840", 2},
	{"UYU", "858", 2},
	{"VEF", "937", 2},
	{"VND", "704", 0},
	{"VUV", "548", 0},
	{"WST", "882", 2},
	{"ZAR", "710", 2},
}

// FindCurrency looks up a currency by its three letter code,
// case-insensitively. The second return value reports whether the code
// is known.
func FindCurrency(code string) (Currency, bool) {
	code = strings.ToUpper(code)
	for _, c := range currencies {
		if c.code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// Currencies returns the supported currency catalog.
func Currencies() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}
