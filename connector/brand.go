package connector

import (
	"regexp"
	"sync"
)

// Card brand identifiers returned by CreditCard.Brand.
const (
	BrandVisa               = "visa"
	BrandMastercard         = "mastercard"
	BrandDiscover           = "discover"
	BrandAmex               = "amex"
	BrandDinersClub         = "diners_club"
	BrandJCB                = "jcb"
	BrandSwitch             = "switch"
	BrandSolo               = "solo"
	BrandDankort            = "dankort"
	BrandMaestro            = "maestro"
	BrandForbrugsforeningen = "forbrugsforeningen"
	BrandLaser              = "laser"
)

// BrandRegistry maps card brand names to the pattern a card number must
// fully match. Matching walks the brands in registration order and stops
// at the first hit, so more specific brands must be registered first.
// The registry is safe for concurrent use.
type BrandRegistry struct {
	mu       sync.RWMutex
	names    []string
	patterns map[string]*regexp.Regexp
}

// NewBrandRegistry creates an empty registry.
func NewBrandRegistry() *BrandRegistry {
	return &BrandRegistry{patterns: make(map[string]*regexp.Regexp)}
}

// DefaultBrands builds a registry holding the stock brand table.
func DefaultBrands() *BrandRegistry {
	r := NewBrandRegistry()
	r.Add(BrandVisa, `^4\d{12}(\d{3})?$`)
	r.Add(BrandMastercard, `^(5[1-5]\d{4}|677189)\d{10}$|^(222[1-9]|2[3-6]\d{2}|27[0-1]\d|2720)\d{12}$`)
	r.Add(BrandDiscover, `^(6011|65\d{2}|64[4-9]\d)\d{12}|(62\d{14})$`)
	r.Add(BrandAmex, `^3[47]\d{13}$`)
	r.Add(BrandDinersClub, `^3(0[0-5]|[68]\d)\d{11}$`)
	r.Add(BrandJCB, `^35(28|29|[3-8]\d)\d{12}$`)
	r.Add(BrandSwitch, `^6759\d{12}(\d{2,3})?$`)
	r.Add(BrandSolo, `^6767\d{12}(\d{2,3})?$`)
	r.Add(BrandDankort, `^5019\d{12}$`)
	r.Add(BrandMaestro, `^(5[06-8]|6\d)\d{10,17}$`)
	r.Add(BrandForbrugsforeningen, `^600722\d{10}$`)
	// RE2 has no lookahead; the 6771 range is enumerated so that the
	// 677189 Mastercard prefix stays excluded.
	r.Add(BrandLaser, `^(6304|6706|6709)\d{8}(\d{4}|\d{6,7})?$|^6771([0-7]\d|8[0-8]|9\d)\d{6}(\d{4}|\d{6,7})?$`)
	return r
}

// Add registers a brand with its pattern. It returns false without
// touching the registry when the name is already registered or the
// pattern does not compile.
func (r *BrandRegistry) Add(name, expr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patterns[name]; ok {
		return false
	}
	// A brand pattern must cover the whole number, not a substring.
	re, err := regexp.Compile(`\A(?:` + expr + `)\z`)
	if err != nil {
		return false
	}
	r.names = append(r.names, name)
	r.patterns[name] = re
	return true
}

// Match returns the first registered brand whose pattern fully matches
// number.
func (r *BrandRegistry) Match(number string) (string, bool) {
	if number == "" {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.names {
		if r.patterns[name].MatchString(number) {
			return name, true
		}
	}
	return "", false
}

// Brands returns the registered brand names in registration order.
func (r *BrandRegistry) Brands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// defaultBrands backs every CreditCard that was not given its own
// registry. It is shared process-wide and guarded internally.
var defaultBrands = DefaultBrands()

// AddSupportedBrand registers a custom brand on the shared default
// registry. It returns false when the name is already taken.
func AddSupportedBrand(name, expr string) bool {
	return defaultBrands.Add(name, expr)
}

// SupportedBrands lists the brand names known to the shared default
// registry.
func SupportedBrands() []string {
	return defaultBrands.Brands()
}
