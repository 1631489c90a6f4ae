package connector

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nonDigits = regexp.MustCompile(`\D`)
	track1Re  = regexp.MustCompile(`\A(%?([A-Z])([0-9]{1,19})\^([^\^]{2,26})\^([0-9]{4}|\^)([0-9]{3}|\^)?([^\?]+)?\??)[\t\n\r ]{0,2}.*\z`)
	track2Re  = regexp.MustCompile(`\A.*[\t\n\r ]?(;([0-9]{1,19})=([0-9]{4})([0-9]{3})(.*)\?).*\z`)
)

// ContactGroup holds the address and contact fields attached to one side
// of a card: billing or shipping.
type ContactGroup struct {
	Title          string
	FirstName      string
	LastName       string
	Company        string
	Address1       string
	Address2       string
	City           string
	Postcode       string
	State          string
	Country        string
	Phone          string
	PhoneExtension string
	Fax            string
}

// CreditCard holds normalized cardholder and card data. The unified
// setters (SetName, SetAddress1, ...) always write through to both the
// billing and the shipping group; the matching unqualified getters alias
// the billing group only.
//
// Gateway-specific keys that have no typed field land in the Extra
// parameter store.
type CreditCard struct {
	number      string
	expiryMonth int
	expiryYear  int
	startMonth  int
	startYear   int
	cvv         string
	tracks      string
	issueNumber string
	email       string
	birthday    string
	gender      string

	billing  ContactGroup
	shipping ContactGroup

	brands *BrandRegistry
	extra  *Params
}

// NewCreditCard creates an empty card.
func NewCreditCard() *CreditCard {
	return &CreditCard{extra: NewParams()}
}

// NewCreditCardFromParams creates a card from a raw parameter store.
// Known keys feed the typed fields; everything else is kept in Extra.
func NewCreditCardFromParams(params *Params) *CreditCard {
	card := NewCreditCard()
	if params == nil {
		return card
	}
	for _, key := range params.Keys() {
		card.setFromParam(key, params.Get(key))
	}
	return card
}

func (c *CreditCard) setFromParam(key, value string) {
	switch key {
	case "number":
		c.SetNumber(value)
	case "expiryMonth":
		n, _ := strconv.Atoi(value)
		c.SetExpiryMonth(n)
	case "expiryYear":
		n, _ := strconv.Atoi(value)
		c.SetExpiryYear(n)
	case "startMonth":
		n, _ := strconv.Atoi(value)
		c.SetStartMonth(n)
	case "startYear":
		n, _ := strconv.Atoi(value)
		c.SetStartYear(n)
	case "cvv":
		c.SetCvv(value)
	case "tracks":
		c.SetTracks(value)
	case "issueNumber":
		c.SetIssueNumber(value)
	case "email":
		c.SetEmail(value)
	case "birthday":
		c.SetBirthday(value)
	case "gender":
		c.SetGender(value)
	case "name":
		c.SetName(value)
	case "firstName":
		c.SetFirstName(value)
	case "lastName":
		c.SetLastName(value)
	case "title":
		c.SetTitle(value)
	case "company":
		c.SetCompany(value)
	case "address1":
		c.SetAddress1(value)
	case "address2":
		c.SetAddress2(value)
	case "city":
		c.SetCity(value)
	case "postcode":
		c.SetPostcode(value)
	case "state":
		c.SetState(value)
	case "country":
		c.SetCountry(value)
	case "phone":
		c.SetPhone(value)
	case "phoneExtension":
		c.SetPhoneExtension(value)
	case "fax":
		c.SetFax(value)
	case "billingName":
		c.SetBillingName(value)
	case "billingTitle":
		c.billing.Title = value
	case "billingFirstName":
		c.billing.FirstName = value
	case "billingLastName":
		c.billing.LastName = value
	case "billingCompany":
		c.billing.Company = value
	case "billingAddress1":
		c.billing.Address1 = value
	case "billingAddress2":
		c.billing.Address2 = value
	case "billingCity":
		c.billing.City = value
	case "billingPostcode":
		c.billing.Postcode = value
	case "billingState":
		c.billing.State = value
	case "billingCountry":
		c.billing.Country = value
	case "billingPhone":
		c.billing.Phone = value
	case "billingPhoneExtension":
		c.billing.PhoneExtension = value
	case "billingFax":
		c.billing.Fax = value
	case "shippingName":
		c.SetShippingName(value)
	case "shippingTitle":
		c.shipping.Title = value
	case "shippingFirstName":
		c.shipping.FirstName = value
	case "shippingLastName":
		c.shipping.LastName = value
	case "shippingCompany":
		c.shipping.Company = value
	case "shippingAddress1":
		c.shipping.Address1 = value
	case "shippingAddress2":
		c.shipping.Address2 = value
	case "shippingCity":
		c.shipping.City = value
	case "shippingPostcode":
		c.shipping.Postcode = value
	case "shippingState":
		c.shipping.State = value
	case "shippingCountry":
		c.shipping.Country = value
	case "shippingPhone":
		c.shipping.Phone = value
	case "shippingPhoneExtension":
		c.shipping.PhoneExtension = value
	case "shippingFax":
		c.shipping.Fax = value
	default:
		c.extra.Set(key, value)
	}
}

// SetBilling replaces the billing contact group.
func (c *CreditCard) SetBilling(group ContactGroup) *CreditCard {
	c.billing = group
	return c
}

// SetShipping replaces the shipping contact group.
func (c *CreditCard) SetShipping(group ContactGroup) *CreditCard {
	c.shipping = group
	return c
}

// SetBrandRegistry makes the card resolve its brand against reg instead
// of the shared default registry.
func (c *CreditCard) SetBrandRegistry(reg *BrandRegistry) *CreditCard {
	c.brands = reg
	return c
}

func (c *CreditCard) brandRegistry() *BrandRegistry {
	if c.brands != nil {
		return c.brands
	}
	return defaultBrands
}

// Extra returns the parameter store holding gateway-specific extra keys.
func (c *CreditCard) Extra() *Params {
	if c.extra == nil {
		c.extra = NewParams()
	}
	return c.extra
}

// LuhnCheck validates a digit string with the Luhn checksum: walking from
// the last digit, every second digit is doubled and results over 9 folded
// back by summing their digits. Any non-digit character fails the check.
func LuhnCheck(number string) bool {
	sum := 0
	alternate := false
	for i := len(number) - 1; i >= 0; i-- {
		ch := number[i]
		if ch < '0' || ch > '9' {
			return false
		}
		n := int(ch - '0')
		if alternate {
			n *= 2
			if n > 9 {
				n = n%10 + 1
			}
		}
		sum += n
		alternate = !alternate
	}
	return sum%10 == 0
}

// Validate checks the card and returns an InvalidCardError naming the
// first failing rule: number present, expiry month and year present,
// expiry date not in the past, Luhn checksum, digit count. The enforced
// length range is 9-19 while the message still claims 12-19; the range
// is kept as-is pending a product decision on which bound is intended.
func (c *CreditCard) Validate() error {
	return c.validateAt(time.Now())
}

func (c *CreditCard) validateAt(now time.Time) error {
	if c.number == "" {
		return &InvalidCardError{Reason: "Card number is required"}
	}
	if c.expiryMonth == 0 {
		return &InvalidCardError{Reason: "Expiry month is required"}
	}
	if c.expiryYear == 0 {
		return &InvalidCardError{Reason: "Expiry year is required"}
	}
	expiry := time.Date(c.expiryYear, time.Month(c.expiryMonth), 1, 0, 0, 0, 0, time.Local)
	if expiry.Before(now) {
		return &InvalidCardError{Reason: "Card has expired"}
	}
	if !LuhnCheck(c.number) {
		return &InvalidCardError{Reason: "Card number is invalid"}
	}
	if len(c.number) < 9 || len(c.number) > 19 {
		return &InvalidCardError{Reason: "Card number should have 12 to 19 digits"}
	}
	return nil
}

// Number returns the card number, digits only.
func (c *CreditCard) Number() string {
	return c.number
}

// SetNumber stores the card number with every non-digit character
// stripped. An empty value clears the field.
func (c *CreditCard) SetNumber(value string) *CreditCard {
	if value == "" {
		c.number = ""
		return c
	}
	c.number = nonDigits.ReplaceAllString(value, "")
	return c
}

// NumberLastFour returns the last four digits of the card number, or the
// empty string when fewer than four digits are stored.
func (c *CreditCard) NumberLastFour() string {
	if len(c.number) > 3 {
		return c.number[len(c.number)-4:]
	}
	return ""
}

// NumberMasked replaces every digit except the last four with mask.
// Numbers shorter than four digits are masked entirely.
func (c *CreditCard) NumberMasked(mask rune) string {
	if len(c.number) < 4 {
		return strings.Repeat(string(mask), len(c.number))
	}
	return strings.Repeat(string(mask), len(c.number)-4) + c.NumberLastFour()
}

// Brand returns the card network the number belongs to, resolved per
// read against the brand registry. An empty or unmatched number yields
// the empty string.
func (c *CreditCard) Brand() string {
	brand, _ := c.brandRegistry().Match(c.number)
	return brand
}

// ExpiryMonth returns the card expiry month (1-12, 0 when unset).
func (c *CreditCard) ExpiryMonth() int { return c.expiryMonth }

// SetExpiryMonth sets the card expiry month.
func (c *CreditCard) SetExpiryMonth(value int) *CreditCard {
	c.expiryMonth = value
	return c
}

// ExpiryYear returns the card expiry year (0 when unset).
func (c *CreditCard) ExpiryYear() int { return c.expiryYear }

// SetExpiryYear sets the card expiry year.
func (c *CreditCard) SetExpiryYear(value int) *CreditCard {
	c.expiryYear = value
	return c
}

// ExpiryDate formats the first day of the expiry month with the given
// time layout.
func (c *CreditCard) ExpiryDate(layout string) string {
	return time.Date(c.expiryYear, time.Month(c.expiryMonth), 1, 0, 0, 0, 0, time.Local).Format(layout)
}

// StartMonth returns the card start month.
func (c *CreditCard) StartMonth() int { return c.startMonth }

// SetStartMonth sets the card start month.
func (c *CreditCard) SetStartMonth(value int) *CreditCard {
	c.startMonth = value
	return c
}

// StartYear returns the card start year.
func (c *CreditCard) StartYear() int { return c.startYear }

// SetStartYear sets the card start year.
func (c *CreditCard) SetStartYear(value int) *CreditCard {
	c.startYear = value
	return c
}

// StartDate formats the first day of the start month with the given time
// layout.
func (c *CreditCard) StartDate(layout string) string {
	return time.Date(c.startYear, time.Month(c.startMonth), 1, 0, 0, 0, 0, time.Local).Format(layout)
}

// Cvv returns the card verification value.
func (c *CreditCard) Cvv() string { return c.cvv }

// SetCvv sets the card verification value.
func (c *CreditCard) SetCvv(value string) *CreditCard {
	c.cvv = value
	return c
}

// Tracks returns the raw magnetic stripe data.
func (c *CreditCard) Tracks() string { return c.tracks }

// SetTracks stores raw magnetic stripe data, used by gateways that
// support card-present transactions.
func (c *CreditCard) SetTracks(value string) *CreditCard {
	c.tracks = value
	return c
}

// Track1 extracts track 1 from the magnetic stripe data, or returns the
// empty string.
func (c *CreditCard) Track1() string {
	if m := track1Re.FindStringSubmatch(c.tracks); m != nil {
		return m[1]
	}
	return ""
}

// Track2 extracts track 2 from the magnetic stripe data, or returns the
// empty string.
func (c *CreditCard) Track2() string {
	if m := track2Re.FindStringSubmatch(c.tracks); m != nil {
		return m[1]
	}
	return ""
}

// IssueNumber returns the card issue number.
func (c *CreditCard) IssueNumber() string { return c.issueNumber }

// SetIssueNumber sets the card issue number.
func (c *CreditCard) SetIssueNumber(value string) *CreditCard {
	c.issueNumber = value
	return c
}

// Email returns the cardholder email.
func (c *CreditCard) Email() string { return c.email }

// SetEmail sets the cardholder email.
func (c *CreditCard) SetEmail(value string) *CreditCard {
	c.email = value
	return c
}

// Birthday returns the cardholder birthday.
func (c *CreditCard) Birthday() string { return c.birthday }

// SetBirthday sets the cardholder birthday.
func (c *CreditCard) SetBirthday(value string) *CreditCard {
	c.birthday = value
	return c
}

// Gender returns the cardholder gender.
func (c *CreditCard) Gender() string { return c.gender }

// SetGender sets the cardholder gender.
func (c *CreditCard) SetGender(value string) *CreditCard {
	c.gender = value
	return c
}

// Billing returns the billing contact group.
func (c *CreditCard) Billing() ContactGroup { return c.billing }

// Shipping returns the shipping contact group.
func (c *CreditCard) Shipping() ContactGroup { return c.shipping }

// splitName splits a full name on the first space: the text before
// becomes the first name, the remainder (further spaces included) the
// last name. A single word only replaces the first name.
func splitName(value string, group *ContactGroup) {
	if i := strings.IndexByte(value, ' '); i >= 0 {
		group.FirstName = value[:i]
		group.LastName = value[i+1:]
	} else {
		group.FirstName = value
	}
}

func joinName(group ContactGroup) string {
	return strings.TrimSpace(group.FirstName + " " + group.LastName)
}

// Title returns the billing name title.
func (c *CreditCard) Title() string { return c.billing.Title }

// SetTitle sets the billing and shipping name title.
func (c *CreditCard) SetTitle(value string) *CreditCard {
	c.billing.Title = value
	c.shipping.Title = value
	return c
}

// FirstName returns the billing first name.
func (c *CreditCard) FirstName() string { return c.billing.FirstName }

// SetFirstName sets the billing and shipping first name.
func (c *CreditCard) SetFirstName(value string) *CreditCard {
	c.billing.FirstName = value
	c.shipping.FirstName = value
	return c
}

// LastName returns the billing last name.
func (c *CreditCard) LastName() string { return c.billing.LastName }

// SetLastName sets the billing and shipping last name.
func (c *CreditCard) SetLastName(value string) *CreditCard {
	c.billing.LastName = value
	c.shipping.LastName = value
	return c
}

// Name returns the billing name.
func (c *CreditCard) Name() string { return joinName(c.billing) }

// SetName splits value into first and last name and writes both the
// billing and the shipping group.
func (c *CreditCard) SetName(value string) *CreditCard {
	splitName(value, &c.billing)
	splitName(value, &c.shipping)
	return c
}

// BillingName returns the billing name.
func (c *CreditCard) BillingName() string { return joinName(c.billing) }

// SetBillingName splits value into the billing first and last name.
func (c *CreditCard) SetBillingName(value string) *CreditCard {
	splitName(value, &c.billing)
	return c
}

// ShippingName returns the shipping name.
func (c *CreditCard) ShippingName() string { return joinName(c.shipping) }

// SetShippingName splits value into the shipping first and last name.
func (c *CreditCard) SetShippingName(value string) *CreditCard {
	splitName(value, &c.shipping)
	return c
}

// Company returns the billing company.
func (c *CreditCard) Company() string { return c.billing.Company }

// SetCompany sets the billing and shipping company.
func (c *CreditCard) SetCompany(value string) *CreditCard {
	c.billing.Company = value
	c.shipping.Company = value
	return c
}

// Address1 returns the billing address, line 1.
func (c *CreditCard) Address1() string { return c.billing.Address1 }

// SetAddress1 sets the billing and shipping address, line 1.
func (c *CreditCard) SetAddress1(value string) *CreditCard {
	c.billing.Address1 = value
	c.shipping.Address1 = value
	return c
}

// Address2 returns the billing address, line 2.
func (c *CreditCard) Address2() string { return c.billing.Address2 }

// SetAddress2 sets the billing and shipping address, line 2.
func (c *CreditCard) SetAddress2(value string) *CreditCard {
	c.billing.Address2 = value
	c.shipping.Address2 = value
	return c
}

// City returns the billing city.
func (c *CreditCard) City() string { return c.billing.City }

// SetCity sets the billing and shipping city.
func (c *CreditCard) SetCity(value string) *CreditCard {
	c.billing.City = value
	c.shipping.City = value
	return c
}

// Postcode returns the billing postcode.
func (c *CreditCard) Postcode() string { return c.billing.Postcode }

// SetPostcode sets the billing and shipping postcode.
func (c *CreditCard) SetPostcode(value string) *CreditCard {
	c.billing.Postcode = value
	c.shipping.Postcode = value
	return c
}

// State returns the billing state.
func (c *CreditCard) State() string { return c.billing.State }

// SetState sets the billing and shipping state.
func (c *CreditCard) SetState(value string) *CreditCard {
	c.billing.State = value
	c.shipping.State = value
	return c
}

// Country returns the billing country.
func (c *CreditCard) Country() string { return c.billing.Country }

// SetCountry sets the billing and shipping country.
func (c *CreditCard) SetCountry(value string) *CreditCard {
	c.billing.Country = value
	c.shipping.Country = value
	return c
}

// Phone returns the billing phone number.
func (c *CreditCard) Phone() string { return c.billing.Phone }

// SetPhone sets the billing and shipping phone number.
func (c *CreditCard) SetPhone(value string) *CreditCard {
	c.billing.Phone = value
	c.shipping.Phone = value
	return c
}

// PhoneExtension returns the billing phone number extension.
func (c *CreditCard) PhoneExtension() string { return c.billing.PhoneExtension }

// SetPhoneExtension sets the billing and shipping phone number extension.
func (c *CreditCard) SetPhoneExtension(value string) *CreditCard {
	c.billing.PhoneExtension = value
	c.shipping.PhoneExtension = value
	return c
}

// Fax returns the billing fax number.
func (c *CreditCard) Fax() string { return c.billing.Fax }

// SetFax sets the billing and shipping fax number.
func (c *CreditCard) SetFax(value string) *CreditCard {
	c.billing.Fax = value
	c.shipping.Fax = value
	return c
}
