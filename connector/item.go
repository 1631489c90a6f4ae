package connector

// Item is a single cart line in a payment request.
type Item struct {
	Name        string
	Description string
	Quantity    int
	Price       float64
}

// NewItemFromParams builds an Item from a raw parameter store using the
// soft-read convention: quantity and price that do not parse stay zero.
func NewItemFromParams(params *Params) Item {
	item := Item{
		Name:        params.Get("name"),
		Description: params.Get("description"),
	}
	if q, ok := params.GetInt("quantity"); ok {
		item.Quantity = q
	}
	if p, ok := params.GetFloat("price"); ok {
		item.Price = p
	}
	return item
}

// Issuer identifies a card issuer, optionally tied to the payment method
// it belongs to.
type Issuer struct {
	ID            string
	Name          string
	PaymentMethod string
}

// PaymentMethod identifies a payment method offered by a gateway.
type PaymentMethod struct {
	ID   string
	Name string
}
