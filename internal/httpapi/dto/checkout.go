package dto

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

type PaymentIntent struct {
	Bag
	Intent    Intent `json:"intent"`
	Currency  string `json:"currency"`
	Warning   string `json:"warning,omitempty"`
	PublicKey string `json:"publicKey,omitempty"`
}

type Shipping struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
	Country        string `json:"country"`
	Postcode       string `json:"postcode,omitempty"`
	TownOrCity     string `json:"townOrCity"`
	StreetAddress1 string `json:"streetAddress1"`
	StreetAddress2 string `json:"streetAddress2,omitempty"`
	County         string `json:"county,omitempty"`
}

type ConfirmOrderRequest struct {
	Shipping     Shipping `json:"shipping"`
	PaymentRef   string   `json:"paymentRef,omitempty"`
	ClientSecret string   `json:"clientSecret,omitempty"`
	// SaveInfo stores the delivery details as the signed-in customer's defaults.
	SaveInfo bool `json:"saveInfo,omitempty"`
}

type CheckoutDefaults struct {
	Shipping Shipping `json:"shipping"`
}
