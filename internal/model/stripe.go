package model

// CheckoutSession is the slice of Stripe's checkout.session object the
// fulfillment flow needs. Decoded from the verified event payload only.
type CheckoutSession struct {
	ID            string `json:"id"`
	CustomerEmail string `json:"customer_email"`
	PaymentLink   string `json:"payment_link"`
}
