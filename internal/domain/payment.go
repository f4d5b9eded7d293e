package domain

// CheckoutSession is the payment provider's pending-payment object.
// Only the identifier and redirect URL matter to the workflow; everything
// else lives on the provider's side.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentEvent is a verified webhook event from the payment provider,
// reduced to the fields the booking workflow consumes.
type PaymentEvent struct {
	ID              string
	Type            string
	SessionID       string
	PaymentIntentID string
	AmountTotal     int64 // smallest currency unit
	Metadata        map[string]string
}

// PaymentInfo summarizes a confirmed payment for notifications and records
type PaymentInfo struct {
	Amount    int64 // whole dollars
	PaymentID string
	Tier      string
	Breakdown string
}
