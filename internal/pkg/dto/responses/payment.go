package responses

// PaymentInstructions is the uniform answer to an initiate-payment call.
// Exactly one of PaymentURL, QRCode or PrepayData is set for gateway
// methods; balance payments complete synchronously and set none.
type PaymentInstructions struct {
	OrderID       string         `json:"order_id"`
	OrderNo       string         `json:"order_no"`
	PaymentMethod string         `json:"payment_method"`
	PaymentURL    string         `json:"payment_url,omitempty"`
	QRCode        string         `json:"qr_code,omitempty"`
	PrepayData    map[string]any `json:"prepay_data,omitempty"`
	Paid          bool           `json:"paid"`
}
