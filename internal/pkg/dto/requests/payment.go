package requests

type InitiatePayment struct {
	OrderID       string `json:"order_id" validate:"required,uuid"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=wechat alipay balance"`
	ReturnURL     string `json:"return_url,omitempty" validate:"omitempty,url,max=200"`
}

type PaymentStatistics struct {
	UserID    string `json:"user_id,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}
