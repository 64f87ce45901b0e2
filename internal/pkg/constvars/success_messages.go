package constvars

const (
	// Generic messages
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	// Order messages
	OrderCreatedSuccess   = "order created successfully"
	OrderCancelledSuccess = "order cancelled successfully"
	OrderGetSuccess       = "get order successfully"
	OrderListSuccess      = "get orders successfully"

	// Payment messages
	PaymentInitiatedSuccess  = "payment initiated successfully"
	PaymentCallbackSuccess   = "callback processed successfully"
	PaymentStatisticsSuccess = "get payment statistics successfully"

	// Refund messages
	RefundRequestedSuccess = "refund requested successfully"
	RefundReviewedSuccess  = "refund reviewed successfully"
	RefundCancelledSuccess = "refund request cancelled successfully"
	RefundGetSuccess       = "get refund request successfully"

	// Balance messages
	BalanceGetSuccess        = "get balance successfully"
	BalanceEntryListSuccess  = "get balance entries successfully"
)
