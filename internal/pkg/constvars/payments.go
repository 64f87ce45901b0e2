package constvars

const (
	GatewayWechat = "wechat"
	GatewayAlipay = "alipay"
)

const (
	DefaultCurrency = "CNY"

	// MoneyFractionDigits is the number of fractional digits every
	// monetary amount in the contract is rounded to.
	MoneyFractionDigits = 2
)

const (
	OrderNoPrefix       = "ORD"
	TransactionNoPrefix = "TXN"
	RefundNoPrefix      = "RFD"
)

const (
	// RelatedTypeOrder and friends tag the entity that caused a balance entry.
	RelatedTypeOrder  = "order"
	RelatedTypeRefund = "refund"
)

const (
	WechatCallbackSuccess = "SUCCESS"
	WechatCallbackFail    = "FAIL"

	AlipayTradeSuccess  = "TRADE_SUCCESS"
	AlipayTradeFinished = "TRADE_FINISHED"
	AlipayTradeClosed   = "TRADE_CLOSED"
)
