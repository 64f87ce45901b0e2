package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingRequestKey       = "request"
	LoggingResponseKey      = "response"
	LoggingMethodKey        = "method"
	LoggingEndpointKey      = "endpoint"
	LoggingRemoteAddrKey    = "remote_addr"
	LoggingUserAgentKey     = "user_agent"
	LoggingQueryKey         = "query"
	LoggingStatusCodeKey    = "status_code"
	LoggingDurationKey      = "duration"
	LoggingOrderIDKey       = "order_id"
	LoggingOrderNoKey       = "order_no"
	LoggingTransactionIDKey = "transaction_id"
	LoggingRefundIDKey      = "refund_id"
	LoggingRefundNoKey      = "refund_no"
	LoggingUserIDKey        = "user_id"
	LoggingGatewayKey       = "gateway"
	LoggingPaymentMethodKey = "payment_method"
	LoggingAmountKey        = "amount"
	LoggingRedisKey         = "redis_key"
	LoggingLockValueKey     = "lock_value"
	LoggingQueueNameKey     = "queue_name"
	LoggingBucketNameKey    = "bucket_name"
	LoggingObjectNameKey    = "object_name"
)
