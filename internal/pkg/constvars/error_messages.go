package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"min":      "must be at least %s characters long",
	"max":      "maximum at %s characters long",
	"numeric":  "must be a number",
	"oneof":    "must be one of [%s]",
	"gt":       "must be greater than %s",
	"gte":      "must be greater than or equal to %s",
	"lt":       "must be less than %s",
	"lte":      "must be less than or equal to %s",
	"url":      "must be a valid URL",
	"uuid":     "must be a valid UUID",
	"money":    "must be a positive amount with at most two fractional digits",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
	"gt":    true,
	"gte":   true,
	"lt":    true,
	"lte":   true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"

	ErrClientInvalidAmount       = "amount must be greater than zero"
	ErrClientOrderNotFound       = "order not found"
	ErrClientOrderExpired        = "order already expired"
	ErrClientOrderInvalidState   = "order state does not allow this operation"
	ErrClientInsufficientBalance = "insufficient balance"
	ErrClientAmountMismatch      = "reported amount does not match the order amount"
	ErrClientAmountExceedsOrder  = "refund amount exceeds the remaining refundable amount"
	ErrClientRefundNotFound      = "refund request not found"
	ErrClientRefundInvalidState  = "refund request state does not allow this operation"
	ErrClientUnsupportedMethod   = "unsupported payment method"
	ErrClientUnsupportedGateway  = "unsupported payment gateway"
	ErrClientBalanceNotFound     = "balance record not found"
	ErrClientPriceNotFound       = "no active price for the requested service"
)

// Error messages for developers
const (
	ErrDevInvalidInput          = "invalid input"
	ErrDevCannotParseJSON       = "cannot parse JSON into struct or other data types"
	ErrDevCannotParseTime       = "cannot parse time into the given format"
	ErrDevCannotMarshalJSON     = "cannot convert struct or other data types to JSON"
	ErrDevBuildRequest          = "encountering error while building request DTO"
	ErrDevValidationFailed      = "validation failed"
	ErrDevServerProcess         = "server encountered an error while processing"
	ErrDevServerDeadline        = "server deadline exceeded"
	ErrDevCreateHTTPRequest     = "failed to create HTTP request"
	ErrDevSendHTTPRequest       = "failed to send HTTP request"
	ErrDevURLParamIDValidation  = "parameter %s validation failed"
	ErrDevUnknownResponseFormat = "unexpected response format from %s"

	// Authentication messages
	ErrDevAuthSigningMethod         = "unexpected signing method"
	ErrDevAuthTokenInvalidOrExpired = "invalid or expired token"
	ErrDevAuthTokenMissing          = "token missing"
	ErrDevAuthPermissionDenied      = "permission denied"
	ErrDevAuthNotResourceOwner      = "requester does not own the resource"

	// Domain messages
	ErrDevOrderInvalidAmount        = "order amount must be a positive decimal"
	ErrDevOrderNotFound             = "order not exists in our system"
	ErrDevOrderExpired              = "order expire_time already passed"
	ErrDevOrderInvalidTransition    = "illegal order status transition from %s to %s"
	ErrDevOrderNumberCollision      = "exhausted retries generating a unique order number"
	ErrDevTransactionNotFound       = "transaction not exists in our system"
	ErrDevRefundNotFound            = "refund request not exists in our system"
	ErrDevRefundInvalidTransition   = "illegal refund status transition from %s to %s"
	ErrDevRefundAmountExceedsOrder  = "refunded sum plus requested amount exceeds the paid amount"
	ErrDevBalanceNotFound           = "balance record not exists for user"
	ErrDevBalanceInsufficient       = "debit amount exceeds the available balance"
	ErrDevBalanceFrozenInsufficient = "unfreeze amount exceeds the frozen balance"
	ErrDevCallbackAmountMismatch    = "callback reported amount differs from order amount"
	ErrDevUnsupportedPaymentMethod  = "no strategy registered for payment method %s"
	ErrDevUnsupportedGateway        = "no adapter registered for gateway %s"
	ErrDevPriceNotFound             = "no active price config for service type %s"

	// Database messages
	ErrDevDBFailedToInsertData   = "failed to insert data into database"
	ErrDevDBFailedToUpdateData   = "failed to update data into database"
	ErrDevDBFailedToFindData     = "failed when do find data on database"
	ErrDevDBFailedToDeleteData   = "failed when do delete data on database"
	ErrDevDBFailedToIterateRows  = "failed when iterating rows from database"
	ErrDevDBFailedToBeginTx      = "failed to begin database transaction"
	ErrDevDBFailedToCommitTx     = "failed to commit database transaction"
	ErrDevDBConnectionFailed     = "failed to connect to database"

	// Redis messages
	ErrDevRedisGetData    = "failed to get data from redis"
	ErrDevRedisSetData    = "failed to set data to redis"
	ErrDevRedisDeleteData = "failed to delete data from redis"
	ErrDevRedisSetNX      = "failed to set data with NX semantics to redis"
	ErrDevRedisUnlock     = "failed to release redis lock"

	// RabbitMQ messages
	ErrDevRabbitMQPublish = "failed to publish message to queue %s"

	// Minio messages
	ErrDevMinioCreateObject = "failed to create object into minio storage with bucket name '%s'"

	// Gateway messages
	ErrDevGatewayBuildPayment  = "failed to build %s payment request"
	ErrDevGatewayBuildRefund   = "failed to build %s refund request"
	ErrDevGatewayParseCallback = "failed to parse %s callback payload"
)
