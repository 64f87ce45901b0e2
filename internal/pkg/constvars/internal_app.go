package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY ContextKey = "request_id"
	CONTEXT_REQUESTER_KEY  ContextKey = "requester"
	CONTEXT_RAW_BODY       ContextKey = "raw_body"
)

const (
	REQUEST_ID_PREFIX = "MDLN_SVC_"
)

const (
	RoleTypeUser  = "user"
	RoleTypeAdmin = "admin"
)

const (
	ResourceOrders   = "orders"
	ResourcePayments = "payments"
	ResourceRefunds  = "refunds"
	ResourceBalance  = "balance"
	ResourceWebhooks = "webhooks"
)

const (
	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
