package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	ContextKeyRequestID = "request_id"
	ContextKeyAdmin     = "admin_subject"

	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgRateLimited         = "rate limit exceeded, please try again later"
)
