package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	TxKey        ContextKey = "tx"
	PoolKey      ContextKey = "pool"
	LoggerKey    ContextKey = "logger"
	AppKey       ContextKey = "app"
	AppIDKey     ContextKey = "app_id"
	ParamsKey    ContextKey = "params"
	RequestStart ContextKey = "request_start"
)

// DateTimeLayout is the wire format of every timestamp exposed by the API.
const DateTimeLayout = "2006-01-02 15:04:05"

var Validate = validator.New(validator.WithRequiredStructEnabled())
