package errno

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	default:
		return InternalServerError.Code, err.Error()
	}
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error"}
)

// Business Errors (20000+)
var (
	// ErrNoRPCEndpoint is fatal configuration: the currency has no node
	// endpoint, so no network call is ever attempted.
	ErrNoRPCEndpoint = Errno{Code: 20101, Message: "Currency doesn't have an RPC node configured"}

	ErrCurrencyNotFound = Errno{Code: 20102, Message: "Currency not found"}
	ErrAccountNotFound  = Errno{Code: 20103, Message: "Account not found"}

	// ErrBroadcast wraps a failed transaction submission. Broadcast failures
	// are the one provider error that must reach the caller unmodified.
	ErrBroadcast = Errno{Code: 20201, Message: "Transaction broadcast failed"}

	ErrInvalidTransaction = Errno{Code: 20202, Message: "Transaction is malformed"}
)

// Draft validation errors, keyed per field in TransactionStatus
var (
	ErrRecipientRequired = Errno{Code: 20301, Message: "Recipient is required"}
	ErrInvalidRecipient  = Errno{Code: 20302, Message: "Recipient is not a valid address"}
	ErrAmountRequired    = Errno{Code: 20303, Message: "Amount is required"}
	ErrNotEnoughBalance  = Errno{Code: 20304, Message: "Balance is not enough to cover amount and fees"}
	ErrGasLimitTooLow    = Errno{Code: 20305, Message: "Gas limit is below the minimal transfer cost"}
)
