package constants

const MessageErrorFormat = "The '%s' format is invalid"

const (
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeAccountNotFound   = "ACCOUNT_NOT_FOUND"
	ErrCodeAccountExists     = "ACCOUNT_EXISTS"
	ErrCodeAuctionNotFound   = "AUCTION_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeNotAuthorized     = "NOT_AUTHORIZED"
	ErrCodeAuctionEnded      = "AUCTION_ENDED"
	ErrCodeSelfBid           = "SELF_BID_FORBIDDEN"
	ErrCodeBidTooLow         = "BID_TOO_LOW"
	ErrCodeExceedsBuyNow     = "EXCEEDS_BUY_NOW"
	ErrCodeBuyNowUnavailable = "BUY_NOW_UNAVAILABLE"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeInvalidRequest    = "INVALID_REQUEST_BODY"
)

var errorMessages = map[string]string{
	ErrCodeValidationFailed:  "request validation failed",
	ErrCodeAccountNotFound:   "account not found",
	ErrCodeAccountExists:     "account already exists",
	ErrCodeAuctionNotFound:   "auction not found",
	ErrCodeOrderNotFound:     "order not found",
	ErrCodeNotAuthorized:     "caller is not allowed to perform this operation",
	ErrCodeAuctionEnded:      "auction is not open for bidding",
	ErrCodeSelfBid:           "sellers cannot bid on their own auction",
	ErrCodeBidTooLow:         "bid must be at least current price plus bid unit",
	ErrCodeExceedsBuyNow:     "bid must stay below the buy-now price",
	ErrCodeBuyNowUnavailable: "auction has no buy-now price",
	ErrCodeConflict:          "operation conflicts with the current state",
	ErrCodeInsufficientFunds: "insufficient points balance",
	ErrCodeInternalError:     "internal server error",
	ErrCodeInvalidRequest:    "failed to parse request body",
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return errorMessages[ErrCodeInternalError]
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequest:
		return 400
	case ErrCodeInsufficientFunds:
		return 402
	case ErrCodeNotAuthorized, ErrCodeSelfBid:
		return 403
	case ErrCodeAccountNotFound, ErrCodeAuctionNotFound, ErrCodeOrderNotFound:
		return 404
	case ErrCodeAccountExists, ErrCodeAuctionEnded, ErrCodeBidTooLow,
		ErrCodeExceedsBuyNow, ErrCodeBuyNowUnavailable, ErrCodeConflict:
		return 409
	case ErrCodeValidationFailed:
		return 422
	default:
		return 500
	}
}
