package courier

import "errors"

const (
	ErrorCodeServerError     = "SERVER_ERROR"     // For 5xx HTTP status
	ErrorCodeTimeout         = "TIMEOUT"          // For context timeout
	ErrorCodeUnknownTracking = "UNKNOWN_TRACKING" // For 404/unknown tracking number
	ErrorCodeNetworkError    = "NETWORK_ERROR"    // For connection failures
)

var (
	ErrServerError     = errors.New(ErrorCodeServerError)
	ErrTimeout         = errors.New(ErrorCodeTimeout)
	ErrUnknownTracking = errors.New(ErrorCodeUnknownTracking)
	ErrNetworkError    = errors.New(ErrorCodeNetworkError)
)

var statusErrorMap = map[int]error{
	404: ErrUnknownTracking,
}

func mapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}
