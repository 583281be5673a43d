package dto

// Error codes carried in the response envelope.
const (
	CodeNetworkError   = "NETWORK_ERROR"
	CodeUploadError    = "UPLOAD_ERROR"
	CodeJobNotFound    = "JOB_NOT_FOUND"
	CodeResultNotReady = "RESULT_NOT_READY"
	CodeRateLimited    = "RATE_LIMITED"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"
	CodeDecodeError    = "DECODE_ERROR"
)

type ProcessingError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// APIResponse is the envelope of every JSON API response.
type APIResponse[T any] struct {
	Success bool             `json:"success"`
	Data    *T               `json:"data,omitempty"`
	Error   *ProcessingError `json:"error,omitempty"`
}

func OK[T any](data T) APIResponse[T] {
	return APIResponse[T]{Success: true, Data: &data}
}

func Fail(code, message string) APIResponse[any] {
	return APIResponse[any]{
		Success: false,
		Error:   &ProcessingError{Code: code, Message: message},
	}
}
