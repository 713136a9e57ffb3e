package dto

import "time"

// ErrorResponse is the standardized JSON error envelope returned by every
// failing endpoint.
//
// Fields:
//   - Message: human-readable description of what failed.
//   - ErrorDetails: underlying error text, when one exists (omitted otherwise).
//   - Timestamp: when the error response was produced.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid date range"`
	ErrorDetails string    `json:"error,omitempty" example:"end date must not precede start date"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewErrorResponse builds an ErrorResponse from a message and an optional
// underlying error.
//
// Parameters:
//   - message: user-facing summary.
//   - err: inner error; may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// Error implements the error interface so handlers can propagate the
// response object itself when convenient.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
