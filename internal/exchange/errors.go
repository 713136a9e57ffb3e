package exchange

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is an error reported by an exchange API.
//
// Fields:
//   - Exchange: which driver produced it.
//   - Status: HTTP status code of the response (0 when the error came from
//     a 200 response envelope, as KuCoin does).
//   - Code: the exchange's own error code ("-1121", "400100"), if any.
//   - Message: the exchange's human-readable message.
type APIError struct {
	Exchange string
	Status   int
	Code     string
	Message  string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s api error (status %d, code %s): %s", e.Exchange, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%s api error (status %d): %s", e.Exchange, e.Status, e.Message)
}

// IsClientFault reports whether err is an APIError caused by the request
// itself (unknown symbol, malformed parameter) rather than by the upstream
// service. Rate limiting is not a client fault for this purpose; by the time
// it surfaces here the retries are exhausted and it reads as an upstream
// availability problem.
func IsClientFault(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Status == http.StatusTooManyRequests {
		return false
	}
	// KuCoin wraps everything in a 200 envelope; its codes are 6 digits with
	// 4xxxxx meaning client fault.
	if apiErr.Status == 0 && len(apiErr.Code) == 6 {
		return apiErr.Code[0] == '4'
	}
	return apiErr.Status >= 400 && apiErr.Status < 500
}
