package dto

import (
	"errors"
	"testing"
	"time"
)

func TestErrorResponse_Error(t *testing.T) {
	cases := []struct {
		name string
		resp ErrorResponse
		want string
	}{
		{"message only", ErrorResponse{Message: "fetch failed"}, "fetch failed"},
		{"with details", ErrorResponse{Message: "fetch failed", ErrorDetails: "dial tcp: refused"}, "fetch failed: dial tcp: refused"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.resp.Error(); got != tc.want {
				t.Fatalf("Error()=%q want %q", got, tc.want)
			}
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	// without inner error
	e := NewErrorResponse("invalid date range", nil)
	if e.Message != "invalid date range" || e.ErrorDetails != "" {
		t.Fatalf("unexpected %+v", e)
	}
	if e.Timestamp.IsZero() || time.Since(e.Timestamp) > time.Second {
		t.Fatalf("timestamp not set")
	}

	// with inner error
	e2 := NewErrorResponse("invalid date range", errors.New("end date must not precede start date"))
	if e2.ErrorDetails != "end date must not precede start date" {
		t.Fatalf("unexpected %+v", e2)
	}
}
