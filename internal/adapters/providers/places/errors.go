package places

import (
	"context"
	"errors"
	"net"

	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

// classifyTransportError maps a failed provider round trip to the search error taxonomy
func classifyTransportError(provider string, err error) error {
	if isTimeout(err) {
		return apperrors.NewProviderTimeoutError(provider+" search timed out", err)
	}
	return apperrors.NewProviderUnavailableError(provider+" search request failed", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
