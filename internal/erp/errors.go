package erp

import (
	"errors"
	"fmt"
)

// ErrTokenAcquisition marks a failed OAuth2 client-credentials exchange.
// It maps to HTTP 502 at the gateway edge.
var ErrTokenAcquisition = errors.New("unable to authenticate with ERP OAuth2 server")

// UnavailableError covers upstream 5xx responses, timeouts and transport
// failures. It is the only error class eligible for stale-cache fallback.
type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ERP unavailable (%s): %v", e.Path, e.Err)
	}
	return fmt.Sprintf("ERP unavailable (%s)", e.Path)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// ClientError covers upstream 4xx responses. The upstream's message is
// carried verbatim and passed through to the caller; it is never retried
// and never served from the stale cache.
type ClientError struct {
	StatusCode int
	Detail     string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("ERP rejected request (%d): %s", e.StatusCode, e.Detail)
}

// IsUnavailable reports whether err represents a transient upstream outage.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
