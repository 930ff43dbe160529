package camera

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

var (
	// ErrUnauthenticated is returned before any request when no API key is set.
	ErrUnauthenticated = errors.New("api key not set; register first")

	// ErrUnreachable wraps DNS and connection failures.
	ErrUnreachable = errors.New("cannot connect to camera server; check your internet connection")

	// ErrNoImageURL is returned when an image URL response carries no URL.
	ErrNoImageURL = errors.New("no image URL found in response")
)

// HTTPError reports a non-2xx reply from the JSON-RPC endpoint.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// RPCError is an application error reported by the service in the
// JSON-RPC error member.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return e.Message
}

// DownloadError reports a non-2xx reply when fetching an image.
type DownloadError struct {
	StatusCode int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download image: %d", e.StatusCode)
}

// normalizeTransportError maps DNS and connection failures to ErrUnreachable
// and leaves other errors wrapped as-is.
func normalizeTransportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("execute request: %w", ctxErr)
	}
	if isUnreachable(err) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return fmt.Errorf("execute request: %w", err)
}

func isUnreachable(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return false
}
