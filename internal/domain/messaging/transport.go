// internal/domain/messaging/transport.go
package messaging

import (
	"context"
	"fmt"
)

// Transport sends one text message to one recipient on the external
// messaging platform. Implementations decide their own wire protocol;
// the dispatch engine only cares whether the send succeeded.
// Send must honor ctx cancellation and be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, recipientID string, text string) error
}

// TransportError is a send failure reported by the platform itself, as
// opposed to a local network or timeout error.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("transport: platform returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("transport: platform returned status %d: %s", e.StatusCode, e.Body)
}
