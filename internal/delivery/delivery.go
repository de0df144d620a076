// Package delivery defines the contract every server entrypoint satisfies.
package delivery

import (
	"context"
	"time"
)

// DefaultTimeout bounds graceful shutdown of a delivery.
const DefaultTimeout = 10 * time.Second

// Delivery is a long-running server started by the application entrypoint.
type Delivery interface {
	Serve(ctx context.Context) error
}
