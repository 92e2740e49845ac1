// Package delivery defines the contract every transport-facing server
// implements, so cmd can start them uniformly.
package delivery

import "context"

// Delivery is a long-running server (HTTP, worker, ...) started by main.
type Delivery interface {
	Serve(ctx context.Context) error
}
