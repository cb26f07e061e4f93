// Package delivery defines the contract shared by the service's inbound transports.
package delivery

import "context"

// Delivery is a transport that blocks serving requests until it is stopped.
type Delivery interface {
	Serve(ctx context.Context) error
}
