// SPDX-License-Identifier: MIT

// Package transport publishes frames outside the process.
package transport

// Transport defines a generic interface for sending processed data or events.
// Implementations should be thread-safe and must not block the frame loop.
type Transport interface {
	Send(data any) error
	Close() error
}

// Starter is implemented by transports that need to bind before the frame
// loop begins.
type Starter interface {
	Start() error
}
