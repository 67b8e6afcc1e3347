// SPDX-License-Identifier: MIT
package transport

import (
	"visualizer/internal/log"
	"visualizer/internal/render"
)

// LoggingTransport implements the Transport interface by logging data at
// DEBUG level.
type LoggingTransport struct {
	log *log.Logger
}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	lt := &LoggingTransport{log: log.Named("transport")}
	lt.log.Infof("using logging transport")
	return lt
}

// Send logs a one-line summary of frames and the raw value of anything else.
func (lt *LoggingTransport) Send(data any) error {
	if log.GetLevel() > log.LevelDebug {
		return nil
	}

	switch v := data.(type) {
	case render.Frame:
		lt.log.Debugf("frame %d: %s objects=%d", v.Seq, v.Bands, len(v.Objects))
	default:
		lt.log.Debugf("received (%T): %+v", data, data)
	}
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	lt.log.Debugf("close called")
	return nil
}

// Ensure LoggingTransport satisfies the interface at compile time.
var _ Transport = (*LoggingTransport)(nil)
