package ws

import "time"

// Config holds websocket transport settings
type Config struct {
	ReadBufferSize  int
	WriteBufferSize int

	// SendBufferSize is the number of outbound messages queued per client before new ones are dropped
	SendBufferSize int

	// MaxMessageSize bounds inbound frames. A JOIN_GAME carries a full grid, so this is generous.
	MaxMessageSize int64

	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration

	// AllowedOrigin restricts browser upgrades to one origin. Empty allows any.
	AllowedOrigin string
}

// DefaultConfig returns default transport configuration
func DefaultConfig() Config {
	return Config{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		SendBufferSize:  64,
		MaxMessageSize:  64 * 1024,
		WriteWait:       10 * time.Second,
		PongWait:        60 * time.Second,
		PingPeriod:      50 * time.Second,
	}
}
