// Package stream pushes detected value plays to WebSocket subscribers. A
// single Hub goroutine owns the client set; the watcher and the HTTP layer
// publish plays into it and never touch sockets directly.
package stream

import "time"

// Message types for WebSocket communication
const (
	MessageTypePlayAlert   = "play_alert"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeHeartbeat   = "heartbeat"
	MessageTypeError       = "error"
)

// ClientMessage is a message from client to server
type ClientMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ServerMessage is a message from server to client
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// SubscriptionFilter narrows which play alerts a client receives. Empty
// fields match everything.
type SubscriptionFilter struct {
	Sports  []string `json:"sports,omitempty"`
	Markets []string `json:"markets,omitempty"`
	Books   []string `json:"books,omitempty"`
}

// ConnectionStats is the heartbeat payload.
type ConnectionStats struct {
	ClientID    string    `json:"client_id"`
	ConnectedAt time.Time `json:"connected_at"`
	AlertsSent  int64     `json:"alerts_sent"`
	BufferSize  int       `json:"buffer_size"`
	BufferInUse int       `json:"buffer_in_use"`
}

// ErrorMessage is sent to a client on a malformed request
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
