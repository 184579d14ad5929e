// Package queue defines message payloads exchanged over the message broker
// and the background consumer that delivers them.
package queue

// PushBroadcastEvent is published when a client asks the relay to notify all
// registered devices.  The consumer forwards it to the push provider without
// touching the primary database.
type PushBroadcastEvent struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	RequestedAt string `json:"requested_at"` // RFC 3339 UTC
}
