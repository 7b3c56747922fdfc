package openai

import "errors"

var (
	// ErrNotConnected is returned when a send method is called outside the
	// active phase. This is a programming error on the caller's side, not a
	// recoverable transport failure.
	ErrNotConnected = errors.New("realtime session not active")

	// ErrConnectionTimeout is returned when the session does not become
	// active within the configured connect timeout.
	ErrConnectionTimeout = errors.New("realtime connection timed out")

	// ErrAuthRequired is returned when the ephemeral credential could not be
	// acquired before the socket connect was attempted.
	ErrAuthRequired = errors.New("failed to acquire realtime credential")

	// ErrProtocolDecode reports a malformed or undecodable frame. The frame
	// is dropped and surfaced via the error callback; the socket stays up.
	ErrProtocolDecode = errors.New("failed to decode realtime message")
)
