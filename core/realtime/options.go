// Package realtime defines the client-facing contract for realtime voice
// session implementations: session phases, configuration options, and the
// typed callback surface raised from the wire protocol.
package realtime

import (
	"time"

	"github.com/songbird-voice/songbird-core/core/tools"
)

// Phase is the lifecycle state of a realtime session. It is the single
// source of truth for whether audio and tool traffic may flow.
type Phase string

const (
	PhaseDisconnected Phase = "disconnected"
	PhaseConnecting   Phase = "connecting"
	PhaseConfiguring  Phase = "configuring"
	PhaseActive       Phase = "active"
	PhaseError        Phase = "error"
)

// TurnDetection selects who decides when the user's turn ends.
type TurnDetection string

const (
	// TurnDetectionServerVAD lets the server segment turns from the audio
	// stream.
	TurnDetectionServerVAD TurnDetection = "server_vad"
	// TurnDetectionNone disables server segmentation; the caller commits the
	// buffer and requests responses explicitly (push-to-talk).
	TurnDetectionNone TurnDetection = "none"
)

// DefaultConnectTimeout bounds the wait for the session to become active.
// It is the model for all network waits in the engine: never block
// indefinitely.
const DefaultConnectTimeout = 10 * time.Second

type SessionOptions struct {
	Instructions   string
	Voice          string
	TurnDetection  TurnDetection
	Tools          []tools.Definition
	ConnectTimeout time.Duration

	ConnectedCallback             func()
	DisconnectedCallback          func(err error)
	SpeechStartedCallback         func()
	SpeechStoppedCallback         func()
	AudioCommittedCallback        func(itemID string)
	ResponseCreatedCallback       func(responseID string)
	AudioDeltaCallback            func(itemID string, audio []byte)
	ResponseDoneCallback          func(responseID string)
	InputTranscriptDeltaCallback  func(delta string)
	OutputTranscriptDeltaCallback func(itemID, delta string)
	FunctionCallCallback          func(callID, name, arguments string)
	ErrorCallback                 func(err error)
}

type SessionOption func(*SessionOptions)

func WithInstructions(instructions string) SessionOption {
	return func(o *SessionOptions) {
		o.Instructions = instructions
	}
}

func WithVoice(voice string) SessionOption {
	return func(o *SessionOptions) {
		o.Voice = voice
	}
}

func WithTurnDetection(mode TurnDetection) SessionOption {
	return func(o *SessionOptions) {
		o.TurnDetection = mode
	}
}

func WithTools(definitions []tools.Definition) SessionOption {
	return func(o *SessionOptions) {
		o.Tools = definitions
	}
}

func WithConnectTimeout(timeout time.Duration) SessionOption {
	return func(o *SessionOptions) {
		if timeout > 0 {
			o.ConnectTimeout = timeout
		}
	}
}

func WithConnectedCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.ConnectedCallback = callback
	}
}

func WithDisconnectedCallback(callback func(err error)) SessionOption {
	return func(o *SessionOptions) {
		o.DisconnectedCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithSpeechStoppedCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.SpeechStoppedCallback = callback
	}
}

func WithAudioCommittedCallback(callback func(itemID string)) SessionOption {
	return func(o *SessionOptions) {
		o.AudioCommittedCallback = callback
	}
}

func WithResponseCreatedCallback(callback func(responseID string)) SessionOption {
	return func(o *SessionOptions) {
		o.ResponseCreatedCallback = callback
	}
}

func WithAudioDeltaCallback(callback func(itemID string, audio []byte)) SessionOption {
	return func(o *SessionOptions) {
		o.AudioDeltaCallback = callback
	}
}

func WithResponseDoneCallback(callback func(responseID string)) SessionOption {
	return func(o *SessionOptions) {
		o.ResponseDoneCallback = callback
	}
}

func WithInputTranscriptDeltaCallback(callback func(delta string)) SessionOption {
	return func(o *SessionOptions) {
		o.InputTranscriptDeltaCallback = callback
	}
}

func WithOutputTranscriptDeltaCallback(callback func(itemID, delta string)) SessionOption {
	return func(o *SessionOptions) {
		o.OutputTranscriptDeltaCallback = callback
	}
}

func WithFunctionCallCallback(callback func(callID, name, arguments string)) SessionOption {
	return func(o *SessionOptions) {
		o.FunctionCallCallback = callback
	}
}

func WithErrorCallback(callback func(err error)) SessionOption {
	return func(o *SessionOptions) {
		o.ErrorCallback = callback
	}
}
