package voicesession

import (
	"context"
	"time"

	"github.com/songbird-voice/songbird-core/core/audio"
	"github.com/songbird-voice/songbird-core/core/realtime"
	"github.com/songbird-voice/songbird-core/core/tools"
)

// Session is the realtime transport the engine drives. The openai package
// provides the production implementation.
type Session interface {
	Connect(ctx context.Context, opts ...realtime.SessionOption) error
	Close() error
	SendAudioChunk(audio []byte) error
	CommitAudioBuffer() error
	CreateResponse() error
	SendToolOutput(callID, output string) error
	Truncate(itemID string, audioEndMs int) error
	UpdateInstructions(instructions string) error
}

// AudioInput captures microphone audio in the device's native encoding.
type AudioInput interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
	EncodingInfo() audio.EncodingInfo
}

// AudioOutput plays assistant audio. PlaybackPosition reports bytes the
// device has consumed since the last ClearBuffer so truncation offsets can
// reflect what the user actually heard.
type AudioOutput interface {
	SendAudio(audio []byte) error
	ClearBuffer()
	PlaybackPosition() int
	EncodingInfo() audio.EncodingInfo
}

// Executor runs approved actions against the outside world. It is the
// engine's only effector; the engine decides when an action may run, the
// executor decides what running it means.
type Executor interface {
	Execute(ctx context.Context, name string, arguments string) (string, error)
}

type EngineOption func(*Engine)

func WithSession(client Session) EngineOption {
	return func(e *Engine) { e.session.set(client) }
}

func WithAudioInput(client AudioInput) EngineOption {
	return func(e *Engine) { e.input.Set(client) }
}

func WithAudioOutput(client AudioOutput) EngineOption {
	return func(e *Engine) { e.output.Set(client) }
}

func WithActions(registry *tools.Registry) EngineOption {
	return func(e *Engine) { e.registry = registry }
}

func WithExecutor(executor Executor) EngineOption {
	return func(e *Engine) { e.executor = executor }
}

func WithInstructions(instructions string) EngineOption {
	return func(e *Engine) { e.instructions = instructions }
}

func WithVoice(voice string) EngineOption {
	return func(e *Engine) { e.voice = voice }
}

// WithTurnDetection selects who ends the user's turn. With
// [realtime.TurnDetectionNone] the local detector gates forwarding and
// commits turns; otherwise the server segments turns and the detector only
// drives levels and barge-in.
func WithTurnDetection(mode realtime.TurnDetection) EngineOption {
	return func(e *Engine) { e.turnDetection = mode }
}

func WithConnectTimeout(timeout time.Duration) EngineOption {
	return func(e *Engine) { e.connectTimeout = timeout }
}

func WithDetectorOptions(opts ...audio.DetectorOption) EngineOption {
	return func(e *Engine) { e.detector = audio.NewDetector(opts...) }
}

type StartOptions struct {
	onConnected            func()
	onDisconnected         func(err error)
	onSessionError         func(message string)
	onSpeakingStateChanged func(isSpeaking bool)
	onAudioLevel           func(level float64)
	onTranscription        func(delta string)
	onResponse             func(delta string)
	onResponseEnd          func()
	onAudio                func(audio []byte)
	onPlaybackTruncated    func(itemID string)
	onConfirmationRequired func(callID, name, preview string)
	onActionExecuted       func(name, output string)
	onActionFailed         func(name, reason string)
	onActionDenied         func(name string)
}

type StartOption func(*StartOptions)

func WithConnectedCallback(callback func()) StartOption {
	return func(o *StartOptions) { o.onConnected = callback }
}

func WithDisconnectedCallback(callback func(err error)) StartOption {
	return func(o *StartOptions) { o.onDisconnected = callback }
}

func WithSessionErrorCallback(callback func(message string)) StartOption {
	return func(o *StartOptions) { o.onSessionError = callback }
}

// WithSpeakingStateChangedCallback registers a callback for local
// voice-activity transitions.
func WithSpeakingStateChangedCallback(callback func(isSpeaking bool)) StartOption {
	return func(o *StartOptions) { o.onSpeakingStateChanged = callback }
}

// WithAudioLevelCallback registers a callback for per-frame input levels,
// normalized to [0, 1] for level meters.
func WithAudioLevelCallback(callback func(level float64)) StartOption {
	return func(o *StartOptions) { o.onAudioLevel = callback }
}

// WithTranscriptionCallback registers a callback for user speech transcript
// deltas as the server produces them.
func WithTranscriptionCallback(callback func(delta string)) StartOption {
	return func(o *StartOptions) { o.onTranscription = callback }
}

// WithResponseCallback registers a callback for assistant transcript deltas.
func WithResponseCallback(callback func(delta string)) StartOption {
	return func(o *StartOptions) { o.onResponse = callback }
}

func WithResponseEndCallback(callback func()) StartOption {
	return func(o *StartOptions) { o.onResponseEnd = callback }
}

// WithAudioCallback registers a callback for assistant audio after
// conversion to the output device's encoding. The slice is passed through
// as-is; the callback runs inline on the playback path and should not block.
func WithAudioCallback(callback func(audio []byte)) StartOption {
	return func(o *StartOptions) { o.onAudio = callback }
}

func WithPlaybackTruncatedCallback(callback func(itemID string)) StartOption {
	return func(o *StartOptions) { o.onPlaybackTruncated = callback }
}

// WithConfirmationCallback registers a callback raised when a gated action
// needs user approval. The preview is human-readable text describing what
// would happen; respond with [Engine.Confirm] or [Engine.Cancel].
func WithConfirmationCallback(callback func(callID, name, preview string)) StartOption {
	return func(o *StartOptions) { o.onConfirmationRequired = callback }
}

func WithActionExecutedCallback(callback func(name, output string)) StartOption {
	return func(o *StartOptions) { o.onActionExecuted = callback }
}

func WithActionFailedCallback(callback func(name, reason string)) StartOption {
	return func(o *StartOptions) { o.onActionFailed = callback }
}

func WithActionDeniedCallback(callback func(name string)) StartOption {
	return func(o *StartOptions) { o.onActionDenied = callback }
}
