// Package voicesession wires audio devices, a realtime session, and a gated
// action executor into one speech-to-speech engine.
//
// The engine owns the full loop: captured audio is converted to the wire
// format, run through local voice activity detection, and forwarded to the
// session; assistant audio comes back, is converted to the output device's
// encoding, and played; function calls from the model pass through a
// confirmation gate before anything irreversible runs. When the user starts
// speaking over the assistant, local playback stops first and the remote
// item is truncated to what was actually heard.
package voicesession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/songbird-voice/songbird-core/core/audio"
	"github.com/songbird-voice/songbird-core/core/events"
	"github.com/songbird-voice/songbird-core/core/realtime"
	"github.com/songbird-voice/songbird-core/core/tools"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type Engine struct {
	closeOnce sync.Once
	// actionWG tracks executor runs dispatched off the socket read loop.
	actionWG sync.WaitGroup

	// session is the transport facade used to normalize optional wiring.
	session *session
	// input is the capture facade used to normalize capture behavior.
	input *audioInput
	// output is the playback facade used to normalize playback behavior.
	output *audioOutput

	registry *tools.Registry
	executor Executor

	instructions   string
	voice          string
	turnDetection  realtime.TurnDetection
	connectTimeout time.Duration

	droppedFrames metric.Int64Counter
	gateOutcomes  metric.Int64Counter

	// mu is the engine's single serialization point. Hardware and socket
	// callbacks funnel into it before touching detector, playback, or
	// confirmation state.
	mu          sync.Mutex
	detector    *audio.Detector
	activeItem  *activeResponseItem
	pending     *pendingConfirmation
	emitEvent   eventEmitter
	baseContext context.Context
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		turnDetection: realtime.TurnDetectionServerVAD,
		detector:      audio.NewDetector(),
		registry:      tools.NewRegistry(),
		emitEvent:     noopEventEmitter,
		baseContext:   context.Background(),
	}
	e.session = newSession(nil)
	e.output = newAudioOutput(nil)
	e.input = newAudioInput(nil, e.handleCapturedAudio)

	e.droppedFrames, _ = meter.Int64Counter("voicesession.audio.dropped_frames")
	e.gateOutcomes, _ = meter.Int64Counter("voicesession.actions.gate_outcomes")

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Start connects the realtime session and starts audio capture. It returns
// once the session is active; events flow through the registered callbacks
// until the context is cancelled or Close is called.
//
// Contract: call Start at most once per engine instance.
func (e *Engine) Start(ctx context.Context, opts ...StartOption) error {
	startOptions := StartOptions{}
	for _, opt := range opts {
		opt(&startOptions)
	}

	e.mu.Lock()
	e.baseContext = ctx
	e.emitEvent = newCallbackEventEmitter(startOptions)
	e.mu.Unlock()

	definitions, err := e.registry.Definitions()
	if err != nil {
		return fmt.Errorf("failed to build tool definitions: %w", err)
	}

	sessionOptions := []realtime.SessionOption{
		realtime.WithInstructions(e.instructions),
		realtime.WithVoice(e.voice),
		realtime.WithTurnDetection(e.turnDetection),
		realtime.WithTools(definitions),
		realtime.WithConnectedCallback(func() { e.emit(events.NewSessionConnected()) }),
		realtime.WithDisconnectedCallback(func(err error) { e.emit(events.NewSessionDisconnected(err)) }),
		realtime.WithSpeechStartedCallback(e.handleRemoteSpeechStarted),
		realtime.WithAudioCommittedCallback(func(itemID string) { e.emit(events.NewUserAudioCommitted(itemID)) }),
		realtime.WithResponseCreatedCallback(func(responseID string) { e.emit(events.NewAssistantResponseStarted(responseID)) }),
		realtime.WithAudioDeltaCallback(e.handleAudioDelta),
		realtime.WithResponseDoneCallback(e.handleResponseDone),
		realtime.WithInputTranscriptDeltaCallback(func(delta string) { e.emit(events.NewUserTranscriptDelta(delta)) }),
		realtime.WithOutputTranscriptDeltaCallback(func(itemID, delta string) {
			e.emit(events.NewAssistantTranscriptDelta(itemID, delta))
		}),
		realtime.WithFunctionCallCallback(e.handleFunctionCall),
		realtime.WithErrorCallback(func(err error) { e.emit(events.NewSessionError(err.Error())) }),
	}
	if e.connectTimeout > 0 {
		sessionOptions = append(sessionOptions, realtime.WithConnectTimeout(e.connectTimeout))
	}

	if err := e.session.Connect(ctx, sessionOptions...); err != nil {
		return fmt.Errorf("failed to connect realtime session: %w", err)
	}

	if err := e.input.Start(ctx); err != nil {
		recordedErr := fmt.Errorf("failed to start audio capture: %w", err)
		span := trace.SpanFromContext(ctx)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return recordedErr
	}

	go func() {
		<-ctx.Done()
		e.Close()
	}()

	return nil
}

func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		if err := e.input.Stop(); err != nil {
			recordedErr := fmt.Errorf("failed to stop audio capture: %w", err)
			span := trace.SpanFromContext(e.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		e.output.Clear()

		if err := e.session.Close(); err != nil {
			recordedErr := fmt.Errorf("failed to close realtime session: %w", err)
			span := trace.SpanFromContext(e.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}
	})
}

// Mute suppresses capture forwarding without stopping the device. An
// in-progress utterance is ended immediately so the detector does not carry
// speaking state across the gap.
func (e *Engine) Mute() {
	e.input.Mute()

	e.mu.Lock()
	wasSpeaking := e.detector.Speaking()
	e.detector.Reset()
	e.mu.Unlock()

	if wasSpeaking {
		e.emit(events.NewUserSpeechEnded())
	}
}

func (e *Engine) Unmute()       { e.input.Unmute() }
func (e *Engine) IsMuted() bool { return e.input.IsMuted() }

// CommitAndRespond ends the user's turn manually: commit the input buffer
// and request a response. Intended for push-to-talk setups running with
// [realtime.TurnDetectionNone].
func (e *Engine) CommitAndRespond() error {
	if err := e.session.CommitAudioBuffer(); err != nil {
		return fmt.Errorf("failed to commit audio buffer: %w", err)
	}
	if err := e.session.CreateResponse(); err != nil {
		return fmt.Errorf("failed to request response: %w", err)
	}
	return nil
}

// UpdateInstructions reconfigures the live session's instructions without
// tearing it down.
func (e *Engine) UpdateInstructions(instructions string) error {
	e.mu.Lock()
	e.instructions = instructions
	e.mu.Unlock()

	return e.session.UpdateInstructions(instructions)
}

func (e *Engine) emit(event events.Event) {
	e.mu.Lock()
	emitEvent := e.emitEvent
	e.mu.Unlock()

	emitEvent(event)
}

// handleCapturedAudio is the capture path: convert to the wire format, run
// voice activity detection, and forward. It runs inline on the device
// callback.
func (e *Engine) handleCapturedAudio(data []byte) {
	wire, err := audio.ToWireFormat(audio.NewFrame(data, e.input.EncodingInfo()))
	if err != nil {
		e.mu.Lock()
		ctx := e.baseContext
		e.mu.Unlock()
		e.droppedFrames.Add(ctx, 1)
		logger.Warn("dropping unconvertible capture frame", "error", err)
		return
	}

	e.mu.Lock()
	level := e.detector.Process(wire)
	var truncated *truncation
	if level.Transition == audio.TransitionSpeechStarted {
		truncated = e.interruptPlaybackLocked()
	}
	e.mu.Unlock()

	e.emit(events.NewUserAudioLevel(level.Normalized))
	switch level.Transition {
	case audio.TransitionSpeechStarted:
		e.emit(events.NewUserSpeechStarted())
	case audio.TransitionSpeechEnded:
		e.emit(events.NewUserSpeechEnded())
	}
	if truncated != nil {
		e.emit(events.NewAssistantPlaybackTruncated(truncated.itemID, truncated.audioEndMs))
	}

	// Only speech forwards; the detector stays in the speaking state through
	// the silence run, so an utterance forwards from its first loud frame
	// through its trailing silence.
	if level.Speaking || level.Transition == audio.TransitionSpeechEnded {
		if err := e.session.SendAudioChunk(wire.Data()); err != nil {
			logger.Warn("failed to forward capture frame", "error", err)
		}
	}

	// Without server-side turn detection the utterance end closes the turn.
	if e.turnDetection == realtime.TurnDetectionNone && level.Transition == audio.TransitionSpeechEnded {
		if err := e.CommitAndRespond(); err != nil {
			logger.Warn("failed to close user turn", "error", err)
		}
	}
}

// handleAudioDelta is the playback path: track the active item, convert to
// the output device's encoding, and play.
func (e *Engine) handleAudioDelta(itemID string, data []byte) {
	frame := audio.NewFrame(data, audio.WireEncoding())

	e.mu.Lock()
	if e.activeItem == nil || e.activeItem.id != itemID {
		e.activeItem = &activeResponseItem{id: itemID, startedAt: time.Now()}
	}
	e.activeItem.scheduled += frame.Duration()
	target := e.output.EncodingInfo()
	ctx := e.baseContext
	e.mu.Unlock()

	playable, err := audio.ToPlaybackFormat(frame, target)
	if err != nil {
		e.droppedFrames.Add(ctx, 1)
		logger.Warn("dropping unconvertible assistant frame", "error", err)
		return
	}

	if err := e.output.SendAudio(playable.Data()); err != nil {
		logger.Warn("failed to forward assistant audio", "error", err)
	}
	e.emit(events.NewAssistantAudioFrame(itemID, playable.Data()))
}

// handleResponseDone retires the active item: once the response is complete
// there is nothing left to truncate.
func (e *Engine) handleResponseDone(responseID string) {
	e.mu.Lock()
	e.activeItem = nil
	e.mu.Unlock()

	e.emit(events.NewAssistantResponseDone(responseID))
}

// handleRemoteSpeechStarted reacts to the server's own voice activity
// detection; it interrupts playback the same way a local transition does.
func (e *Engine) handleRemoteSpeechStarted() {
	e.mu.Lock()
	truncated := e.interruptPlaybackLocked()
	e.mu.Unlock()

	if truncated != nil {
		e.emit(events.NewAssistantPlaybackTruncated(truncated.itemID, truncated.audioEndMs))
	}
}

type truncation struct {
	itemID     string
	audioEndMs int
}

// interruptPlaybackLocked stops local playback and truncates the remote
// item to the elapsed playback time. Local playback stops before the remote
// truncate so the user never hears audio past the truncation point. At most
// one truncation happens per item.
func (e *Engine) interruptPlaybackLocked() *truncation {
	item := e.activeItem
	if item == nil {
		return nil
	}
	e.activeItem = nil

	_, span := tracer.Start(e.baseContext, "interrupt assistant playback")
	defer span.End()

	played, ok := e.output.PlayedDuration()
	if !ok {
		played = time.Since(item.startedAt)
	}
	if played > item.scheduled {
		played = item.scheduled
	}

	truncated := &truncation{itemID: item.id, audioEndMs: int(played.Milliseconds())}

	e.output.Clear()
	if err := e.session.Truncate(truncated.itemID, truncated.audioEndMs); err != nil {
		recordedErr := fmt.Errorf("failed to truncate assistant item: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
	}

	return truncated
}
