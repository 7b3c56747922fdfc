package voicesession

import (
	"context"
	"sync"
	"testing"

	"github.com/songbird-voice/songbird-core/core/audio"
	"github.com/songbird-voice/songbird-core/core/realtime"
)

// callRecorder captures the cross-component call order so tests can assert
// sequencing between playback and session operations.
type callRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *callRecorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *callRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type toolOutput struct {
	callID string
	output string
}

type truncateCall struct {
	itemID     string
	audioEndMs int
}

type fakeSession struct {
	mu sync.Mutex

	recorder *callRecorder

	audioChunks     [][]byte
	toolOutputs     []toolOutput
	truncates       []truncateCall
	commits         int
	responses       int
	closes          int
	instructions    []string
	connectAttempts int

	// options captures the wiring handed to Connect so tests can drive the
	// engine through the same callbacks the socket dispatch path uses.
	options realtime.SessionOptions
}

func (s *fakeSession) Connect(_ context.Context, opts ...realtime.SessionOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectAttempts++
	for _, opt := range opts {
		opt(&s.options)
	}
	return nil
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *fakeSession) SendAudioChunk(audio []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audioChunks = append(s.audioChunks, append([]byte(nil), audio...))
	return nil
}

func (s *fakeSession) CommitAudioBuffer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commits++
	return nil
}

func (s *fakeSession) CreateResponse() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses++
	return nil
}

func (s *fakeSession) SendToolOutput(callID, output string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toolOutputs = append(s.toolOutputs, toolOutput{callID: callID, output: output})
	return nil
}

func (s *fakeSession) Truncate(itemID string, audioEndMs int) error {
	s.mu.Lock()
	s.truncates = append(s.truncates, truncateCall{itemID: itemID, audioEndMs: audioEndMs})
	s.mu.Unlock()
	if s.recorder != nil {
		s.recorder.add("truncate")
	}
	return nil
}

func (s *fakeSession) UpdateInstructions(instructions string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instructions = append(s.instructions, instructions)
	return nil
}

func (s *fakeSession) outputsFor(callID string) []toolOutput {
	s.mu.Lock()
	defer s.mu.Unlock()
	outputs := []toolOutput{}
	for _, output := range s.toolOutputs {
		if output.callID == callID {
			outputs = append(outputs, output)
		}
	}
	return outputs
}

type fakeOutput struct {
	mu sync.Mutex

	recorder *callRecorder
	encoding audio.EncodingInfo
	position int

	sent   [][]byte
	clears int
}

func (o *fakeOutput) SendAudio(audio []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, append([]byte(nil), audio...))
	return nil
}

func (o *fakeOutput) ClearBuffer() {
	o.mu.Lock()
	o.clears++
	o.position = 0
	o.mu.Unlock()
	if o.recorder != nil {
		o.recorder.add("clear")
	}
}

func (o *fakeOutput) PlaybackPosition() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.position
}

func (o *fakeOutput) EncodingInfo() audio.EncodingInfo { return o.encoding }

type fakeInput struct {
	encoding audio.EncodingInfo
	onAudio  func(audio []byte)
	starts   int
	stops    int
}

func (i *fakeInput) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	i.onAudio = onAudio
	i.starts++
	return nil
}

func (i *fakeInput) StopCapture() error {
	i.stops++
	return nil
}

func (i *fakeInput) EncodingInfo() audio.EncodingInfo { return i.encoding }

// wireBytes returns durationMs worth of audio at the wire encoding.
func wireBytes(durationMs int) []byte {
	return make([]byte, durationMs*audio.WireSampleRate*2/1000)
}

// loudChunk synthesizes a square wave well above the speech threshold.
func loudChunk(encoding audio.EncodingInfo, durationMs int) []byte {
	sampleCount := encoding.SampleRate * durationMs / 1000
	data := make([]byte, sampleCount*2)
	const amplitude = 8000
	for i := 0; i < sampleCount; i++ {
		value := int16(amplitude)
		if i%2 == 1 {
			value = -amplitude
		}
		data[i*2] = byte(uint16(value))
		data[i*2+1] = byte(uint16(value) >> 8)
	}
	return data
}

func TestBargeInStopsPlaybackBeforeTruncating(t *testing.T) {
	recorder := &callRecorder{}
	session := &fakeSession{recorder: recorder}
	output := &fakeOutput{recorder: recorder, encoding: audio.WireEncoding()}

	engine := NewEngine(WithSession(session), WithAudioOutput(output))
	if err := engine.Start(t.Context()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	engine.handleAudioDelta("item-1", wireBytes(1000))
	output.mu.Lock()
	output.position = 500 * audio.WireSampleRate * 2 / 1000 // 500ms played
	output.mu.Unlock()

	engine.handleRemoteSpeechStarted()

	calls := recorder.snapshot()
	if len(calls) != 2 || calls[0] != "clear" || calls[1] != "truncate" {
		t.Fatalf("expected playback cleared before truncation, got %v", calls)
	}
	if len(session.truncates) != 1 {
		t.Fatalf("expected exactly one truncation, got %d", len(session.truncates))
	}
	if truncated := session.truncates[0]; truncated.itemID != "item-1" || truncated.audioEndMs != 500 {
		t.Fatalf("expected item-1 truncated at 500ms, got %q at %dms", truncated.itemID, truncated.audioEndMs)
	}
}

func TestBargeInHappensAtMostOncePerItem(t *testing.T) {
	session := &fakeSession{}
	output := &fakeOutput{encoding: audio.WireEncoding()}

	engine := NewEngine(WithSession(session), WithAudioOutput(output))
	if err := engine.Start(t.Context()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	engine.handleAudioDelta("item-1", wireBytes(200))
	engine.handleRemoteSpeechStarted()
	engine.handleRemoteSpeechStarted()

	if len(session.truncates) != 1 {
		t.Fatalf("expected exactly one truncation, got %d", len(session.truncates))
	}
	if output.clears != 1 {
		t.Fatalf("expected exactly one buffer clear, got %d", output.clears)
	}
}

func TestBargeInCapsOffsetAtScheduledAudio(t *testing.T) {
	session := &fakeSession{}
	output := &fakeOutput{encoding: audio.WireEncoding()}

	engine := NewEngine(WithSession(session), WithAudioOutput(output))
	if err := engine.Start(t.Context()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	engine.handleAudioDelta("item-1", wireBytes(200))
	output.mu.Lock()
	output.position = 10 * audio.WireSampleRate * 2 // far past the scheduled audio
	output.mu.Unlock()

	engine.handleRemoteSpeechStarted()

	if len(session.truncates) != 1 {
		t.Fatalf("expected exactly one truncation, got %d", len(session.truncates))
	}
	if got := session.truncates[0].audioEndMs; got != 200 {
		t.Fatalf("expected offset capped at 200ms, got %dms", got)
	}
}

func TestResponseDoneRetiresActiveItem(t *testing.T) {
	session := &fakeSession{}
	output := &fakeOutput{encoding: audio.WireEncoding()}

	engine := NewEngine(WithSession(session), WithAudioOutput(output))
	if err := engine.Start(t.Context()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	engine.handleAudioDelta("item-1", wireBytes(200))
	engine.handleResponseDone("resp-1")
	engine.handleRemoteSpeechStarted()

	if len(session.truncates) != 0 {
		t.Fatalf("expected nothing to truncate after the response completed, got %d truncations", len(session.truncates))
	}
}

func TestLocalSpeechStartInterruptsPlayback(t *testing.T) {
	session := &fakeSession{}
	output := &fakeOutput{encoding: audio.WireEncoding()}
	input := &fakeInput{encoding: audio.WireEncoding()}

	speakingStates := []bool{}
	engine := NewEngine(WithSession(session), WithAudioOutput(output), WithAudioInput(input))
	err := engine.Start(t.Context(),
		WithSpeakingStateChangedCallback(func(isSpeaking bool) {
			speakingStates = append(speakingStates, isSpeaking)
		}),
	)
	if err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	engine.handleAudioDelta("item-1", wireBytes(200))
	input.onAudio(loudChunk(input.encoding, 20))

	if len(session.truncates) != 1 {
		t.Fatalf("expected speech start to truncate playback, got %d truncations", len(session.truncates))
	}
	if len(speakingStates) != 1 || !speakingStates[0] {
		t.Fatalf("expected a single speaking=true transition, got %v", speakingStates)
	}
}

func TestCaptureForwardsConvertedAudio(t *testing.T) {
	session := &fakeSession{}
	input := &fakeInput{encoding: audio.EncodingInfo{SampleRate: 48000, Format: audio.EncodingLinear16}}

	levels := []float64{}
	engine := NewEngine(WithSession(session), WithAudioInput(input))
	err := engine.Start(t.Context(), WithAudioLevelCallback(func(level float64) {
		levels = append(levels, level)
	}))
	if err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	input.onAudio(loudChunk(input.encoding, 20))

	if len(session.audioChunks) != 1 {
		t.Fatalf("expected one forwarded chunk, got %d", len(session.audioChunks))
	}
	wantBytes := 20 * audio.WireSampleRate * 2 / 1000
	if got := len(session.audioChunks[0]); got != wantBytes {
		t.Fatalf("expected %d bytes after resampling to the wire rate, got %d", wantBytes, got)
	}
	if len(levels) != 1 || levels[0] <= 0 {
		t.Fatalf("expected a positive level reading, got %v", levels)
	}
}

func TestCaptureGatesNonSpeechFrames(t *testing.T) {
	session := &fakeSession{}
	input := &fakeInput{encoding: audio.WireEncoding()}

	engine := NewEngine(WithSession(session), WithAudioInput(input))
	if err := engine.Start(t.Context()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	input.onAudio(make([]byte, 960)) // silence

	if len(session.audioChunks) != 0 {
		t.Fatalf("expected silence gated before any speech, got %d chunks", len(session.audioChunks))
	}

	input.onAudio(loudChunk(input.encoding, 20))
	if len(session.audioChunks) != 1 {
		t.Fatalf("expected the speech frame forwarded, got %d chunks", len(session.audioChunks))
	}
	// server segments turns, so no local commit happens at utterance end
	if session.commits != 0 {
		t.Fatalf("expected no local commit under server turn detection, got %d", session.commits)
	}
}

func TestLocalTurnDetectionCommitsAtUtteranceEnd(t *testing.T) {
	session := &fakeSession{}
	input := &fakeInput{encoding: audio.WireEncoding()}

	engine := NewEngine(
		WithSession(session),
		WithAudioInput(input),
		WithTurnDetection(realtime.TurnDetectionNone),
		WithDetectorOptions(audio.WithSilenceRun(3)),
	)
	if err := engine.Start(t.Context()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	silence := make([]byte, 960)
	input.onAudio(silence)
	if len(session.audioChunks) != 0 {
		t.Fatalf("expected leading silence to be gated, got %d chunks", len(session.audioChunks))
	}

	input.onAudio(loudChunk(input.encoding, 20))
	for range 3 {
		input.onAudio(silence)
	}

	// speech frame + trailing silence up to the utterance end forward
	if len(session.audioChunks) != 4 {
		t.Fatalf("expected 4 forwarded chunks, got %d", len(session.audioChunks))
	}
	if session.commits != 1 || session.responses != 1 {
		t.Fatalf("expected the utterance end to commit and request a response, got %d commits and %d responses",
			session.commits, session.responses)
	}
}

func TestMuteSuppressesCapture(t *testing.T) {
	session := &fakeSession{}
	input := &fakeInput{encoding: audio.WireEncoding()}

	engine := NewEngine(WithSession(session), WithAudioInput(input))
	if err := engine.Start(t.Context()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	engine.Mute()
	input.onAudio(loudChunk(input.encoding, 20))
	if len(session.audioChunks) != 0 {
		t.Fatalf("expected no forwarding while muted, got %d chunks", len(session.audioChunks))
	}

	engine.Unmute()
	input.onAudio(loudChunk(input.encoding, 20))
	if len(session.audioChunks) != 1 {
		t.Fatalf("expected forwarding to resume after unmute, got %d chunks", len(session.audioChunks))
	}
}

func TestPlaybackConvertsToOutputEncoding(t *testing.T) {
	session := &fakeSession{}
	output := &fakeOutput{encoding: audio.EncodingInfo{SampleRate: 48000, Format: audio.EncodingLinear16}}

	engine := NewEngine(WithSession(session), WithAudioOutput(output))
	if err := engine.Start(t.Context()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	engine.handleAudioDelta("item-1", wireBytes(100))

	if len(output.sent) != 1 {
		t.Fatalf("expected one playback chunk, got %d", len(output.sent))
	}
	wantBytes := 100 * 48000 * 2 / 1000
	if got := len(output.sent[0]); got != wantBytes {
		t.Fatalf("expected %d bytes after resampling to the device rate, got %d", wantBytes, got)
	}
}

func TestCommitAndRespond(t *testing.T) {
	session := &fakeSession{}
	engine := NewEngine(WithSession(session))
	if err := engine.Start(t.Context()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	if err := engine.CommitAndRespond(); err != nil {
		t.Fatalf("expected commit to succeed, got %v", err)
	}
	if session.commits != 1 || session.responses != 1 {
		t.Fatalf("expected one commit and one response request, got %d and %d", session.commits, session.responses)
	}
}

func TestUpdateInstructionsForwardsToSession(t *testing.T) {
	session := &fakeSession{}
	engine := NewEngine(WithSession(session))
	if err := engine.Start(t.Context()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	if err := engine.UpdateInstructions("be terse"); err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}
	if len(session.instructions) != 1 || session.instructions[0] != "be terse" {
		t.Fatalf("expected instructions forwarded, got %v", session.instructions)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	session := &fakeSession{}
	input := &fakeInput{encoding: audio.WireEncoding()}

	engine := NewEngine(WithSession(session), WithAudioInput(input))
	if err := engine.Start(t.Context()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	engine.Close()
	engine.Close()

	if session.closes != 1 {
		t.Fatalf("expected the session closed exactly once, got %d", session.closes)
	}
	if input.stops != 1 {
		t.Fatalf("expected capture stopped exactly once, got %d", input.stops)
	}
}
