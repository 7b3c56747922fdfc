package events

const (
	// KindAssistantResponseStarted identifies response creation.
	KindAssistantResponseStarted Kind = "assistant.response_started"
	// KindAssistantAudioFrame identifies a synthesized audio chunk.
	KindAssistantAudioFrame Kind = "assistant.audio_frame"
	// KindAssistantTranscriptDelta identifies incremental assistant transcript.
	KindAssistantTranscriptDelta Kind = "assistant.transcript_delta"
	// KindAssistantResponseDone identifies response completion.
	KindAssistantResponseDone Kind = "assistant.response_done"
	// KindAssistantPlaybackTruncated identifies a barge-in truncation.
	KindAssistantPlaybackTruncated Kind = "assistant.playback_truncated"
)

// AssistantResponseStarted marks the model beginning a response.
type AssistantResponseStarted struct {
	Base
	ResponseID string
}

// NewAssistantResponseStarted creates a response started event.
func NewAssistantResponseStarted(responseID string) AssistantResponseStarted {
	return AssistantResponseStarted{Base: NewBase(KindAssistantResponseStarted), ResponseID: responseID}
}

// AssistantAudioFrame carries a synthesized audio chunk scheduled for
// playback. The slice is passed through as-is.
type AssistantAudioFrame struct {
	Base
	ItemID string
	Audio  []byte
}

// NewAssistantAudioFrame creates an assistant audio frame event.
func NewAssistantAudioFrame(itemID string, audio []byte) AssistantAudioFrame {
	return AssistantAudioFrame{Base: NewBase(KindAssistantAudioFrame), ItemID: itemID, Audio: audio}
}

// AssistantTranscriptDelta carries an incremental synthesized-speech
// transcript segment.
type AssistantTranscriptDelta struct {
	Base
	ItemID string
	Delta  string
}

// NewAssistantTranscriptDelta creates an assistant transcript delta event.
func NewAssistantTranscriptDelta(itemID, delta string) AssistantTranscriptDelta {
	return AssistantTranscriptDelta{Base: NewBase(KindAssistantTranscriptDelta), ItemID: itemID, Delta: delta}
}

// AssistantResponseDone marks response completion.
type AssistantResponseDone struct {
	Base
	ResponseID string
}

// NewAssistantResponseDone creates a response done event.
func NewAssistantResponseDone(responseID string) AssistantResponseDone {
	return AssistantResponseDone{Base: NewBase(KindAssistantResponseDone), ResponseID: responseID}
}

// AssistantPlaybackTruncated marks a barge-in cutting playback.
type AssistantPlaybackTruncated struct {
	Base
	ItemID     string
	AudioEndMs int
}

// NewAssistantPlaybackTruncated creates a playback truncated event.
func NewAssistantPlaybackTruncated(itemID string, audioEndMs int) AssistantPlaybackTruncated {
	return AssistantPlaybackTruncated{Base: NewBase(KindAssistantPlaybackTruncated), ItemID: itemID, AudioEndMs: audioEndMs}
}
