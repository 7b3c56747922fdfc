package events

const (
	// KindUserSpeechStarted identifies the start of a user utterance.
	KindUserSpeechStarted Kind = "user_input.speech_started"
	// KindUserSpeechEnded identifies the end of a user utterance.
	KindUserSpeechEnded Kind = "user_input.speech_ended"
	// KindUserAudioLevel identifies a per-frame input level update.
	KindUserAudioLevel Kind = "user_input.audio_level"
	// KindUserAudioCommitted identifies a server-side input buffer commit.
	KindUserAudioCommitted Kind = "user_input.audio_committed"
	// KindUserTranscriptDelta identifies incremental user transcription.
	KindUserTranscriptDelta Kind = "user_input.transcript_delta"
)

// UserSpeechStarted marks the start of speech activity.
type UserSpeechStarted struct{ Base }

// NewUserSpeechStarted creates a user speech started event.
func NewUserSpeechStarted() UserSpeechStarted {
	return UserSpeechStarted{Base: NewBase(KindUserSpeechStarted)}
}

// UserSpeechEnded marks the end of speech activity.
type UserSpeechEnded struct{ Base }

// NewUserSpeechEnded creates a user speech ended event.
func NewUserSpeechEnded() UserSpeechEnded {
	return UserSpeechEnded{Base: NewBase(KindUserSpeechEnded)}
}

// UserAudioLevel carries the normalized input level in [0, 1].
type UserAudioLevel struct {
	Base
	Level float64
}

// NewUserAudioLevel creates an input level event.
func NewUserAudioLevel(level float64) UserAudioLevel {
	return UserAudioLevel{Base: NewBase(KindUserAudioLevel), Level: level}
}

// UserAudioCommitted marks a server-side commit of buffered input audio.
type UserAudioCommitted struct {
	Base
	ItemID string
}

// NewUserAudioCommitted creates an audio committed event.
func NewUserAudioCommitted(itemID string) UserAudioCommitted {
	return UserAudioCommitted{Base: NewBase(KindUserAudioCommitted), ItemID: itemID}
}

// UserTranscriptDelta carries an incremental user transcription segment.
type UserTranscriptDelta struct {
	Base
	Delta string
}

// NewUserTranscriptDelta creates a user transcript delta event.
func NewUserTranscriptDelta(delta string) UserTranscriptDelta {
	return UserTranscriptDelta{Base: NewBase(KindUserTranscriptDelta), Delta: delta}
}
