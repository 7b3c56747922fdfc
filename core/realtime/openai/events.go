package openai

import (
	"github.com/songbird-voice/songbird-core/core/audio"
	"github.com/songbird-voice/songbird-core/core/tools"
)

// wireSampleRate is fixed by the protocol for both directions.
const wireSampleRate = audio.WireSampleRate

// Outbound messages. Every message carries a client-generated event id so
// server-side errors can be correlated with the message that caused them.

type sessionUpdateMessage struct {
	EventID string        `json:"event_id,omitempty"`
	Type    string        `json:"type"`
	Session sessionConfig `json:"session"`
}

type sessionConfig struct {
	Instructions  string               `json:"instructions,omitempty"`
	Voice         string               `json:"voice,omitempty"`
	Audio         *sessionAudioConfig  `json:"audio,omitempty"`
	TurnDetection *turnDetectionConfig `json:"turn_detection"`
	Tools         []tools.Definition   `json:"tools,omitempty"`
	ToolChoice    string               `json:"tool_choice,omitempty"`
}

type sessionAudioConfig struct {
	Input  audioStreamConfig `json:"input"`
	Output audioStreamConfig `json:"output"`
}

type audioStreamConfig struct {
	Format        audioFormatConfig    `json:"format"`
	Transcription *transcriptionConfig `json:"transcription,omitempty"`
}

type transcriptionConfig struct {
	Model string `json:"model"`
}

type audioFormatConfig struct {
	Type string `json:"type"`
	Rate int    `json:"rate"`
}

type turnDetectionConfig struct {
	Type string `json:"type"`
}

type inputAudioBufferAppendMessage struct {
	EventID string `json:"event_id,omitempty"`
	Type    string `json:"type"`
	Audio   string `json:"audio"`
}

type inputAudioBufferCommitMessage struct {
	EventID string `json:"event_id,omitempty"`
	Type    string `json:"type"`
}

type responseCreateMessage struct {
	EventID string `json:"event_id,omitempty"`
	Type    string `json:"type"`
}

type conversationItemCreateMessage struct {
	EventID string           `json:"event_id,omitempty"`
	Type    string           `json:"type"`
	Item    conversationItem `json:"item"`
}

type conversationItem struct {
	Type   string `json:"type"`
	CallID string `json:"call_id,omitempty"`
	Output string `json:"output,omitempty"`
}

type conversationItemTruncateMessage struct {
	EventID      string `json:"event_id,omitempty"`
	Type         string `json:"type"`
	ItemID       string `json:"item_id"`
	ContentIndex int    `json:"content_index"`
	AudioEndMs   int    `json:"audio_end_ms"`
}

// Inbound messages. The envelope is parsed first to pick the concrete shape.

type envelope struct {
	Type string `json:"type"`
}

type audioCommittedMessage struct {
	ItemID string `json:"item_id"`
}

type responseLifecycleMessage struct {
	Response struct {
		ID string `json:"id"`
	} `json:"response"`
}

type audioDeltaMessage struct {
	ItemID string `json:"item_id"`
	Delta  string `json:"delta"`
}

type transcriptDeltaMessage struct {
	ItemID string `json:"item_id"`
	Delta  string `json:"delta"`
}

type functionCallArgumentsDoneMessage struct {
	CallID    string `json:"call_id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type errorMessage struct {
	Text  string `json:"text"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (m errorMessage) message() string {
	if m.Error.Message != "" {
		return m.Error.Message
	}
	return m.Text
}
