package openai

import (
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/songbird-voice/songbird-core/core/realtime"
	"github.com/songbird-voice/songbird-core/internal/utils"
)

// SendAudioChunk appends wire-format PCM16 audio to the server-side input
// buffer.
func (c *Client) SendAudioChunk(audio []byte) error {
	if err := c.requireActive(); err != nil {
		return err
	}

	return c.sendMessage(inputAudioBufferAppendMessage{
		EventID: uuid.NewString(),
		Type:    "input_audio_buffer.append",
		Audio:   base64.StdEncoding.EncodeToString(audio),
	})
}

// CommitAudioBuffer closes out the current input buffer as one user turn.
// Only needed with manual turn detection.
func (c *Client) CommitAudioBuffer() error {
	if err := c.requireActive(); err != nil {
		return err
	}

	return c.sendMessage(inputAudioBufferCommitMessage{
		EventID: uuid.NewString(),
		Type:    "input_audio_buffer.commit",
	})
}

// CreateResponse asks the model to respond to the committed input.
func (c *Client) CreateResponse() error {
	if err := c.requireActive(); err != nil {
		return err
	}

	return c.sendMessage(responseCreateMessage{
		EventID: uuid.NewString(),
		Type:    "response.create",
	})
}

// SendToolOutput returns a function-call result into the conversation.
func (c *Client) SendToolOutput(callID, output string) error {
	if err := c.requireActive(); err != nil {
		return err
	}

	return c.sendMessage(conversationItemCreateMessage{
		EventID: uuid.NewString(),
		Type:    "conversation.item.create",
		Item: conversationItem{
			Type:   "function_call_output",
			CallID: callID,
			Output: output,
		},
	})
}

// Truncate tells the server how much of the response item was actually
// played, so its transcript matches what the user heard.
func (c *Client) Truncate(itemID string, audioEndMs int) error {
	if err := c.requireActive(); err != nil {
		return err
	}

	return c.sendMessage(conversationItemTruncateMessage{
		EventID:      uuid.NewString(),
		Type:         "conversation.item.truncate",
		ItemID:       itemID,
		ContentIndex: 0,
		AudioEndMs:   audioEndMs,
	})
}

// UpdateInstructions re-sends the session configuration with new
// instructions while the session stays active.
func (c *Client) UpdateInstructions(instructions string) error {
	if err := c.requireActive(); err != nil {
		return err
	}

	c.mu.Lock()
	c.sessionOptions.Instructions = instructions
	options := c.sessionOptions
	c.mu.Unlock()

	return c.sendSessionUpdate(options)
}

func (c *Client) sendSessionUpdate(options realtime.SessionOptions) error {
	var turnDetection *turnDetectionConfig
	if options.TurnDetection != realtime.TurnDetectionNone {
		turnDetection = &turnDetectionConfig{Type: string(options.TurnDetection)}
	}

	wireFormat := audioFormatConfig{Type: "audio/pcm", Rate: wireSampleRate}
	return c.sendMessage(sessionUpdateMessage{
		EventID: uuid.NewString(),
		Type:    "session.update",
		Session: sessionConfig{
			Instructions: options.Instructions,
			Voice:        options.Voice,
			Audio: utils.Ptr(sessionAudioConfig{
				// Input transcription rides on the same socket so user
				// captions arrive as transcription deltas.
				Input: audioStreamConfig{
					Format:        wireFormat,
					Transcription: utils.Ptr(transcriptionConfig{Model: transcriptionModel}),
				},
				Output: audioStreamConfig{Format: wireFormat},
			}),
			TurnDetection: turnDetection,
			Tools:         options.Tools,
			ToolChoice:    "auto",
		},
	})
}

func (c *Client) requireActive() error {
	if c.Phase() != realtime.PhaseActive {
		return ErrNotConnected
	}
	return nil
}

func (c *Client) sendMessage(msg any) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write to realtime socket: %w", err)
	}
	return nil
}
