package openai

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/songbird-voice/songbird-core/core/realtime"
)

// readAndProcessMessages is the per-connection decode loop. It re-arms after
// every message so no incoming event is missed while the previous one is
// dispatched upward.
func (c *Client) readAndProcessMessages(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(err)
			return
		}

		c.processMessage(msg)
	}
}

func (c *Client) handleDisconnect(err error) {
	c.mu.Lock()
	requested := c.closeRequested
	if !requested {
		c.phase = realtime.PhaseError
	}
	options := c.sessionOptions
	c.mu.Unlock()

	c.connMu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	if options.DisconnectedCallback != nil {
		if requested {
			options.DisconnectedCallback(nil)
		} else {
			options.DisconnectedCallback(fmt.Errorf("realtime socket closed: %w", err))
		}
	}
}

// reportDecodeError drops a malformed frame and surfaces it via the error
// callback. Decode failures never tear down the socket.
func (c *Client) reportDecodeError(options realtime.SessionOptions, err error) {
	logger.Warn("Failed to decode realtime message", "error", err)
	if options.ErrorCallback != nil {
		options.ErrorCallback(fmt.Errorf("%w: %w", ErrProtocolDecode, err))
	}
}

// processMessage decodes one frame and dispatches it. Unknown message types
// are skipped; malformed ones are reported and skipped.
func (c *Client) processMessage(msg []byte) {
	c.mu.Lock()
	phase := c.phase
	options := c.sessionOptions
	c.mu.Unlock()

	var parsedMsg envelope
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		c.reportDecodeError(options, err)
		return
	}

	switch parsedMsg.Type {
	case "conversation.created", "session.created":
		if phase != realtime.PhaseConnecting {
			return
		}
		if err := c.sendSessionUpdate(options); err != nil {
			logger.Warn("Failed to send session configuration", "error", err)
			return
		}
		c.setPhase(realtime.PhaseConfiguring)

	case "session.updated":
		if phase != realtime.PhaseConfiguring {
			// Re-configuration ack while active, nothing to do.
			return
		}
		c.mu.Lock()
		c.phase = realtime.PhaseActive
		active := c.active
		c.mu.Unlock()
		if active != nil {
			close(active)
		}
		if options.ConnectedCallback != nil {
			options.ConnectedCallback()
		}

	case "input_audio_buffer.speech_started":
		if options.SpeechStartedCallback != nil {
			options.SpeechStartedCallback()
		}

	case "input_audio_buffer.speech_stopped":
		if options.SpeechStoppedCallback != nil {
			options.SpeechStoppedCallback()
		}

	case "input_audio_buffer.committed":
		var committed audioCommittedMessage
		if err := json.Unmarshal(msg, &committed); err != nil {
			c.reportDecodeError(options, err)
			return
		}
		if options.AudioCommittedCallback != nil {
			options.AudioCommittedCallback(committed.ItemID)
		}

	case "response.created":
		var created responseLifecycleMessage
		if err := json.Unmarshal(msg, &created); err != nil {
			c.reportDecodeError(options, err)
			return
		}
		if options.ResponseCreatedCallback != nil {
			options.ResponseCreatedCallback(created.Response.ID)
		}

	case "response.done":
		var done responseLifecycleMessage
		if err := json.Unmarshal(msg, &done); err != nil {
			c.reportDecodeError(options, err)
			return
		}
		if options.ResponseDoneCallback != nil {
			options.ResponseDoneCallback(done.Response.ID)
		}

	case "response.output_audio.delta", "response.audio.delta":
		var delta audioDeltaMessage
		if err := json.Unmarshal(msg, &delta); err != nil {
			c.reportDecodeError(options, err)
			return
		}
		decoded, err := base64.StdEncoding.DecodeString(delta.Delta)
		if err != nil {
			c.reportDecodeError(options, err)
			return
		}
		if options.AudioDeltaCallback != nil {
			options.AudioDeltaCallback(delta.ItemID, decoded)
		}

	case "response.output_audio_transcript.delta", "response.audio_transcript.delta":
		var delta transcriptDeltaMessage
		if err := json.Unmarshal(msg, &delta); err != nil {
			c.reportDecodeError(options, err)
			return
		}
		if options.OutputTranscriptDeltaCallback != nil {
			options.OutputTranscriptDeltaCallback(delta.ItemID, delta.Delta)
		}

	case "conversation.item.input_audio_transcription.delta":
		var delta transcriptDeltaMessage
		if err := json.Unmarshal(msg, &delta); err != nil {
			c.reportDecodeError(options, err)
			return
		}
		if options.InputTranscriptDeltaCallback != nil {
			options.InputTranscriptDeltaCallback(delta.Delta)
		}

	case "response.function_call_arguments.done":
		var call functionCallArgumentsDoneMessage
		if err := json.Unmarshal(msg, &call); err != nil {
			c.reportDecodeError(options, err)
			return
		}
		if options.FunctionCallCallback != nil {
			options.FunctionCallCallback(call.CallID, call.Name, call.Arguments)
		}

	case "error":
		var serverErr errorMessage
		if err := json.Unmarshal(msg, &serverErr); err != nil {
			c.reportDecodeError(options, err)
			return
		}
		if options.ErrorCallback != nil {
			options.ErrorCallback(fmt.Errorf("realtime server error: %s", serverErr.message()))
		}

	default:
		// Unknown message types are expected as the protocol grows.
	}
}
