// Package events defines the typed engine event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - session.*
//   - user_input.*
//   - assistant.*
//   - tool_call.*
//
// session events
//
//   - SessionConnected (session.connected): the realtime session reached the
//     active phase.
//   - SessionDisconnected (session.disconnected): the socket closed; carries
//     the read error when the close was not requested.
//   - SessionError (session.error): the server reported a protocol-level
//     error; the session stays up.
//
// user_input events
//
//   - UserSpeechStarted (user_input.speech_started): local VAD detected the
//     start of an utterance.
//   - UserSpeechEnded (user_input.speech_ended): local VAD detected the end
//     of an utterance.
//   - UserAudioLevel (user_input.audio_level): normalized per-frame input
//     level for UI meters.
//   - UserAudioCommitted (user_input.audio_committed): the server committed
//     the input audio buffer.
//   - UserTranscriptDelta (user_input.transcript_delta): incremental
//     transcription of the user's speech.
//
// assistant events
//
//   - AssistantResponseStarted (assistant.response_started): the model began
//     producing a response.
//   - AssistantAudioFrame (assistant.audio_frame): synthesized audio chunk
//     scheduled for playback.
//   - AssistantTranscriptDelta (assistant.transcript_delta): incremental
//     transcript of the synthesized speech.
//   - AssistantResponseDone (assistant.response_done): the response finished.
//   - AssistantPlaybackTruncated (assistant.playback_truncated): barge-in cut
//     playback at the carried offset.
//
// tool_call events
//
//   - ToolCallRequested (tool_call.requested): the model requested an action.
//   - ToolConfirmationRequired (tool_call.confirmation_required): the action
//     is gated behind user confirmation; carries preview text.
//   - ToolCallExecuted (tool_call.executed): the action ran and its output
//     was returned to the model.
//   - ToolCallFailed (tool_call.failed): the action executor failed.
//   - ToolCallDenied (tool_call.denied): the user cancelled the action.
//   - ToolCallSuperseded (tool_call.superseded): a newer confirmable action
//     replaced the pending one.
package events
