package voicesession

import events "github.com/songbird-voice/songbird-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts StartOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.SessionConnected:
			if opts.onConnected != nil {
				opts.onConnected()
			}
		case events.SessionDisconnected:
			if opts.onDisconnected != nil {
				opts.onDisconnected(typedEvent.Err)
			}
		case events.SessionError:
			if opts.onSessionError != nil {
				opts.onSessionError(typedEvent.Message)
			}
		case events.UserSpeechStarted:
			if opts.onSpeakingStateChanged != nil {
				opts.onSpeakingStateChanged(true)
			}
		case events.UserSpeechEnded:
			if opts.onSpeakingStateChanged != nil {
				opts.onSpeakingStateChanged(false)
			}
		case events.UserAudioLevel:
			if opts.onAudioLevel != nil {
				opts.onAudioLevel(typedEvent.Level)
			}
		case events.UserTranscriptDelta:
			if opts.onTranscription != nil {
				opts.onTranscription(typedEvent.Delta)
			}
		case events.AssistantTranscriptDelta:
			if opts.onResponse != nil {
				opts.onResponse(typedEvent.Delta)
			}
		case events.AssistantResponseDone:
			if opts.onResponseEnd != nil {
				opts.onResponseEnd()
			}
		case events.AssistantAudioFrame:
			if opts.onAudio != nil {
				opts.onAudio(typedEvent.Audio)
			}
		case events.AssistantPlaybackTruncated:
			if opts.onPlaybackTruncated != nil {
				opts.onPlaybackTruncated(typedEvent.ItemID)
			}
		case events.ToolConfirmationRequired:
			if opts.onConfirmationRequired != nil {
				opts.onConfirmationRequired(typedEvent.CallID, typedEvent.Name, typedEvent.Preview)
			}
		case events.ToolCallExecuted:
			if opts.onActionExecuted != nil {
				opts.onActionExecuted(typedEvent.Name, typedEvent.Output)
			}
		case events.ToolCallFailed:
			if opts.onActionFailed != nil {
				opts.onActionFailed(typedEvent.Name, typedEvent.Error)
			}
		case events.ToolCallDenied:
			if opts.onActionDenied != nil {
				opts.onActionDenied(typedEvent.Name)
			}
		}
	}
}
