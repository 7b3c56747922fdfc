package voicesession

import (
	"reflect"
	"time"

	"github.com/songbird-voice/songbird-core/core/audio"
)

// audioOutput is the nil-safe facade over the configured playback client.
//
// NOTE: methods intentionally do best-effort forwarding; the engine treats
// audio output as a non-fatal side effect.
type audioOutput struct {
	// base stores the configured output client.
	base AudioOutput
}

func newAudioOutput(client AudioOutput) *audioOutput {
	audioOutput := audioOutput{}
	audioOutput.Set(client)
	return &audioOutput
}

// Set replaces the configured output client. Nil and typed-nil clients are
// treated as unconfigured.
func (a *audioOutput) Set(client AudioOutput) {
	if a == nil {
		return
	}

	if isNilAudioOutput(client) {
		a.base = nil
		return
	}
	a.base = client
}

func (a *audioOutput) isConfigured() bool {
	return a != nil && a.base != nil
}

func (a *audioOutput) SendAudio(audio []byte) error {
	if !a.isConfigured() {
		return nil
	}
	return a.base.SendAudio(audio)
}

func (a *audioOutput) Clear() {
	if a.isConfigured() {
		a.base.ClearBuffer()
	}
}

// PlayedDuration reports how much audio the device has actually played since
// the last Clear. The second return is false when no device is configured
// and the caller has to estimate elapsed playback another way.
func (a *audioOutput) PlayedDuration() (time.Duration, bool) {
	if !a.isConfigured() {
		return 0, false
	}

	return audioDuration(a.base.PlaybackPosition(), a.base.EncodingInfo()), true
}

func (a *audioOutput) EncodingInfo() audio.EncodingInfo {
	if !a.isConfigured() {
		return audio.WireEncoding()
	}

	if encoding := a.base.EncodingInfo(); !encoding.IsZero() {
		return encoding
	}
	return audio.WireEncoding()
}

// isNilAudioOutput detects nil and typed-nil interface values so Set can
// avoid storing unusable interface wrappers as configured clients.
func isNilAudioOutput(client AudioOutput) bool {
	if client == nil {
		return true
	}

	v := reflect.ValueOf(client)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

// activeResponseItem tracks the assistant item currently streaming to the
// output, for computing truncation offsets when the user barges in.
type activeResponseItem struct {
	id        string
	startedAt time.Time
	// scheduled is the total duration of audio received for the item so far.
	// Elapsed playback can never legitimately exceed it.
	scheduled time.Duration
}

func audioDuration(byteCount int, encodingInfo audio.EncodingInfo) time.Duration {
	bytesPerSecond := encodingInfo.SampleRate * encodingInfo.Format.ByteSize() * encodingInfo.ChannelCount()
	if bytesPerSecond <= 0 {
		return 0
	}
	return time.Duration(float64(byteCount) / float64(bytesPerSecond) * float64(time.Second))
}
