package voicesession

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/songbird-voice/songbird-core/core/audio"
)

// audioInput normalizes capture behavior behind a nil-safe facade so the
// engine's capture path does not care whether a device is configured.
type audioInput struct {
	// base stores the configured input client used for capturing audio.
	base AudioInput

	// connected reports whether a concrete input client is currently configured.
	connected atomic.Bool
	// isCapturing reports whether the input client is currently capturing audio.
	isCapturing atomic.Bool
	// muted suppresses forwarding without stopping the device.
	muted atomic.Bool

	// onAudio is called with every captured chunk while unmuted.
	onAudio func(audio []byte)
}

func newAudioInput(client AudioInput, onAudio func(audio []byte)) *audioInput {
	if onAudio == nil {
		onAudio = func(audio []byte) {}
	}

	audioInput := audioInput{onAudio: onAudio}
	audioInput.Set(client)
	return &audioInput
}

func (a *audioInput) Set(client AudioInput) {
	if a == nil {
		return
	}

	a.base = client
	a.connected.Store(client != nil)
	a.isCapturing.Store(false)
}

func (a *audioInput) IsConfigured() bool { return a != nil && a.connected.Load() }
func (a *audioInput) IsCapturing() bool  { return a != nil && a.isCapturing.Load() }
func (a *audioInput) IsMuted() bool      { return a != nil && a.muted.Load() }

func (a *audioInput) Mute() {
	if a != nil {
		a.muted.Store(true)
	}
}

func (a *audioInput) Unmute() {
	if a != nil {
		a.muted.Store(false)
	}
}

func (a *audioInput) Start(ctx context.Context) error {
	if !a.IsConfigured() {
		return nil
	}

	if !a.isCapturing.CompareAndSwap(false, true) {
		return nil
	}

	if err := a.base.StartCapture(ctx, a.handleAudio); err != nil {
		a.isCapturing.Store(false)
		return fmt.Errorf("failed to start audio capture: %w", err)
	}

	return nil
}

func (a *audioInput) Stop() error {
	if !a.IsConfigured() {
		return nil
	}

	if !a.isCapturing.CompareAndSwap(true, false) {
		return nil
	}

	return a.base.StopCapture()
}

func (a *audioInput) EncodingInfo() audio.EncodingInfo {
	if a == nil || a.base == nil {
		return audio.WireEncoding()
	}

	if encoding := a.base.EncodingInfo(); !encoding.IsZero() {
		return encoding
	}
	return audio.WireEncoding()
}

func (a *audioInput) handleAudio(audio []byte) {
	if a.IsMuted() {
		return
	}

	a.onAudio(audio)
}
