package voicesession

import (
	"context"

	"github.com/songbird-voice/songbird-core/core/realtime"
)

// session is the nil-safe facade over the configured realtime transport.
// Engine paths call through it unconditionally; without a configured client
// every operation is a no-op so the engine can run audio-only.
type session struct {
	client Session
}

func newSession(client Session) *session {
	return &session{client: client}
}

func (s *session) set(client Session) {
	if s != nil {
		s.client = client
	}
}

func (s *session) isConfigured() bool {
	return s != nil && s.client != nil
}

func (s *session) Connect(ctx context.Context, opts ...realtime.SessionOption) error {
	if !s.isConfigured() {
		return nil
	}
	return s.client.Connect(ctx, opts...)
}

func (s *session) Close() error {
	if !s.isConfigured() {
		return nil
	}
	return s.client.Close()
}

func (s *session) SendAudioChunk(audio []byte) error {
	if !s.isConfigured() {
		return nil
	}
	return s.client.SendAudioChunk(audio)
}

func (s *session) CommitAudioBuffer() error {
	if !s.isConfigured() {
		return nil
	}
	return s.client.CommitAudioBuffer()
}

func (s *session) CreateResponse() error {
	if !s.isConfigured() {
		return nil
	}
	return s.client.CreateResponse()
}

func (s *session) SendToolOutput(callID, output string) error {
	if !s.isConfigured() {
		return nil
	}
	return s.client.SendToolOutput(callID, output)
}

func (s *session) Truncate(itemID string, audioEndMs int) error {
	if !s.isConfigured() {
		return nil
	}
	return s.client.Truncate(itemID, audioEndMs)
}

func (s *session) UpdateInstructions(instructions string) error {
	if !s.isConfigured() {
		return nil
	}
	return s.client.UpdateInstructions(instructions)
}
