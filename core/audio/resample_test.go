package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func pcmRamp(samples int) []byte {
	data := make([]byte, samples*2)
	for i := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(i*100))
	}
	return data
}

func TestResampleSameRateReturnsCopy(t *testing.T) {
	input := pcmRamp(50)

	output, err := Resample(input, 16000, 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(output, input) {
		t.Fatalf("expected identical samples at equal rates")
	}
	output[0] ^= 0xFF
	if output[0] == input[0] {
		t.Fatalf("expected output to be a copy, not an alias")
	}
}

func TestResampleUpsampleSampleCount(t *testing.T) {
	output, err := Resample(pcmRamp(100), 16000, 24000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(output) / 2; got != 150 {
		t.Fatalf("expected 150 output samples, got %d", got)
	}
}

func TestResampleRoundTripPreservesFrameCount(t *testing.T) {
	input := pcmRamp(480)

	wire, err := Resample(input, 48000, 24000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := Resample(wire, 24000, 48000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inputSamples := len(input) / 2
	backSamples := len(back) / 2
	if diff := backSamples - inputSamples; diff < -1 || diff > 1 {
		t.Fatalf("expected round trip within rounding tolerance, got %d vs %d samples", backSamples, inputSamples)
	}
}

func TestResampleRejectsOddInput(t *testing.T) {
	if _, err := Resample(make([]byte, 3), 16000, 24000); err == nil {
		t.Fatalf("expected error for input not aligned to sample size")
	}
}

func TestToWireFormatRejectsChannelMismatch(t *testing.T) {
	frame := NewFrame(pcmRamp(10), EncodingInfo{SampleRate: 48000, Format: EncodingLinear16, Channels: 2})

	_, err := ToWireFormat(frame)
	if err == nil {
		t.Fatalf("expected conversion error for channel mismatch")
	}
	var conversionErr *ConversionError
	if !errors.As(err, &conversionErr) {
		t.Fatalf("expected *ConversionError, got %T", err)
	}
}

func TestToWireFormatKeepsChannelCount(t *testing.T) {
	frame := NewFrame(pcmRamp(480), EncodingInfo{SampleRate: 48000, Format: EncodingLinear16})

	wire, err := ToWireFormat(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wire.Encoding().ChannelCount() != 1 {
		t.Fatalf("expected mono output, got %d channels", wire.Encoding().ChannelCount())
	}
	if wire.Encoding().SampleRate != WireSampleRate {
		t.Fatalf("expected wire sample rate %d, got %d", WireSampleRate, wire.Encoding().SampleRate)
	}
	if got := wire.Samples(); got != 240 {
		t.Fatalf("expected 240 wire samples, got %d", got)
	}
}
