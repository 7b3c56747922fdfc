package audio

import (
	"encoding/binary"
	"fmt"
)

// ConversionError reports a failed format conversion for a single frame.
// Conversion failures are scoped to the frame: the caller drops the frame and
// the pipeline keeps going.
type ConversionError struct {
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("audio conversion failed: %s", e.Reason)
}

// ToWireFormat converts a captured frame into the wire encoding required by
// the realtime protocol (24 kHz mono PCM16).
func ToWireFormat(frame Frame) (Frame, error) {
	return convert(frame, WireEncoding())
}

// ToPlaybackFormat converts a wire-format frame into the playback device's
// encoding.
func ToPlaybackFormat(frame Frame, target EncodingInfo) (Frame, error) {
	return convert(frame, target)
}

func convert(frame Frame, target EncodingInfo) (Frame, error) {
	source := frame.Encoding()
	if source.ChannelCount() != target.ChannelCount() {
		return Frame{}, &ConversionError{Reason: fmt.Sprintf(
			"channel count mismatch: %d != %d", source.ChannelCount(), target.ChannelCount())}
	}
	if source.Format != EncodingLinear16 || target.Format != EncodingLinear16 {
		return Frame{}, &ConversionError{Reason: fmt.Sprintf(
			"unsupported format pair: %s -> %s", source.Format.Name(), target.Format.Name())}
	}

	resampled, err := Resample(frame.Data(), source.SampleRate, target.SampleRate)
	if err != nil {
		return Frame{}, err
	}

	return NewFrame(resampled, target), nil
}

// Resample converts PCM16 audio from one sample rate to another using linear
// interpolation. Input and output are little-endian 16-bit signed samples.
func Resample(input []byte, fromRate, toRate int) ([]byte, error) {
	if fromRate <= 0 || toRate <= 0 {
		return nil, &ConversionError{Reason: fmt.Sprintf("invalid sample rates: from=%d, to=%d", fromRate, toRate)}
	}

	if fromRate == toRate {
		result := make([]byte, len(input))
		copy(result, input)
		return result, nil
	}

	const bytesPerSample = 2
	if len(input)%bytesPerSample != 0 {
		return nil, &ConversionError{Reason: fmt.Sprintf(
			"input length %d is not a multiple of %d bytes per sample", len(input), bytesPerSample)}
	}

	inputSamples := len(input) / bytesPerSample
	if inputSamples == 0 {
		return []byte{}, nil
	}

	outputSamples := int(float64(inputSamples)*float64(toRate)/float64(fromRate) + 0.5)
	if outputSamples == 0 {
		return []byte{}, nil
	}

	samples := make([]int16, inputSamples)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(input[i*bytesPerSample:]))
	}

	output := make([]byte, outputSamples*bytesPerSample)
	ratio := float64(fromRate) / float64(toRate)
	for i := range outputSamples {
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := srcPos - float64(srcIdx)

		var sample int16
		if srcIdx >= inputSamples-1 {
			sample = samples[inputSamples-1]
		} else {
			s0 := float64(samples[srcIdx])
			s1 := float64(samples[srcIdx+1])
			sample = int16(s0 + frac*(s1-s0))
		}
		binary.LittleEndian.PutUint16(output[i*bytesPerSample:], uint16(sample))
	}

	return output, nil
}
