package audio

import "time"

// Frame is a buffer of PCM16 audio together with its encoding. Frames are
// treated as immutable once handed off: the next pipeline stage consumes a
// frame exactly once and never mutates it in place.
type Frame struct {
	data     []byte
	encoding EncodingInfo
}

// NewFrame wraps raw PCM bytes in a frame. The slice is passed through as-is
// (no defensive copy); callers hand over ownership.
func NewFrame(data []byte, encoding EncodingInfo) Frame {
	return Frame{data: data, encoding: encoding}
}

func (f Frame) Data() []byte           { return f.data }
func (f Frame) Encoding() EncodingInfo { return f.encoding }

// Samples returns the per-channel sample count of the frame.
func (f Frame) Samples() int {
	byteSize := f.encoding.Format.ByteSize()
	if byteSize <= 0 {
		return 0
	}
	return len(f.data) / byteSize / f.encoding.ChannelCount()
}

// Duration returns the playback duration of the frame.
func (f Frame) Duration() time.Duration {
	if f.encoding.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(f.Samples()) / float64(f.encoding.SampleRate) * float64(time.Second))
}
