package audio

const (
	// WireSampleRate is the fixed sample rate the realtime protocol requires
	// for PCM16 audio in both directions.
	WireSampleRate = 24000
	DefaultFormat  = "linear16"
)

// WireEncoding returns the encoding the realtime socket speaks: 24 kHz mono
// 16-bit signed PCM.
func WireEncoding() EncodingInfo {
	return EncodingInfo{SampleRate: WireSampleRate, Format: EncodingLinear16, Channels: 1}
}

type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
	// Channels is the channel count; zero means mono.
	Channels int
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

func (e EncodingInfo) ChannelCount() int {
	if e.Channels == 0 {
		return 1
	}
	return e.Channels
}

// SilenceValue is the byte value a silent buffer is filled with, used to pad
// playback underruns.
func (e EncodingInfo) SilenceValue() byte {
	return 0
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	if e == EncodingLinear16 {
		return 2
	}
	return -1
}

const EncodingLinear16 encodingFormat = "linear16"
