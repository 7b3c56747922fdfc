package audio

import "math"

const (
	// DefaultThresholdDB is the dBFS energy level above which a frame counts
	// as speech.
	DefaultThresholdDB = -25.0
	// DefaultSilenceRun is the number of consecutive sub-threshold frames
	// needed to end an utterance (~1.5 s at 20 ms frames).
	DefaultSilenceRun = 30
)

type Transition string

const (
	TransitionNone          Transition = ""
	TransitionSpeechStarted Transition = "speech_started"
	TransitionSpeechEnded   Transition = "speech_ended"
)

// Level is the per-frame result of voice activity detection.
type Level struct {
	// DB is the frame's RMS energy in dBFS.
	DB float64
	// Normalized maps DB to [0, 1] for UI level meters.
	Normalized float64
	// Speaking reports the detector state after processing the frame.
	Speaking bool
	// Transition is set on the frame that flips the detector state.
	Transition Transition
}

// Detector classifies PCM16 frames as speech or silence with hysteresis: a
// single quiet frame mid-utterance does not end the utterance, only a full
// silence run does.
type Detector struct {
	thresholdDB float64
	silenceRun  int

	speaking     bool
	silenceCount int
}

type DetectorOption func(*Detector)

// WithThresholdDB overrides the speech threshold in dBFS.
func WithThresholdDB(db float64) DetectorOption {
	return func(d *Detector) { d.thresholdDB = db }
}

// WithSilenceRun overrides the consecutive-silent-frame count that ends an
// utterance.
func WithSilenceRun(frames int) DetectorOption {
	return func(d *Detector) {
		if frames > 0 {
			d.silenceRun = frames
		}
	}
}

func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		thresholdDB: DefaultThresholdDB,
		silenceRun:  DefaultSilenceRun,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Detector) Speaking() bool { return d.speaking }

// Reset returns the detector to the silent state. Called when capture stops
// so a restarted stream does not inherit a stale utterance.
func (d *Detector) Reset() {
	d.speaking = false
	d.silenceCount = 0
}

// Process updates the detector with one frame and returns its level.
func (d *Detector) Process(frame Frame) Level {
	db := frameDB(frame)
	level := Level{
		DB:         db,
		Normalized: normalizeDB(db),
	}

	if db > d.thresholdDB {
		if !d.speaking {
			d.speaking = true
			level.Transition = TransitionSpeechStarted
		}
		d.silenceCount = 0
	} else if d.speaking {
		d.silenceCount++
		if d.silenceCount >= d.silenceRun {
			d.speaking = false
			d.silenceCount = 0
			level.Transition = TransitionSpeechEnded
		}
	}

	level.Speaking = d.speaking
	return level
}

// frameDB computes RMS energy in dBFS over the frame's int16 samples.
func frameDB(frame Frame) float64 {
	data := frame.Data()
	sampleCount := len(data) / 2
	if sampleCount == 0 {
		return -100
	}

	var sum float64
	for i := 0; i < sampleCount; i++ {
		sample := float64(int16(uint16(data[i*2])|uint16(data[i*2+1])<<8)) / 32768.0
		sum += sample * sample
	}

	rms := math.Sqrt(sum / float64(sampleCount))
	const epsilon = 1e-10
	return 20 * math.Log10(math.Max(rms, epsilon))
}

func normalizeDB(db float64) float64 {
	normalized := (db + 50) / 50
	return math.Min(math.Max(normalized, 0), 1)
}
