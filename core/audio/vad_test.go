package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

// frameAtDB builds a 20 ms 24 kHz frame whose RMS energy lands on the given
// dBFS value (constant-amplitude square wave).
func frameAtDB(db float64) Frame {
	amplitude := int16(math.Pow(10, db/20) * 32768)
	data := make([]byte, 480*2)
	for i := range 480 {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(amplitude))
	}
	return NewFrame(data, WireEncoding())
}

func transitions(d *Detector, dbs []float64) []Transition {
	var got []Transition
	for _, db := range dbs {
		if level := d.Process(frameAtDB(db)); level.Transition != TransitionNone {
			got = append(got, level.Transition)
		}
	}
	return got
}

func TestDetectorEmitsSpeechStartedAboveThreshold(t *testing.T) {
	d := NewDetector()

	level := d.Process(frameAtDB(-10))
	if level.Transition != TransitionSpeechStarted {
		t.Fatalf("expected speech started transition, got %q", level.Transition)
	}
	if !level.Speaking {
		t.Fatalf("expected detector to report speaking")
	}
}

func TestDetectorSingleQuietFrameDoesNotEndUtterance(t *testing.T) {
	d := NewDetector(WithSilenceRun(5))

	got := transitions(d, []float64{-10, -40, -10, -10})
	if len(got) != 1 || got[0] != TransitionSpeechStarted {
		t.Fatalf("expected only speech started, got %v", got)
	}
	if !d.Speaking() {
		t.Fatalf("expected detector to still be speaking after a single quiet frame")
	}
}

func TestDetectorSpeechEndedAfterFullSilenceRun(t *testing.T) {
	d := NewDetector(WithSilenceRun(3))

	dbs := []float64{-10, -40, -40}
	got := transitions(d, dbs)
	if len(got) != 1 {
		t.Fatalf("expected speech ended not yet emitted at 2 silent frames, got %v", got)
	}

	level := d.Process(frameAtDB(-40))
	if level.Transition != TransitionSpeechEnded {
		t.Fatalf("expected speech ended on the final silent frame, got %q", level.Transition)
	}
	if level.Speaking {
		t.Fatalf("expected detector to report silence after the run")
	}
}

func TestDetectorHysteresisScenario(t *testing.T) {
	d := NewDetector(WithThresholdDB(-25), WithSilenceRun(30))

	dbs := []float64{-10, -10}
	for range 30 {
		dbs = append(dbs, -30)
	}
	dbs = append(dbs, -10)

	got := transitions(d, dbs)
	expected := []Transition{TransitionSpeechStarted, TransitionSpeechEnded, TransitionSpeechStarted}
	if len(got) != len(expected) {
		t.Fatalf("expected transitions %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("expected transitions %v, got %v", expected, got)
		}
	}
}

func TestDetectorResetClearsState(t *testing.T) {
	d := NewDetector()
	d.Process(frameAtDB(-10))

	d.Reset()
	if d.Speaking() {
		t.Fatalf("expected detector to be silent after reset")
	}

	level := d.Process(frameAtDB(-10))
	if level.Transition != TransitionSpeechStarted {
		t.Fatalf("expected a fresh speech started after reset, got %q", level.Transition)
	}
}

func TestLevelNormalization(t *testing.T) {
	testCases := []struct {
		name     string
		db       float64
		expected float64
	}{
		{name: "floor clamps to zero", db: -80, expected: 0},
		{name: "midpoint", db: -25, expected: 0.5},
		{name: "full scale clamps to one", db: 10, expected: 1},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := normalizeDB(testCase.db); math.Abs(got-testCase.expected) > 1e-9 {
				t.Fatalf("expected normalized level %f, got %f", testCase.expected, got)
			}
		})
	}
}

func TestEmptyFrameIsSilent(t *testing.T) {
	d := NewDetector()

	level := d.Process(NewFrame(nil, WireEncoding()))
	if level.Speaking || level.Transition != TransitionNone {
		t.Fatalf("expected empty frame to stay silent, got %+v", level)
	}
}
