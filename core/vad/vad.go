// Package vad segments a raw audio stream into discrete speech segments
// using energy and zero-crossing heuristics, with no model involved.
package vad

import (
	"math"
	"time"

	"github.com/fridayvoice/friday-core/core/audio"
)

// Config tunes the segmenter. Zero values fall back to the defaults.
type Config struct {
	SampleRate    int
	FrameDuration time.Duration

	// EnergyThreshold is the minimum RMS energy for a frame to count as
	// active; ZCRThreshold is the minimum zero-crossing rate.
	EnergyThreshold float64
	ZCRThreshold    float64

	// MinSpeechDuration discards segments shorter than this as noise.
	MinSpeechDuration time.Duration
	// MaxSilenceDuration ends a segment after this much trailing silence.
	MaxSilenceDuration time.Duration
	// BufferDuration caps the segment ring buffer; oldest frames are
	// evicted beyond it.
	BufferDuration time.Duration
}

// DefaultConfig returns the tuning used for 16 kHz close-mic speech.
func DefaultConfig() Config {
	return Config{
		SampleRate:         audio.DefaultSampleRate,
		FrameDuration:      30 * time.Millisecond,
		EnergyThreshold:    0.01,
		ZCRThreshold:       0.3,
		MinSpeechDuration:  300 * time.Millisecond,
		MaxSilenceDuration: 1500 * time.Millisecond,
		BufferDuration:     10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.SampleRate == 0 {
		c.SampleRate = defaults.SampleRate
	}
	if c.FrameDuration == 0 {
		c.FrameDuration = defaults.FrameDuration
	}
	if c.EnergyThreshold == 0 {
		c.EnergyThreshold = defaults.EnergyThreshold
	}
	if c.ZCRThreshold == 0 {
		c.ZCRThreshold = defaults.ZCRThreshold
	}
	if c.MinSpeechDuration == 0 {
		c.MinSpeechDuration = defaults.MinSpeechDuration
	}
	if c.MaxSilenceDuration == 0 {
		c.MaxSilenceDuration = defaults.MaxSilenceDuration
	}
	if c.BufferDuration == 0 {
		c.BufferDuration = defaults.BufferDuration
	}
	return c
}

// FrameSize reports how many mono samples one frame holds.
func (c Config) FrameSize() int {
	return int(float64(c.SampleRate) * c.FrameDuration.Seconds())
}

type state int

const (
	stateIdle state = iota
	stateSpeaking
)

// Segmenter is a two-state machine over fixed-size mono frames. It is driven
// synchronously from a single goroutine; time is derived from the frame
// count, never from the wall clock, so identical input always yields
// identical segments.
type Segmenter struct {
	config Config

	state           state
	frames          [][]float32
	maxBufferFrames int

	frameIndex      int
	speechStart     int
	lastActiveFrame int
}

// NewSegmenter builds a segmenter in the Idle state.
func NewSegmenter(config Config) *Segmenter {
	config = config.withDefaults()
	maxFrames := int(config.BufferDuration / config.FrameDuration)
	if maxFrames < 1 {
		maxFrames = 1
	}
	return &Segmenter{config: config, maxBufferFrames: maxFrames}
}

// Process feeds one frame of mono samples through the state machine. It
// returns a completed speech segment and true when trailing silence closes a
// segment that met the minimum speech duration; otherwise it returns nil and
// false.
func (s *Segmenter) Process(frame []float32) (*audio.Segment, bool) {
	index := s.frameIndex
	s.frameIndex++

	active := Energy(frame) > s.config.EnergyThreshold &&
		ZeroCrossingRate(frame) > s.config.ZCRThreshold

	switch s.state {
	case stateIdle:
		if !active {
			return nil, false
		}
		s.state = stateSpeaking
		s.speechStart = index
		s.lastActiveFrame = index
		s.appendFrame(frame)
		return nil, false

	case stateSpeaking:
		s.appendFrame(frame)
		if active {
			s.lastActiveFrame = index
			return nil, false
		}

		silence := time.Duration(index-s.lastActiveFrame) * s.config.FrameDuration
		if silence <= s.config.MaxSilenceDuration {
			return nil, false
		}

		speech := time.Duration(s.lastActiveFrame-s.speechStart+1) * s.config.FrameDuration
		segment, long := s.takeSegment(), speech >= s.config.MinSpeechDuration
		s.reset()
		if !long {
			return nil, false
		}
		return segment, true
	}

	return nil, false
}

// Flush closes any in-progress segment without waiting for trailing silence,
// for end-of-stream handling. The minimum speech duration still applies.
func (s *Segmenter) Flush() (*audio.Segment, bool) {
	if s.state != stateSpeaking {
		return nil, false
	}

	speech := time.Duration(s.lastActiveFrame-s.speechStart+1) * s.config.FrameDuration
	segment, long := s.takeSegment(), speech >= s.config.MinSpeechDuration
	s.reset()
	if !long {
		return nil, false
	}
	return segment, true
}

// Reset drops any buffered speech and returns to Idle.
func (s *Segmenter) Reset() {
	s.reset()
	s.frameIndex = 0
}

func (s *Segmenter) reset() {
	s.state = stateIdle
	s.frames = nil
	s.speechStart = 0
	s.lastActiveFrame = 0
}

func (s *Segmenter) appendFrame(frame []float32) {
	buffered := make([]float32, len(frame))
	copy(buffered, frame)
	s.frames = append(s.frames, buffered)
	if len(s.frames) > s.maxBufferFrames {
		s.frames = s.frames[1:]
	}
}

func (s *Segmenter) takeSegment() *audio.Segment {
	total := 0
	for _, frame := range s.frames {
		total += len(frame)
	}
	samples := make([]float32, 0, total)
	for _, frame := range s.frames {
		samples = append(samples, frame...)
	}

	return &audio.Segment{
		Samples:    samples,
		SampleRate: s.config.SampleRate,
		Channels:   1,
		CapturedAt: time.Now(),
	}
}

// Energy computes the RMS energy of a frame.
func Energy(frame []float32) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, sample := range frame {
		sum += float64(sample) * float64(sample)
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// ZeroCrossingRate computes the fraction of adjacent sample pairs whose signs
// differ.
func ZeroCrossingRate(frame []float32) float64 {
	if len(frame) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame)-1)
}
