// Package audio holds the sample-domain primitives shared by capture,
// segmentation and speech engines: PCM segments, channel mixdown and sample
// rate conversion.
package audio

import "time"

// Segment is a contiguous run of PCM samples. Samples are normalized
// float32 in [-1, 1], interleaved when Channels > 1.
type Segment struct {
	Samples    []float32
	SampleRate int
	Channels   int
	CapturedAt time.Time
}

// Duration reports the playback length of the segment.
func (s Segment) Duration() time.Duration {
	if s.SampleRate == 0 || s.Channels == 0 {
		return 0
	}
	frames := len(s.Samples) / s.Channels
	return time.Duration(frames) * time.Second / time.Duration(s.SampleRate)
}

// Mono collapses an interleaved multi-channel segment to a single channel by
// averaging each frame. Segments that are already mono are returned as-is.
func (s Segment) Mono() Segment {
	if s.Channels <= 1 {
		return s
	}

	frames := len(s.Samples) / s.Channels
	mixed := make([]float32, frames)
	for frame := range frames {
		var sum float32
		for channel := range s.Channels {
			sum += s.Samples[frame*s.Channels+channel]
		}
		mixed[frame] = sum / float32(s.Channels)
	}

	return Segment{
		Samples:    mixed,
		SampleRate: s.SampleRate,
		Channels:   1,
		CapturedAt: s.CapturedAt,
	}
}

// Resample converts a mono segment to the target sample rate using
// nearest-index selection. It is cheap and good enough for speech; segments
// already at the target rate are returned as-is.
func (s Segment) Resample(targetRate int) Segment {
	if s.SampleRate == targetRate || s.SampleRate == 0 || len(s.Samples) == 0 {
		return s
	}

	ratio := float64(s.SampleRate) / float64(targetRate)
	outLen := int(float64(len(s.Samples)) / ratio)
	out := make([]float32, 0, outLen)
	for i := range outLen {
		sourceIndex := int(float64(i) * ratio)
		if sourceIndex >= len(s.Samples) {
			break
		}
		out = append(out, s.Samples[sourceIndex])
	}

	return Segment{
		Samples:    out,
		SampleRate: targetRate,
		Channels:   s.Channels,
		CapturedAt: s.CapturedAt,
	}
}
