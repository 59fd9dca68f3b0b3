package vad

import (
	"testing"
	"time"
)

func silenceFrame(size int) []float32 {
	return make([]float32, size)
}

// speechFrame alternates sign so both the energy and the zero-crossing
// heuristics fire.
func speechFrame(size int) []float32 {
	frame := make([]float32, size)
	for i := range frame {
		if i%2 == 0 {
			frame[i] = 0.5
		} else {
			frame[i] = -0.5
		}
	}
	return frame
}

func TestEnergy(t *testing.T) {
	if got := Energy(silenceFrame(480)); got != 0 {
		t.Errorf("expected silence energy 0, got %v", got)
	}

	constant := make([]float32, 480)
	for i := range constant {
		constant[i] = 0.5
	}
	if got := Energy(constant); got <= 0.4 {
		t.Errorf("expected constant 0.5 frame to exceed 0.4 RMS, got %v", got)
	}
}

func TestSilenceStaysIdle(t *testing.T) {
	segmenter := NewSegmenter(DefaultConfig())
	frameSize := DefaultConfig().FrameSize()

	for range 200 {
		if segment, ok := segmenter.Process(silenceFrame(frameSize)); ok {
			t.Fatalf("unexpected segment from silence: %d samples", len(segment.Samples))
		}
	}
}

func TestSpeechFollowedBySilenceEmitsSegment(t *testing.T) {
	config := DefaultConfig()
	segmenter := NewSegmenter(config)
	frameSize := config.FrameSize()

	// 600ms of speech clears the 300ms minimum.
	for range 20 {
		if _, ok := segmenter.Process(speechFrame(frameSize)); ok {
			t.Fatal("segment emitted before any silence")
		}
	}

	var emitted int
	for range 60 {
		segment, ok := segmenter.Process(silenceFrame(frameSize))
		if !ok {
			continue
		}
		emitted++
		if segment.SampleRate != config.SampleRate {
			t.Errorf("expected sample rate %d, got %d", config.SampleRate, segment.SampleRate)
		}
		if segment.Channels != 1 {
			t.Errorf("expected mono segment, got %d channels", segment.Channels)
		}
		if len(segment.Samples) < 20*frameSize {
			t.Errorf("expected at least the speech frames buffered, got %d samples", len(segment.Samples))
		}
	}
	if emitted != 1 {
		t.Fatalf("expected exactly one segment, got %d", emitted)
	}
}

func TestShortBurstDiscardedAsNoise(t *testing.T) {
	segmenter := NewSegmenter(DefaultConfig())
	frameSize := DefaultConfig().FrameSize()

	// 150ms of speech is below the 300ms minimum.
	for range 5 {
		segmenter.Process(speechFrame(frameSize))
	}
	for range 60 {
		if _, ok := segmenter.Process(silenceFrame(frameSize)); ok {
			t.Fatal("expected a short burst to be discarded")
		}
	}

	// The state machine must be back in Idle and able to capture real speech.
	for range 20 {
		segmenter.Process(speechFrame(frameSize))
	}
	emitted := false
	for range 60 {
		if _, ok := segmenter.Process(silenceFrame(frameSize)); ok {
			emitted = true
		}
	}
	if !emitted {
		t.Fatal("expected the segmenter to recover after discarding noise")
	}
}

func TestRingBufferCapsSegment(t *testing.T) {
	config := Config{
		FrameDuration:      30 * time.Millisecond,
		MinSpeechDuration:  90 * time.Millisecond,
		MaxSilenceDuration: 60 * time.Millisecond,
		BufferDuration:     300 * time.Millisecond,
	}
	segmenter := NewSegmenter(config)
	frameSize := config.withDefaults().FrameSize()
	maxSamples := 10 * frameSize // 300ms / 30ms frames

	for range 40 {
		segmenter.Process(speechFrame(frameSize))
	}

	var segment *int
	for range 10 {
		if got, ok := segmenter.Process(silenceFrame(frameSize)); ok {
			n := len(got.Samples)
			segment = &n
			break
		}
	}
	if segment == nil {
		t.Fatal("expected a segment")
	}
	if *segment != maxSamples {
		t.Errorf("expected the ring to cap the segment at %d samples, got %d", maxSamples, *segment)
	}
}

func TestFlushClosesOpenSegment(t *testing.T) {
	segmenter := NewSegmenter(DefaultConfig())
	frameSize := DefaultConfig().FrameSize()

	for range 20 {
		segmenter.Process(speechFrame(frameSize))
	}

	segment, ok := segmenter.Flush()
	if !ok {
		t.Fatal("expected flush to yield the open segment")
	}
	if len(segment.Samples) != 20*frameSize {
		t.Errorf("expected %d samples, got %d", 20*frameSize, len(segment.Samples))
	}

	if _, ok := segmenter.Flush(); ok {
		t.Error("expected a second flush to yield nothing")
	}
}
