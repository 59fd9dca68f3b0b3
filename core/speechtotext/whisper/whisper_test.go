package whisper

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/fridayvoice/friday-core/core/bus"
	"github.com/fridayvoice/friday-core/core/events"
	"github.com/fridayvoice/friday-core/core/vad"
)

// sliceFrames replays a fixed sequence of frames and then reports EOF.
type sliceFrames struct {
	frames [][]float32
}

func (s *sliceFrames) NextFrame(context.Context) ([]float32, error) {
	if len(s.frames) == 0 {
		return nil, io.EOF
	}
	frame := s.frames[0]
	s.frames = s.frames[1:]
	return frame, nil
}

func speechThenSilence(frameSize, speechFrames, silenceFrames int) [][]float32 {
	var frames [][]float32
	for range speechFrames {
		frame := make([]float32, frameSize)
		for i := range frame {
			if i%2 == 0 {
				frame[i] = 0.5
			} else {
				frame[i] = -0.5
			}
		}
		frames = append(frames, frame)
	}
	for range silenceFrames {
		frames = append(frames, make([]float32, frameSize))
	}
	return frames
}

func TestStreamUntilSilenceTranscribesSegment(t *testing.T) {
	frameSize := vad.DefaultConfig().FrameSize()
	source := &sliceFrames{frames: speechThenSilence(frameSize, 20, 60)}

	var wavSeen string
	client := NewClient("whisper", "model.bin", source,
		WithWorkDir(t.TempDir()),
		WithTranscriber(func(_ context.Context, wavPath string) (string, error) {
			wavSeen = wavPath
			return "  set a timer for 5 minutes \n", nil
		}),
	)

	b, producer := bus.New()

	transcript, err := client.StreamUntilSilence(context.Background(), producer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transcript != "set a timer for 5 minutes" {
		t.Errorf("expected a trimmed transcript, got %q", transcript)
	}
	if wavSeen == "" {
		t.Fatal("expected the transcriber to receive a wav path")
	}
	if _, err := os.Stat(wavSeen); err == nil {
		t.Error("expected the intermediate wav to be removed")
	}

	producer.Close()
	partial, ok := (<-b.Events()).(events.PartialTranscript)
	if !ok {
		t.Fatal("expected a partial transcript event")
	}
	if partial.Text != transcript || !partial.IsFinal {
		t.Errorf("expected a final-marked partial with the transcript, got %+v", partial)
	}
}

func TestStreamUntilSilenceFlushesAtEOF(t *testing.T) {
	frameSize := vad.DefaultConfig().FrameSize()
	// Speech with no trailing silence: the stream just ends.
	source := &sliceFrames{frames: speechThenSilence(frameSize, 20, 0)}

	client := NewClient("whisper", "model.bin", source,
		WithWorkDir(t.TempDir()),
		WithTranscriber(func(context.Context, string) (string, error) {
			return "hello", nil
		}),
	)

	_, producer := bus.New()
	defer producer.Close()

	transcript, err := client.StreamUntilSilence(context.Background(), producer)
	if err != nil {
		t.Fatal(err)
	}
	if transcript != "hello" {
		t.Errorf("unexpected transcript %q", transcript)
	}
}

func TestStreamUntilSilenceNoSpeech(t *testing.T) {
	frameSize := vad.DefaultConfig().FrameSize()
	source := &sliceFrames{frames: speechThenSilence(frameSize, 0, 10)}

	client := NewClient("whisper", "model.bin", source,
		WithTranscriber(func(context.Context, string) (string, error) {
			t.Fatal("transcriber must not run without speech")
			return "", nil
		}),
	)

	_, producer := bus.New()
	defer producer.Close()

	if _, err := client.StreamUntilSilence(context.Background(), producer); err == nil {
		t.Fatal("expected an error when the stream holds no speech")
	}
}
