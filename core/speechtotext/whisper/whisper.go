// Package whisper transcribes speech by segmenting a raw frame stream and
// handing each completed segment to a whisper.cpp subprocess.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fridayvoice/friday-core/core/audio"
	"github.com/fridayvoice/friday-core/core/bus"
	"github.com/fridayvoice/friday-core/core/events"
	"github.com/fridayvoice/friday-core/core/speechtotext"
	"github.com/fridayvoice/friday-core/core/vad"
)

// DefaultTimeout bounds a single whisper invocation. The subprocess is
// killed when it expires, so a wedged binary can never block the session
// indefinitely.
const DefaultTimeout = 30 * time.Second

// FrameSource yields fixed-size mono frames of captured audio. It returns
// io.EOF when the stream ends.
type FrameSource interface {
	NextFrame(ctx context.Context) ([]float32, error)
}

// Client is the subprocess-backed transcription engine.
type Client struct {
	binPath   string
	modelPath string
	frames    FrameSource
	segmenter *vad.Segmenter
	timeout   time.Duration
	workDir   string
	options   speechtotext.TranscriptionOptions

	// transcribe is swapped out in tests to avoid the real binary.
	transcribe func(ctx context.Context, wavPath string) (string, error)
}

// Option configures a client at construction time.
type Option func(*Client)

// WithTimeout overrides the per-invocation deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithWorkDir overrides where intermediate WAV files are written.
func WithWorkDir(dir string) Option {
	return func(c *Client) { c.workDir = dir }
}

// WithSegmenterConfig overrides the voice-activity tuning.
func WithSegmenterConfig(config vad.Config) Option {
	return func(c *Client) { c.segmenter = vad.NewSegmenter(config) }
}

// WithTranscriber replaces the subprocess invocation.
func WithTranscriber(transcribe func(ctx context.Context, wavPath string) (string, error)) Option {
	return func(c *Client) { c.transcribe = transcribe }
}

// NewClient builds a transcription client around a whisper.cpp binary and a
// frame source.
func NewClient(binPath, modelPath string, frames FrameSource, opts ...Option) *Client {
	c := &Client{
		binPath:   binPath,
		modelPath: modelPath,
		frames:    frames,
		segmenter: vad.NewSegmenter(vad.DefaultConfig()),
		timeout:   DefaultTimeout,
		workDir:   os.TempDir(),
	}
	c.transcribe = c.runWhisper
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetOptions applies transcription callbacks for subsequent captures.
func (c *Client) SetOptions(opts ...speechtotext.TranscriptionOption) {
	for _, opt := range opts {
		opt(&c.options)
	}
}

// StreamUntilSilence consumes frames until the segmenter closes a speech
// segment, transcribes it and returns the final text. The transcript is also
// emitted as a partial event before returning, matching the streaming
// engines' behavior.
func (c *Client) StreamUntilSilence(ctx context.Context, sink *bus.Producer) (string, error) {
	segment, err := c.captureSegment(ctx)
	if err != nil {
		return "", err
	}
	if c.options.SpeechEndedCallback != nil {
		c.options.SpeechEndedCallback()
	}

	normalized := segment.Mono().Resample(audio.DefaultSampleRate)
	wavPath := filepath.Join(c.workDir, fmt.Sprintf("capture-%s.wav", uuid.NewString()))
	if err := audio.WriteWAVFile(wavPath, normalized); err != nil {
		return "", err
	}
	defer os.Remove(wavPath)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	transcript, err := c.transcribe(ctx, wavPath)
	if err != nil {
		return "", err
	}
	transcript = strings.TrimSpace(transcript)

	sink.Emit(events.NewPartialTranscript(transcript, true))
	if c.options.PartialTranscriptionCallback != nil {
		c.options.PartialTranscriptionCallback(transcript)
	}
	if c.options.TranscriptionCallback != nil {
		c.options.TranscriptionCallback(transcript)
	}
	return transcript, nil
}

func (c *Client) captureSegment(ctx context.Context) (*audio.Segment, error) {
	started := false
	for {
		frame, err := c.frames.NextFrame(ctx)
		if errors.Is(err, io.EOF) {
			if segment, ok := c.segmenter.Flush(); ok {
				return segment, nil
			}
			return nil, errors.New("stream ended before any speech was captured")
		}
		if err != nil {
			return nil, err
		}

		if !started && vad.Energy(frame) > 0 {
			started = true
			if c.options.SpeechStartedCallback != nil {
				c.options.SpeechStartedCallback()
			}
		}
		if segment, ok := c.segmenter.Process(frame); ok {
			return segment, nil
		}
	}
}

func (c *Client) runWhisper(ctx context.Context, wavPath string) (string, error) {
	cmd := exec.CommandContext(ctx, c.binPath,
		"-m", c.modelPath,
		"-f", wavPath,
		"--output-txt",
	)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("whisper failed: %s", exitErr.Stderr)
		}
		return "", fmt.Errorf("failed to run whisper: %w", err)
	}
	return string(output), nil
}
