// Package piper voices responses through a piper subprocess.
package piper

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/fridayvoice/friday-core/core/bus"
	"github.com/fridayvoice/friday-core/core/events"
	"github.com/fridayvoice/friday-core/core/texttospeech"
)

// DefaultTimeout bounds a single synthesis run; the subprocess is killed
// when it expires.
const DefaultTimeout = 30 * time.Second

// Client is the subprocess-backed synthesis engine.
type Client struct {
	binPath   string
	modelPath string
	outputWAV string
	timeout   time.Duration
	options   texttospeech.TextToSpeechOptions

	// run is swapped out in tests to avoid the real binary.
	run func(ctx context.Context, args ...string) error
}

// Option configures a client at construction time.
type Option func(*Client)

// WithOutputWAV writes synthesized audio to a file instead of the default
// sink.
func WithOutputWAV(path string) Option {
	return func(c *Client) { c.outputWAV = path }
}

// WithTimeout overrides the per-invocation deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithRunner replaces the subprocess invocation.
func WithRunner(run func(ctx context.Context, args ...string) error) Option {
	return func(c *Client) { c.run = run }
}

// NewClient builds a synthesis client around a piper binary.
func NewClient(binPath, modelPath string, opts ...Option) *Client {
	c := &Client{
		binPath:   binPath,
		modelPath: modelPath,
		timeout:   DefaultTimeout,
	}
	c.run = func(ctx context.Context, args ...string) error {
		if err := exec.CommandContext(ctx, c.binPath, args...).Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return fmt.Errorf("piper exited with status %d", exitErr.ExitCode())
			}
			return fmt.Errorf("failed to run piper: %w", err)
		}
		return nil
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetOptions applies synthesis callbacks for subsequent runs.
func (c *Client) SetOptions(opts ...texttospeech.TextToSpeechOption) {
	for _, opt := range opts {
		opt(&c.options)
	}
}

// Speak voices the text, emitting TtsStarted and TtsFinished around the
// synthesis. A failed run emits no TtsFinished: the turn aborts instead.
func (c *Client) Speak(ctx context.Context, text string, sink *bus.Producer) error {
	sink.Emit(events.NewTtsStarted())
	if c.options.SpeechStartedCallback != nil {
		c.options.SpeechStartedCallback()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{"--model", c.modelPath, "--sentence", text}
	if c.outputWAV != "" {
		args = append(args, "--output_file", c.outputWAV)
	}
	if err := c.run(ctx, args...); err != nil {
		if c.options.ErrorCallback != nil {
			c.options.ErrorCallback(err)
		}
		return err
	}

	sink.Emit(events.NewTtsFinished())
	if c.options.SpeechEndedCallback != nil {
		c.options.SpeechEndedCallback()
	}
	return nil
}
