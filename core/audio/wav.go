package audio

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV encodes the segment as 16-bit PCM WAV. Clipping samples are
// clamped rather than wrapped.
func WriteWAV(w io.WriteSeeker, segment Segment) error {
	encoder := wav.NewEncoder(w, segment.SampleRate, 16, max(segment.Channels, 1), 1)

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: max(segment.Channels, 1),
			SampleRate:  segment.SampleRate,
		},
		SourceBitDepth: 16,
		Data:           make([]int, len(segment.Samples)),
	}
	for i, sample := range segment.Samples {
		switch {
		case sample > 1:
			sample = 1
		case sample < -1:
			sample = -1
		}
		buf.Data[i] = int(sample * 32767)
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to write wav samples: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav: %w", err)
	}
	return nil
}

// WriteWAVFile writes the segment to path as 16-bit PCM WAV.
func WriteWAVFile(path string, segment Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}
	defer f.Close()

	return WriteWAV(f, segment)
}
