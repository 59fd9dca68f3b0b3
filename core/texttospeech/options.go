package texttospeech

import "github.com/fridayvoice/friday-core/core/audio"

type TextToSpeechOptions struct {
	// SpeechStartedCallback is called when synthesis begins.
	SpeechStartedCallback func()
	// SpeechEndedCallback is called once the full response has been voiced.
	SpeechEndedCallback func()
	// ErrorCallback is called when the synthesis engine fails, usually
	// because it was cancelled.
	ErrorCallback func(error)

	EncodingInfo audio.EncodingInfo
}

type TextToSpeechOption func(*TextToSpeechOptions)

func WithSpeechStartedCallback(callback func()) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithSpeechEndedCallback(callback func()) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		o.SpeechEndedCallback = callback
	}
}

func WithErrorCallback(callback func(error)) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		o.ErrorCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		if encodingInfo.IsZero() {
			return
		}
		o.EncodingInfo = encodingInfo
	}
}
