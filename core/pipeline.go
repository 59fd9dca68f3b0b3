// Package orchestration drives one assistant session at a time through the
// wake → transcribe → intent → execute → speak pipeline, publishing progress
// on the event bus at each milestone.
package orchestration

import (
	"context"

	"github.com/google/uuid"

	"github.com/fridayvoice/friday-core/core/bus"
	"github.com/fridayvoice/friday-core/core/dialogue"
	"github.com/fridayvoice/friday-core/core/events"
	"github.com/fridayvoice/friday-core/core/intents"
)

// Pipeline is the session orchestrator. Sessions run strictly one at a time;
// the only concurrency it spawns is the detached background work of its
// executor (a timer's delayed completion, for example).
type Pipeline struct {
	wake         WakeDetector
	speechToText SpeechToText
	textToSpeech TextToSpeech
	intentSource IntentSource
	executor     Executor

	dialogueManager *dialogue.Manager
	sessionID       string
}

// PipelineOption configures a pipeline at construction time.
type PipelineOption func(*Pipeline)

// WithWakeDetector replaces the wake detection engine.
func WithWakeDetector(wake WakeDetector) PipelineOption {
	return func(p *Pipeline) { p.wake = wake }
}

// WithSpeechToText replaces the transcription engine.
func WithSpeechToText(speechToText SpeechToText) PipelineOption {
	return func(p *Pipeline) { p.speechToText = speechToText }
}

// WithTextToSpeech replaces the synthesis engine.
func WithTextToSpeech(textToSpeech TextToSpeech) PipelineOption {
	return func(p *Pipeline) { p.textToSpeech = textToSpeech }
}

// WithIntentSource replaces the intent matcher.
func WithIntentSource(intentSource IntentSource) PipelineOption {
	return func(p *Pipeline) { p.intentSource = intentSource }
}

// WithExecutor replaces the execution stage.
func WithExecutor(executor Executor) PipelineOption {
	return func(p *Pipeline) { p.executor = executor }
}

// WithDialogueManager enables multi-turn slot filling. Utterances the intent
// matcher cannot classify are offered to the manager, and while a slot
// conversation is active it takes over intent resolution entirely.
func WithDialogueManager(manager *dialogue.Manager) PipelineOption {
	return func(p *Pipeline) { p.dialogueManager = manager }
}

// WithSessionID pins the dialogue session id instead of generating one.
func WithSessionID(sessionID string) PipelineOption {
	return func(p *Pipeline) { p.sessionID = sessionID }
}

// NewPipeline assembles a pipeline. Every engine defaults to its mock or
// built-in implementation so a bare NewPipeline() is runnable.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		wake:         &MockWakeDetector{},
		speechToText: &MockSpeechToText{},
		textToSpeech: &MockTextToSpeech{},
		intentSource: intents.NewMatcher(),
		executor:     NewDefaultExecutor(),
		sessionID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunOnce drives a single session turn to completion. Any stage failure
// aborts the turn immediately and is returned; it is never retried here and
// never panics, so a caller loop can simply start the next session.
func (p *Pipeline) RunOnce(ctx context.Context, sink *bus.Producer) error {
	ctx, span := tracer.Start(ctx, "run session")
	defer span.End()

	if err := p.wake.WaitForWake(ctx); err != nil {
		return &StageError{Stage: StageWake, Err: err}
	}
	sink.Emit(events.NewWakeDetected())

	text, err := p.speechToText.StreamUntilSilence(ctx, sink)
	if err != nil {
		return &StageError{Stage: StageTranscription, Err: err}
	}
	sink.Emit(events.NewFinalTranscript(text))

	response, err := p.respond(ctx, text, sink)
	if err != nil {
		return &StageError{Stage: StageExecution, Err: err}
	}

	if err := p.textToSpeech.Speak(ctx, response, sink); err != nil {
		return &StageError{Stage: StageSynthesis, Err: err}
	}
	return nil
}

// Run drives sessions back to back until the context is cancelled. A failed
// or panicking session is logged and the next one starts; only cancellation
// ends the loop.
func (p *Pipeline) Run(ctx context.Context, sink *bus.Producer) error {
	runSession := panicSafeNamedWorker("session", func(ctx context.Context) error {
		return p.RunOnce(ctx, sink)
	})

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := runSession(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.WarnContext(ctx, "Session aborted", "error", err)
		}
	}
}

// respond resolves the transcript to an intent and executes it. A dialogue
// prompt short-circuits straight to synthesis: no intent exists yet, so
// neither IntentRecognized nor the executor fire for that turn.
func (p *Pipeline) respond(ctx context.Context, text string, sink *bus.Producer) (string, error) {
	if p.dialogueManager != nil && p.dialogueManager.HasActiveIntent(p.sessionID) {
		result, err := p.dialogueManager.ProcessInput(ctx, p.sessionID, text)
		if err != nil {
			return "", err
		}
		if result.NeedsMoreInput {
			return result.Response, nil
		}
		return p.execute(ctx, result.Intent, sink)
	}

	intent := p.intentSource.ParseIntent(text)
	if _, unknown := intent.(intents.Unknown); unknown && p.dialogueManager != nil {
		result, err := p.dialogueManager.ProcessInput(ctx, p.sessionID, text)
		if err != nil {
			return "", err
		}
		if result.NeedsMoreInput {
			return result.Response, nil
		}
		if _, stillUnknown := result.Intent.(intents.Unknown); !stillUnknown {
			intent = result.Intent
		}
	}

	return p.execute(ctx, intent, sink)
}

func (p *Pipeline) execute(ctx context.Context, intent intents.Intent, sink *bus.Producer) (string, error) {
	sink.Emit(events.NewIntentRecognized(intent))

	response, err := p.executor.Execute(ctx, intent, sink)
	if err != nil {
		return "", err
	}
	logger.DebugContext(ctx, "Turn executed", "intent", intent.IntentKind())
	return response, nil
}
