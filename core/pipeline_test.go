package orchestration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fridayvoice/friday-core/core/bus"
	"github.com/fridayvoice/friday-core/core/dialogue"
	"github.com/fridayvoice/friday-core/core/events"
	"github.com/fridayvoice/friday-core/core/intents"
)

// scriptedSpeech returns one queued transcript per turn.
type scriptedSpeech struct {
	transcripts []string
}

func (s *scriptedSpeech) StreamUntilSilence(context.Context, *bus.Producer) (string, error) {
	if len(s.transcripts) == 0 {
		return "", errors.New("no scripted transcript left")
	}
	transcript := s.transcripts[0]
	s.transcripts = s.transcripts[1:]
	return transcript, nil
}

type failingExecutor struct{}

func (failingExecutor) Execute(context.Context, intents.Intent, *bus.Producer) (string, error) {
	return "", errors.New("executor broke")
}

func collectKinds(t *testing.T, b *bus.Bus) []events.Kind {
	t.Helper()
	var kinds []events.Kind
	timeout := time.After(5 * time.Second)
	for {
		select {
		case event, open := <-b.Events():
			if !open {
				return kinds
			}
			kinds = append(kinds, event.Kind())
		case <-timeout:
			t.Fatal("timed out draining the bus")
		}
	}
}

func TestRunOnceTimerScenario(t *testing.T) {
	timerTrigger := make(chan time.Time)
	var requestedDuration time.Duration

	speech := &MockTextToSpeech{}
	pipeline := NewPipeline(
		WithSpeechToText(&MockSpeechToText{Transcript: "set a timer for 5 minutes"}),
		WithTextToSpeech(speech),
		WithExecutor(NewDefaultExecutor(WithTimerFunc(func(d time.Duration) <-chan time.Time {
			requestedDuration = d
			return timerTrigger
		}))),
	)

	b, producer := bus.New()
	if err := pipeline.RunOnce(context.Background(), producer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requestedDuration != 300*time.Second {
		t.Errorf("expected a 300s timer, got %v", requestedDuration)
	}
	if len(speech.Spoken) != 1 || speech.Spoken[0] != "Timer set for 300 seconds" {
		t.Errorf("unexpected spoken response %v", speech.Spoken)
	}

	// Fire the simulated timer; the detached goroutine finishes the run.
	timerTrigger <- time.Time{}
	producer.Close()

	kinds := collectKinds(t, b)
	want := []events.Kind{
		events.KindWakeDetected,
		events.KindFinalTranscript,
		events.KindIntentRecognized,
		events.KindExecutionStarted,
		events.KindTtsStarted,
		events.KindTtsFinished,
		events.KindNotification,
		events.KindExecutionFinished,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(kinds), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("expected event %d to be %q, got %q", i, want[i], kinds[i])
		}
	}
}

func TestRunOnceEmitsRecognizedIntent(t *testing.T) {
	pipeline := NewPipeline(
		WithSpeechToText(&MockSpeechToText{Transcript: "hey friday"}),
	)

	b, producer := bus.New()
	if err := pipeline.RunOnce(context.Background(), producer); err != nil {
		t.Fatal(err)
	}
	producer.Close()

	var recognized *events.IntentRecognized
	for event := range b.Events() {
		if typedEvent, ok := event.(events.IntentRecognized); ok {
			recognized = &typedEvent
		}
	}
	if recognized == nil {
		t.Fatal("expected an IntentRecognized event")
	}
	if _, ok := recognized.Intent.(intents.Greeting); !ok {
		t.Errorf("expected a greeting intent, got %T", recognized.Intent)
	}
}

func TestRunOncePartialTranscriptsPrecedeFinal(t *testing.T) {
	pipeline := NewPipeline(
		WithSpeechToText(&MockSpeechToText{
			Partials:   []string{"hello", "hello there"},
			Transcript: "hello there assistant",
		}),
	)

	b, producer := bus.New()
	if err := pipeline.RunOnce(context.Background(), producer); err != nil {
		t.Fatal(err)
	}
	producer.Close()

	kinds := collectKinds(t, b)
	if len(kinds) < 4 {
		t.Fatalf("expected at least 4 events, got %v", kinds)
	}
	if kinds[1] != events.KindPartialTranscript || kinds[2] != events.KindPartialTranscript {
		t.Errorf("expected partial transcripts after wake, got %v", kinds)
	}
	if kinds[3] != events.KindFinalTranscript {
		t.Errorf("expected the final transcript after the partials, got %v", kinds)
	}
}

func TestRunOnceSlotFillingAcrossTurns(t *testing.T) {
	// A pre-fired timer channel keeps the background completion from
	// holding the bus open.
	fired := make(chan time.Time)
	close(fired)

	speech := &MockTextToSpeech{}
	pipeline := NewPipeline(
		WithSpeechToText(&scriptedSpeech{transcripts: []string{"set a timer", "5 minutes"}}),
		WithTextToSpeech(speech),
		WithDialogueManager(dialogue.NewManager()),
		WithSessionID("session"),
		WithExecutor(NewDefaultExecutor(WithTimerFunc(func(time.Duration) <-chan time.Time {
			return fired
		}))),
	)

	b, producer := bus.New()

	// Turn 1: the prompt short-circuits to synthesis, with no intent or
	// execution events.
	if err := pipeline.RunOnce(context.Background(), producer); err != nil {
		t.Fatal(err)
	}
	if len(speech.Spoken) != 1 || speech.Spoken[0] != "How long should the timer be?" {
		t.Fatalf("expected the duration prompt, got %v", speech.Spoken)
	}

	// Turn 2: the follow-up completes the intent and executes it.
	if err := pipeline.RunOnce(context.Background(), producer); err != nil {
		t.Fatal(err)
	}
	if len(speech.Spoken) != 2 || speech.Spoken[1] != "Timer set for 300 seconds" {
		t.Fatalf("expected the timer confirmation, got %v", speech.Spoken)
	}

	producer.Close()
	kinds := collectKinds(t, b)

	turnOne := kinds[:4]
	wantTurnOne := []events.Kind{
		events.KindWakeDetected,
		events.KindFinalTranscript,
		events.KindTtsStarted,
		events.KindTtsFinished,
	}
	for i := range wantTurnOne {
		if turnOne[i] != wantTurnOne[i] {
			t.Errorf("expected turn-1 event %d to be %q, got %q", i, wantTurnOne[i], turnOne[i])
		}
	}

	turnTwo := kinds[4:]
	wantTurnTwoPrefix := []events.Kind{
		events.KindWakeDetected,
		events.KindFinalTranscript,
		events.KindIntentRecognized,
		events.KindExecutionStarted,
	}
	for i := range wantTurnTwoPrefix {
		if turnTwo[i] != wantTurnTwoPrefix[i] {
			t.Errorf("expected turn-2 event %d to be %q, got %q", i, wantTurnTwoPrefix[i], turnTwo[i])
		}
	}
}

func TestRunOnceStageFailuresAbortTheTurn(t *testing.T) {
	cases := []struct {
		name      string
		option    PipelineOption
		wantStage Stage
	}{
		{
			"wake failure",
			WithWakeDetector(&MockWakeDetector{Err: errors.New("no wake")}),
			StageWake,
		},
		{
			"transcription failure",
			WithSpeechToText(&MockSpeechToText{Err: errors.New("no audio")}),
			StageTranscription,
		},
		{
			"execution failure",
			WithExecutor(failingExecutor{}),
			StageExecution,
		},
		{
			"synthesis failure",
			WithTextToSpeech(&MockTextToSpeech{Err: errors.New("no voice")}),
			StageSynthesis,
		},
	}

	for _, c := range cases {
		pipeline := NewPipeline(c.option)
		_, producer := bus.New()

		err := pipeline.RunOnce(context.Background(), producer)
		producer.Close()

		var stageErr *StageError
		if !errors.As(err, &stageErr) {
			t.Errorf("%s: expected a stage error, got %v", c.name, err)
			continue
		}
		if stageErr.Stage != c.wantStage {
			t.Errorf("%s: expected stage %q, got %q", c.name, c.wantStage, stageErr.Stage)
		}
	}
}

func TestRunOnceUnknownWithoutDialogue(t *testing.T) {
	speech := &MockTextToSpeech{}
	pipeline := NewPipeline(
		WithSpeechToText(&MockSpeechToText{Transcript: "blue elephant sandwich"}),
		WithTextToSpeech(speech),
	)

	_, producer := bus.New()
	defer producer.Close()

	if err := pipeline.RunOnce(context.Background(), producer); err != nil {
		t.Fatal(err)
	}
	if len(speech.Spoken) != 1 || speech.Spoken[0] == "" {
		t.Fatalf("expected a canned response, got %v", speech.Spoken)
	}
}
