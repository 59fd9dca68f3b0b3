// Package events defines the typed engine event contract published on the
// session event bus.
//
// Event kinds are grouped by pipeline stage:
//
//   - wake.*      — wake detection milestones.
//   - transcript.* — speech-to-text progress and results.
//   - intent.*    — intent recognition results.
//   - execution.* — executor lifecycle and side effects.
//   - tts.*       — speech synthesis lifecycle.
//   - plugin.*    — structured events relayed from plugin results.
//
// Semantics used across the package:
//
//   - Partial: point-in-time transcript snapshot that may still change.
//   - Final: terminal immutable text for the current utterance.
//   - Started/Finished: lifecycle boundaries around a stage's work; a
//     detached task (a running timer, for example) may emit its Finished
//     event well after the turn that spawned it has completed.
//
// Every event can be serialized as a single JSON object via [Encode], keyed
// by the variant name, for line-delimited consumption by an external UI
// process.
package events
