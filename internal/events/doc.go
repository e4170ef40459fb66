// Package events defines the typed events the generation core publishes and
// the handler/emitter interfaces used to fan them out.
//
// Every core outcome (storyboard ready, shot image ready, compilation
// progress, generation failed) is published as a tagged GenerationEvent.
// Subscribers register handlers on an Emitter without the core knowing who
// consumes its results, keeping UI and harness layers decoupled from the
// orchestration engine.
package events
