// Package orchestrator contains the asynchronous task-orchestration engine:
// submission of generation jobs, a registry of outstanding tasks keyed by
// backend-assigned id, a shared poll timer that runs exactly while tasks are
// outstanding, and kind-based dispatch of terminal results to the handlers
// that publish caller-facing events.
//
// A task lives in the registry from submission acknowledgment until exactly
// one terminal outcome (success or failure) is observed for it; afterwards it
// is never polled again and late responses for it are silently discarded.
// Failures are terminal and reported as events, never retried.
package orchestrator
